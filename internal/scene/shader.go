package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// surfaceVS passes world position, texcoord and normal to the fragment stage.
const surfaceVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`

// surfaceFS samples the repeating albedo pattern, lights it with a point light near the
// ceiling and adds the highlight tint.
const surfaceFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightPos;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform vec2 uvScale;
uniform vec3 emissive;
uniform sampler2D albedoMap;
out vec4 finalColor;
void main() {
  vec4 texColor = texture(albedoMap, fragTexCoord * uvScale);
  vec4 tint = texColor * colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightPos - fragPosition);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular + emissive, tint.a);
}
`

// Light defaults. Ambient is high because the room has no other light sources.
var (
	defaultAmbient    = [4]float32{0.45, 0.45, 0.47, 1.0}
	defaultLightColor = [3]float32{1.0, 0.98, 0.95}
)

const (
	defaultLightIntensity   = float32(0.65)
	defaultSpecularPower    = float32(32.0)
	defaultSpecularStrength = float32(0.08)
)

// surfaceShader caches the uniform locations of surfaceFS.
type surfaceShader struct {
	shader       rl.Shader
	viewPos      int32
	lightPos     int32
	ambient      int32
	lightColor   int32
	intensity    int32
	specPower    int32
	specStrength int32
	uvScale      int32
	emissive     int32
}

func loadSurfaceShader() surfaceShader {
	sh := rl.LoadShaderFromMemory(surfaceVS, surfaceFS)
	return surfaceShader{
		shader:       sh,
		viewPos:      rl.GetShaderLocation(sh, "viewPos"),
		lightPos:     rl.GetShaderLocation(sh, "lightPos"),
		ambient:      rl.GetShaderLocation(sh, "ambient"),
		lightColor:   rl.GetShaderLocation(sh, "lightColor"),
		intensity:    rl.GetShaderLocation(sh, "lightIntensity"),
		specPower:    rl.GetShaderLocation(sh, "specularPower"),
		specStrength: rl.GetShaderLocation(sh, "specularStrength"),
		uvScale:      rl.GetShaderLocation(sh, "uvScale"),
		emissive:     rl.GetShaderLocation(sh, "emissive"),
	}
}

func (s surfaceShader) valid() bool {
	return rl.IsShaderValid(s.shader)
}

// setFrame sets the per-frame uniforms (cgo-safe: local arrays).
func (s surfaceShader) setFrame(viewPos, lightPos rl.Vector3) {
	if !s.valid() {
		return
	}
	vp := [3]float32{viewPos.X, viewPos.Y, viewPos.Z}
	lp := [3]float32{lightPos.X, lightPos.Y, lightPos.Z}
	amb := defaultAmbient
	lc := defaultLightColor
	if s.viewPos >= 0 {
		rl.SetShaderValueV(s.shader, s.viewPos, vp[:], rl.ShaderUniformVec3, 1)
	}
	if s.lightPos >= 0 {
		rl.SetShaderValueV(s.shader, s.lightPos, lp[:], rl.ShaderUniformVec3, 1)
	}
	if s.ambient >= 0 {
		rl.SetShaderValueV(s.shader, s.ambient, amb[:], rl.ShaderUniformVec4, 1)
	}
	if s.lightColor >= 0 {
		rl.SetShaderValueV(s.shader, s.lightColor, lc[:], rl.ShaderUniformVec3, 1)
	}
	if s.intensity >= 0 {
		rl.SetShaderValue(s.shader, s.intensity, []float32{defaultLightIntensity}, rl.ShaderUniformFloat)
	}
	if s.specPower >= 0 {
		rl.SetShaderValue(s.shader, s.specPower, []float32{defaultSpecularPower}, rl.ShaderUniformFloat)
	}
	if s.specStrength >= 0 {
		rl.SetShaderValue(s.shader, s.specStrength, []float32{defaultSpecularStrength}, rl.ShaderUniformFloat)
	}
}

// setSurface sets the per-draw uniforms.
func (s surfaceShader) setSurface(uv [2]float32, emissive rl.Color) {
	if !s.valid() {
		return
	}
	if s.uvScale >= 0 {
		v := [2]float32{uv[0], uv[1]}
		rl.SetShaderValue(s.shader, s.uvScale, v[:], rl.ShaderUniformVec2)
	}
	if s.emissive >= 0 {
		e := [3]float32{float32(emissive.R) / 255, float32(emissive.G) / 255, float32(emissive.B) / 255}
		rl.SetShaderValueV(s.shader, s.emissive, e[:], rl.ShaderUniformVec3, 1)
	}
}
