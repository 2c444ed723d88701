package scene

import (
	"bytes"
	"errors"
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"tileviz/internal/geometry"
	"tileviz/internal/room"
	"tileviz/internal/texture"
)

var errUpload = errors.New("scene: texture upload failed")

// floorTile is the fixed floor pattern; the floor is not editable.
var floorTile = room.TileConfig{TileWidth: 600, TileHeight: 600, Spacing: 2, GroutColor: "#6b5d4c"}

var (
	floorA  = color.RGBA{0xb9, 0xa5, 0x8a, 0xff}
	floorB  = color.RGBA{0xa4, 0x90, 0x74, 0xff}
	ceiling = color.RGBA{0xf4, 0xf4, 0xf0, 0xff}
)

// surfaceGPU is the drawable state of one surface.
type surfaceGPU struct {
	transform    rl.Matrix
	tex          rl.Texture2D
	unitW, unitH float64
	uv           [2]float32
}

func (sg *surfaceGPU) unload() {
	if rl.IsTextureValid(sg.tex) {
		rl.UnloadTexture(sg.tex)
	}
	sg.tex = rl.Texture2D{}
}

// surfaceMatrix maps the unit XZ plane from GenMeshPlane onto s: local X along Right
// scaled to Width, local Y along Normal, local Z along Tangent scaled to Height.
func surfaceMatrix(s geometry.Surface) rl.Matrix {
	r := s.Right.Scale(s.Width)
	n := s.Normal
	t := s.Tangent().Scale(s.Height)
	return rl.Matrix{
		M0: r.X, M1: r.Y, M2: r.Z,
		M4: n.X, M5: n.Y, M6: n.Z,
		M8: t.X, M9: t.Y, M10: t.Z,
		M12: s.Center.X, M13: s.Center.Y, M14: s.Center.Z,
		M15: 1,
	}
}

func (s *Scene) surface(id room.SurfaceID) *surfaceGPU {
	sg, ok := s.surfaces[id]
	if !ok {
		sg = &surfaceGPU{uv: [2]float32{1, 1}}
		s.surfaces[id] = sg
	}
	return sg
}

// rebuildGeometry recomputes transforms and texture repeats after a resize.
func (s *Scene) rebuildGeometry() {
	for _, surf := range s.model.Surfaces() {
		sg := s.surface(surf.ID)
		sg.transform = surfaceMatrix(surf)
		u, v := s.model.Repeat(surf.ID, sg.unitW, sg.unitH)
		sg.uv = [2]float32{u, v}
	}
}

// refreshWall regenerates one wall's pattern. A wall with an image URL that is not loaded
// yet shows the placeholder until the image arrives.
func (s *Scene) refreshWall(id room.WallID) {
	cfg := s.model.Tile(id)
	var img image.Image
	if cfg.ImageURL != "" {
		if cached, ok := s.images[cfg.ImageURL]; ok {
			img = cached
		} else {
			s.fetch(cfg.ImageURL)
		}
	}
	p, err := texture.ForWall(cfg, img, s.opts.Texture)
	if err != nil {
		s.log.Warn("scene: building wall texture failed", zap.String("wall", string(id)), zap.Error(err))
		return
	}
	s.setPattern(id, p)
}

// refreshFixed builds the floor and ceiling textures.
func (s *Scene) refreshFixed() {
	floorOpts := s.opts.Texture
	floorOpts.CheckerA, floorOpts.CheckerB = floorA, floorB
	if p, err := texture.Checkerboard(floorTile, floorOpts); err == nil {
		s.setPattern(room.Floor, p)
	} else {
		s.log.Warn("scene: building floor texture failed", zap.Error(err))
	}
	plain := image.NewRGBA(image.Rect(0, 0, 1, 1))
	plain.SetRGBA(0, 0, ceiling)
	s.setPattern(room.Ceiling, texture.Pattern{Image: plain})
}

func (s *Scene) setPattern(id room.SurfaceID, p texture.Pattern) {
	tex, err := upload(p.Image)
	if err != nil {
		s.log.Warn("scene: uploading texture failed", zap.String("surface", string(id)), zap.Error(err))
		return
	}
	sg := s.surface(id)
	sg.unload()
	sg.tex = tex
	sg.unitW, sg.unitH = p.UnitWidth, p.UnitHeight
	u, v := s.model.Repeat(id, sg.unitW, sg.unitH)
	sg.uv = [2]float32{u, v}
}

// upload goes through PNG so raylib owns the pixel buffer it frees.
func upload(img *image.RGBA) (rl.Texture2D, error) {
	var buf bytes.Buffer
	if err := texture.WritePNG(&buf, img); err != nil {
		return rl.Texture2D{}, err
	}
	rimg := rl.LoadImageFromMemory(".png", buf.Bytes(), int32(buf.Len()))
	if rimg == nil || rimg.Width <= 0 || rimg.Height <= 0 {
		return rl.Texture2D{}, errUpload
	}
	defer rl.UnloadImage(rimg)
	tex := rl.LoadTextureFromImage(rimg)
	if !rl.IsTextureValid(tex) {
		return rl.Texture2D{}, errUpload
	}
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	rl.SetTextureWrap(tex, rl.WrapRepeat)
	return tex, nil
}
