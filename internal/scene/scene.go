package scene

import (
	"context"
	"image"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"tileviz/internal/controls"
	"tileviz/internal/geometry"
	"tileviz/internal/room"
	"tileviz/internal/state"
	"tileviz/internal/texture"
	"tileviz/internal/view"
)

const (
	cameraFovy     = 70
	lightBelowCeil = 0.1
)

// Scene renders the room from the inside and turns pointer input into camera, hover and
// selection changes. New does no GPU work; call Init once the window exists and Dispose
// before it closes. All methods run on the window thread.
type Scene struct {
	Camera rl.Camera3D

	stores *state.Stores
	model  *view.Model
	loader *texture.Loader
	log    *zap.Logger
	opts   Options

	look  *controls.Look
	drag  controls.DragTracker
	phase float32

	// Store events are queued by the bus subscriber and applied in Update.
	mu          sync.Mutex
	queued      []state.Event
	unsubscribe func()

	ctx      context.Context
	cancel   context.CancelFunc
	results  chan loadResult
	images   map[string]image.Image
	inflight map[string]bool

	ready    bool
	shader   surfaceShader
	plane    rl.Mesh
	mtl      rl.Material
	surfaces map[room.SurfaceID]*surfaceGPU
}

// New returns a scene showing the current store state.
func New(stores *state.Stores, loader *texture.Loader, log *zap.Logger, opts Options) *Scene {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scene{
		stores:   stores,
		model:    view.NewModel(stores),
		loader:   loader,
		log:      log,
		opts:     opts,
		look:     controls.NewLook(opts.Sensitivity, opts.PitchLimit),
		drag:     controls.DragTracker{Threshold: opts.DragThreshold},
		ctx:      ctx,
		cancel:   cancel,
		results:  make(chan loadResult, 8),
		images:   make(map[string]image.Image),
		inflight: make(map[string]bool),
		surfaces: make(map[room.SurfaceID]*surfaceGPU),
	}
	s.look.Set(s.model.Camera())
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = cameraFovy
	s.Camera.Projection = rl.CameraPerspective
	s.updateCamera()
	s.unsubscribe = stores.Bus.Subscribe(s.enqueue)
	return s
}

func (s *Scene) enqueue(ev state.Event) {
	s.mu.Lock()
	s.queued = append(s.queued, ev)
	s.mu.Unlock()
}

// Init allocates meshes, the surface shader and every surface texture.
func (s *Scene) Init() {
	if s.ready {
		return
	}
	s.shader = loadSurfaceShader()
	if !s.shader.valid() {
		s.log.Warn("scene: surface shader failed to compile, using default shader")
	}
	s.plane = rl.GenMeshPlane(1, 1, 1, 1)
	s.mtl = rl.LoadMaterialDefault()
	if albedo := s.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.White
	}
	if s.shader.valid() {
		s.mtl.Shader = s.shader.shader
	}
	s.ready = true
	s.rebuildGeometry()
	for _, id := range room.Walls {
		s.refreshWall(id)
	}
	s.refreshFixed()
}

// Dispose releases GPU resources and stops pending image loads.
func (s *Scene) Dispose() {
	s.cancel()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if !s.ready {
		return
	}
	for _, sg := range s.surfaces {
		sg.unload()
	}
	rl.UnloadMesh(&s.plane)
	if s.shader.valid() {
		rl.UnloadShader(s.shader.shader)
	}
	s.ready = false
}

// Model exposes the render model for overlays.
func (s *Scene) Model() *view.Model {
	return s.model
}

// Phase returns the current indicator phase in meters.
func (s *Scene) Phase() float32 {
	return s.phase
}

// Apply folds one store event into the scene. Update applies queued bus events itself;
// call Apply directly only for events that did not go through the bus.
func (s *Scene) Apply(ev state.Event) {
	c := s.model.Apply(ev)
	if c.Empty() {
		return
	}
	if c.Camera {
		yaw, pitch := s.model.Camera()
		if yaw != s.look.Yaw || pitch != s.look.Pitch {
			s.look.Set(yaw, pitch)
		}
	}
	if !s.ready {
		return
	}
	if c.Geometry {
		s.rebuildGeometry()
	}
	for _, id := range c.Textures {
		s.refreshWall(id)
	}
	if len(c.Textures) > 0 {
		s.forget()
	}
}

// Update applies store events and finished image loads, handles pointer input and
// advances the indicator animation.
func (s *Scene) Update(dt float32, in Input) {
	s.mu.Lock()
	events := s.queued
	s.queued = nil
	s.mu.Unlock()
	for _, ev := range events {
		s.Apply(ev)
	}
	s.drainResults()
	s.handlePointer(in)
	s.phase = s.model.PerimeterPhase(s.phase, s.opts.Indicator.Speed, dt)
	s.updateCamera()
}

func (s *Scene) handlePointer(in Input) {
	if in.Pressed && !in.Blocked {
		s.drag.Press(in.Mouse.X, in.Mouse.Y)
	}
	if s.drag.Down() {
		if dx, dy := s.drag.Move(in.Mouse.X, in.Mouse.Y); dx != 0 || dy != 0 {
			s.look.Drag(dx, dy)
			s.stores.Scene.SetCamera(s.look.Yaw, s.look.Pitch)
		}
		if in.Released || !in.Down {
			if s.drag.Release() {
				s.click(in.Mouse)
			}
		}
	}
	if in.Blocked || s.drag.Dragging() {
		s.stores.Scene.ClearHover()
		return
	}
	if id, ok := s.pick(in.Mouse); ok {
		_ = s.stores.Scene.Hover(id)
		return
	}
	s.stores.Scene.ClearHover()
}

// click selects the wall under the pointer; a click on anything else clears the selection.
func (s *Scene) click(at rl.Vector2) {
	id, ok := s.pick(at)
	if !ok {
		s.stores.Scene.ClearSelection()
		return
	}
	if err := s.stores.Scene.Select(id); err != nil {
		s.log.Warn("scene: select failed", zap.Error(err))
	}
}

func (s *Scene) pick(at rl.Vector2) (room.WallID, bool) {
	r := rl.GetScreenToWorldRay(at, s.Camera)
	ray := geometry.Ray{
		Origin:    geometry.V3(r.Position.X, r.Position.Y, r.Position.Z),
		Direction: geometry.V3(r.Direction.X, r.Direction.Y, r.Direction.Z),
	}
	return geometry.PickWall(ray, s.model.Surfaces())
}

func (s *Scene) updateCamera() {
	eye := controls.EyeFor(s.model.Dimensions())
	target := s.look.Target(eye)
	s.Camera.Position = vec(eye)
	s.Camera.Target = vec(target)
}

// Draw renders the room. Call between BeginDrawing and EndDrawing, before 2D overlays.
func (s *Scene) Draw() {
	if !s.ready {
		return
	}
	rl.BeginMode3D(s.Camera)
	h := float32(s.model.Dimensions().Height)
	s.shader.setFrame(s.Camera.Position, rl.NewVector3(0, h-lightBelowCeil, 0))
	for _, surf := range s.model.Surfaces() {
		sg, ok := s.surfaces[surf.ID]
		if !ok {
			continue
		}
		emissive := view.Emissive(s.model.Highlight(surf.ID), s.opts.Palette)
		s.shader.setSurface(sg.uv, emissive)
		if rl.IsTextureValid(sg.tex) {
			rl.SetMaterialTexture(&s.mtl, rl.MapAlbedo, sg.tex)
		}
		rl.DrawMesh(s.plane, s.mtl, sg.transform)
	}
	s.drawIndicator()
	rl.EndMode3D()
}

func vec(v geometry.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}
