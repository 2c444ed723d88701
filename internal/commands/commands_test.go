package commands

import (
	"bytes"
	"encoding/base64"
	"flag"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tileviz/internal/config"
	"tileviz/internal/room"
	"tileviz/internal/state"
	"tileviz/internal/storage"
	"tileviz/internal/texture"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line   string
		args   []string
		wantOK bool
	}{
		{"cmd room --width 3", []string{"room", "--width", "3"}, true},
		{"cmd   ", nil, true},
		{"room --width 3", nil, false},
		{"CMD room", nil, false},
		{`cmd tile --grout "rgb(1, 2, 3)"`, []string{"tile", "--grout", "rgb(1, 2, 3)"}, true},
		{`cmd tile --image 'C:\tiles\a b.png'`, []string{"tile", "--image", `C:\tiles\a b.png`}, true},
		{`cmd tile --image ""`, []string{"tile", "--image", ""}, true},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		assert.Equal(t, tt.wantOK, ok, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}
}

func TestRegistryFreshFlagsPerRun(t *testing.T) {
	r := NewRegistry()
	var seen []int
	r.Register("count", "test", func(fs *flag.FlagSet) RunFunc {
		n := fs.Int("n", 1, "number")
		return func(io.Writer) error {
			seen = append(seen, *n)
			return nil
		}
	})
	require.NoError(t, r.Execute([]string{"count", "--n", "5"}, io.Discard))
	require.NoError(t, r.Execute([]string{"count"}, io.Discard))
	assert.Equal(t, []int{5, 1}, seen)
}

func TestRegistryErrorsAndHelp(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", "does nothing", func(fs *flag.FlagSet) RunFunc {
		fs.Bool("quiet", false, "say less")
		return func(io.Writer) error { return nil }
	})

	assert.ErrorIs(t, r.Execute(nil, io.Discard), ErrUsage)
	assert.ErrorIs(t, r.Execute([]string{"nope"}, io.Discard), ErrUsage)
	assert.ErrorIs(t, r.Execute([]string{"noop", "--loud"}, io.Discard), ErrUsage)

	var out bytes.Buffer
	require.NoError(t, r.Execute([]string{"help"}, &out))
	assert.Equal(t, "cmd help - list commands\ncmd noop - does nothing\n", out.String())

	out.Reset()
	require.NoError(t, r.Execute([]string{"noop", "--help"}, &out))
	assert.Contains(t, out.String(), "--quiet  say less")
}

type fakeIndicator struct {
	mode             string
	dash, gap, speed float32
}

func (f *fakeIndicator) IndicatorStyle() (string, float32, float32, float32) {
	return f.mode, f.dash, f.gap, f.speed
}
func (f *fakeIndicator) SetIndicatorMode(m string) { f.mode = m }
func (f *fakeIndicator) SetIndicatorDash(d, g, s float32) {
	f.dash, f.gap, f.speed = d, g, s
}

type fixture struct {
	reg    *Registry
	stores *state.Stores
	ind    *fakeIndicator
	dir    string
	out    bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv, err := storage.NewMemStore("")
	require.NoError(t, err)
	f := &fixture{
		reg:    NewRegistry(),
		stores: state.New(kv, zap.NewNop(), time.Hour),
		ind:    &fakeIndicator{mode: "boxes", dash: 0.2, gap: 0.1, speed: 0.25},
		dir:    t.TempDir(),
	}
	RegisterTileviz(f.reg, Deps{
		Stores:    f.stores,
		Indicator: f.ind,
		Loader:    texture.NewLoader(nil),
		Texture:   texture.DefaultOptions(),
		Plan:      texture.DefaultPlanOptions(),
		Phase:     func() float32 { return 0.5 },
		ExportDir: f.dir,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) },
	})
	return f
}

func (f *fixture) run(line string) error {
	f.out.Reset()
	args, ok := Parse(line)
	if !ok {
		panic("not a command: " + line)
	}
	return f.reg.Execute(args, &f.out)
}

func TestRoomCommand(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("cmd room --width 3.5"))
	assert.Equal(t, "room 3.50 m x 2.50 m x 5.00 m (width x height x length)\n", f.out.String())

	require.NoError(t, f.run("cmd room --length 4200 --mm"))
	assert.Equal(t, room.Dimensions{Width: 3.5, Height: 2.5, Length: 4.2}, f.stores.Room.Dimensions())

	assert.ErrorIs(t, f.run("cmd room --height 0"), room.ErrInvalidDimension)
	assert.Equal(t, 2.5, f.stores.Room.Dimensions().Height)
}

func TestTileCommand(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.run("cmd tile --spacing 4"), ErrUsage, "no selection")
	assert.ErrorIs(t, f.run("cmd tile --wall ceiling --spacing 4"), room.ErrUnknownWall)

	require.NoError(t, f.run("cmd tile --wall left --width 600 --height 300 --grout '#222'"))
	assert.Equal(t, "left: 600 mm x 300 mm, spacing 3 mm, grout #222, image none\n", f.out.String())

	require.NoError(t, f.stores.Scene.Select(room.Back))
	require.NoError(t, f.run("cmd tile --image https://tiles.example/a.png --spacing 2.5"))
	cfg, err := f.stores.Walls.Config(room.Back)
	require.NoError(t, err)
	assert.Equal(t, "https://tiles.example/a.png", cfg.ImageURL)
	assert.Equal(t, 2.5, cfg.Spacing)

	require.NoError(t, f.run("cmd tile --clear-image"))
	cfg, err = f.stores.Walls.Config(room.Back)
	require.NoError(t, err)
	assert.Empty(t, cfg.ImageURL)

	assert.ErrorIs(t, f.run("cmd tile --grout plaid"), room.ErrInvalidTile)
	assert.ErrorIs(t, f.run("cmd tile --width -1"), room.ErrInvalidTile)
}

func TestSelectCommand(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("cmd select RIGHT"))
	assert.Equal(t, room.Right, f.stores.Scene.Selected())
	require.NoError(t, f.run("cmd select none"))
	assert.Equal(t, room.None, f.stores.Scene.Selected())
	assert.ErrorIs(t, f.run("cmd select"), ErrUsage)
	assert.ErrorIs(t, f.run("cmd select floor"), room.ErrUnknownWall)
}

func TestIndicatorCommand(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("cmd indicator --mode lines --gap 0.05"))
	assert.Equal(t, &fakeIndicator{mode: "lines", dash: 0.2, gap: 0.05, speed: 0.25}, f.ind)
	assert.Equal(t, "indicator lines, dash 0.20 m, gap 0.05 m, speed 0.25 m/s\n", f.out.String())

	assert.ErrorIs(t, f.run("cmd indicator --mode dots"), ErrUsage)
	assert.ErrorIs(t, f.run("cmd indicator --dash 0"), ErrUsage)
	assert.Equal(t, float32(0.2), f.ind.dash)

	for _, line := range []string{
		"cmd indicator --speed NaN",
		"cmd indicator --speed +Inf",
		"cmd indicator --dash 0.00001 --gap 0.00001",
		"cmd indicator --gap 0.0001",
	} {
		err := f.run(line)
		assert.ErrorIs(t, err, ErrUsage, line)
		assert.ErrorIs(t, err, config.ErrInvalidIndicator, line)
	}
	assert.Equal(t, &fakeIndicator{mode: "lines", dash: 0.2, gap: 0.05, speed: 0.25}, f.ind)
}

func TestExportPlan(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.stores.Scene.Select(room.Front))
	require.NoError(t, f.run("cmd export"))
	want := filepath.Join(f.dir, "plan-20260301-123000.png")
	assert.Equal(t, "wrote "+want+"\n", f.out.String())

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())
}

func TestExportPattern(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	require.NoError(t, png.Encode(&buf, src))
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	require.NoError(t, f.stores.Walls.SetImageURL(room.Left, dataURL))

	out := filepath.Join(f.dir, "nested", "left.png")
	require.NoError(t, f.run("cmd export --pattern left --out "+out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	// 300 mm tile + 3 mm grout at 0.5 px/mm: 150 + 2.
	assert.Equal(t, image.Rect(0, 0, 152, 152), img.Bounds())

	require.NoError(t, f.stores.Walls.SetImageURL(room.Right, "data:image/png;base64,bm9wZQ=="))
	assert.Error(t, f.run("cmd export --pattern right --out "+filepath.Join(f.dir, "right.png")))
}

func TestResetCommand(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("cmd room --width 9"))
	require.NoError(t, f.run("cmd select back"))
	require.NoError(t, f.run("cmd tile --spacing 10"))
	require.NoError(t, f.run("cmd reset"))
	assert.Equal(t, room.DefaultDimensions(), f.stores.Room.Dimensions())
	assert.Equal(t, room.None, f.stores.Scene.Selected())
	cfg, err := f.stores.Walls.Config(room.Back)
	require.NoError(t, err)
	assert.Equal(t, room.DefaultTileConfig(), cfg)
}
