package terminal

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"tileviz/internal/commands"
	"tileviz/internal/logger"
	"tileviz/internal/textinput"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// Number of log lines drawn above the input bar when the terminal is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxHistory       = 50
)

var (
	// Reused every frame when drawing the terminal bar to avoid per-frame color allocations.
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the console bar at the bottom of the screen, shown and hidden with ESC.
// Lines starting with "cmd " are parsed as subcommand + flags and executed via the command
// registry; command output and errors go to the log, which the terminal shows above the bar.
// Any other line is only logged.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	font     rl.Font // optional; when set, Draw uses DrawTextEx instead of default font

	history []string
	// histPos indexes history while browsing with Up/Down; len(history) means the live line.
	histPos int
	draft   string
}

// New returns a closed Terminal that logs lines and runs "cmd ..." through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen returns true when the terminal is visible and capturing keyboard input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetFont sets the font used to draw the terminal bar. Zero texture ID = use raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Bounds is the screen area the open terminal covers, for blocking scene picking under it.
func (t *Terminal) Bounds() rl.Rectangle {
	if !t.open {
		return rl.Rectangle{}
	}
	screenW := float32(rl.GetScreenWidth())
	barY := float32(rl.GetScreenHeight() - BarHeight)
	top := max(barY-maxLinesOnScreen*lineHeight, 0)
	return rl.NewRectangle(0, top, screenW, barY+BarHeight-top)
}

// Contains reports whether pt is over the open terminal.
func (t *Terminal) Contains(pt rl.Vector2) bool {
	return t.open && rl.CheckCollisionPointRec(pt, t.Bounds())
}

// Update handles ESC (toggle open/closed), and when open: typing, paste, history, backspace, enter.
// Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.inputBuf += strings.ReplaceAll(pasted, "\n", " ")
		}
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			t.inputBuf += string(rune(c))
		}
	}
	if (rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace)) && len(t.inputBuf) > 0 {
		t.inputBuf = textinput.Backspace(t.inputBuf)
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		t.browse(-1)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		t.browse(1)
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && strings.TrimSpace(t.inputBuf) != "" {
		t.submit(t.inputBuf)
		t.inputBuf = ""
	}
}

func (t *Terminal) submit(line string) {
	t.remember(line)
	t.log.Log(prompt + line)
	args, isCmd := commands.Parse(line)
	if !isCmd {
		return
	}
	if err := t.reg.Execute(args, logWriter{t.log}); err != nil {
		t.log.Log(err.Error())
	}
}

func (t *Terminal) remember(line string) {
	if n := len(t.history); n == 0 || t.history[n-1] != line {
		t.history = append(t.history, line)
		if len(t.history) > maxHistory {
			t.history = t.history[len(t.history)-maxHistory:]
		}
	}
	t.histPos = len(t.history)
	t.draft = ""
}

// browse moves through submitted lines; stepping past the newest restores the unsent draft.
func (t *Terminal) browse(step int) {
	next := t.histPos + step
	if next < 0 || next > len(t.history) {
		return
	}
	if t.histPos == len(t.history) {
		t.draft = t.inputBuf
	}
	t.histPos = next
	if next == len(t.history) {
		t.inputBuf = t.draft
		return
	}
	t.inputBuf = t.history[next]
}

// logWriter sends each written line to the terminal log.
type logWriter struct {
	log *logger.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.log.Log(line)
	}
	return len(p), nil
}

// Draw draws the terminal bar at the bottom when open, and the recent log lines above it.
// Uses GetScreenWidth/GetScreenHeight so the bar matches the 2D overlay coordinate system.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	barY := screenH - BarHeight

	// History area above the bar: last maxLinesOnScreen lines
	chatHeight := maxLinesOnScreen * lineHeight
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	lines := t.log.Lines()
	start := 0
	if len(lines) > maxLinesOnScreen {
		start = len(lines) - maxLinesOnScreen
	}
	for i := start; i < len(lines); i++ {
		y := chatY + (i-start)*lineHeight + padding
		line := lines[i]
		if len(line) > 200 {
			line = strings.ToValidUTF8(line[:197], "") + "..."
		}
		t.text(line, padding, y, rl.LightGray)
	}

	// Input bar
	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	t.text(prompt+t.inputBuf+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), float32(fontSize), 1, c)
		return
	}
	rl.DrawText(s, int32(x), int32(y), int32(fontSize), c)
}
