package main

import (
	"flag"
	"fmt"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"tileviz/internal/commands"
	"tileviz/internal/config"
	"tileviz/internal/download"
	"tileviz/internal/env"
	"tileviz/internal/fonts"
	"tileviz/internal/graphics"
	"tileviz/internal/hud"
	"tileviz/internal/logger"
	"tileviz/internal/panel"
	"tileviz/internal/scene"
	"tileviz/internal/state"
	"tileviz/internal/storage"
	"tileviz/internal/terminal"
	"tileviz/internal/texture"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "tileviz:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	dotenv, envErr := env.Read(".env")
	cfg, cfgErr := config.Load(configPath)
	cfg.ApplyEnv(env.Getenv(dotenv, os.Getenv))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		JSON:   cfg.Log.JSON,
		Buffer: cfg.Log.Buffer,
	})
	if err != nil {
		return err
	}
	defer log.Close()
	if cfgErr != nil {
		log.Warn("config unreadable, using defaults", zap.String("path", configPath), zap.Error(cfgErr))
	}
	if envErr != nil {
		log.Warn("ignoring .env", zap.Error(envErr))
	}

	kv, err := storage.NewDirStore(cfg.Storage.Dir, cfg.Storage.Prefix)
	if err != nil {
		return err
	}
	stores := state.New(kv, log.Logger, cfg.Storage.PersistInterval)
	defer stores.Scene.Flush()

	loader := texture.NewLoader(download.New(cfg.Downloads.Dir, cfg.Downloads.Timeout))
	opts := scene.OptionsFromConfig(cfg, log.Logger)
	scn := scene.New(stores, loader, log.Logger, opts)
	form := panel.New(stores, log.Logger)
	overlay := hud.New(scn.Model(), func() string {
		mode, _, _, _ := scn.IndicatorStyle()
		return mode
	}, cfg.Window.ShowHUD)

	reg := commands.NewRegistry()
	commands.RegisterTileviz(reg, commands.Deps{
		Stores:    stores,
		Indicator: scn,
		Loader:    loader,
		Texture:   opts.Texture,
		Plan:      planOptions(opts),
		Phase:     scn.Phase,
		ExportDir: "exports",
	})
	term := terminal.New(log, reg)
	log.Info("tileviz started", zap.String("storage", cfg.Storage.Dir), zap.String("config", configPath))
	var uiFont rl.Font
	log.Log("press ESC for the console, F1 for the HUD; type \"cmd help\" for commands")

	graphics.Run(graphics.Window{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		TargetFPS: cfg.Window.TargetFPS,
	}, graphics.Hooks{
		Init: func() {
			panel.InitStyle()
			if font, ok := loadFont(cfg.Window.Font, log.Logger); ok {
				uiFont = font
				gui.SetFont(font)
				term.SetFont(font)
				overlay.SetFont(font)
			}
			scn.Init()
		},
		Dispose: func() {
			scn.Dispose()
			if uiFont.Texture.ID != 0 {
				rl.UnloadFont(uiFont)
			}
		},
		Update: func(dt float32) {
			form.Update()
			if !form.Editing() {
				term.Update()
			}
			overlay.Update()
			mouse := rl.GetMousePosition()
			scn.Update(dt, scene.ReadInput(form.Contains(mouse) || term.Contains(mouse)))
		},
		Draw: func() {
			scn.Draw()
			overlay.Draw()
			form.Draw()
			term.Draw()
		},
	})
	return nil
}

// loadFont loads the configured UI font. Needs the window.
func loadFont(name string, log *zap.Logger) (rl.Font, bool) {
	if name == "" {
		return rl.Font{}, false
	}
	path, err := fonts.Resolve(name)
	if err != nil {
		log.Warn("ui font", zap.Error(err))
		return rl.Font{}, false
	}
	font := rl.LoadFontEx(path, 32, nil)
	if font.Texture.ID == 0 {
		log.Warn("ui font failed to load", zap.String("path", path))
		return rl.Font{}, false
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font, true
}

// planOptions matches the exported plan's dash to the on-screen indicator.
func planOptions(opts scene.Options) texture.PlanOptions {
	p := texture.DefaultPlanOptions()
	p.Dash = float64(opts.Indicator.Dash)
	p.Gap = float64(opts.Indicator.Gap)
	c := opts.Indicator.Color
	p.Indicator.R, p.Indicator.G, p.Indicator.B, p.Indicator.A = c.R, c.G, c.B, c.A
	return p
}
