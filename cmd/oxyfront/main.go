// Command oxyfront opens a window and renders a grid of instanced, textured quads.
//
// Usage:
//
//	oxyfront [-config oxyfront.yaml]
//
// Space swaps the two textures, R pauses the camera orbit and Escape quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine"
	"github.com/Carmen-Shannon/oxy-front/engine/config"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer"
	"github.com/Carmen-Shannon/oxy-front/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	level, _ := cfg.LogLevel()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		common.Logger().Error("oxyfront failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	w, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithCloseOnEscape(cfg.Window.CloseOnEscape),
		window.WithMinWidth(cfg.Window.MinWidth),
		window.WithMinHeight(cfg.Window.MinHeight),
		window.WithMaxWidth(cfg.Window.MaxWidth),
		window.WithMaxHeight(cfg.Window.MaxHeight),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	rendererOptions, err := rendererOptions(cfg.Renderer)
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithRendererOptions(rendererOptions...),
		engine.WithScene(newDemoScene(cfg.Scene)),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
	)
	if err != nil {
		return err
	}
	return eng.Run()
}

// rendererOptions converts the renderer section into builder options.
func rendererOptions(cfg config.RendererConfig) ([]renderer.RendererBuilderOption, error) {
	presentMode := renderer.PresentModeVSync
	if (config.Config{Renderer: cfg}).Uncapped() {
		presentMode = renderer.PresentModeUncapped
	}

	options := []renderer.RendererBuilderOption{
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Software),
		renderer.WithClearColor(wgpu.Color{
			R: cfg.ClearColor[0],
			G: cfg.ClearColor[1],
			B: cfg.ClearColor[2],
			A: cfg.ClearColor[3],
		}),
		renderer.WithWorkers(cfg.Workers),
	}

	if cfg.Shader != "" {
		source, err := os.ReadFile(cfg.Shader)
		if err != nil {
			return nil, fmt.Errorf("failed to read shader %s: %w", cfg.Shader, err)
		}
		options = append(options, renderer.WithShader(string(source)))
	}
	return options, nil
}
