// Accretion disk preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/surfacepreview [-config path] [-target black_hole|quasar]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/cosmos/celestial"
	"github.com/pthm-cable/cosmos/config"
	"github.com/pthm-cable/cosmos/noise"
	"github.com/pthm-cable/cosmos/shading"
)

const (
	windowWidth  = 1000
	windowHeight = 760
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	bakeSize     = 192
)

type slider struct {
	label    string
	min, max float32
	format   string
	value    *float64
}

func main() {
	configPath := flag.String("config", "", "Path to config file (uses embedded defaults if empty)")
	target := flag.String("target", "black_hole", "Disk to edit: black_hole or quasar")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var disk *config.DiskConfig
	switch *target {
	case "black_hole":
		disk = &cfg.BlackHole.Disk
	case "quasar":
		disk = &cfg.Quasar.Disk
	default:
		slog.Error("unknown target", "target", *target)
		os.Exit(1)
	}
	initial := *disk

	kernel, err := noise.New(cfg.Noise.Kind, cfg.Noise.Seed)
	if err != nil {
		slog.Error("failed to create noise kernel", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Accretion Disk Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(bakeSize, bakeSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	sliders := []slider{
		{"Mid stop (normalized radius)", 0.05, 0.95, "%.2f", &disk.MidStop},
		{"Angular frequency", 1, 16, "%.1f", &disk.AngleFreq},
		{"Radial frequency", 1, 40, "%.1f", &disk.RadialFreq},
		{"Swirl speed", 0, 6, "%.2f", &disk.SwirlSpeed},
		{"Detail weight", 0, 1, "%.2f", &disk.DetailWeight},
		{"Fine weight", 0, 1, "%.2f", &disk.FineWeight},
		{"Boost base", 0, 2, "%.2f", &disk.BoostBase},
		{"Boost gain", 0, 4, "%.2f", &disk.BoostGain},
		{"Doppler", 0, 1, "%.2f", &disk.Doppler},
		{"Edge softness", 0.01, 0.5, "%.2f", &disk.EdgeSoftness},
	}

	var (
		prog      *shading.Disk
		uniforms  shading.SurfaceUniforms
		pixels    []color.RGBA
		time      float32
		animating = true
		needsProg = true
	)

	for !rl.WindowShouldClose() {
		if animating {
			time += rl.GetFrameTime()
		}
		if needsProg {
			prog, uniforms = celestial.DiskProgram(*disk, kernel)
			needsProg = false
		}
		uniforms.Time = time
		extent := float32(disk.OuterRadius) * 1.05
		pixels = shading.Bake(prog, uniforms, bakeSize, bakeSize, extent, pixels)
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: bakeSize, Height: bakeSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Target: %s  Time: %.1f", *target, time), 15, previewSize+25, 16, rl.LightGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Disk Parameters", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 35

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			cur := float32(*s.value)
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.LightGray)
			if next != cur {
				*s.value = float64(next)
				needsProg = true
			}
			panelY += 32
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Pause", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			*disk = initial
			time = 0
			needsProg = true
		}
		panelY += 45

		snippet, err := diskYAML(*target, *disk)
		if err != nil {
			slog.Error("failed to encode disk", "error", err)
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.RayWhite)
		panelY += 22
		for _, line := range strings.Split(snippet, "\n") {
			if panelY > windowHeight-40 {
				break
			}
			rl.DrawText(line, int32(panelX), int32(panelY), 12, rl.Gray)
			panelY += 14
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-24, 12, rl.DarkGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// diskYAML renders the disk block nested under its owner key.
func diskYAML(target string, d config.DiskConfig) (string, error) {
	out, err := yaml.Marshal(map[string]any{target: map[string]any{"disk": d}})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
