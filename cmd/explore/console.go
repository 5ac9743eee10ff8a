package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"explore-engine/internal/commands"
	"explore-engine/internal/controller"
	"explore-engine/internal/hud"
	"explore-engine/internal/input"
	"explore-engine/internal/scene"
)

// consoleCommands builds the registry behind the in-game terminal. Output goes to log so
// it lands in the terminal history.
func consoleCommands(ctx context.Context, core *controller.Context, scn *scene.Scene, overlay *hud.HUD, log *slog.Logger) *commands.Registry {
	reg := commands.NewRegistry("")
	quiet := func(name string) *flag.FlagSet {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		return fs
	}

	reg.Register("help", "list commands", nil, func([]string) error {
		for _, name := range reg.Names() {
			log.Info("command", "name", name)
		}
		return nil
	})
	reg.Register("progress", "show discovered collectibles", nil, func([]string) error {
		vis := core.Visibility()
		log.Info("progress", "discovered", vis.Count(), "total", vis.Len(), "ids", vis.DiscoveredIDs())
		return nil
	})
	reg.Register("reset", "forget every discovery", nil, func([]string) error {
		if err := core.ResetProgress(ctx); err != nil {
			return err
		}
		log.Info("progress reset")
		return nil
	})
	reg.Register("cancel", "cancel a hotspot countdown: cancel <id>", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: cancel <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("hotspot id: %w", err)
		}
		if !core.CancelHotspot(id) {
			log.Info("no countdown", "hotspot", id)
		}
		return nil
	})

	reg.Register("jump", "tap the jump control", nil, func([]string) error {
		core.Input().PulseJump()
		return nil
	})

	holdFlags := quiet("hold")
	holdOn := holdFlags.Bool("on", true, "press (true) or release (false)")
	reg.Register("hold", "press or release a control: hold [-on=false] <forward|backward|turn-left|turn-right|sprint>", holdFlags, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: hold [-on=false] <region>")
		}
		r, ok := input.ParseRegion(args[0])
		if !ok {
			return fmt.Errorf("unknown control %q", args[0])
		}
		core.Input().Set(r, *holdOn)
		return nil
	})

	gridFlags := quiet("grid")
	gridOn := gridFlags.Bool("on", true, "show the grid")
	reg.Register("grid", "toggle the reference grid: grid -on=false", gridFlags, func([]string) error {
		scn.SetGridVisible(*gridOn)
		return nil
	})

	fpsFlags := quiet("fps")
	fpsOn := fpsFlags.Bool("on", true, "show the frame counter")
	reg.Register("fps", "toggle the frame counter: fps -on=false", fpsFlags, func([]string) error {
		overlay.ShowFPS = *fpsOn
		return nil
	})
	return reg
}
