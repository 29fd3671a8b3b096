package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/milk9111/physync/ecs/system"
	"github.com/milk9111/physync/prefabs"
	"github.com/spf13/cobra"
)

func runScene(cmd *cobra.Command, args []string) error {
	s, err := openSession(sceneArg(args), func(cfg *system.Config) {
		if speed >= 0 {
			cfg.Speed = speed
		}
	})
	if err != nil {
		return err
	}
	defer s.close()

	step := s.ps.Config().FixedStep
	if dt > 0 {
		step = dt
	}
	if plot != "" {
		if _, ok := s.scene.Entity(plot); !ok {
			return fmt.Errorf("no entity named %q in scene %s", plot, s.scene.Name())
		}
	}

	var trace []float64
	record := func() {
		if plot == "" {
			return
		}
		e, _ := s.scene.Entity(plot)
		if body, ok := s.ps.Body(e); ok {
			v := body.LinearVelocity()
			trace = append(trace, math.Hypot(v.X(), v.Z()))
		}
	}

	start := time.Now()
	var steps int
	if watch {
		steps, err = runWatched(cmd.Context(), s, step, record)
		if err != nil {
			return err
		}
	} else {
		for ; steps < ticks; steps++ {
			s.tick(dt)
			record()
		}
	}

	fmt.Println(renderSummary(s, steps, step, time.Since(start)))
	if len(trace) > 1 {
		fmt.Println(asciigraph.Plot(trace,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s horizontal speed", plot)),
		))
	}
	return nil
}

// runWatched steps in real time until the tick budget is spent or the
// process is interrupted, applying scene and script edits between steps.
func runWatched(ctx context.Context, s *session, step float64, record func()) (int, error) {
	scenePath, ok := s.diskPath()
	if !ok {
		return 0, fmt.Errorf("--watch needs a scene file on disk, %s is embedded", s.path)
	}
	dirs := []string{filepath.Dir(scenePath)}
	if dir, ok := prefabs.ScriptDir(); ok {
		dirs = append(dirs, dir)
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return 0, fmt.Errorf("watch %v: %w", dirs, err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Duration(step * float64(time.Second)))
	defer ticker.Stop()

	steps := 0
	for ticks <= 0 || steps < ticks {
		select {
		case <-ctx.Done():
			return steps, nil
		case change, ok := <-watcher.Changes:
			if !ok {
				return steps, nil
			}
			applyChange(s, scenePath, change)
		case err := <-watcher.Errors:
			s.logger.Printf("prefabs: watch error: %v", err)
		case <-ticker.C:
			s.tick(dt)
			record()
			steps++
		}
	}
	return steps, nil
}

func applyChange(s *session, scenePath string, change prefabs.Change) {
	name := change.Path
	switch change.Kind {
	case prefabs.SceneChanged:
		abs, err := filepath.Abs(name)
		if err != nil || abs != scenePath {
			return
		}
		if err := s.reload(); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("reload failed: ")+err.Error())
			return
		}
		fmt.Fprintln(os.Stderr, noteStyle.Render("reloaded "+filepath.Base(name)))
	case prefabs.ScriptChanged:
		n, err := s.scene.ReloadScript(s.ps, filepath.Base(name))
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("script reload failed: ")+err.Error())
			return
		}
		if n > 0 {
			fmt.Fprintln(os.Stderr, noteStyle.Render(fmt.Sprintf("reloaded %s on %d bodies", filepath.Base(name), n)))
		}
	}
}
