package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/ecs/system"
	"github.com/milk9111/physync/physics"
	"github.com/milk9111/physync/prefabs"
)

// session is one scene loaded into a world and a physics system.
type session struct {
	path   string
	spec   *prefabs.SceneSpec
	world  *ecs.World
	ps     *system.PhysicsSystem
	sched  *ecs.Scheduler
	scene  *prefabs.Scene
	logger *log.Logger
	failed []string
}

func sceneArg(args []string) string {
	if len(args) == 0 {
		return prefabs.DefaultScene
	}
	return args[0]
}

func newLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

func openSession(path string, mutate func(*system.Config)) (*session, error) {
	spec, err := prefabs.LoadScene(path)
	if err != nil {
		return nil, err
	}
	cfg, err := spec.World.Config()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&cfg)
	}

	s := &session{
		path:   path,
		spec:   spec,
		world:  ecs.NewWorld(),
		logger: newLogger(),
	}

	shapes := physics.NewShapeRegistry(physics.WithRegistryLogger(s.logger))
	s.ps, err = system.NewPhysicsSystem(cfg, shapes,
		system.WithLogger(s.logger),
		system.WithAttachFailureHandler(func(e ecs.Entity, d physics.Driver) {
			s.failed = append(s.failed, fmt.Sprintf("%v (%T)", e, d))
		}),
		system.WithListener(system.PositionPublisher(s.world)),
		system.WithListener(system.StatusPublisher(s.world)),
		system.WithListener(system.DriverDebugPublisher(s.world)),
	)
	if err != nil {
		return nil, err
	}

	s.sched = ecs.NewScheduler(s.ps)

	s.scene, err = prefabs.BuildScene(s.world, s.ps, spec, prefabs.WithLogger(s.logger))
	if err != nil {
		s.ps.Close()
		return nil, err
	}
	return s, nil
}

// tick advances by step seconds, or by the scene's fixed step when step is
// not positive.
func (s *session) tick(step float64) {
	if step > 0 {
		s.sched.Step(s.world, step)
		return
	}
	s.sched.Update(s.world)
}

// reload re-reads the scene file and applies it. A broken file leaves the
// running scene as it was.
func (s *session) reload() error {
	spec, err := prefabs.LoadScene(s.path)
	if err != nil {
		return err
	}
	if err := s.scene.Apply(s.world, s.ps, spec); err != nil {
		return err
	}
	s.spec = spec
	return nil
}

// diskPath returns the scene's file on disk, if it has one.
func (s *session) diskPath() (string, bool) {
	for _, candidate := range []string{s.path, filepath.Join(prefabs.Dir, s.path)} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, true
			}
			return abs, true
		}
	}
	return "", false
}

func (s *session) close() {
	s.ps.Close()
}
