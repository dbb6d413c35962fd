package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/asset/gltfasset"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/system"
	"github.com/milk9111/helmet/prefabs"
	"github.com/milk9111/helmet/scene"
	"github.com/rs/zerolog/log"
)

// App wires the world, the scheduler and the asset server together.
type App struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	assets    *asset.Server
	watcher   *asset.Watcher
	tickRate  int
	ticks     int
}

// NewApp builds the app. Assets are read from fsys; call Close when done.
func NewApp(spec *prefabs.AppSpec, camera *prefabs.CameraSpec, fsys fs.FS, opts ...asset.Option) *App {
	w := ecs.NewWorld()
	sched := ecs.NewScheduler()
	server := asset.NewServer(fsys, append([]asset.Option{asset.WithLoaders(gltfasset.Loader{})}, opts...)...)

	ecs.AddState(sched, w, system.Unloaded)

	sched.AddStartup(system.NewSetupSystem(server, spec.Model, camera))

	sched.Add(server)
	sched.Add(system.NewAssetEventSystem())
	sched.Add(ecs.RunIf(ecs.InState(system.Unloaded), system.NewLoadCheckSystem(server)))
	sched.Add(scene.NewSpawnerSystem())
	sched.Add(scene.NewPropagateSystem())

	// The command flush and the spawner must run between spawn and label,
	// otherwise label finds no named nodes.
	ecs.OnEnter(sched, system.Loaded,
		system.NewSpawnSceneSystem(),
		ecs.ApplyCommandsSystem(),
		scene.NewSpawnerSystem(),
		system.NewLabelSystem(spec.TargetNodes...),
	)

	return &App{
		world:     w,
		scheduler: sched,
		assets:    server,
		tickRate:  spec.TickRate,
	}
}

// WatchAssets reloads assets when files below root change.
func (a *App) WatchAssets(root string) error {
	if a.watcher != nil {
		return nil
	}
	watcher, err := asset.NewWatcher(a.assets, root)
	if err != nil {
		return fmt.Errorf("app: watch %s: %w", root, err)
	}
	a.watcher = watcher
	return nil
}

func (a *App) World() *ecs.World {
	return a.world
}

func (a *App) Ticks() int {
	return a.ticks
}

// State returns the current loading state.
func (a *App) State() system.LoadingState {
	st, _ := ecs.CurrentState[system.LoadingState](a.world)
	return st
}

// Tick advances the app by one scheduler update. Once the world has asked to
// exit, Tick runs nothing and keeps returning the exit error.
func (a *App) Tick() error {
	if a.world.Exiting() {
		return a.world.ExitErr()
	}
	a.scheduler.Update(a.world)
	a.ticks++
	return a.world.ExitErr()
}

// RunHeadless ticks at the configured rate until ctx ends or the world exits.
func (a *App) RunHeadless(ctx context.Context) error {
	rate := a.tickRate
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		if err := a.Tick(); err != nil {
			return err
		}
		if a.world.Exiting() {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close tears the world down, so drop notifications fire, and stops
// background loading.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	errs = append(errs, a.assets.Close())
	a.world.Clear()
	log.Debug().Int("ticks", a.ticks).Msg("app closed")
	return errors.Join(errs...)
}
