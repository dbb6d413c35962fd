package main

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/asset/gltfasset"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/milk9111/helmet/ecs/system"
	"github.com/milk9111/helmet/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelPath = "models/FlightHelmet/FlightHelmet.gltf"

const helmetGltf = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "FlightHelmet", "children": [1, 2]},
    {"name": "RubberWood_low", "mesh": 0},
    {"name": "Frame_low", "mesh": 0, "translation": [0, 1, 0]}
  ],
  "meshes": [{"primitives": [{"attributes": {}}]}]
}`

func helmetFS() fstest.MapFS {
	return fstest.MapFS{modelPath: {Data: []byte(helmetGltf)}}
}

func testSpec() *prefabs.AppSpec {
	return &prefabs.AppSpec{
		Model:       modelPath,
		TargetNodes: []string{"RubberWood_low"},
		TickRate:    60,
	}
}

func testCamera() *prefabs.CameraSpec {
	return &prefabs.CameraSpec{
		Position: prefabs.Vec3Spec{X: 10, Y: 10, Z: 15},
		LookAt:   prefabs.Vec3Spec{Y: 2},
		Up:       prefabs.Vec3Spec{Y: 1},
	}
}

// captureLog redirects the global logger for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

// tickUntil ticks app until done reports true or the world exits.
func tickUntil(t *testing.T, app *App, done func() bool) error {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := app.Tick(); err != nil {
			return err
		}
		if done() || app.World().Exiting() {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for app")
	return nil
}

func markedNames(w *ecs.World) []string {
	var out []string
	ecs.ForEach2(w, component.NodeMarkerComponent.Kind(), component.NameComponent.Kind(),
		func(_ ecs.Entity, _ *component.NodeMarker, n *component.Name) {
			out = append(out, n.Value)
		})
	return out
}

// gatedLoader holds the model load until gate is closed.
type gatedLoader struct {
	gltfasset.Loader
	gate chan struct{}
}

func (l gatedLoader) Load(lc *asset.LoadContext) (any, error) {
	select {
	case <-l.gate:
	case <-lc.Context().Done():
		return nil, lc.Context().Err()
	}
	return l.Loader.Load(lc)
}

func TestAppLabelsTargetNode(t *testing.T) {
	buf := captureLog(t)
	app := NewApp(testSpec(), testCamera(), helmetFS())

	require.NoError(t, tickUntil(t, app, func() bool { return app.State() == system.Loaded }))
	w := app.World()

	assert.Equal(t, system.Loaded, app.State())
	assert.Equal(t, []string{"RubberWood_low"}, markedNames(w))
	assert.Equal(t, 1, ecs.Count(w, component.NodeMarkerComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(w, component.SceneMarkerComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(w, component.Camera3DComponent.Kind()))
	assert.Equal(t, 3, ecs.Count(w, component.NameComponent.Kind()))

	out := buf.String()
	assert.Contains(t, out, "All assets loaded!")
	assert.Contains(t, out, "Requested to spawn scene")
	assert.Contains(t, out, "Labeling 3 nodes")
	assert.Contains(t, out, "Found node:")

	// the node's world transform includes its translation once propagated
	require.NoError(t, app.Tick())
	ecs.ForEach2(w, component.NameComponent.Kind(), component.GlobalTransformComponent.Kind(),
		func(_ ecs.Entity, n *component.Name, g *component.GlobalTransform) {
			if n.Value == "Frame_low" {
				assert.InDelta(t, 1.0, g.Translation().Y(), 1e-9)
			}
		})

	require.NoError(t, app.Close())
	out = buf.String()
	assert.Equal(t, 1, strings.Count(out, "Dropping scene marker"))
	assert.Equal(t, 1, strings.Count(out, "Dropping node marker"))
}

func TestAppStateIsMonotonic(t *testing.T) {
	captureLog(t)
	app := NewApp(testSpec(), testCamera(), helmetFS())
	t.Cleanup(func() { _ = app.Close() })

	require.NoError(t, tickUntil(t, app, func() bool { return app.State() == system.Loaded }))
	for i := 0; i < 10; i++ {
		require.NoError(t, app.Tick())
		assert.Equal(t, system.Loaded, app.State())
	}
	w := app.World()
	assert.Equal(t, 1, ecs.Count(w, component.SceneMarkerComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(w, component.NodeMarkerComponent.Kind()))
}

func TestAppWaitsForLoad(t *testing.T) {
	captureLog(t)
	gate := make(chan struct{})
	app := NewApp(testSpec(), testCamera(), helmetFS(), asset.WithLoaders(gatedLoader{gate: gate}))
	t.Cleanup(func() { _ = app.Close() })

	for i := 0; i < 20; i++ {
		require.NoError(t, app.Tick())
		assert.Equal(t, system.Unloaded, app.State())
	}
	w := app.World()
	assert.Equal(t, 0, ecs.Count(w, component.SceneMarkerComponent.Kind()))
	assert.Equal(t, 0, ecs.Count(w, component.NameComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(w, component.Camera3DComponent.Kind()), "startup runs before the load completes")

	close(gate)
	require.NoError(t, tickUntil(t, app, func() bool { return app.State() == system.Loaded }))
	assert.Equal(t, []string{"RubberWood_low"}, markedNames(w))
}

func TestAppExitsOnLoadFailure(t *testing.T) {
	buf := captureLog(t)
	app := NewApp(testSpec(), testCamera(), fstest.MapFS{})
	t.Cleanup(func() { _ = app.Close() })

	err := tickUntil(t, app, func() bool { return false })
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "unable to load all assets")

	w := app.World()
	assert.True(t, w.Exiting())
	assert.Equal(t, system.Unloaded, app.State())
	assert.Equal(t, 0, ecs.Count(w, component.SceneMarkerComponent.Kind()))
	assert.Equal(t, 0, ecs.Count(w, component.NodeMarkerComponent.Kind()))
	assert.NotContains(t, buf.String(), "All assets loaded!")

	ticks := app.Ticks()
	assert.Equal(t, err, app.Tick())
	assert.Equal(t, ticks, app.Ticks())
}

func TestAppMissingDefaultScene(t *testing.T) {
	captureLog(t)
	files := fstest.MapFS{modelPath: {Data: []byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[]}]}`)}}
	app := NewApp(testSpec(), testCamera(), files)
	t.Cleanup(func() { _ = app.Close() })

	err := tickUntil(t, app, func() bool { return false })
	assert.ErrorIs(t, err, system.ErrMissingDefaultScene)
	assert.Equal(t, 0, ecs.Count(app.World(), component.SceneMarkerComponent.Kind()))
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	captureLog(t)
	app := NewApp(testSpec(), testCamera(), helmetFS())
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunHeadless(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHeadless did not return")
	}
	assert.Positive(t, app.Ticks())
}

func TestRunHeadlessReturnsExitError(t *testing.T) {
	captureLog(t)
	app := NewApp(testSpec(), testCamera(), fstest.MapFS{})
	t.Cleanup(func() { _ = app.Close() })

	err := app.RunHeadless(context.Background())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestGameStatus(t *testing.T) {
	captureLog(t)
	app := NewApp(testSpec(), testCamera(), helmetFS())
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, tickUntil(t, app, func() bool { return app.State() == system.Loaded }))

	g := NewGame(app, 640, 480)
	status := g.status()
	assert.Contains(t, status, "state: Loaded")
	assert.Contains(t, status, "marked: RubberWood_low")

	w, h := g.Layout(100, 100)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.NoError(t, g.Update())
}
