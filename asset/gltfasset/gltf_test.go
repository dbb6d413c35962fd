package gltfasset

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helmetGltf = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "Root", "nodes": [0]}],
  "nodes": [
    {"name": "FlightHelmet", "children": [1, 2, 3]},
    {"name": "RubberWood_low", "mesh": 0, "translation": [1, 2, 3]},
    {"name": "Frame_low", "mesh": 1, "matrix": [2,0,0,0, 0,2,0,0, 0,0,2,0, 4,5,6,1]},
    {"mesh": 1}
  ],
  "meshes": [
    {"name": "wood", "primitives": [{"attributes": {}, "material": 0}]},
    {"name": "frame", "primitives": [{"attributes": {}}, {"attributes": {}, "material": 1}]}
  ],
  "materials": [{"name": "wood"}, {"name": "frame"}],
  "images": [{"uri": "wood%20albedo.png"}]
}`

func loadModel(t *testing.T, files fstest.MapFS, p string) (*asset.Server, *ecs.World, asset.Handle[Gltf]) {
	t.Helper()
	s := asset.NewServer(files, asset.WithLoaders(Loader{}))
	t.Cleanup(func() { _ = s.Close() })
	w := ecs.NewWorld()

	h := asset.Load[Gltf](s, p)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.Update(w)
		if s.LoadState(h.ID()) != asset.Loading {
			break
		}
		time.Sleep(time.Millisecond)
	}
	return s, w, h
}

func helmetFiles() fstest.MapFS {
	return fstest.MapFS{
		"models/helmet/helmet.gltf":     {Data: []byte(helmetGltf)},
		"models/helmet/wood albedo.png": {Data: []byte("png")},
	}
}

func TestLoadHelmet(t *testing.T) {
	s, w, h := loadModel(t, helmetFiles(), "models/helmet/helmet.gltf")
	require.Equal(t, asset.Loaded, s.LoadState(h.ID()), "%v", s.LoadError(h.ID()))

	g, ok := asset.Get(w, h)
	require.True(t, ok)
	require.Len(t, g.Scenes, 1)
	require.NotNil(t, g.DefaultScene)
	assert.Equal(t, g.Scenes[0], *g.DefaultScene)
	assert.Equal(t, "Scene0", g.DefaultScene.Label())
	assert.Equal(t, g.Scenes[0], g.NamedScenes["Root"])
	assert.Equal(t, asset.Loaded, s.LoadState(g.DefaultScene.ID()))
	assert.Equal(t, []byte("png"), g.Images[0])
	assert.Equal(t, map[string]int{
		"FlightHelmet":   0,
		"RubberWood_low": 1,
		"Frame_low":      2,
		"GltfNode3":      3,
	}, g.NamedNodes)

	sc, ok := asset.Get(w, *g.DefaultScene)
	require.True(t, ok)
	assert.Equal(t, "Root", sc.Name)
	assert.Equal(t, 4, sc.NodeCount())

	root := sc.Roots[0]
	require.Len(t, root.Children, 3)
	wood, frame, unnamed := root.Children[0], root.Children[1], root.Children[2]

	assert.Equal(t, "RubberWood_low", wood.Name)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, wood.Transform.Translation)
	require.Len(t, wood.Meshes, 1)
	assert.Equal(t, "wood", wood.Meshes[0].MeshName)
	assert.Equal(t, 0, wood.Meshes[0].Material)

	assert.Equal(t, "Frame_low", frame.Name)
	assert.InDeltaSlice(t, []float64{4, 5, 6}, frame.Transform.Translation[:], 1e-9)
	assert.InDeltaSlice(t, []float64{2, 2, 2}, frame.Transform.Scale[:], 1e-9)
	require.Len(t, frame.Meshes, 2)
	assert.Equal(t, -1, frame.Meshes[0].Material)
	assert.Equal(t, 1, frame.Meshes[1].Primitive)

	assert.Equal(t, "GltfNode3", unnamed.Name)
	assert.Len(t, unnamed.Meshes, 2)
}

func TestLoadWithoutDefaultScene(t *testing.T) {
	files := fstest.MapFS{
		"m.gltf": {Data: []byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"name":"a"}]}`)},
	}
	s, w, h := loadModel(t, files, "m.gltf")
	require.Equal(t, asset.Loaded, s.LoadState(h.ID()))

	g, _ := asset.Get(w, h)
	assert.Nil(t, g.DefaultScene)
	assert.Len(t, g.Scenes, 1)
	assert.Empty(t, g.NamedScenes)
}

func TestLoadFailures(t *testing.T) {
	cases := []struct {
		name  string
		files fstest.MapFS
	}{
		{
			name: "missing_image",
			files: fstest.MapFS{"m.gltf": {Data: []byte(
				`{"asset":{"version":"2.0"},"images":[{"uri":"gone.png"}]}`)}},
		},
		{
			name: "node_cycle",
			files: fstest.MapFS{"m.gltf": {Data: []byte(
				`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"children":[1]},{"children":[0]}]}`)}},
		},
		{
			name: "bad_node_index",
			files: fstest.MapFS{"m.gltf": {Data: []byte(
				`{"asset":{"version":"2.0"},"scenes":[{"nodes":[7]}],"nodes":[{}]}`)}},
		},
		{
			name:  "invalid_json",
			files: fstest.MapFS{"m.gltf": {Data: []byte(`{"asset":`)}},
		},
		{
			name:  "missing_file",
			files: fstest.MapFS{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, w, h := loadModel(t, tc.files, "m.gltf")
			assert.Equal(t, asset.Failed, s.LoadState(h.ID()))
			assert.Error(t, s.LoadError(h.ID()))
			_, ok := asset.Get(w, h)
			assert.False(t, ok)
		})
	}
}

func TestNodeCycleError(t *testing.T) {
	files := fstest.MapFS{"m.gltf": {Data: []byte(
		`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"children":[0]}]}`)}}
	s, _, h := loadModel(t, files, "m.gltf")
	assert.ErrorIs(t, s.LoadError(h.ID()), ErrNodeCycle)
}

func TestSharedChildIsNotACycle(t *testing.T) {
	files := fstest.MapFS{"m.gltf": {Data: []byte(
		`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0,1]}],"nodes":[{"children":[2]},{"children":[2]},{"name":"leaf"}]}`)}}
	s, w, h := loadModel(t, files, "m.gltf")
	require.Equal(t, asset.Loaded, s.LoadState(h.ID()), "%v", s.LoadError(h.ID()))

	g, _ := asset.Get(w, h)
	sc, ok := asset.Get[scene.Scene](w, g.Scenes[0])
	require.True(t, ok)
	assert.Equal(t, 4, sc.NodeCount())
}

func TestDecompose(t *testing.T) {
	want := mgl64.Translate3D(1, 2, 3).
		Mul4(mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0}).Mat4()).
		Mul4(mgl64.Scale3D(2, 3, 4))

	got := decompose(want)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, got.Translation[:], 1e-9)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, got.Scale[:], 1e-9)
	m := got.Matrix()
	assert.InDeltaSlice(t, want[:], m[:], 1e-9)
}
