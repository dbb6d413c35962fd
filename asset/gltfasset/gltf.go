// Package gltfasset loads glTF 2.0 models (.gltf, .glb) into a Gltf asset
// whose scenes are labeled scene.Scene sub-assets.
package gltfasset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/milk9111/helmet/scene"
	"github.com/qmuntal/gltf"
	"golang.org/x/sync/errgroup"
)

var ErrNodeCycle = errors.New("gltf: node hierarchy has a cycle")

// Gltf is a loaded model.
type Gltf struct {
	Scenes      []asset.Handle[scene.Scene]
	NamedScenes map[string]asset.Handle[scene.Scene]
	// DefaultScene is nil unless the document names one.
	DefaultScene *asset.Handle[scene.Scene]
	NamedNodes   map[string]int
	// Images holds external image files by image index.
	Images   map[int][]byte
	Document *gltf.Document
}

// Loader decodes glTF documents. External buffers and images resolve
// relative to the model file.
type Loader struct {
	// MaxParallelReads bounds concurrent image reads; zero means 4.
	MaxParallelReads int
}

func (Loader) Extensions() []string {
	return []string{".gltf", ".glb"}
}

func (l Loader) Load(lc *asset.LoadContext) (any, error) {
	data, err := lc.ReadFile(lc.Path())
	if err != nil {
		return nil, fmt.Errorf("gltf: read %s: %w", lc.Path(), err)
	}
	dir, err := fs.Sub(lc.FS(), path.Dir(lc.Path()))
	if err != nil {
		return nil, fmt.Errorf("gltf: open %s: %w", path.Dir(lc.Path()), err)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(bytes.NewReader(data), dir).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf: decode %s: %w", lc.Path(), err)
	}
	for _, b := range doc.Buffers {
		lc.AddBytes(int64(len(b.Data)))
	}

	images, err := l.readImages(lc, dir, doc)
	if err != nil {
		return nil, err
	}

	out := &Gltf{
		NamedScenes: make(map[string]asset.Handle[scene.Scene]),
		NamedNodes:  make(map[string]int),
		Images:      images,
		Document:    doc,
	}
	for i, n := range doc.Nodes {
		out.NamedNodes[nodeName(n, i)] = i
	}
	for i, s := range doc.Scenes {
		sc, err := buildScene(doc, s)
		if err != nil {
			return nil, fmt.Errorf("gltf: scene %d of %s: %w", i, lc.Path(), err)
		}
		h := asset.AddLabeled(lc, fmt.Sprintf("Scene%d", i), sc)
		out.Scenes = append(out.Scenes, h)
		if s.Name != "" {
			out.NamedScenes[s.Name] = h
		}
	}
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(out.Scenes) {
		h := out.Scenes[*doc.Scene]
		out.DefaultScene = &h
	}
	return out, nil
}

func (l Loader) readImages(lc *asset.LoadContext, dir fs.FS, doc *gltf.Document) (map[int][]byte, error) {
	limit := l.MaxParallelReads
	if limit <= 0 {
		limit = 4
	}
	g, ctx := errgroup.WithContext(lc.Context())
	g.SetLimit(limit)

	var mu sync.Mutex
	images := make(map[int][]byte)
	for i, img := range doc.Images {
		if img.BufferView != nil || img.URI == "" || img.IsEmbeddedResource() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name, err := url.PathUnescape(img.URI)
			if err != nil {
				name = img.URI
			}
			data, err := fs.ReadFile(dir, name)
			if err != nil {
				return fmt.Errorf("gltf: image %d (%s): %w", i, img.URI, err)
			}
			mu.Lock()
			images[i] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, data := range images {
		lc.AddBytes(int64(len(data)))
	}
	return images, nil
}

func buildScene(doc *gltf.Document, s *gltf.Scene) (*scene.Scene, error) {
	visiting := make([]bool, len(doc.Nodes))
	var build func(idx int) (scene.Node, error)
	build = func(idx int) (scene.Node, error) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return scene.Node{}, fmt.Errorf("gltf: node index %d out of range", idx)
		}
		if visiting[idx] {
			return scene.Node{}, fmt.Errorf("%w at node %d", ErrNodeCycle, idx)
		}
		visiting[idx] = true
		defer func() { visiting[idx] = false }()

		n := doc.Nodes[idx]
		out := scene.Node{
			Index:     idx,
			Name:      nodeName(n, idx),
			Transform: nodeTransform(n),
			Meshes:    nodeMeshes(doc, n),
		}
		for _, c := range n.Children {
			child, err := build(c)
			if err != nil {
				return scene.Node{}, err
			}
			out.Children = append(out.Children, child)
		}
		return out, nil
	}

	sc := &scene.Scene{Name: s.Name}
	for _, idx := range s.Nodes {
		n, err := build(idx)
		if err != nil {
			return nil, err
		}
		sc.Roots = append(sc.Roots, n)
	}
	return sc, nil
}

func nodeName(n *gltf.Node, idx int) string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("GltfNode%d", idx)
}

func nodeMeshes(doc *gltf.Document, n *gltf.Node) []component.Mesh {
	if n.Mesh == nil || *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
		return nil
	}
	idx := *n.Mesh
	m := doc.Meshes[idx]
	out := make([]component.Mesh, 0, len(m.Primitives))
	for i, p := range m.Primitives {
		material := -1
		if p.Material != nil {
			material = *p.Material
		}
		out = append(out, component.Mesh{
			MeshName:  m.Name,
			MeshIndex: idx,
			Primitive: i,
			Material:  material,
		})
	}
	return out
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func nodeTransform(n *gltf.Node) component.Transform {
	if m := n.MatrixOrDefault(); m != identityMatrix {
		return decompose(mgl64.Mat4(m))
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return component.Transform{
		Translation: mgl64.Vec3(t),
		Rotation:    mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}.Normalize(),
		Scale:       mgl64.Vec3(s),
	}
}

// decompose splits an affine column-major matrix into TRS. Shear is lost.
func decompose(m mgl64.Mat4) component.Transform {
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scale := mgl64.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
		c0 = c0.Mul(-1)
	}
	rot := mgl64.QuatIdent()
	if scale[0] != 0 && scale[1] != 0 && scale[2] != 0 {
		basis := mgl64.Mat3FromCols(c0.Normalize(), c1.Normalize(), c2.Normalize())
		rot = mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
	}
	return component.Transform{
		Translation: m.Col(3).Vec3(),
		Rotation:    rot,
		Scale:       scale,
	}
}
