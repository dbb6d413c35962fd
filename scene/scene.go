// Package scene describes loaded scene graphs and instantiates them into an
// ecs.World.
package scene

import (
	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
)

// Scene is an immutable node tree produced by a model loader.
type Scene struct {
	Name  string
	Roots []Node
}

// Node is one scene graph node. Index is the node's position in the source
// document.
type Node struct {
	Index     int
	Name      string
	Transform component.Transform
	Meshes    []component.Mesh
	Children  []Node
}

// Walk visits every node depth-first, parents before children.
func (s *Scene) Walk(fn func(n *Node)) {
	var visit func(nodes []Node)
	visit = func(nodes []Node) {
		for i := range nodes {
			fn(&nodes[i])
			visit(nodes[i].Children)
		}
	}
	visit(s.Roots)
}

// NodeCount returns the number of nodes in the tree.
func (s *Scene) NodeCount() int {
	n := 0
	s.Walk(func(*Node) { n++ })
	return n
}

// SceneRoot asks the spawner to instantiate Scene beneath the entity.
type SceneRoot struct {
	Scene asset.Handle[Scene]
}

var SceneRootComponent = component.NewComponent[SceneRoot]()

// Instance records the entities the spawner created for a SceneRoot.
type Instance struct {
	Entities []ecs.Entity
}

var InstanceComponent = component.NewComponent[Instance]()
