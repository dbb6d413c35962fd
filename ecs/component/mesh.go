package component

// Mesh refers to one primitive of a mesh in a loaded model. Geometry stays in
// the model asset; nothing in this repository uploads or draws it.
type Mesh struct {
	MeshName  string
	MeshIndex int
	Primitive int
	Material  int // -1 when the primitive has none
}

var MeshComponent = NewComponent[Mesh]()
