package component

// Name is a display name, used to find nodes of a spawned scene.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
