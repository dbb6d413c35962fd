package asset

import "github.com/milk9111/helmet/ecs"

// EventType is the ecs.Event type used for AssetEvent payloads.
const EventType = "asset"

type EventKind int

const (
	EventAdded EventKind = iota
	EventModified
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventModified:
		return "modified"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AssetEvent reports a completed load or reload of a root asset.
type AssetEvent struct {
	Kind EventKind
	ID   HandleID
	Path string
	Err  error
}

func pushEvent(w *ecs.World, evt AssetEvent) {
	w.Events().Push(ecs.Event{Type: EventType, Data: evt})
}
