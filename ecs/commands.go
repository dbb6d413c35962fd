package ecs

import (
	"fmt"

	"github.com/milk9111/helmet/ecs/component"
)

// Command is a deferred world mutation.
type Command func(w *World) error

// Commands queues structural changes so systems can request them while
// iterating. Nothing queued is visible to queries until ApplyCommands runs.
type Commands struct {
	queue []Command
}

// Push queues an arbitrary command.
func (c *Commands) Push(cmd Command) {
	if c == nil || cmd == nil {
		return
	}
	c.queue = append(c.queue, cmd)
}

// Spawn queues creation of an entity. build runs against the new entity
// when the queue is applied.
func (c *Commands) Spawn(build func(w *World, e Entity) error) {
	c.Push(func(w *World) error {
		e := w.CreateEntity()
		if build == nil {
			return nil
		}
		if err := build(w, e); err != nil {
			return fmt.Errorf("commands: spawn %s: %w", e, err)
		}
		return nil
	})
}

// Despawn queues destruction of e. Despawning a dead entity is a no-op.
func (c *Commands) Despawn(e Entity) {
	c.Push(func(w *World) error {
		w.DestroyEntity(e)
		return nil
	})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	if c == nil {
		return 0
	}
	return len(c.queue)
}

// Insert queues Add of value to e.
func Insert[T any](c *Commands, e Entity, kind component.ComponentKind[T], value *T) {
	c.Push(func(w *World) error {
		if err := Add(w, e, kind, value); err != nil {
			return fmt.Errorf("commands: insert on %s: %w", e, err)
		}
		return nil
	})
}

// ApplyCommands runs every queued command in order, including commands
// queued by the commands themselves. It stops at the first error; commands
// after it are discarded.
func ApplyCommands(w *World) error {
	if w == nil {
		return nil
	}
	for len(w.commands.queue) > 0 {
		batch := w.commands.queue
		w.commands.queue = nil
		for _, cmd := range batch {
			if err := cmd(w); err != nil {
				w.commands.queue = nil
				return err
			}
		}
	}
	return nil
}

type applyCommandsSystem struct{}

// ApplyCommandsSystem returns a system that flushes the command queue.
// Place it between a system that spawns and one that must see the result.
func ApplyCommandsSystem() System { return applyCommandsSystem{} }

func (applyCommandsSystem) Update(w *World) {
	if err := ApplyCommands(w); err != nil {
		w.Exit(err)
	}
}
