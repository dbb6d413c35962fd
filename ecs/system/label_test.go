package system

import (
	"testing"

	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(t *testing.T, w *ecs.World, name string) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}))
	return e
}

func TestLabelSystemMarksExactMatches(t *testing.T) {
	w := ecs.NewWorld()
	wood := named(t, w, "RubberWood_low")
	named(t, w, "Frame_low")
	named(t, w, "rubberwood_low")
	named(t, w, "RubberWood_low_2")

	NewLabelSystem("RubberWood_low").Update(w)
	assert.Equal(t, 0, ecs.Count(w, component.NodeMarkerComponent.Kind()), "markers are deferred")

	require.NoError(t, ecs.ApplyCommands(w))
	marked, ok := ecs.First(w, component.NodeMarkerComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, wood, marked)
	assert.Equal(t, 1, ecs.Count(w, component.NodeMarkerComponent.Kind()))
}

func TestLabelSystemBeforeSpawnFlush(t *testing.T) {
	w := ecs.NewWorld()
	w.Commands().Spawn(func(w *ecs.World, e ecs.Entity) error {
		return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: "RubberWood_low"})
	})

	label := NewLabelSystem("RubberWood_low")
	label.Update(w)
	require.NoError(t, ecs.ApplyCommands(w))
	assert.Equal(t, 0, ecs.Count(w, component.NodeMarkerComponent.Kind()))

	label.Update(w)
	require.NoError(t, ecs.ApplyCommands(w))
	assert.Equal(t, 1, ecs.Count(w, component.NodeMarkerComponent.Kind()))
}

func TestLabelSystemNoTargets(t *testing.T) {
	w := ecs.NewWorld()
	named(t, w, "RubberWood_low")
	NewLabelSystem().Update(w)
	require.NoError(t, ecs.ApplyCommands(w))
	assert.Equal(t, 0, ecs.Count(w, component.NodeMarkerComponent.Kind()))
}

func TestSpawnSceneWithoutModel(t *testing.T) {
	w := ecs.NewWorld()
	NewSpawnSceneSystem().Update(w)
	assert.True(t, w.Exiting())
	assert.ErrorIs(t, w.ExitErr(), ErrMissingGltf)
	assert.Equal(t, 0, w.Commands().Len())
}

func TestLoadingStateString(t *testing.T) {
	assert.Equal(t, "Unloaded", Unloaded.String())
	assert.Equal(t, "Loaded", Loaded.String())
	assert.Equal(t, "Unknown", LoadingState(7).String())
}
