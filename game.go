package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
)

// Game adapts App to ebiten's frame loop. It draws status text only; the
// model itself is not rendered.
type Game struct {
	app    *App
	width  int
	height int
}

func NewGame(app *App, width, height int) *Game {
	return &Game{app: app, width: width, height: height}
}

func (g *Game) Update() error {
	return g.app.Tick()
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	w := g.app.World()
	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %.2f    ticks: %d\n", ebiten.ActualTPS(), g.app.Ticks())
	fmt.Fprintf(&b, "state: %s\n", g.app.State())
	fmt.Fprintf(&b, "entities: %d    named: %d\n", len(ecs.Entities(w)), ecs.Count(w, component.NameComponent.Kind()))
	ecs.ForEach2(w, component.NodeMarkerComponent.Kind(), component.NameComponent.Kind(), func(e ecs.Entity, _ *component.NodeMarker, name *component.Name) {
		fmt.Fprintf(&b, "marked: %s (%s)\n", name.Value, e)
	})
	return b.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
