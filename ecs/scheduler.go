package ecs

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

// Condition gates a system for the current tick.
type Condition func(w *World) bool

type conditional struct {
	cond   Condition
	system System
}

// RunIf wraps s so it only runs while cond holds.
func RunIf(cond Condition, s System) System {
	return conditional{cond: cond, system: s}
}

func (c conditional) Update(w *World) {
	if c.cond == nil || c.cond(w) {
		c.system.Update(w)
	}
}

// stateDriver applies pending transitions of one state type.
type stateDriver interface {
	enterInitial(w *World, s *Scheduler)
	transition(w *World, s *Scheduler)
}

// Scheduler runs startup systems once, then state transitions and the update
// systems on every tick. Commands are flushed after startup, after each
// transition chain and at the end of the tick.
type Scheduler struct {
	startup []System
	systems []System
	states  []stateDriver
	started bool
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

// AddStartup appends a system that runs once before the first tick.
func (s *Scheduler) AddStartup(system System) {
	if system == nil {
		return
	}
	s.startup = append(s.startup, system)
}

// Add appends a system to the per-tick update order.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs one tick.
func (s *Scheduler) Update(w *World) {
	if w == nil || w.Exiting() {
		return
	}
	if !s.started {
		s.started = true
		s.run(w, s.startup)
		for _, d := range s.states {
			if w.Exiting() {
				return
			}
			d.enterInitial(w, s)
		}
	}
	for _, d := range s.states {
		if w.Exiting() {
			return
		}
		d.transition(w, s)
	}
	s.run(w, s.systems)
	w.events.flush()
}

// run executes systems in order, stopping early when the world is exiting,
// and flushes commands afterwards.
func (s *Scheduler) run(w *World, systems []System) {
	for _, system := range systems {
		if w.Exiting() {
			return
		}
		if system == nil {
			continue
		}
		system.Update(w)
	}
	if w.Exiting() {
		return
	}
	if err := ApplyCommands(w); err != nil {
		w.Exit(err)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
