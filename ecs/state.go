package ecs

// State holds the current value of a state machine plus a pending
// transition. It is stored as a world resource.
type State[S comparable] struct {
	current S
	next    *S
}

// Get returns the current state.
func (s *State[S]) Get() S {
	return s.current
}

// Set requests a transition, applied at the start of the next tick. A request
// for the current state is ignored.
func (s *State[S]) Set(next S) {
	s.next = &next
}

type stateSystems[S comparable] struct {
	initial S
	onEnter map[S][]System
	onExit  map[S][]System
}

func (d *stateSystems[S]) enterInitial(w *World, s *Scheduler) {
	if _, ok := GetResource[State[S]](w); !ok {
		InsertResource(w, &State[S]{current: d.initial})
	}
	s.run(w, d.onEnter[d.initial])
}

func (d *stateSystems[S]) transition(w *World, s *Scheduler) {
	st, ok := GetResource[State[S]](w)
	if !ok || st.next == nil {
		return
	}
	next := *st.next
	st.next = nil
	if next == st.current {
		return
	}
	s.run(w, d.onExit[st.current])
	if w.Exiting() {
		return
	}
	st.current = next
	s.run(w, d.onEnter[next])
}

func driverFor[S comparable](s *Scheduler) *stateSystems[S] {
	for _, d := range s.states {
		if typed, ok := d.(*stateSystems[S]); ok {
			return typed
		}
	}
	d := &stateSystems[S]{
		onEnter: make(map[S][]System),
		onExit:  make(map[S][]System),
	}
	s.states = append(s.states, d)
	return d
}

// AddState registers a state machine of type S starting at initial and
// inserts its resource into w.
func AddState[S comparable](s *Scheduler, w *World, initial S) {
	d := driverFor[S](s)
	d.initial = initial
	InsertResource(w, &State[S]{current: initial})
}

// OnEnter appends systems that run, in order, once each time state is
// entered. The initial state counts as entered on the first tick.
func OnEnter[S comparable](s *Scheduler, state S, systems ...System) {
	d := driverFor[S](s)
	d.onEnter[state] = append(d.onEnter[state], systems...)
}

// OnExit appends systems that run once each time state is left.
func OnExit[S comparable](s *Scheduler, state S, systems ...System) {
	d := driverFor[S](s)
	d.onExit[state] = append(d.onExit[state], systems...)
}

// InState is a Condition that holds while the current state equals state.
func InState[S comparable](state S) Condition {
	return func(w *World) bool {
		cur, ok := CurrentState[S](w)
		return ok && cur == state
	}
}

// CurrentState returns the current value of the S state machine.
func CurrentState[S comparable](w *World) (S, bool) {
	st, ok := GetResource[State[S]](w)
	if !ok {
		var zero S
		return zero, false
	}
	return st.current, true
}

// SetNextState requests a transition of the S state machine.
func SetNextState[S comparable](w *World, next S) {
	if st, ok := GetResource[State[S]](w); ok {
		st.Set(next)
	}
}
