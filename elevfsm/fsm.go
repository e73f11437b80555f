// fsm.go
// Purpose: Per-state transition functions. Each takes the lift by value and
// returns the lift as it is after one tick, including its new state.
package elevfsm

type transition func(Lift) Lift

var transitions = map[State]transition{
	StateIdle:       fsm_onIdle,
	StateMovingUp:   fsm_onMovingUp,
	StateMovingDown: fsm_onMovingDown,
}

// Step advances the lift by exactly one tick.
func Step(l *Lift) {
	move, ok := transitions[l.State]
	if !ok {
		move = fsm_onIdle
	}
	*l = move(*l)
}

// nextTarget picks the floor an idle lift should head for.
func nextTarget(l Lift) (int, bool) {
	if len(l.Passengers) > 0 {
		return l.Passengers[0], true
	}
	if len(l.Pickups) > 0 {
		req := l.Pickups[0]
		if l.Floor == req.Start {
			return req.Dest, true
		}
		return req.Start, true
	}
	return 0, false
}

// An idle lift first serves its own floor, so a pickup accepted while parked
// at the start floor boards on the next tick instead of being skipped. If a
// target remains it departs in the same tick.
func fsm_onIdle(l Lift) Lift {
	l.UnloadPassengers()
	l.LoadPassengers()

	target, ok := nextTarget(l)
	if !ok {
		return l
	}
	switch {
	case target > l.Floor:
		l.State = StateMovingUp
		return fsm_onMovingUp(l)
	case target < l.Floor:
		l.State = StateMovingDown
		return fsm_onMovingDown(l)
	default:
		return l
	}
}

func fsm_onMovingUp(l Lift) Lift {
	l.Floor++
	l.UnloadPassengers()
	l.LoadPassengers()

	if !l.HasMoreStops(DirUp) {
		if l.HasMoreStops(DirDown) {
			l.State = StateMovingDown
		} else {
			l.State = StateIdle
		}
	}
	return l
}

func fsm_onMovingDown(l Lift) Lift {
	l.Floor--
	l.UnloadPassengers()
	l.LoadPassengers()

	if !l.HasMoreStops(DirDown) {
		if l.HasMoreStops(DirUp) {
			l.State = StateMovingUp
		} else {
			l.State = StateIdle
		}
	}
	return l
}
