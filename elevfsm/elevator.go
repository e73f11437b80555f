package elevfsm

import "fmt"

const DEFAULT_CAPACITY = 10

// Lift is one car of the fleet. Floor and State only change through Step.
type Lift struct {
	ID         int
	Floor      int
	Capacity   int
	Passengers []int     // destination floor per onboard passenger, boarding order
	Pickups    []Request // accepted, not yet boarded
	Stops      StopSet
	State      State
}

func NewLift(id, capacity int) Lift {
	return Lift{
		ID:         id,
		Floor:      0,
		Capacity:   capacity,
		Passengers: []int{},
		Pickups:    []Request{},
		Stops:      make(StopSet),
		State:      StateIdle,
	}
}

func (l Lift) Direction() Direction {
	return l.State.Direction()
}

func (l Lift) Status() LiftStatus {
	return LiftStatus{Floor: l.Floor, Direction: l.Direction()}
}

// IsEligible reports whether the lift can take a pickup at start without
// reversing or overshooting it. Idle lifts take anything.
func (l Lift) IsEligible(start, dest int) bool {
	reqDirn := NewRequest(start, dest).Direction
	switch l.Direction() {
	case DirIdle:
		return true
	case DirUp:
		return reqDirn == DirUp && l.Floor <= start
	case DirDown:
		return reqDirn == DirDown && l.Floor >= start
	default:
		return false
	}
}

// EstimatedTimeToReach ignores the stops made on the way.
func (l Lift) EstimatedTimeToReach(start int) int {
	if l.Floor > start {
		return l.Floor - start
	}
	return start - l.Floor
}

func (l *Lift) AddRequest(start, dest int) {
	if l.Stops == nil {
		l.Stops = make(StopSet)
	}
	l.Pickups = append(l.Pickups, NewRequest(start, dest))
	l.Stops.Add(start)
	l.Stops.Add(dest)
}

func (l *Lift) UnloadPassengers() {
	remaining := make([]int, 0, len(l.Passengers))
	for _, dest := range l.Passengers {
		if dest != l.Floor {
			remaining = append(remaining, dest)
		}
	}
	l.Passengers = remaining
	l.Stops = rebuildStops(l.Passengers, l.Pickups)
}

// LoadPassengers boards pickups waiting at the current floor in queue order.
// Whatever does not fit stays queued for the next pass.
func (l *Lift) LoadPassengers() {
	passengers := append(make([]int, 0, l.Capacity), l.Passengers...)
	waiting := make([]Request, 0, len(l.Pickups))
	for _, req := range l.Pickups {
		if req.Start == l.Floor && len(passengers) < l.Capacity {
			passengers = append(passengers, req.Dest)
			continue
		}
		waiting = append(waiting, req)
	}
	l.Passengers = passengers
	l.Pickups = waiting
	l.Stops = rebuildStops(l.Passengers, l.Pickups)
}

func (l Lift) HasMoreStops(dirn Direction) bool {
	switch dirn {
	case DirUp:
		return stops_above(l.Stops, l.Floor)
	case DirDown:
		return stops_below(l.Stops, l.Floor)
	default:
		return false
	}
}

// WillStopAt matches the direction code exactly, so an idle lift only
// matches "I".
func (l Lift) WillStopAt(floor int, code string) bool {
	return l.Stops.Has(floor) && l.Direction().Code() == code
}

// Idle reports a lift with nothing left to do.
func (l Lift) Idle() bool {
	return l.State == StateIdle && len(l.Stops) == 0 && len(l.Passengers) == 0 && len(l.Pickups) == 0
}

func (l Lift) String() string {
	return fmt.Sprintf("lift-%d{%s state=%s passengers=%v pickups=%d stops=%v}",
		l.ID, l.Status(), l.State, l.Passengers, len(l.Pickups), l.Stops.Sorted())
}
