package elevfsm

import "sort"

// Request is one pickup/drop-off pair. Build it with NewRequest so the
// direction always agrees with the two floors.
type Request struct {
	Start     int       `json:"start"`
	Dest      int       `json:"dest"`
	Direction Direction `json:"direction"`
}

func NewRequest(start, dest int) Request {
	dirn := DirDown
	if dest > start {
		dirn = DirUp
	}
	return Request{Start: start, Dest: dest, Direction: dirn}
}

// StopSet holds the floors a lift still owes a visit.
type StopSet map[int]struct{}

func (s StopSet) Add(floor int) {
	s[floor] = struct{}{}
}

func (s StopSet) Has(floor int) bool {
	_, ok := s[floor]
	return ok
}

// Sorted returns the floors in ascending order.
func (s StopSet) Sorted() []int {
	floors := make([]int, 0, len(s))
	for f := range s {
		floors = append(floors, f)
	}
	sort.Ints(floors)
	return floors
}

func stops_above(s StopSet, floor int) bool {
	for f := range s {
		if f > floor {
			return true
		}
	}
	return false
}

func stops_below(s StopSet, floor int) bool {
	for f := range s {
		if f < floor {
			return true
		}
	}
	return false
}

// rebuildStops derives the stop set from what is onboard and what is queued.
func rebuildStops(passengers []int, pickups []Request) StopSet {
	stops := make(StopSet, len(passengers)+2*len(pickups))
	for _, dest := range passengers {
		stops.Add(dest)
	}
	for _, req := range pickups {
		stops.Add(req.Start)
		stops.Add(req.Dest)
	}
	return stops
}
