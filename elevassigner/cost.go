// cost.go
// Purpose: Assignment policies. A policy looks at one lift and one request and
// either rules the lift out or returns a cost; lower is better.
package elevassigner

import (
	"fmt"
	"math"

	"liftdispatch/elevfsm"

	"github.com/tiendc/go-deepcopy"
)

// Cost must not mutate the lift it is given.
type Cost func(lift elevfsm.Lift, req elevfsm.Request) (cost int, eligible bool)

const (
	POLICY_NEAREST      = "nearest"
	POLICY_LEAST_LOADED = "least-loaded"
	POLICY_SIMULATED    = "simulated"
)

// SIM_TICK_LIMIT bounds the simulation in SimulatedArrival.
const SIM_TICK_LIMIT = 1000

// LOAD_WEIGHT is the cost of one queued rider in LeastLoaded. Distances are
// capped below it so a lighter lift always wins.
const LOAD_WEIGHT = math.MaxInt32

func ByName(name string) (Cost, error) {
	switch name {
	case POLICY_NEAREST, "":
		return NearestEligible, nil
	case POLICY_LEAST_LOADED:
		return LeastLoaded, nil
	case POLICY_SIMULATED:
		return SimulatedArrival, nil
	default:
		return nil, fmt.Errorf("unknown assignment policy %q", name)
	}
}

// NearestEligible is the straight-line distance to the pickup floor.
func NearestEligible(lift elevfsm.Lift, req elevfsm.Request) (int, bool) {
	if !lift.IsEligible(req.Start, req.Dest) {
		return 0, false
	}
	return lift.EstimatedTimeToReach(req.Start), true
}

// LeastLoaded prefers the lift with the fewest riders and queued pickups and
// breaks ties on distance.
func LeastLoaded(lift elevfsm.Lift, req elevfsm.Request) (int, bool) {
	if !lift.IsEligible(req.Start, req.Dest) {
		return 0, false
	}
	load := len(lift.Passengers) + len(lift.Pickups)
	distance := min(lift.EstimatedTimeToReach(req.Start), LOAD_WEIGHT-1)
	return load*LOAD_WEIGHT + distance, true
}

// SimulatedArrival runs a copy of the lift forward until the request would
// board and counts the ticks, so stops on the way are included.
func SimulatedArrival(lift elevfsm.Lift, req elevfsm.Request) (int, bool) {
	if !lift.IsEligible(req.Start, req.Dest) {
		return 0, false
	}

	var sim elevfsm.Lift
	if err := deepcopy.Copy(&sim, &lift); err != nil {
		// fall back to the plain distance rather than rejecting the lift
		return lift.EstimatedTimeToReach(req.Start), true
	}

	sim.AddRequest(req.Start, req.Dest)

	// The new request is queued last and nothing else is queued during the
	// run. Pickups at a floor board in queue order, so it is the last of its
	// identical twins to board: it is aboard once none of them are left.
	for ticks := 0; ticks < SIM_TICK_LIMIT; ticks++ {
		if countQueued(sim.Pickups, req) == 0 {
			return ticks, true
		}
		elevfsm.Step(&sim)
	}
	return SIM_TICK_LIMIT, true
}

func countQueued(pickups []elevfsm.Request, req elevfsm.Request) int {
	n := 0
	for _, p := range pickups {
		if p.Start == req.Start && p.Dest == req.Dest {
			n++
		}
	}
	return n
}
