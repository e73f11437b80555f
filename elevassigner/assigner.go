package elevassigner

import "liftdispatch/elevfsm"

// NO_LIFT is returned when no lift in the fleet is eligible.
const NO_LIFT = -1

// Choose returns the index of the cheapest eligible lift. Ties go to the
// lowest index.
func Choose(lifts []elevfsm.Lift, req elevfsm.Request, cost Cost) int {
	if cost == nil {
		cost = NearestEligible
	}
	best := NO_LIFT
	bestCost := 0
	for i, lift := range lifts {
		c, eligible := cost(lift, req)
		if !eligible {
			continue
		}
		if best == NO_LIFT || c < bestCost {
			best = i
			bestCost = c
		}
	}
	return best
}
