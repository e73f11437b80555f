package elevsystem

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"liftdispatch/elevassigner"
	"liftdispatch/elevfsm"
	"liftdispatch/logger"
)

func newTestSystem(t *testing.T, floors, lifts int, opts ...Option) *System {
	t.Helper()
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	s := New(opts...)
	if err := s.Init(floors, lifts); err != nil {
		t.Fatalf("Init(%d, %d): %v", floors, lifts, err)
	}
	return s
}

func mustRequest(t *testing.T, s *System, start, dest int) int {
	t.Helper()
	id, err := s.RequestLift(start, dest)
	if err != nil {
		t.Fatalf("RequestLift(%d, %d): %v", start, dest, err)
	}
	return id
}

func mustTick(t *testing.T, s *System, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
}

func stateStrings(t *testing.T, s *System) []string {
	t.Helper()
	states, err := s.GetLiftStates()
	if err != nil {
		t.Fatalf("GetLiftStates: %v", err)
	}
	out := make([]string, len(states))
	for i, st := range states {
		out[i] = st.String()
	}
	return out
}

func TestInitCreatesIdleFleet(t *testing.T) {
	s := newTestSystem(t, 10, 3)
	expected := []string{"0-I", "0-I", "0-I"}
	if got := stateStrings(t, s); !reflect.DeepEqual(got, expected) {
		t.Errorf("states = %v, expected %v", got, expected)
	}
	if s.Floors() != 10 {
		t.Errorf("Floors() = %d, expected 10", s.Floors())
	}
}

func TestReinitReplacesFleet(t *testing.T) {
	s := newTestSystem(t, 10, 3)
	mustRequest(t, s, 0, 5)
	mustTick(t, s, 2)
	if err := s.Init(6, 2); err != nil {
		t.Fatalf("re-Init: %v", err)
	}
	expected := []string{"0-I", "0-I"}
	if got := stateStrings(t, s); !reflect.DeepEqual(got, expected) {
		t.Errorf("states after re-Init = %v, expected %v", got, expected)
	}
	if _, err := s.RequestLift(0, 8); !errors.Is(err, ErrFloorOutOfRange) {
		t.Errorf("RequestLift(0, 8) with 6 floors: err = %v, expected ErrFloorOutOfRange", err)
	}
}

func TestInitRejectsBadArguments(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	if err := New().Init(0, 3); !errors.Is(err, ErrInvalidFloorCount) {
		t.Errorf("Init(0, 3) = %v, expected ErrInvalidFloorCount", err)
	}
	if err := New().Init(10, 0); !errors.Is(err, ErrInvalidLiftCount) {
		t.Errorf("Init(10, 0) = %v, expected ErrInvalidLiftCount", err)
	}
	if err := New(WithCapacity(-1)).Init(10, 3); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("Init with capacity -1 = %v, expected ErrInvalidCapacity", err)
	}
}

func TestCallsBeforeInit(t *testing.T) {
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	s := New()
	if _, err := s.RequestLift(0, 1); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RequestLift before Init: %v", err)
	}
	if err := s.Tick(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Tick before Init: %v", err)
	}
	if _, err := s.GetLiftStates(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetLiftStates before Init: %v", err)
	}
	if _, err := s.GetLiftsStoppingOnFloor(0, elevfsm.CODE_UP); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetLiftsStoppingOnFloor before Init: %v", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Snapshot before Init: %v", err)
	}
}

func TestRequestLiftContractViolations(t *testing.T) {
	s := newTestSystem(t, 10, 2)
	cases := []struct {
		start, dest int
		expected    error
	}{
		{-1, 3, ErrFloorOutOfRange},
		{3, 10, ErrFloorOutOfRange},
		{10, 3, ErrFloorOutOfRange},
		{4, 4, ErrSameFloor},
	}
	for _, c := range cases {
		id, err := s.RequestLift(c.start, c.dest)
		if !errors.Is(err, c.expected) {
			t.Errorf("RequestLift(%d, %d) err = %v, expected %v", c.start, c.dest, err, c.expected)
		}
		if id != NoLift {
			t.Errorf("RequestLift(%d, %d) id = %d, expected NoLift", c.start, c.dest, id)
		}
	}
	snap, _ := s.Snapshot()
	for _, l := range snap {
		if len(l.Pickups) != 0 {
			t.Errorf("rejected request mutated lift %d: %v", l.ID, l)
		}
	}
}

func TestStoppingOnFloorRejectsBadCode(t *testing.T) {
	s := newTestSystem(t, 10, 2)
	if _, err := s.GetLiftsStoppingOnFloor(5, "X"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("code X: err = %v, expected ErrInvalidDirection", err)
	}
	if _, err := s.GetLiftsStoppingOnFloor(12, elevfsm.CODE_UP); !errors.Is(err, ErrFloorOutOfRange) {
		t.Errorf("floor 12: err = %v, expected ErrFloorOutOfRange", err)
	}
}

// 3 lifts, 10 floors: the assigned lift reads 2-U after two ticks.
func TestScenarioTwoTicksUp(t *testing.T) {
	s := newTestSystem(t, 10, 3)
	id := mustRequest(t, s, 0, 5)
	if id == NoLift {
		t.Fatalf("RequestLift(0, 5) = NoLift")
	}
	mustTick(t, s, 2)
	if got := stateStrings(t, s)[id]; got != "2-U" {
		t.Errorf("lift %d state = %s, expected 2-U", id, got)
	}

	// The busy lift has passed floor 0, so the next identical request must
	// go to another, idle lift.
	second := mustRequest(t, s, 0, 5)
	if second == NoLift || second == id {
		t.Errorf("second RequestLift(0, 5) = %d, expected an idle lift other than %d", second, id)
	}
}

func TestScenarioMovingDownIneligibleForUp(t *testing.T) {
	s := newTestSystem(t, 10, 2)
	s.lifts[0].Floor = 7
	s.lifts[0].State = elevfsm.StateMovingDown
	s.lifts[0].Passengers = []int{1}
	s.lifts[0].Stops = elevfsm.StopSet{1: {}}

	if got := mustRequest(t, s, 6, 8); got != 1 {
		t.Errorf("RequestLift(6, 8) = %d, expected lift 1", got)
	}
}

func TestScenarioIdleAtStartFloor(t *testing.T) {
	s := newTestSystem(t, 10, 1)
	s.lifts[0].Floor = 1

	id := mustRequest(t, s, 1, 3)
	mustTick(t, s, 2)
	// the arrival tick drops the rider and leaves the lift idle
	if got := stateStrings(t, s)[id]; got != "3-I" {
		t.Errorf("after 2 ticks: %s, expected 3-I", got)
	}
	mustTick(t, s, 1)
	if got := stateStrings(t, s)[id]; got != "3-I" {
		t.Errorf("after 3 ticks: %s, expected 3-I", got)
	}
	if !s.Idle() {
		t.Errorf("system not idle after the only trip finished")
	}
}

func TestScenarioStoppingOnFloor(t *testing.T) {
	s := newTestSystem(t, 10, 2)
	id := mustRequest(t, s, 0, 5)

	for tick := 1; tick <= 4; tick++ {
		mustTick(t, s, 1)
		ids, err := s.GetLiftsStoppingOnFloor(5, elevfsm.CODE_UP)
		if err != nil {
			t.Fatalf("GetLiftsStoppingOnFloor: %v", err)
		}
		if !reflect.DeepEqual(ids, []int{id}) {
			t.Errorf("tick %d: stopping on 5 going up = %v, expected [%d]", tick, ids, id)
		}
	}

	mustTick(t, s, 1)
	ids, _ := s.GetLiftsStoppingOnFloor(5, elevfsm.CODE_UP)
	if len(ids) != 0 {
		t.Errorf("after arrival: stopping on 5 going up = %v, expected none", ids)
	}
	if got := stateStrings(t, s)[id]; got != "5-I" {
		t.Errorf("after arrival: %s, expected 5-I", got)
	}
}

func TestNoEligibleLift(t *testing.T) {
	s := newTestSystem(t, 10, 1)
	mustRequest(t, s, 0, 9)
	mustTick(t, s, 3)

	before, _ := s.Snapshot()
	id, err := s.RequestLift(1, 4)
	if err != nil {
		t.Fatalf("RequestLift(1, 4): %v", err)
	}
	if id != NoLift {
		t.Errorf("RequestLift(1, 4) = %d, expected NoLift (lift passed floor 1)", id)
	}
	after, _ := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("NoLift result mutated the fleet")
	}
}

func TestTieGoesToLowestID(t *testing.T) {
	s := newTestSystem(t, 10, 3)
	if got := mustRequest(t, s, 4, 7); got != 0 {
		t.Errorf("RequestLift(4, 7) on an all-idle fleet = %d, expected 0", got)
	}
}

func TestGetLiftStatesIdempotent(t *testing.T) {
	s := newTestSystem(t, 10, 3)
	mustRequest(t, s, 2, 8)
	mustRequest(t, s, 9, 1)
	mustTick(t, s, 3)
	first := stateStrings(t, s)
	second := stateStrings(t, s)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("GetLiftStates changed without a tick: %v then %v", first, second)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newTestSystem(t, 10, 1)
	mustRequest(t, s, 3, 6)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap[0].Pickups = nil
	snap[0].Stops.Add(9)

	again, _ := s.Snapshot()
	if len(again[0].Pickups) != 1 || again[0].Stops.Has(9) {
		t.Errorf("editing a snapshot changed the fleet: %v", again[0])
	}
}

func TestWithCostPolicy(t *testing.T) {
	s := newTestSystem(t, 10, 2, WithCost(elevassigner.LeastLoaded))
	first := mustRequest(t, s, 0, 5)
	second := mustRequest(t, s, 0, 6)
	if first == second {
		t.Errorf("least-loaded put both requests on lift %d", first)
	}
}

// Randomized run checking the fleet-wide properties: capacity is never
// exceeded, no lift moves more than one floor per tick, NoLift is returned
// exactly when no lift is eligible, and the fleet always drains to idle.
func TestRandomizedProperties(t *testing.T) {
	const floors = 12
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		s := newTestSystem(t, floors, 3, WithCapacity(2))

		for step := 0; step < 60; step++ {
			if rng.Intn(3) == 0 {
				start := rng.Intn(floors)
				dest := rng.Intn(floors - 1)
				if dest >= start {
					dest++
				}
				snap, _ := s.Snapshot()
				anyEligible := false
				for _, l := range snap {
					anyEligible = anyEligible || l.IsEligible(start, dest)
				}
				id := mustRequest(t, s, start, dest)
				if (id == NoLift) == anyEligible {
					t.Fatalf("round %d: RequestLift(%d, %d) = %d with anyEligible=%v", round, start, dest, id, anyEligible)
				}
			}

			before, _ := s.Snapshot()
			mustTick(t, s, 1)
			after, _ := s.Snapshot()
			for i := range after {
				if d := after[i].Floor - before[i].Floor; d > 1 || d < -1 {
					t.Fatalf("round %d: lift %d moved %d floors in one tick", round, i, d)
				}
				if len(after[i].Passengers) > after[i].Capacity {
					t.Fatalf("round %d: lift %d over capacity: %v", round, i, after[i])
				}
				if f := after[i].Floor; f < 0 || f >= floors {
					t.Fatalf("round %d: lift %d left the shaft: floor %d", round, i, f)
				}
			}
		}

		for i := 0; i < 5000 && !s.Idle(); i++ {
			mustTick(t, s, 1)
		}
		if !s.Idle() {
			snap, _ := s.Snapshot()
			t.Fatalf("round %d: fleet did not drain: %v", round, snap)
		}
	}
}
