// system.go
// Purpose: The fleet coordinator. Owns a fixed set of lifts, routes pickup
// requests to the cheapest eligible lift and advances every lift on Tick.
// All entry points take the same lock, so RequestLift never sees a lift
// halfway through a tick.
package elevsystem

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tiendc/go-deepcopy"

	"liftdispatch/elevassigner"
	"liftdispatch/elevfsm"
	"liftdispatch/logger"
)

// NoLift is returned by RequestLift when no lift can take the request.
const NoLift = elevassigner.NO_LIFT

type System struct {
	mu          sync.Mutex
	totalFloors int
	lifts       []elevfsm.Lift
	capacity    int
	cost        elevassigner.Cost
	log         *zerolog.Logger
}

type Option func(*System)

func WithCapacity(capacity int) Option {
	return func(s *System) { s.capacity = capacity }
}

func WithCost(cost elevassigner.Cost) Option {
	return func(s *System) {
		if cost != nil {
			s.cost = cost
		}
	}
}

func WithLogger(log *zerolog.Logger) Option {
	return func(s *System) {
		if log != nil {
			s.log = log
		}
	}
}

func New(opts ...Option) *System {
	s := &System{
		capacity: elevfsm.DEFAULT_CAPACITY,
		cost:     elevassigner.NearestEligible,
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init builds a fresh fleet, replacing any previous one.
func (s *System) Init(floors, liftCount int) error {
	if floors < 1 {
		return fmt.Errorf("init with %d floors: %w", floors, ErrInvalidFloorCount)
	}
	if liftCount < 1 {
		return fmt.Errorf("init with %d lifts: %w", liftCount, ErrInvalidLiftCount)
	}
	if s.capacity < 1 {
		return fmt.Errorf("init with capacity %d: %w", s.capacity, ErrInvalidCapacity)
	}

	lifts := make([]elevfsm.Lift, liftCount)
	for id := range lifts {
		lifts[id] = elevfsm.NewLift(id, s.capacity)
	}

	s.mu.Lock()
	s.totalFloors = floors
	s.lifts = lifts
	s.mu.Unlock()

	s.log.Info().Int("floors", floors).Int("lifts", liftCount).Int("capacity", s.capacity).Msg("elevator system initialized")
	return nil
}

func (s *System) Floors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalFloors
}

// RequestLift assigns the trip to one lift and returns its id, or NoLift
// with a nil error when every lift is ineligible.
func (s *System) RequestLift(start, dest int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lifts) == 0 {
		return NoLift, ErrNotInitialized
	}
	if err := s.checkFloor(start); err != nil {
		return NoLift, fmt.Errorf("start: %w", err)
	}
	if err := s.checkFloor(dest); err != nil {
		return NoLift, fmt.Errorf("dest: %w", err)
	}
	if start == dest {
		return NoLift, fmt.Errorf("request %d->%d: %w", start, dest, ErrSameFloor)
	}

	req := elevfsm.NewRequest(start, dest)
	best := elevassigner.Choose(s.lifts, req, s.cost)
	if best == NoLift {
		s.log.Debug().Int("start", start).Int("dest", dest).Msg("no eligible lift")
		return NoLift, nil
	}

	s.lifts[best].AddRequest(start, dest)
	s.log.Debug().
		Int("lift", s.lifts[best].ID).
		Int("start", start).
		Int("dest", dest).
		Str("at", s.lifts[best].Status().String()).
		Msg("request assigned")
	return s.lifts[best].ID, nil
}

// Tick advances every lift by one step.
func (s *System) Tick() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lifts) == 0 {
		return ErrNotInitialized
	}
	for i := range s.lifts {
		before := s.lifts[i].State
		elevfsm.Step(&s.lifts[i])
		if after := s.lifts[i].State; after != before {
			s.log.Debug().
				Int("lift", s.lifts[i].ID).
				Int("floor", s.lifts[i].Floor).
				Str("from", before.String()).
				Str("to", after.String()).
				Msg("state change")
		}
	}
	return nil
}

func (s *System) GetLiftStates() ([]elevfsm.LiftStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lifts) == 0 {
		return nil, ErrNotInitialized
	}
	states := make([]elevfsm.LiftStatus, len(s.lifts))
	for i, l := range s.lifts {
		states[i] = l.Status()
	}
	return states, nil
}

// GetLiftsStoppingOnFloor lists, in fleet order, the lifts that still owe a
// visit to floor and currently travel in the direction given by code.
func (s *System) GetLiftsStoppingOnFloor(floor int, code string) ([]int, error) {
	if _, err := elevfsm.ParseDirection(code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lifts) == 0 {
		return nil, ErrNotInitialized
	}
	if err := s.checkFloor(floor); err != nil {
		return nil, err
	}
	ids := []int{}
	for _, l := range s.lifts {
		if l.WillStopAt(floor, code) {
			ids = append(ids, l.ID)
		}
	}
	return ids, nil
}

// Snapshot returns deep copies of every lift.
func (s *System) Snapshot() ([]elevfsm.Lift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lifts) == 0 {
		return nil, ErrNotInitialized
	}
	var out []elevfsm.Lift
	if err := deepcopy.Copy(&out, &s.lifts); err != nil {
		return nil, fmt.Errorf("copy fleet: %w", err)
	}
	return out, nil
}

// Idle reports whether every lift has finished all of its work.
func (s *System) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lifts {
		if !l.Idle() {
			return false
		}
	}
	return true
}

func (s *System) checkFloor(floor int) error {
	if floor < 0 || floor >= s.totalFloors {
		return fmt.Errorf("floor %d not in [0, %d): %w", floor, s.totalFloors, ErrFloorOutOfRange)
	}
	return nil
}
