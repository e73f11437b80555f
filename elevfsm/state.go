// state.go
// Purpose: Direction codes and the lift state tag. The string forms are the
// ones reported to callers ("I", "U", "D") and used on the control protocol.
package elevfsm

import "fmt"

type Direction int

const (
	DirIdle Direction = iota
	DirUp
	DirDown
)

// direction codes
const (
	CODE_IDLE = "I"
	CODE_UP   = "U"
	CODE_DOWN = "D"
)

func (d Direction) Code() string {
	switch d {
	case DirUp:
		return CODE_UP
	case DirDown:
		return CODE_DOWN
	default:
		return CODE_IDLE
	}
}

func (d Direction) String() string {
	switch d {
	case DirIdle:
		return "idle"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "undefined"
	}
}

// ParseDirection accepts the one-letter codes, case-sensitive.
func ParseDirection(code string) (Direction, error) {
	switch code {
	case CODE_IDLE:
		return DirIdle, nil
	case CODE_UP:
		return DirUp, nil
	case CODE_DOWN:
		return DirDown, nil
	default:
		return DirIdle, fmt.Errorf("unknown direction code %q", code)
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.Code()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// State is the motion state of one lift.
type State int

const (
	StateIdle State = iota
	StateMovingUp
	StateMovingDown
)

func (s State) Direction() Direction {
	switch s {
	case StateMovingUp:
		return DirUp
	case StateMovingDown:
		return DirDown
	default:
		return DirIdle
	}
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateMovingUp:
		return "MovingUp"
	case StateMovingDown:
		return "MovingDown"
	default:
		return "UNDEFINED"
	}
}

// LiftStatus is the read-only (floor, direction) projection of a lift.
type LiftStatus struct {
	Floor     int       `json:"floor"`
	Direction Direction `json:"direction"`
}

func (ls LiftStatus) String() string {
	return fmt.Sprintf("%d-%s", ls.Floor, ls.Direction.Code())
}
