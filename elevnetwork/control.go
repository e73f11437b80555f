// control.go
// Purpose: JSON control protocol spoken over the QUIC stream. One ControlMsg
// per frame from the client, one ControlReply per frame back.
package elevnetwork

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"liftdispatch/elevfsm"
)

const (
	OP_REQUEST  = "request"
	OP_TICK     = "tick"
	OP_STATES   = "states"
	OP_STOPPING = "stopping"
)

type ControlMsg struct {
	ID    string `json:"id"`
	Op    string `json:"op"`
	Start int    `json:"start,omitempty"`
	Dest  int    `json:"dest,omitempty"`
	Floor int    `json:"floor,omitempty"`
	Dir   string `json:"dir,omitempty"`
}

type ControlReply struct {
	ID     string               `json:"id"`
	LiftID int                  `json:"liftId"`
	States []elevfsm.LiftStatus `json:"states,omitempty"`
	Lifts  []int                `json:"lifts,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Dispatcher is the part of the elevator system the control server drives.
type Dispatcher interface {
	RequestLift(start, dest int) (int, error)
	Tick() error
	GetLiftStates() ([]elevfsm.LiftStatus, error)
	GetLiftsStoppingOnFloor(floor int, code string) ([]int, error)
}

// errBadFrame marks a frame that arrived whole but is not valid JSON for the
// expected message. The stream itself is still usable.
var errBadFrame = errors.New("malformed control frame")

// CONTROL_FRAME_SIZE is the size of every frame on the stream. A message is
// JSON followed by zero padding.
const CONTROL_FRAME_SIZE = 1024

// writeFrame sends v as one padded frame. A timeout of 0 means no deadline.
func writeFrame(w io.Writer, v any, timeout time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if len(payload) > CONTROL_FRAME_SIZE {
		return fmt.Errorf("message too large: %d > %d", len(payload), CONTROL_FRAME_SIZE)
	}
	frame := make([]byte, CONTROL_FRAME_SIZE)
	copy(frame, payload)

	if d, ok := w.(interface{ SetWriteDeadline(time.Time) error }); ok && timeout > 0 {
		_ = d.SetWriteDeadline(time.Now().Add(timeout))
		defer d.SetWriteDeadline(time.Time{})
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// readFrame blocks for one whole frame and decodes it into v. A clean end of
// stream before the frame starts is returned as io.EOF.
func readFrame(r io.Reader, v any, timeout time.Duration) error {
	if d, ok := r.(interface{ SetReadDeadline(time.Time) error }); ok && timeout > 0 {
		_ = d.SetReadDeadline(time.Now().Add(timeout))
		defer d.SetReadDeadline(time.Time{})
	}

	frame := make([]byte, CONTROL_FRAME_SIZE)
	if _, err := io.ReadFull(r, frame); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("read frame: %w", err)
	}
	if err := json.Unmarshal(bytes.TrimRight(frame, "\x00"), v); err != nil {
		return fmt.Errorf("%w: %v", errBadFrame, err)
	}
	return nil
}
