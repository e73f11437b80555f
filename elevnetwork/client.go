package elevnetwork

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	quic "github.com/quic-go/quic-go"

	"liftdispatch/elevfsm"
)

const (
	clientOpenStreamTimeout = 2 * time.Second
	clientReplyTimeout      = 3 * time.Second
)

// ControlClient talks to a ControlServer. Calls are serialized; each request
// waits for its reply before the next one is sent.
type ControlClient struct {
	mu        sync.Mutex
	conn   *quic.Conn
	stream *quic.Stream
}

func DialControl(ctx context.Context, addr string) (*ControlClient, error) {
	conn, st, err := dialControl(ctx, addr, clientOpenStreamTimeout)
	if err != nil {
		return nil, err
	}
	return &ControlClient{conn: conn, stream: st}, nil
}

func (c *ControlClient) Close() error {
	if c == nil {
		return nil
	}
	closeControl(c.conn, c.stream, "bye")
	return nil
}

func (c *ControlClient) RequestLift(start, dest int) (int, error) {
	reply, err := c.call(ControlMsg{Op: OP_REQUEST, Start: start, Dest: dest})
	if err != nil {
		return -1, err
	}
	return reply.LiftID, nil
}

func (c *ControlClient) Tick() error {
	_, err := c.call(ControlMsg{Op: OP_TICK})
	return err
}

func (c *ControlClient) GetLiftStates() ([]elevfsm.LiftStatus, error) {
	reply, err := c.call(ControlMsg{Op: OP_STATES})
	if err != nil {
		return nil, err
	}
	return reply.States, nil
}

func (c *ControlClient) GetLiftsStoppingOnFloor(floor int, code string) ([]int, error) {
	reply, err := c.call(ControlMsg{Op: OP_STOPPING, Floor: floor, Dir: code})
	if err != nil {
		return nil, err
	}
	if reply.Lifts == nil {
		return []int{}, nil
	}
	return reply.Lifts, nil
}

func (c *ControlClient) call(msg ControlMsg) (ControlReply, error) {
	if c == nil || c.stream == nil {
		return ControlReply{}, fmt.Errorf("control client is not connected")
	}
	msg.ID = uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := writeFrame(c.stream, msg, clientReplyTimeout); err != nil {
		return ControlReply{}, err
	}
	var reply ControlReply
	if err := readFrame(c.stream, &reply, clientReplyTimeout); err != nil {
		return ControlReply{}, err
	}
	return checkReply(msg.ID, reply)
}

// checkReply rejects replies meant for another request and turns a server
// error into an error value.
func checkReply(id string, reply ControlReply) (ControlReply, error) {
	if reply.ID != id {
		return reply, fmt.Errorf("reply id %q does not match request %q", reply.ID, id)
	}
	if reply.Error != "" {
		return reply, errors.New(reply.Error)
	}
	return reply, nil
}
