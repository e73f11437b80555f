package elevnetwork

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	quic "github.com/quic-go/quic-go"
	"github.com/rs/zerolog"

	"liftdispatch/logger"
)

const replyWriteTimeout = 2 * time.Second

type ControlServer struct {
	dispatcher Dispatcher
	log        *zerolog.Logger
}

func NewControlServer(d Dispatcher) *ControlServer {
	return &ControlServer{
		dispatcher: d,
		log:        logger.GetLogger(),
	}
}

// Handle executes one control message against the dispatcher. It never
// touches the network.
func (cs *ControlServer) Handle(msg ControlMsg) ControlReply {
	reply := ControlReply{ID: msg.ID, LiftID: -1}
	var err error

	switch msg.Op {
	case OP_REQUEST:
		reply.LiftID, err = cs.dispatcher.RequestLift(msg.Start, msg.Dest)
	case OP_TICK:
		err = cs.dispatcher.Tick()
	case OP_STATES:
		reply.States, err = cs.dispatcher.GetLiftStates()
	case OP_STOPPING:
		reply.Lifts, err = cs.dispatcher.GetLiftsStoppingOnFloor(msg.Floor, msg.Dir)
	default:
		err = fmt.Errorf("unknown op %q", msg.Op)
	}

	if err != nil {
		reply.Error = err.Error()
		cs.log.Warn().Str("id", msg.ID).Str("op", msg.Op).Err(err).Msg("control request failed")
	}
	return reply
}

// Serve accepts control connections until ctx is cancelled.
func (cs *ControlServer) Serve(ctx context.Context, listenAddr string) error {
	cs.log.Info().Str("addr", listenAddr).Msg("control server listening")
	return listenControl(ctx, listenAddr, func(conn *quic.Conn) {
		cs.handleConn(ctx, conn)
	})
}

// handleConn answers frames on the first stream of conn until the client
// closes it.
func (cs *ControlServer) handleConn(ctx context.Context, conn *quic.Conn) {
	st, err := conn.AcceptStream(ctx)
	if err != nil {
		return
	}
	defer closeControl(conn, st, "bye")

	cs.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("control client connected")

	for ctx.Err() == nil {
		var msg ControlMsg
		err := readFrame(st, &msg, 0)
		switch {
		case err == nil:
			cs.reply(st, cs.Handle(msg))
		case errors.Is(err, errBadFrame):
			cs.reply(st, ControlReply{LiftID: -1, Error: err.Error()})
		case err == io.EOF:
			return
		default:
			cs.log.Debug().Err(err).Msg("control connection closed")
			return
		}
	}
}

func (cs *ControlServer) reply(st *quic.Stream, reply ControlReply) {
	err := writeFrame(st, reply, replyWriteTimeout)
	if err != nil && reply.Error == "" {
		err = writeFrame(st, ControlReply{ID: reply.ID, LiftID: -1, Error: err.Error()}, replyWriteTimeout)
	}
	if err != nil {
		cs.log.Warn().Err(err).Msg("control reply not sent")
	}
}
