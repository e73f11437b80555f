package elevnetwork

import (
	"context"
	"net"
	"reflect"
	"testing"
	"time"

	"liftdispatch/elevfsm"
	"liftdispatch/elevsystem"
)

func freeUDPAddr(t *testing.T) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve udp port: %v", err)
	}
	addr := pc.LocalAddr().String()
	pc.Close()
	return addr
}

// dialUntilUp retries while the server goroutine is still binding its socket.
func dialUntilUp(t *testing.T, addr string) *ControlClient {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		client, err := DialControl(ctx, addr)
		cancel()
		if err == nil {
			return client
		}
		if time.Now().After(deadline) {
			t.Fatalf("DialControl %s: %v", addr, err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestControlOverQUIC(t *testing.T) {
	cs := newTestServer(t)
	addr := freeUDPAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- cs.Serve(ctx, addr) }()

	client := dialUntilUp(t, addr)

	lift, err := client.RequestLift(0, 5)
	if err != nil {
		t.Fatalf("RequestLift: %v", err)
	}
	if lift != 0 {
		t.Errorf("RequestLift = %d, expected lift 0", lift)
	}

	for i := 0; i < 2; i++ {
		if err := client.Tick(); err != nil {
			t.Fatalf("Tick %d: %v", i+1, err)
		}
	}

	states, err := client.GetLiftStates()
	if err != nil {
		t.Fatalf("GetLiftStates: %v", err)
	}
	codes := make([]string, len(states))
	for i, st := range states {
		codes[i] = st.String()
	}
	if !reflect.DeepEqual(codes, []string{"2-U", "0-I", "0-I"}) {
		t.Errorf("states = %v, expected [2-U 0-I 0-I]", codes)
	}

	ids, err := client.GetLiftsStoppingOnFloor(5, elevfsm.CODE_UP)
	if err != nil {
		t.Fatalf("GetLiftsStoppingOnFloor: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{0}) {
		t.Errorf("stopping on 5 going up = %v, expected [0]", ids)
	}

	// server errors come back as errors and leave the session usable
	if _, err := client.RequestLift(3, 42); err == nil {
		t.Errorf("RequestLift(3, 42) over the wire returned no error")
	}
	if _, err := client.GetLiftStates(); err != nil {
		t.Errorf("GetLiftStates after a rejected request: %v", err)
	}

	client.Close()
	cancel()
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Errorf("Serve did not return after cancel")
	}
}

func TestServeBadAddress(t *testing.T) {
	cs := NewControlServer(elevsystem.New())
	if err := cs.Serve(context.Background(), "127.0.0.1:not-a-port"); err == nil {
		t.Errorf("Serve on a bad address returned nil")
	}
}
