// liftctl sends one control command to a running lift dispatcher.
//
//	liftctl -addr localhost:4242 request 0 5
//	liftctl tick
//	liftctl states
//	liftctl stopping 5 U
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"liftdispatch/elevnetwork"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: liftctl [-addr host:port] request <start> <dest> | tick [n] | states | stopping <floor> <I|U|D>\n")
	flag.PrintDefaults()
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "not a number: %q\n", s)
		os.Exit(2)
	}
	return n
}

func main() {
	addr := flag.String("addr", "localhost:4242", "control server address")
	timeout := flag.Duration("timeout", 5*time.Second, "dial timeout")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := elevnetwork.DialControl(ctx, *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer client.Close()

	if err := run(client, args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		os.Exit(1)
	}
}

func run(client *elevnetwork.ControlClient, args []string) error {
	switch args[0] {
	case "request":
		if len(args) != 3 {
			usage()
			os.Exit(2)
		}
		id, err := client.RequestLift(atoi(args[1]), atoi(args[2]))
		if err != nil {
			return err
		}
		if id < 0 {
			fmt.Println("none")
			return nil
		}
		fmt.Println(id)

	case "tick":
		n := 1
		if len(args) > 1 {
			n = atoi(args[1])
		}
		for i := 0; i < n; i++ {
			if err := client.Tick(); err != nil {
				return err
			}
		}

	case "states":
		states, err := client.GetLiftStates()
		if err != nil {
			return err
		}
		codes := make([]string, len(states))
		for i, st := range states {
			codes[i] = st.String()
		}
		fmt.Println(strings.Join(codes, " "))

	case "stopping":
		if len(args) != 3 {
			usage()
			os.Exit(2)
		}
		ids, err := client.GetLiftsStoppingOnFloor(atoi(args[1]), args[2])
		if err != nil {
			return err
		}
		fmt.Println(ids)

	default:
		usage()
		os.Exit(2)
	}
	return nil
}
