// Command constellation-hello runs a single activity that prints a
// greeting, the smallest possible end-to-end use of the scheduler.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/constellation-go/constellation"
	"github.com/spf13/cobra"
)

type greeter struct{ name string }

func (g *greeter) Initialize(h constellation.Handle, id constellation.Identifier) constellation.State {
	fmt.Printf("hello, %s (from node %d)\n", g.name, h.Identifier().NodeID)
	return constellation.Finish
}

func (g *greeter) Process(h constellation.Handle, e *constellation.Event, id constellation.Identifier) constellation.State {
	return constellation.Finish
}

func (g *greeter) Cleanup(h constellation.Handle) {}

func run(name string) error {
	c, err := constellation.New()
	if err != nil {
		return err
	}
	if err := c.Activate(); err != nil {
		return err
	}

	if _, err := c.Submit(&greeter{name: name}, "default", false, false); err != nil {
		return err
	}

	for {
		res, err := c.Done()
		if err != nil {
			return err
		}
		if res.Drained {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

func main() {
	var name string

	root := &cobra.Command{
		Use:   "constellation-hello",
		Short: "Runs a single activity that prints a greeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(name)
		},
	}
	root.Flags().StringVar(&name, "name", "world", "name to greet")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
