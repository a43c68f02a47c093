// Command constellation-vecadd sums a vector by splitting it into chunks,
// each processed by its own activity, with a collector combining the
// partial results.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/constellation-go/constellation"
	"github.com/spf13/cobra"
)

type sumPayload int

func (p sumPayload) Clone() constellation.Payload { return p }

type chunkWorker struct {
	values []int
	reply  constellation.Identifier
}

func (w *chunkWorker) Initialize(h constellation.Handle, id constellation.Identifier) constellation.State {
	total := 0
	for _, v := range w.values {
		total += v
	}
	if err := h.Send(constellation.Event{Source: id, Destination: w.reply, Payload: sumPayload(total)}); err != nil {
		panic(err)
	}
	return constellation.Finish
}

func (w *chunkWorker) Process(h constellation.Handle, e *constellation.Event, id constellation.Identifier) constellation.State {
	return constellation.Finish
}

func (w *chunkWorker) Cleanup(h constellation.Handle) {}

type vectorAdder struct {
	chunks  [][]int
	want    int
	total   int
	replies int
	done    chan struct{}
}

func (a *vectorAdder) Initialize(h constellation.Handle, id constellation.Identifier) constellation.State {
	for _, chunk := range a.chunks {
		if _, err := h.Submit(&chunkWorker{values: chunk, reply: id}, "default", false, false); err != nil {
			panic(err)
		}
	}
	return constellation.Suspend
}

func (a *vectorAdder) Process(h constellation.Handle, e *constellation.Event, id constellation.Identifier) constellation.State {
	a.total += int(e.Payload.(sumPayload))
	a.replies++
	if a.replies >= a.want {
		close(a.done)
		return constellation.Finish
	}
	return constellation.Suspend
}

func (a *vectorAdder) Cleanup(h constellation.Handle) {}

func chunk(values []int, size int) [][]int {
	if size <= 0 {
		size = 1
	}
	var out [][]int
	for len(values) > 0 {
		n := size
		if n > len(values) {
			n = len(values)
		}
		out = append(out, values[:n])
		values = values[n:]
	}
	return out
}

func parseVector(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func run(raw string, workers uint, chunkSize int) error {
	values, err := parseVector(raw)
	if err != nil {
		return err
	}
	chunks := chunk(values, chunkSize)

	c, err := constellation.New(constellation.WithWorkerCount(workers))
	if err != nil {
		return err
	}
	if err := c.Activate(); err != nil {
		return err
	}

	adder := &vectorAdder{chunks: chunks, want: len(chunks), done: make(chan struct{})}
	if _, err := c.Submit(adder, "default", false, true); err != nil {
		return err
	}

	<-adder.done

	for {
		res, err := c.Done()
		if err != nil {
			return err
		}
		if res.Drained {
			break
		}
		time.Sleep(time.Millisecond)
	}

	fmt.Println(adder.total)
	return nil
}

func main() {
	var (
		vector    string
		workers   uint
		chunkSize int
	)

	root := &cobra.Command{
		Use:   "constellation-vecadd",
		Short: "Sums a comma-separated vector using one activity per chunk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(vector, workers, chunkSize)
		},
	}
	root.Flags().StringVar(&vector, "vector", "1,2,3,4,5,6", "comma-separated integers to sum")
	root.Flags().UintVar(&workers, "workers", 3, "number of executor goroutines")
	root.Flags().IntVar(&chunkSize, "chunk-size", 2, "elements per chunk activity")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
