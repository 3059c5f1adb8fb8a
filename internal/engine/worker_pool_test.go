package engine

import (
	"context"
	"errors"
	"testing"
)

func TestWorkerPool_SubmitFullAndClosed(t *testing.T) {
	// No workers, so queued jobs stay put.
	p := newWorkerPool[int](context.Background(), 0, 1, func(context.Context, int) {})

	steps := []struct {
		name  string
		drain bool
		want  error
	}{
		{name: "room in queue", want: nil},
		{name: "queue full", want: errQueueFull},
		{name: "drained", drain: true, want: errPoolClosed},
	}
	for _, s := range steps {
		if s.drain {
			p.Drain()
		}
		if err := p.Submit(1); !errors.Is(err, s.want) {
			t.Fatalf("%s: Submit = %v, want %v", s.name, err, s.want)
		}
	}
}
