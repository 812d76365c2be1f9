package simulator

import (
	"context"
	"sync"
	"time"

	"volley-app/internal/model"
)

// Pending is a match result revealed after a pacing delay.
type Pending struct {
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	result model.MatchResult
	err    error
}

// SimulateAfter simulates immediately but reveals the result only after
// delay. Cancelling ctx or calling Cancel before the reveal discards it.
func (s *Simulator) SimulateAfter(ctx context.Context, delay time.Duration, ownStrength int, opponent OpponentGenerator) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{done: make(chan struct{}), cancel: cancel}
	result := s.Simulate(ownStrength, opponent)

	go func() {
		defer cancel()
		if delay <= 0 {
			p.finish(result, nil)
			return
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			p.finish(result, nil)
		case <-ctx.Done():
			p.finish(model.MatchResult{}, ctx.Err())
		}
	}()
	return p
}

func (p *Pending) finish(result model.MatchResult, err error) {
	p.once.Do(func() {
		p.result = result
		p.err = err
		close(p.done)
	})
}

// Cancel abandons the reveal. It is safe to call more than once.
func (p *Pending) Cancel() {
	p.cancel()
}

func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the result is revealed, the task is cancelled or ctx ends.
func (p *Pending) Wait(ctx context.Context) (model.MatchResult, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return model.MatchResult{}, ctx.Err()
	}
}
