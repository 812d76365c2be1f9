package squad

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"volley-app/internal/model"
)

type Saver interface {
	SaveSquad(ctx context.Context, state model.SquadState) error
}

// Persister saves squad states in the background. Only the newest state
// matters: a submit replaces any queued state and cancels an in-flight save.
type Persister struct {
	saver   Saver
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	idle     *sync.Cond
	pending  *model.SquadState
	busy     bool
	closed   bool
	cancel   context.CancelFunc
	lastErr  error
	wake     chan struct{}
	finished chan struct{}
}

func NewPersister(saver Saver, logger *zap.Logger, timeout time.Duration) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Persister{
		saver:    saver,
		logger:   logger,
		timeout:  timeout,
		wake:     make(chan struct{}, 1),
		finished: make(chan struct{}),
	}
	p.idle = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// Submit queues state for saving. It never blocks.
func (p *Persister) Submit(state model.SquadState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending = &state
	if p.cancel != nil {
		p.cancel()
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// LastError returns the most recent save failure, cleared by the next
// successful save.
func (p *Persister) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Flush waits until nothing is queued or in flight.
func (p *Persister) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending != nil || p.busy {
		p.idle.Wait()
	}
}

// Close saves whatever is queued and stops the worker.
func (p *Persister) Close() {
	p.Flush()
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.wake)
	p.mu.Unlock()
	<-p.finished
}

func (p *Persister) run() {
	defer close(p.finished)
	for range p.wake {
		for {
			p.mu.Lock()
			state := p.pending
			if state == nil {
				p.idle.Broadcast()
				p.mu.Unlock()
				break
			}
			p.pending = nil
			p.busy = true
			ctx, cancel := p.saveContext()
			p.cancel = cancel
			p.mu.Unlock()

			err := p.saver.SaveSquad(ctx, *state)
			cancel()

			p.mu.Lock()
			p.busy = false
			p.cancel = nil
			superseded := p.pending != nil
			switch {
			case err == nil:
				p.lastErr = nil
			case superseded && errors.Is(err, context.Canceled):
				p.logger.Debug("squad save superseded", zap.String("team_id", state.TeamID))
			default:
				p.lastErr = err
				p.logger.Warn("squad save failed", zap.String("team_id", state.TeamID), zap.Error(err))
			}
			p.mu.Unlock()
		}
	}
}

func (p *Persister) saveContext() (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(context.Background(), p.timeout)
	}
	return context.WithCancel(context.Background())
}
