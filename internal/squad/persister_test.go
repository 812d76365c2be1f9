package squad

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"volley-app/internal/model"
)

type recordingSaver struct {
	mu      sync.Mutex
	saved   []model.SquadState
	fail    error
	block   chan struct{}
	started chan struct{}
}

func (s *recordingSaver) SaveSquad(ctx context.Context, state model.SquadState) error {
	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saved = append(s.saved, state)
	return nil
}

func (s *recordingSaver) snapshot() []model.SquadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SquadState(nil), s.saved...)
}

func TestPersister_SavesSubmittedState(t *testing.T) {
	saver := &recordingSaver{}
	p := NewPersister(saver, zap.NewNop(), time.Second)
	defer p.Close()

	p.Submit(model.SquadState{TeamID: "team-1", Starters: []string{"p0"}})
	p.Flush()

	saved := saver.snapshot()
	require.Len(t, saved, 1)
	assert.Equal(t, []string{"p0"}, saved[0].Starters)
	assert.NoError(t, p.LastError())
}

func TestPersister_LastWriteWins(t *testing.T) {
	saver := &recordingSaver{block: make(chan struct{}), started: make(chan struct{}, 1)}
	p := NewPersister(saver, zap.NewNop(), 0)
	defer p.Close()

	p.Submit(model.SquadState{TeamID: "team-1", Bench: []string{"first"}})
	<-saver.started

	// the in-flight save is cancelled and the queued one replaced
	p.Submit(model.SquadState{TeamID: "team-1", Bench: []string{"second"}})
	p.Submit(model.SquadState{TeamID: "team-1", Bench: []string{"third"}})
	close(saver.block)
	p.Flush()

	saved := saver.snapshot()
	require.NotEmpty(t, saved)
	assert.Equal(t, []string{"third"}, saved[len(saved)-1].Bench)
	assert.NoError(t, p.LastError())
}

func TestPersister_FailureIsSurfacedAndCleared(t *testing.T) {
	saver := &recordingSaver{fail: errors.New("connection refused")}
	p := NewPersister(saver, zap.NewNop(), time.Second)
	defer p.Close()

	p.Submit(model.SquadState{TeamID: "team-1"})
	p.Flush()
	require.EqualError(t, p.LastError(), "connection refused")

	saver.mu.Lock()
	saver.fail = nil
	saver.mu.Unlock()

	p.Submit(model.SquadState{TeamID: "team-1"})
	p.Flush()
	assert.NoError(t, p.LastError())
}

func TestPersister_EngineStateSurvivesFailedSave(t *testing.T) {
	saver := &recordingSaver{fail: errors.New("boom")}
	p := NewPersister(saver, zap.NewNop(), time.Second)
	defer p.Close()

	e := newTestEngine(WithSaver(p.Submit))
	require.NoError(t, e.AssignToStarter("p2", 2))
	p.Flush()

	assert.Error(t, p.LastError())
	assert.Equal(t, "p2", e.State().Starters[2])
}

func TestPersister_CloseDrainsAndIgnoresLateSubmits(t *testing.T) {
	saver := &recordingSaver{}
	p := NewPersister(saver, nil, 0)

	p.Submit(model.SquadState{TeamID: "team-1"})
	p.Close()
	p.Close()
	p.Submit(model.SquadState{TeamID: "team-2"})

	saved := saver.snapshot()
	require.Len(t, saved, 1)
	assert.Equal(t, "team-1", saved[0].TeamID)
}
