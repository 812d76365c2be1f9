package simulator

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence replays fixed values and then repeats the last one.
type sequence struct {
	values []float64
	pos    int
}

func (s *sequence) Float64() float64 {
	if s.pos >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
}

func newTestSimulator(rng Random, opts ...Option) *Simulator {
	opts = append([]Option{WithClock(fixedClock), WithIDs(func() string { return "match-1" })}, opts...)
	return New(rng, opts...)
}

func constant(v int) OpponentGenerator {
	return func() int { return v }
}

func TestSimulate_DeterministicWithFixedRandom(t *testing.T) {
	values := []float64{0.5, 0.1, 0.2, 0.9}
	first := newTestSimulator(&sequence{values: values}).Simulate(85, constant(80))
	second := newTestSimulator(&sequence{values: values}).Simulate(85, constant(80))

	assert.Equal(t, first, second)
	// base 2 vs 1, 0.2 < 0.3 gives own +1, gap 5 means no extra draw
	assert.Equal(t, 3, first.OwnScore)
	assert.Equal(t, 1, first.OpponentScore)
	assert.True(t, first.Won)
	assert.False(t, first.IsDraw)
	assert.Equal(t, 85, first.OwnStrength)
	assert.Equal(t, 80, first.OpponentStrength)
	assert.Equal(t, 5, first.StrengthDelta)
	assert.Equal(t, fixedClock(), first.PlayedAt)
}

func TestSimulate_ExtraBonusForLargeGap(t *testing.T) {
	// base 3 vs 3, bonus 0.1 hits, extra 0.1 hits
	sim := newTestSimulator(&sequence{values: []float64{0.9, 0.9, 0.1, 0.1}})
	result := sim.Simulate(95, constant(80))

	assert.Equal(t, 5, result.OwnScore)
	assert.Equal(t, 3, result.OpponentScore)
}

func TestSimulate_UnderdogMirror(t *testing.T) {
	sim := newTestSimulator(&sequence{values: []float64{0.0, 0.0, 0.1, 0.1}})
	result := sim.Simulate(60, constant(80))

	assert.Equal(t, 1, result.OwnScore)
	assert.Equal(t, 3, result.OpponentScore)
	assert.False(t, result.Won)
	assert.Equal(t, -20, result.StrengthDelta)
}

func TestSimulate_EqualStrengthHasNoBonus(t *testing.T) {
	// a bonus draw of 0.0 would award a set if it were consumed
	sim := newTestSimulator(&sequence{values: []float64{0.5, 0.5, 0.0}})
	result := sim.Simulate(80, constant(80))

	assert.Equal(t, 2, result.OwnScore)
	assert.Equal(t, 2, result.OpponentScore)
	assert.True(t, result.IsDraw)
	assert.False(t, result.Won)
}

func TestSimulate_ScoresNeverExceedFive(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		sim := New(rand.New(rand.NewSource(seed)))
		for i := 0; i < 500; i++ {
			own := 40 + i%60
			result := sim.Simulate(own, nil)
			require.LessOrEqual(t, result.OwnScore, MaxScore)
			require.LessOrEqual(t, result.OpponentScore, MaxScore)
			require.GreaterOrEqual(t, result.OwnScore, 1)
			require.GreaterOrEqual(t, result.OpponentScore, 1)
		}
	}
}

func TestSimulate_EqualStrengthIsFair(t *testing.T) {
	sim := New(rand.New(rand.NewSource(42)))
	const trials = 20000
	wins, losses := 0, 0
	for i := 0; i < trials; i++ {
		result := sim.Simulate(80, constant(80))
		switch {
		case result.Won:
			wins++
		case result.OpponentScore > result.OwnScore:
			losses++
		}
	}
	// both sides win 1/3 of the time; allow generous sampling tolerance
	assert.InDelta(t, float64(wins)/trials, float64(losses)/trials, 0.03)
}

func TestSimulate_StrongerTeamWinsMoreOften(t *testing.T) {
	sim := New(rand.New(rand.NewSource(3)))
	wins, losses := 0, 0
	for i := 0; i < 5000; i++ {
		result := sim.Simulate(95, constant(70))
		if result.Won {
			wins++
		} else if !result.IsDraw {
			losses++
		}
	}
	assert.Greater(t, wins, losses)
}

func TestSimulate_RerollRemovesDraws(t *testing.T) {
	sim := New(rand.New(rand.NewSource(11)), WithTieBreak(TieBreakReroll))
	for i := 0; i < 2000; i++ {
		result := sim.Simulate(80, constant(80))
		require.False(t, result.IsDraw)
		require.LessOrEqual(t, result.OwnScore, MaxScore)
		require.LessOrEqual(t, result.OpponentScore, MaxScore)
	}
}

func TestSimulate_RerollFallbackFavoursStronger(t *testing.T) {
	// every draw lands on the same base score with no bonus
	sim := newTestSimulator(&sequence{values: []float64{0.5, 0.5, 0.99}}, WithTieBreak(TieBreakReroll))

	// first roll is 2:2, every reroll is 3:3, so the fallback starts from 3
	result := sim.Simulate(82, constant(80))
	assert.Equal(t, 4, result.OwnScore)
	assert.Equal(t, 3, result.OpponentScore)

	weaker := newTestSimulator(&sequence{values: []float64{0.5, 0.5, 0.99}}, WithTieBreak(TieBreakReroll))
	result = weaker.Simulate(78, constant(80))
	assert.Equal(t, 3, result.OwnScore)
	assert.Equal(t, 4, result.OpponentScore)
}

func TestOpponentStrength_FlatRange(t *testing.T) {
	assert.Equal(t, 70, newTestSimulator(&sequence{values: []float64{0}}).OpponentStrength())
	assert.Equal(t, 80, newTestSimulator(&sequence{values: []float64{0.5}}).OpponentStrength())

	sim := New(rand.New(rand.NewSource(5)))
	for i := 0; i < 1000; i++ {
		v := sim.OpponentStrength()
		require.GreaterOrEqual(t, v, 70)
		require.LessOrEqual(t, v, 90)
	}
}

func TestOpponentStrength_GaussianCentred(t *testing.T) {
	sim := New(rand.New(rand.NewSource(9)), WithDistribution(Gaussian))
	total := 0
	const n = 5000
	for i := 0; i < n; i++ {
		v := sim.OpponentStrength()
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 100)
		total += v
	}
	assert.InDelta(t, 80, float64(total)/n, 1)
}

func TestOpponentStrength_CustomBase(t *testing.T) {
	sim := newTestSimulator(&sequence{values: []float64{1}}, WithOpponent(60, 5))
	assert.Equal(t, 65, sim.OpponentStrength())
}

func TestSimulateAfter_RevealsAfterDelay(t *testing.T) {
	sim := newTestSimulator(&sequence{values: []float64{0.5, 0.1, 0.2}})
	pending := sim.SimulateAfter(context.Background(), 10*time.Millisecond, 85, constant(80))

	result, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "match-1", result.ID)
	assert.Equal(t, 3, result.OwnScore)
}

func TestSimulateAfter_Cancel(t *testing.T) {
	sim := newTestSimulator(&sequence{values: []float64{0.5}})
	pending := sim.SimulateAfter(context.Background(), time.Hour, 85, constant(80))
	pending.Cancel()
	pending.Cancel()

	_, err := pending.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulateAfter_WaitContextExpires(t *testing.T) {
	sim := newTestSimulator(&sequence{values: []float64{0.5}})
	pending := sim.SimulateAfter(context.Background(), time.Hour, 85, constant(80))
	defer pending.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := pending.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
