// Package simulator produces randomized, strength-biased match results.
package simulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"volley-app/internal/model"
)

// Random is the source of uniform values in [0,1). *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// OpponentGenerator yields the opponent's strength for one match.
type OpponentGenerator func() int

type Distribution string

const (
	Flat     Distribution = "flat"
	Gaussian Distribution = "gaussian"
)

type TieBreak string

const (
	TieBreakNone   TieBreak = "none"
	TieBreakReroll TieBreak = "reroll"
)

const (
	DefaultOpponentBase   = 80.0
	DefaultOpponentSpread = 10.0

	MaxScore = 5

	bonusChance      = 0.3
	extraBonusChance = 0.2
	extraBonusDelta  = 10
	maxRerolls       = 16
)

type Simulator struct {
	rng          Random
	base         float64
	spread       float64
	distribution Distribution
	tieBreak     TieBreak
	now          func() time.Time
	newID        func() string
}

type Option func(*Simulator)

func WithOpponent(base, spread float64) Option {
	return func(s *Simulator) {
		s.base = base
		s.spread = spread
	}
}

func WithDistribution(d Distribution) Option {
	return func(s *Simulator) {
		if d == Gaussian {
			s.distribution = Gaussian
			return
		}
		s.distribution = Flat
	}
}

func WithTieBreak(tb TieBreak) Option {
	return func(s *Simulator) {
		if tb == TieBreakReroll {
			s.tieBreak = TieBreakReroll
			return
		}
		s.tieBreak = TieBreakNone
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Simulator) { s.newID = newID }
}

func New(rng Random, opts ...Option) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Simulator{
		rng:          rng,
		base:         DefaultOpponentBase,
		spread:       DefaultOpponentSpread,
		distribution: Flat,
		tieBreak:     TieBreakNone,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpponentStrength draws a generated opponent rating. The flat distribution
// covers [base-spread, base+spread]; the gaussian one is an Irwin-Hall
// approximation with sigma = spread/2, clamped to [1,100].
func (s *Simulator) OpponentStrength() int {
	var offset float64
	switch s.distribution {
	case Gaussian:
		sum := 0.0
		for i := 0; i < 12; i++ {
			sum += s.rng.Float64()
		}
		offset = (sum - 6) * s.spread / 2
	default:
		offset = (s.rng.Float64()*2 - 1) * s.spread
	}
	value := int(math.Round(s.base + offset))
	if s.distribution == Gaussian {
		value = clamp(value, 1, 100)
	}
	return value
}

// Simulate plays one match. A nil generator falls back to OpponentStrength.
func (s *Simulator) Simulate(ownStrength int, opponent OpponentGenerator) model.MatchResult {
	if opponent == nil {
		opponent = s.OpponentStrength
	}
	opponentStrength := opponent()
	delta := ownStrength - opponentStrength

	own, opp := s.score(delta)
	if own == opp && s.tieBreak == TieBreakReroll {
		own, opp = s.breakTie(delta, own)
	}

	return model.MatchResult{
		ID:               s.newID(),
		OwnScore:         own,
		OpponentScore:    opp,
		Won:              own > opp,
		IsDraw:           own == opp,
		OwnStrength:      ownStrength,
		OpponentStrength: opponentStrength,
		StrengthDelta:    delta,
		PlayedAt:         s.now(),
	}
}

func (s *Simulator) score(delta int) (int, int) {
	own := s.baseScore()
	opp := s.baseScore()
	switch {
	case delta > 0:
		own += s.bonus(delta)
	case delta < 0:
		opp += s.bonus(-delta)
	}
	return min(own, MaxScore), min(opp, MaxScore)
}

func (s *Simulator) baseScore() int {
	return int(math.Floor(s.rng.Float64()*3)) + 1
}

// bonus draws the favourite's extra sets for an absolute strength gap.
func (s *Simulator) bonus(gap int) int {
	extra := 0
	if s.rng.Float64() < bonusChance {
		extra++
	}
	if gap > extraBonusDelta && s.rng.Float64() < extraBonusChance {
		extra++
	}
	return extra
}

func (s *Simulator) breakTie(delta, score int) (int, int) {
	for i := 0; i < maxRerolls; i++ {
		own, opp := s.score(delta)
		if own != opp {
			return own, opp
		}
		score = own
	}
	// stronger side takes the deciding set; own side on equal strength
	if delta >= 0 {
		if score < MaxScore {
			return score + 1, score
		}
		return score, score - 1
	}
	if score < MaxScore {
		return score, score + 1
	}
	return score - 1, score
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
