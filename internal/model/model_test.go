package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchResult_AsSeenBy(t *testing.T) {
	played := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	r := MatchResult{
		ID: "m1", TeamID: "home", OpponentTeamID: "away", OpponentName: "Away Club", Matchday: 2,
		OwnScore: 3, OpponentScore: 1, Won: true, OwnStrength: 82, OpponentStrength: 76, StrengthDelta: 6,
		PlayedAt: played,
	}

	assert.Equal(t, r, r.AsSeenBy("home"))
	assert.Equal(t, r, r.AsSeenBy("someone-else"))

	away := r.AsSeenBy("away")
	assert.Equal(t, "away", away.TeamID)
	assert.Equal(t, "home", away.OpponentTeamID)
	assert.Empty(t, away.OpponentName)
	assert.Equal(t, 1, away.OwnScore)
	assert.Equal(t, 3, away.OpponentScore)
	assert.False(t, away.Won)
	assert.Equal(t, 76, away.OwnStrength)
	assert.Equal(t, 82, away.OpponentStrength)
	assert.Equal(t, -6, away.StrengthDelta)
	assert.Equal(t, 2, away.Matchday)
	assert.Equal(t, played, away.PlayedAt)

	draw := MatchResult{TeamID: "home", OpponentTeamID: "away", OwnScore: 2, OpponentScore: 2, IsDraw: true}
	assert.True(t, draw.AsSeenBy("away").IsDraw)
	assert.False(t, draw.AsSeenBy("away").Won)
}
