// Package strength reduces a roster to a single team rating.
package strength

import (
	"math"
	"sort"

	"volley-app/internal/model"
)

const (
	// DefaultStrength is returned for an empty roster.
	DefaultStrength = 75
	LineupSize      = 7
)

// Evaluate returns the rounded mean Overall of the best LineupSize players.
// Input order does not matter and the slice is not modified.
func Evaluate(players []model.Player) int {
	lineup := Lineup(players)
	if len(lineup) == 0 {
		return DefaultStrength
	}
	total := 0
	for _, p := range lineup {
		total += p.Overall
	}
	return int(math.Round(float64(total) / float64(len(lineup))))
}

// Lineup returns up to LineupSize players sorted by Overall descending.
func Lineup(players []model.Player) []model.Player {
	sorted := make([]model.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Overall > sorted[j].Overall })
	if len(sorted) > LineupSize {
		sorted = sorted[:LineupSize]
	}
	return sorted
}
