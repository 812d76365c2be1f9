package season

import (
	"sort"

	"github.com/samber/lo"

	"volley-app/internal/model"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// Stats accumulates a team's record over results where it took part, from
// either side.
func Stats(teamID string, results []model.MatchResult) model.SeasonStats {
	var stats model.SeasonStats
	for _, r := range results {
		var own, opp int
		switch teamID {
		case r.TeamID:
			own, opp = r.OwnScore, r.OpponentScore
		case r.OpponentTeamID:
			own, opp = r.OpponentScore, r.OwnScore
		default:
			continue
		}
		stats.MatchesPlayed++
		switch {
		case own > opp:
			stats.Won++
		case own < opp:
			stats.Lost++
		default:
			stats.Drawn++
		}
	}
	if stats.MatchesPlayed > 0 {
		stats.WinRate = float64(stats.Won) / float64(stats.MatchesPlayed)
	}
	return stats
}

// BuildStandings ranks teams on league results only; friendlies and results
// against generated opponents are ignored.
func BuildStandings(teams []model.Team, results []model.MatchResult) []model.StandingEntry {
	index := make(map[string]*model.StandingEntry, len(teams))
	for _, t := range teams {
		index[t.ID] = &model.StandingEntry{Team: t}
	}

	league := lo.Filter(results, func(r model.MatchResult, _ int) bool {
		return !r.Friendly() && r.OpponentTeamID != ""
	})
	for _, r := range league {
		home := index[r.TeamID]
		away := index[r.OpponentTeamID]
		if home == nil || away == nil {
			continue
		}
		home.Played++
		away.Played++
		home.SetsWon += r.OwnScore
		home.SetsLost += r.OpponentScore
		away.SetsWon += r.OpponentScore
		away.SetsLost += r.OwnScore

		switch {
		case r.OwnScore > r.OpponentScore:
			home.Won++
			away.Lost++
			home.Points += pointsWin
		case r.OwnScore < r.OpponentScore:
			away.Won++
			home.Lost++
			away.Points += pointsWin
		default:
			home.Drawn++
			away.Drawn++
			home.Points += pointsDraw
			away.Points += pointsDraw
		}
	}

	standings := make([]model.StandingEntry, 0, len(index))
	for _, entry := range index {
		standings = append(standings, *entry)
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.SetDiff() != b.SetDiff() {
			return a.SetDiff() > b.SetDiff()
		}
		if a.SetsWon != b.SetsWon {
			return a.SetsWon > b.SetsWon
		}
		return a.Team.Name < b.Team.Name
	})
	return standings
}
