package season

import "volley-app/internal/model"

type Fixture struct {
	Matchday   int
	HomeTeamID string
	AwayTeamID string
}

// Schedule builds a single round-robin with the circle method. Matchdays are
// numbered from 1; with an odd number of teams one team rests each matchday.
func Schedule(teamIDs []string) [][]Fixture {
	if len(teamIDs) < 2 {
		return nil
	}
	ring := append([]string(nil), teamIDs...)
	if len(ring)%2 == 1 {
		ring = append(ring, "")
	}
	n := len(ring)
	rounds := make([][]Fixture, 0, n-1)
	for r := 0; r < n-1; r++ {
		matchday := make([]Fixture, 0, n/2)
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == "" || away == "" {
				continue
			}
			if i == 0 && r%2 == 1 {
				home, away = away, home
			}
			matchday = append(matchday, Fixture{Matchday: r + 1, HomeTeamID: home, AwayTeamID: away})
		}
		rounds = append(rounds, matchday)

		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return rounds
}

type Calendar struct {
	matchdays [][]Fixture
}

func NewCalendar(teamIDs []string) Calendar {
	return Calendar{matchdays: Schedule(teamIDs)}
}

func (c Calendar) Len() int {
	return len(c.matchdays)
}

// Fixtures returns the fixtures of a 1-based matchday.
func (c Calendar) Fixtures(matchday int) []Fixture {
	if matchday < 1 || matchday > len(c.matchdays) {
		return nil
	}
	return c.matchdays[matchday-1]
}

// Next returns the first matchday that still has a fixture without a stored
// result, so a matchday interrupted halfway is resumed. It reports false once
// every fixture has been played.
func (c Calendar) Next(results []model.MatchResult) (int, bool) {
	played := playedFixtures(results)
	for i, fixtures := range c.matchdays {
		for _, fx := range fixtures {
			if !played[fixtureKey(fx.Matchday, fx.HomeTeamID, fx.AwayTeamID)] {
				return i + 1, true
			}
		}
	}
	return len(c.matchdays) + 1, false
}

// Remaining returns the fixtures of matchday that have no stored result yet.
func (c Calendar) Remaining(matchday int, results []model.MatchResult) []Fixture {
	played := playedFixtures(results)
	var remaining []Fixture
	for _, fx := range c.Fixtures(matchday) {
		if !played[fixtureKey(fx.Matchday, fx.HomeTeamID, fx.AwayTeamID)] {
			remaining = append(remaining, fx)
		}
	}
	return remaining
}

type fixtureID struct {
	matchday int
	a, b     string
}

// fixtureKey ignores which side was at home.
func fixtureKey(matchday int, a, b string) fixtureID {
	if b < a {
		a, b = b, a
	}
	return fixtureID{matchday: matchday, a: a, b: b}
}

func playedFixtures(results []model.MatchResult) map[fixtureID]bool {
	played := make(map[fixtureID]bool, len(results))
	for _, r := range results {
		if r.Friendly() || r.OpponentTeamID == "" {
			continue
		}
		played[fixtureKey(r.Matchday, r.TeamID, r.OpponentTeamID)] = true
	}
	return played
}
