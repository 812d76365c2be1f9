package squad

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volley-app/internal/model"
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func testRoster() []model.Player {
	positions := []model.Position{
		model.OutsideHitter, model.MiddleBlocker, model.Setter, model.OutsideHitter,
		model.MiddleBlocker, model.OppositeHitter, model.Libero, model.Setter,
		model.OutsideHitter, model.Libero,
	}
	roster := make([]model.Player, 0, len(positions))
	for i, pos := range positions {
		roster = append(roster, model.Player{
			ID:       fmt.Sprintf("p%d", i),
			Name:     fmt.Sprintf("Player %d", i),
			Position: pos,
			Overall:  60 + i,
		})
	}
	return roster
}

func newTestEngine(opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New("team-1", testRoster(), nil, opts...)
}

// assertPartition checks that every roster player is in exactly one place.
func assertPartition(t *testing.T, e *Engine) {
	t.Helper()
	state := e.State()
	seen := map[string]int{}
	for _, id := range state.Starters {
		if id != "" {
			seen[id]++
		}
	}
	for _, id := range state.Bench {
		if id != "" {
			seen[id]++
		}
	}
	for _, id := range state.Available {
		seen[id]++
	}
	require.Len(t, seen, len(testRoster()))
	for id, n := range seen {
		require.Equal(t, 1, n, "player %s placed %d times", id, n)
	}
}

func TestNew_AllPlayersAvailable(t *testing.T) {
	e := newTestEngine()
	state := e.State()

	assert.Equal(t, "team-1", state.TeamID)
	assert.Equal(t, []string{"", "", "", "", "", "", ""}, state.Starters)
	assert.Len(t, state.Bench, DefaultBenchSize)
	assert.Len(t, state.Available, 10)
	assertPartition(t, e)
}

func TestNew_RestoresSavedState(t *testing.T) {
	saved := &model.SquadState{
		TeamID:    "team-1",
		Starters:  []string{"p0", "ghost", "p2", "p0", "", "", ""},
		Bench:     []string{"p2", "p9"},
		Available: []string{"p5", "p1"},
	}
	e := New("team-1", testRoster(), saved)
	state := e.State()

	assert.Equal(t, []string{"p0", "", "p2", "", "", "", ""}, state.Starters)
	assert.Equal(t, "p9", state.Bench[1])
	assert.Equal(t, "", state.Bench[0])
	assert.Equal(t, []string{"p5", "p1", "p3", "p4", "p6", "p7", "p8"}, state.Available)
	assertPartition(t, e)
}

func TestAssignToStarter_ExplicitSlot(t *testing.T) {
	e := newTestEngine()

	require.NoError(t, e.AssignToStarter("p2", 2))

	state := e.State()
	assert.Equal(t, "p2", state.Starters[2])
	assert.NotContains(t, state.Available, "p2")
	assert.NotContains(t, e.Validate().EmptySlots, 2)
	assert.Equal(t, fixedNow, state.UpdatedAt)
	assertPartition(t, e)
}

func TestAssignToStarter_AutoPrefersMatchingPosition(t *testing.T) {
	e := newTestEngine()

	require.NoError(t, e.AssignToStarter("p6", AutoSlot))
	assert.Equal(t, "p6", e.State().Starters[6])

	// second outside hitter goes to the other outside hitter slot
	require.NoError(t, e.AssignToStarter("p0", AutoSlot))
	require.NoError(t, e.AssignToStarter("p3", AutoSlot))
	assert.Equal(t, "p0", e.State().Starters[0])
	assert.Equal(t, "p3", e.State().Starters[3])
}

func TestAssignToStarter_AutoFallsBackToAnyEmptySlot(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToStarter("p6", AutoSlot))

	// the libero slot is taken, so the second libero lands in slot 0
	require.NoError(t, e.AssignToStarter("p9", AutoSlot))
	assert.Equal(t, "p9", e.State().Starters[0])
}

func TestAssignToStarter_StrictAutoNeedsMatchingSlot(t *testing.T) {
	e := newTestEngine(WithStrictPositions())
	require.NoError(t, e.AssignToStarter("p6", AutoSlot))
	before := e.State()

	err := e.AssignToStarter("p9", AutoSlot)
	assert.ErrorIs(t, err, ErrNoFreeSlot)
	assert.True(t, IsCapacity(err))
	assert.Equal(t, before, e.State())
	assertPartition(t, e)

	// outside hitters still fill their own slots
	require.NoError(t, e.AssignToStarter("p8", AutoSlot))
	assert.Equal(t, "p8", e.State().Starters[0])
	for i, id := range e.State().Starters {
		if id != "" {
			assert.Equal(t, StarterPositions[i], e.roster[id].Position)
		}
	}
}

func TestAssignToStarter_NoFreeSlot(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 7; i++ {
		require.NoError(t, e.AssignToStarter(fmt.Sprintf("p%d", i), i))
	}
	before := e.State()

	err := e.AssignToStarter("p7", AutoSlot)
	assert.ErrorIs(t, err, ErrNoFreeSlot)
	assert.True(t, IsCapacity(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, before, e.State())
}

func TestAssignToStarter_DisplacesOccupant(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToStarter("p2", 2))

	require.NoError(t, e.AssignToStarter("p7", 2))

	state := e.State()
	assert.Equal(t, "p7", state.Starters[2])
	assert.Contains(t, state.Available, "p2")
	assert.NotContains(t, state.Available, "p7")
	assertPartition(t, e)
}

func TestAssignToStarter_FromBenchVacatesBench(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToBench("p7", 4))

	require.NoError(t, e.AssignToStarter("p7", 2))

	state := e.State()
	assert.Equal(t, "", state.Bench[4])
	assert.Equal(t, "p7", state.Starters[2])
	assertPartition(t, e)
}

func TestAssignToStarter_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		playerID string
		slot     int
		opts     []Option
		wantErr  error
	}{
		{name: "unknown player", playerID: "nobody", slot: 0, wantErr: ErrUnknownPlayer},
		{name: "slot too high", playerID: "p0", slot: 7, wantErr: ErrInvalidSlot},
		{name: "negative slot", playerID: "p0", slot: -2, wantErr: ErrInvalidSlot},
		{name: "strict mismatch", playerID: "p6", slot: 2, opts: []Option{WithStrictPositions()}, wantErr: ErrPositionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(tt.opts...)
			before := e.State()

			err := e.AssignToStarter(tt.playerID, tt.slot)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidation(err))
			assert.Equal(t, before, e.State())
		})
	}
}

func TestAssignToStarter_LenientAllowsMismatch(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToStarter("p6", 2))
	assert.Equal(t, "p6", e.State().Starters[2])
}

func TestAssignToBench_AutoAndFull(t *testing.T) {
	e := newTestEngine(WithBenchSize(2))

	require.NoError(t, e.AssignToBench("p0", AutoSlot))
	require.NoError(t, e.AssignToBench("p1", AutoSlot))
	assert.Equal(t, []string{"p0", "p1"}, e.State().Bench)

	// already on the bench: no-op
	require.NoError(t, e.AssignToBench("p0", AutoSlot))

	err := e.AssignToBench("p2", AutoSlot)
	assert.ErrorIs(t, err, ErrNoFreeSlot)
	assertPartition(t, e)
}

func TestRemove(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToBench("p4", 3))

	require.NoError(t, e.Remove(Bench, 3))
	assert.Equal(t, "", e.State().Bench[3])
	assert.Contains(t, e.State().Available, "p4")

	// empty slot is a no-op
	require.NoError(t, e.Remove(Bench, 3))
	assert.ErrorIs(t, e.Remove(Bench, 9), ErrInvalidSlot)
	assert.ErrorIs(t, e.Remove(Location("court"), 0), ErrInvalidSlot)
	assertPartition(t, e)
}

func TestRemoveThenReassignRestoresState(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToStarter("p2", 2))
	require.NoError(t, e.AssignToBench("p8", 1))
	before := e.State()

	require.NoError(t, e.Remove(Starters, 2))
	require.NoError(t, e.AssignToStarter("p2", 2))
	assert.Equal(t, before, e.State())

	require.NoError(t, e.Remove(Bench, 1))
	require.NoError(t, e.AssignToBench("p8", 1))
	assert.Equal(t, before, e.State())
}

func TestMove_SwapIsInvolution(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToStarter("p0", 0))
	require.NoError(t, e.AssignToBench("p8", 2))
	before := e.State()

	require.NoError(t, e.Move(Starters, 0, Bench, 2))
	swapped := e.State()
	assert.Equal(t, "p8", swapped.Starters[0])
	assert.Equal(t, "p0", swapped.Bench[2])
	assertPartition(t, e)

	require.NoError(t, e.Move(Starters, 0, Bench, 2))
	assert.Equal(t, before.Starters, e.State().Starters)
	assert.Equal(t, before.Bench, e.State().Bench)
	assert.Equal(t, before.Available, e.State().Available)
}

func TestMove_IntoEmptySlot(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToStarter("p1", 1))

	require.NoError(t, e.Move(Starters, 1, Starters, 4))
	state := e.State()
	assert.Equal(t, "", state.Starters[1])
	assert.Equal(t, "p1", state.Starters[4])
	assertPartition(t, e)
}

func TestMove_NoOpsAndErrors(t *testing.T) {
	var saves int
	e := newTestEngine(WithSaver(func(model.SquadState) { saves++ }))
	require.NoError(t, e.AssignToStarter("p1", 1))
	require.Equal(t, 1, saves)

	require.NoError(t, e.Move(Starters, 1, Starters, 1))
	assert.Equal(t, 1, saves)

	assert.ErrorIs(t, e.Move(Starters, 0, Starters, 1), ErrEmptySlot)
	assert.ErrorIs(t, e.Move(Starters, 1, Bench, 42), ErrInvalidSlot)
	assert.Equal(t, 1, saves)
}

func TestMove_StrictChecksBothPlayers(t *testing.T) {
	e := newTestEngine(WithStrictPositions())
	require.NoError(t, e.AssignToStarter("p2", 2))
	require.NoError(t, e.AssignToBench("p6", 0))

	err := e.Move(Bench, 0, Starters, 2)
	assert.ErrorIs(t, err, ErrPositionMismatch)

	require.NoError(t, e.AssignToBench("p7", 1))
	require.NoError(t, e.Move(Bench, 1, Starters, 2))
	assert.Equal(t, "p7", e.State().Starters[2])
	assert.Equal(t, "p2", e.State().Bench[1])
}

func TestValidate(t *testing.T) {
	e := newTestEngine()
	v := e.Validate()
	assert.False(t, v.IsValid)
	assert.Len(t, v.Errors, 7)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, v.EmptySlots)
	assert.Equal(t, "starter slot 2 (Setter) is empty", v.Errors[2])

	for i := 0; i < 7; i++ {
		require.NoError(t, e.AssignToStarter(fmt.Sprintf("p%d", i), i))
	}
	v = e.Validate()
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Errors)
}

func TestSaverReceivesEverySuccessfulMutation(t *testing.T) {
	var states []model.SquadState
	e := newTestEngine(WithSaver(func(s model.SquadState) { states = append(states, s) }))

	require.NoError(t, e.AssignToStarter("p0", 0))
	require.Error(t, e.AssignToStarter("p0", 99))
	require.NoError(t, e.Remove(Starters, 0))

	require.Len(t, states, 2)
	assert.Equal(t, "p0", states[0].Starters[0])
	assert.Equal(t, "", states[1].Starters[0])
}

func TestViews(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.AssignToStarter("p2", 2))
	require.NoError(t, e.AssignToBench("p9", 0))

	starters := e.Starters()
	require.Len(t, starters, 7)
	assert.Equal(t, model.Setter, starters[2].Position)
	require.NotNil(t, starters[2].Player)
	assert.Equal(t, "Player 2", starters[2].Player.Name)
	assert.Nil(t, starters[0].Player)

	bench := e.Bench()
	require.NotNil(t, bench[0].Player)
	assert.Equal(t, "p9", bench[0].Player.ID)

	assert.Len(t, e.Available(), 8)
	assert.Len(t, e.Lineup(), 1)
	assert.Len(t, e.Roster(), 10)
}
