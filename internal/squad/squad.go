// Package squad keeps a roster partitioned into starters, bench and
// available players.
package squad

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"volley-app/internal/model"
)

type Location string

const (
	Starters Location = "starters"
	Bench    Location = "bench"

	available Location = "available"
)

func ParseLocation(value string) (Location, bool) {
	switch Location(value) {
	case Starters, Bench:
		return Location(value), true
	}
	return "", false
}

const (
	// AutoSlot lets the engine pick the slot.
	AutoSlot         = -1
	DefaultBenchSize = 9
)

// StarterPositions lists the required position of each starter slot.
var StarterPositions = []model.Position{
	model.OutsideHitter,
	model.MiddleBlocker,
	model.Setter,
	model.OutsideHitter,
	model.MiddleBlocker,
	model.OppositeHitter,
	model.Libero,
}

var (
	ErrInvalidSlot      = errors.New("invalid slot")
	ErrUnknownPlayer    = errors.New("player not in roster")
	ErrPositionMismatch = errors.New("player position does not match slot")
	ErrEmptySlot        = errors.New("slot is empty")
	ErrNoFreeSlot       = errors.New("no free slot")
)

// IsValidation reports whether err rejects malformed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSlot) ||
		errors.Is(err, ErrUnknownPlayer) ||
		errors.Is(err, ErrPositionMismatch) ||
		errors.Is(err, ErrEmptySlot)
}

// IsCapacity reports whether err means there was no room for the player.
func IsCapacity(err error) bool {
	return errors.Is(err, ErrNoFreeSlot)
}

type Slot struct {
	Index    int
	Position model.Position
	Player   *model.Player
}

type Validation struct {
	IsValid    bool
	Errors     []string
	EmptySlots []int
}

type Engine struct {
	mu        sync.Mutex
	teamID    string
	roster    map[string]model.Player
	starters  []string
	bench     []string
	available []string
	updatedAt time.Time

	benchSize int
	strict    bool
	onChange  func(model.SquadState)
	now       func() time.Time
}

type Option func(*Engine)

func WithBenchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.benchSize = n
		}
	}
}

// WithStrictPositions rejects explicit starter placements whose position
// does not match the slot.
func WithStrictPositions() Option {
	return func(e *Engine) { e.strict = true }
}

// WithSaver registers a hook called with the new state after every
// successful mutation. It runs under the engine lock and must not block.
func WithSaver(fn func(model.SquadState)) Option {
	return func(e *Engine) { e.onChange = fn }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine for roster, restoring saved when given. Saved IDs
// missing from the roster or already placed are dropped; every roster
// player not placed in a slot becomes available.
func New(teamID string, roster []model.Player, saved *model.SquadState, opts ...Option) *Engine {
	e := &Engine{
		teamID:    teamID,
		roster:    make(map[string]model.Player, len(roster)),
		benchSize: DefaultBenchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.starters = make([]string, len(StarterPositions))
	e.bench = make([]string, e.benchSize)

	order := make([]string, 0, len(roster))
	for _, p := range roster {
		if p.ID == "" {
			continue
		}
		if _, dup := e.roster[p.ID]; dup {
			continue
		}
		e.roster[p.ID] = p
		order = append(order, p.ID)
	}

	placed := map[string]bool{}
	restore := func(dst []string, src []string) {
		for i, id := range src {
			if i >= len(dst) {
				break
			}
			if _, ok := e.roster[id]; !ok || placed[id] {
				continue
			}
			dst[i] = id
			placed[id] = true
		}
	}
	if saved != nil {
		restore(e.starters, saved.Starters)
		restore(e.bench, saved.Bench)
		for _, id := range saved.Available {
			if _, ok := e.roster[id]; ok && !placed[id] {
				e.available = append(e.available, id)
				placed[id] = true
			}
		}
		e.updatedAt = saved.UpdatedAt
	}
	for _, id := range order {
		if !placed[id] {
			e.available = append(e.available, id)
			placed[id] = true
		}
	}
	return e
}

func (e *Engine) TeamID() string {
	return e.teamID
}

// AssignToStarter places the player into a starter slot. With AutoSlot the
// first empty slot for the player's position is used, then any empty slot
// unless positions are strict.
// An occupied explicit slot sends its occupant back to available.
func (e *Engine) AssignToStarter(playerID string, slot int) error {
	return e.mutate(func() (bool, error) {
		player, ok := e.roster[playerID]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
		}
		if slot == AutoSlot {
			if lo.Contains(e.starters, playerID) {
				return false, nil
			}
			slot = e.freeStarterSlot(player.Position)
			if slot < 0 {
				return false, fmt.Errorf("%w: starters", ErrNoFreeSlot)
			}
		} else if err := e.checkIndex(Starters, slot); err != nil {
			return false, err
		} else if e.strict && StarterPositions[slot] != player.Position {
			return false, fmt.Errorf("%w: %s in %s slot %d", ErrPositionMismatch, player.Position, StarterPositions[slot], slot)
		}
		return e.place(Starters, slot, playerID), nil
	})
}

// AssignToBench works like AssignToStarter without position matching.
func (e *Engine) AssignToBench(playerID string, slot int) error {
	return e.mutate(func() (bool, error) {
		if _, ok := e.roster[playerID]; !ok {
			return false, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
		}
		if slot == AutoSlot {
			if lo.Contains(e.bench, playerID) {
				return false, nil
			}
			slot = lo.IndexOf(e.bench, "")
			if slot < 0 {
				return false, fmt.Errorf("%w: bench", ErrNoFreeSlot)
			}
		} else if err := e.checkIndex(Bench, slot); err != nil {
			return false, err
		}
		return e.place(Bench, slot, playerID), nil
	})
}

// Remove clears a slot and returns its player to available. Clearing an
// empty slot is a no-op.
func (e *Engine) Remove(loc Location, index int) error {
	return e.mutate(func() (bool, error) {
		if err := e.checkIndex(loc, index); err != nil {
			return false, err
		}
		slots := e.slots(loc)
		id := slots[index]
		if id == "" {
			return false, nil
		}
		slots[index] = ""
		e.available = append(e.available, id)
		return true, nil
	})
}

// Move drags the player in the source slot onto the destination slot. An
// occupied destination swaps both players.
func (e *Engine) Move(srcLoc Location, srcIndex int, dstLoc Location, dstIndex int) error {
	return e.mutate(func() (bool, error) {
		if err := e.checkIndex(srcLoc, srcIndex); err != nil {
			return false, err
		}
		if err := e.checkIndex(dstLoc, dstIndex); err != nil {
			return false, err
		}
		if srcLoc == dstLoc && srcIndex == dstIndex {
			return false, nil
		}
		src, dst := e.slots(srcLoc), e.slots(dstLoc)
		moving, occupant := src[srcIndex], dst[dstIndex]
		if moving == "" {
			return false, fmt.Errorf("%w: %s %d", ErrEmptySlot, srcLoc, srcIndex)
		}
		if e.strict {
			if err := e.checkPosition(dstLoc, dstIndex, moving); err != nil {
				return false, err
			}
			if occupant != "" {
				if err := e.checkPosition(srcLoc, srcIndex, occupant); err != nil {
					return false, err
				}
			}
		}
		dst[dstIndex] = moving
		src[srcIndex] = occupant
		return true, nil
	})
}

// Validate requires every starter slot to be filled. The bench may be
// incomplete.
func (e *Engine) Validate() Validation {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := Validation{Errors: []string{}, EmptySlots: []int{}}
	for i, id := range e.starters {
		if id != "" {
			continue
		}
		v.Errors = append(v.Errors, fmt.Sprintf("starter slot %d (%s) is empty", i, StarterPositions[i]))
		v.EmptySlots = append(v.EmptySlots, i)
	}
	v.IsValid = len(v.EmptySlots) == 0
	return v
}

func (e *Engine) State() model.SquadState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) Starters() []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slotViews(e.starters, StarterPositions)
}

func (e *Engine) Bench() []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slotViews(e.bench, nil)
}

func (e *Engine) Available() []model.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lo.Map(e.available, func(id string, _ int) model.Player { return e.roster[id] })
}

// Lineup returns the players currently in starter slots.
func (e *Engine) Lineup() []model.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	lineup := make([]model.Player, 0, len(e.starters))
	for _, id := range e.starters {
		if id != "" {
			lineup = append(lineup, e.roster[id])
		}
	}
	return lineup
}

// Roster returns every player the engine knows, in no particular order.
func (e *Engine) Roster() []model.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lo.Values(e.roster)
}

func (e *Engine) mutate(fn func() (bool, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed, err := fn()
	if err != nil || !changed {
		return err
	}
	e.updatedAt = e.now()
	if e.onChange != nil {
		e.onChange(e.snapshot())
	}
	return nil
}

// place puts id into loc[slot], vacating wherever it was before.
func (e *Engine) place(loc Location, slot int, id string) bool {
	slots := e.slots(loc)
	if slots[slot] == id {
		return false
	}
	srcLoc, srcIndex := e.locate(id)
	switch srcLoc {
	case available:
		e.available = append(e.available[:srcIndex], e.available[srcIndex+1:]...)
	case Starters, Bench:
		e.slots(srcLoc)[srcIndex] = ""
	}
	if occupant := slots[slot]; occupant != "" {
		e.available = append(e.available, occupant)
	}
	slots[slot] = id
	return true
}

func (e *Engine) locate(id string) (Location, int) {
	if i := lo.IndexOf(e.starters, id); i >= 0 {
		return Starters, i
	}
	if i := lo.IndexOf(e.bench, id); i >= 0 {
		return Bench, i
	}
	if i := lo.IndexOf(e.available, id); i >= 0 {
		return available, i
	}
	return "", -1
}

// freeStarterSlot finds an empty slot for pos. Only strict engines refuse
// slots of another position.
func (e *Engine) freeStarterSlot(pos model.Position) int {
	for i, id := range e.starters {
		if id == "" && StarterPositions[i] == pos {
			return i
		}
	}
	if e.strict {
		return -1
	}
	return lo.IndexOf(e.starters, "")
}

func (e *Engine) slots(loc Location) []string {
	switch loc {
	case Starters:
		return e.starters
	case Bench:
		return e.bench
	}
	return nil
}

func (e *Engine) checkIndex(loc Location, index int) error {
	slots := e.slots(loc)
	if slots == nil {
		return fmt.Errorf("%w: unknown location %q", ErrInvalidSlot, loc)
	}
	if index < 0 || index >= len(slots) {
		return fmt.Errorf("%w: %s %d", ErrInvalidSlot, loc, index)
	}
	return nil
}

func (e *Engine) checkPosition(loc Location, index int, id string) error {
	if loc != Starters {
		return nil
	}
	player := e.roster[id]
	if StarterPositions[index] != player.Position {
		return fmt.Errorf("%w: %s in %s slot %d", ErrPositionMismatch, player.Position, StarterPositions[index], index)
	}
	return nil
}

func (e *Engine) snapshot() model.SquadState {
	return model.SquadState{
		TeamID:    e.teamID,
		Starters:  append([]string(nil), e.starters...),
		Bench:     append([]string(nil), e.bench...),
		Available: append([]string{}, e.available...),
		UpdatedAt: e.updatedAt,
	}
}

func (e *Engine) slotViews(ids []string, positions []model.Position) []Slot {
	views := make([]Slot, len(ids))
	for i, id := range ids {
		views[i] = Slot{Index: i}
		if positions != nil {
			views[i].Position = positions[i]
		}
		if id != "" {
			p := e.roster[id]
			views[i].Player = &p
		}
	}
	return views
}
