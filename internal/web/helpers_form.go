package web

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"volley-app/internal/squad"
)

const maxRevealDelay = 30 * time.Second

// parseSlot reads an optional slot index; a missing value means any free slot.
func parseSlot(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return squad.AutoSlot, nil
	}
	slot, err := strconv.Atoi(value)
	if err != nil || slot < 0 {
		return 0, fmt.Errorf("%w: %q", squad.ErrInvalidSlot, value)
	}
	return slot, nil
}

func parseIndex(name, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	index, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return index, nil
}

func parseLocation(name, value string) (squad.Location, error) {
	loc, ok := squad.ParseLocation(strings.ToLower(strings.TrimSpace(value)))
	if !ok {
		return "", fmt.Errorf("invalid %s %q, expected starters or bench", name, value)
	}
	return loc, nil
}

// parseDelay accepts a Go duration ("1500ms") or whole milliseconds. An empty
// value yields fallback.
func parseDelay(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	delay, err := time.ParseDuration(value)
	if err != nil {
		ms, convErr := strconv.Atoi(value)
		if convErr != nil {
			return 0, fmt.Errorf("invalid delay %q", value)
		}
		delay = time.Duration(ms) * time.Millisecond
	}
	if delay < 0 {
		return 0, errors.New("delay must not be negative")
	}
	if delay > maxRevealDelay {
		return 0, fmt.Errorf("delay must not exceed %s", maxRevealDelay)
	}
	return delay, nil
}
