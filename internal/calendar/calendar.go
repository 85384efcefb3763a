// Package calendar loads and validates the level content table.
package calendar

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"adventcalendar/internal/models"
	"adventcalendar/internal/puzzle"
	"adventcalendar/internal/timegate"
)

//go:embed default.yaml
var defaultCalendar []byte

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Default returns the built-in calendar
func Default() (*models.Calendar, error) {
	return Parse(defaultCalendar)
}

// Load reads a calendar from path. An empty path selects the built-in calendar.
func Load(path string) (*models.Calendar, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}
	cal, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cal, nil
}

// Parse decodes and validates a YAML calendar document
func Parse(b []byte) (*models.Calendar, error) {
	var cal models.Calendar
	if err := yaml.Unmarshal(b, &cal); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	if err := Validate(&cal); err != nil {
		return nil, err
	}
	return &cal, nil
}

// Validate checks the structural rules every calendar must follow
func Validate(cal *models.Calendar) error {
	if len(cal.Levels) == 0 {
		return fmt.Errorf("calendar has no levels")
	}

	ids := make(map[int]bool, len(cal.Levels))
	gates := 0
	prev := 0
	for _, level := range cal.Levels {
		if level.ID <= 0 {
			return fmt.Errorf("level id must be positive, got %d", level.ID)
		}
		if ids[level.ID] {
			return fmt.Errorf("duplicate level id %d", level.ID)
		}
		if level.ID <= prev {
			return fmt.Errorf("level %d is out of order", level.ID)
		}
		ids[level.ID] = true
		prev = level.ID

		if level.Title == "" {
			return fmt.Errorf("level %d: title is required", level.ID)
		}
		if _, err := timegate.ParseDate(level.UnlockDate, nil); err != nil {
			return fmt.Errorf("level %d: %w", level.ID, err)
		}
		if level.Gate != nil {
			gates++
			if level.Gate.PasswordHash == "" {
				return fmt.Errorf("level %d: gate.password_hash is required", level.ID)
			}
		}
		if err := validatePuzzles(&level); err != nil {
			return err
		}
	}
	if gates > 1 {
		return fmt.Errorf("only one level may carry a gate, found %d", gates)
	}

	for _, level := range cal.Levels {
		refs := level.OnComplete.Unlocks
		if level.Gate != nil {
			refs = append(append([]int(nil), refs...), level.Gate.AlsoUnlocks...)
		}
		for _, id := range refs {
			if !ids[id] {
				return fmt.Errorf("level %d: unlocks unknown level %d", level.ID, id)
			}
		}
	}
	return nil
}

func validatePuzzles(level *models.LevelConfig) error {
	seen := make(map[string]bool, len(level.Puzzles))
	for _, def := range level.Puzzles {
		if err := puzzle.Validate(def); err != nil {
			return fmt.Errorf("level %d: %w", level.ID, err)
		}
		if seen[def.ID] {
			return fmt.Errorf("level %d: duplicate puzzle id %q", level.ID, def.ID)
		}
		seen[def.ID] = true
		if def.Hint != nil && len(def.Hint.Codes) == 0 {
			return fmt.Errorf("level %d: puzzle %s: hint needs at least one unlock code", level.ID, def.ID)
		}
	}
	if level.FinalCode != "" {
		if level.FragmentSlots() == 0 {
			return fmt.Errorf("level %d: final_code requires at least one fragment puzzle", level.ID)
		}
		if !digitsOnly.MatchString(level.FinalCode) {
			return fmt.Errorf("level %d: final_code must be digits only", level.ID)
		}
	}
	return nil
}
