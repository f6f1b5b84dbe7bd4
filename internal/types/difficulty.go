// Package types provides type definitions for the interview session data model.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Difficulty is the band a question belongs to. The band fixes the answer
// time limit; it is derived from the question index and is not configurable.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TotalQuestions is the number of questions in a full interview.
const TotalQuestions = 6

// MaxTime returns the per-question answer time limit in seconds.
func (d Difficulty) MaxTime() int {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyMedium:
		return 60
	case DifficultyHard:
		return 120
	default:
		return 0
	}
}

// Valid reports whether d is one of the three known bands.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DifficultyForIndex maps a question index to its band:
// indexes 0-1 are easy, 2-3 medium, 4-5 hard.
func DifficultyForIndex(index int) (Difficulty, error) {
	switch {
	case index < 0 || index >= TotalQuestions:
		return "", fmt.Errorf("question index %d out of range [0,%d)", index, TotalQuestions)
	case index < 2:
		return DifficultyEasy, nil
	case index < 4:
		return DifficultyMedium, nil
	default:
		return DifficultyHard, nil
	}
}
