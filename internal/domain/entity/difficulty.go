package entity

import (
	"sort"
	"strings"
)

// Difficulty is the canonical question difficulty shared by request validation and webhook normalization
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// unrankedDifficulty sorts unknown difficulties after every known one
const unrankedDifficulty = 999

var difficultyRank = map[Difficulty]int{
	DifficultyEasy:   0,
	DifficultyMedium: 1,
	DifficultyHard:   2,
}

// ParseDifficulty folds case and whitespace; ok is false for unknown values
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	_, ok := difficultyRank[d]
	return d, ok
}

// NormalizeDifficulty parses s and falls back to medium
func NormalizeDifficulty(s string) Difficulty {
	if d, ok := ParseDifficulty(s); ok {
		return d
	}
	return DifficultyMedium
}

// IsValid reports whether d is one of the canonical values
func (d Difficulty) IsValid() bool {
	_, ok := difficultyRank[d]
	return ok
}

// Rank orders difficulties easy < medium < hard < anything else
func (d Difficulty) Rank() int {
	if r, ok := difficultyRank[d]; ok {
		return r
	}
	return unrankedDifficulty
}

// Difficulties lists the canonical values in display order
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// SortByDifficulty orders questions easy < medium < hard in place, keeping
// submission order among equal difficulties
func SortByDifficulty(questions []GeneratedQuestion) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Difficulty.Rank() < questions[j].Difficulty.Rank()
	})
}
