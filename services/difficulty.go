package services

import "github.com/Narain-karthick/Prep2Hire/models"

// Score bands for difficulty adaptation. Boundary values belong to the
// maintain band: only a strictly higher score steps up and only a strictly
// lower score steps down.
const (
	stepUpThreshold   = 75
	stepDownThreshold = 40
)

// NextDifficulty maps the last overall answer score to the difficulty of the
// next question. Pure lookup: >75 steps up one band, <40 steps down one band,
// anything in between keeps the current band. Clamped at easy and hard.
func NextDifficulty(current string, lastOverall int) string {
	switch {
	case lastOverall > stepUpThreshold:
		switch current {
		case models.DifficultyEasy:
			return models.DifficultyMedium
		case models.DifficultyMedium:
			return models.DifficultyHard
		}
	case lastOverall < stepDownThreshold:
		switch current {
		case models.DifficultyHard:
			return models.DifficultyMedium
		case models.DifficultyMedium:
			return models.DifficultyEasy
		}
	}
	return current
}
