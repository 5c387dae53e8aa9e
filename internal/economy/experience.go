package economy

import "github.com/napolitain/catvillage/internal/models"

// AddExperience grants experience, crossing as many levels as it covers
func (e *Engine) AddExperience(s *models.PlayerSnapshot, amount int) (*models.PlayerSnapshot, Result) {
	next := s.Clone()
	levels := addExperience(next, amount)
	return next, Result{
		Action:           ActionExperience,
		MessageKey:       "experience.ok",
		ExperienceGained: max(amount, 0),
		LeveledUp:        levels > 0,
		Level:            next.Level,
	}
}

// addExperience mutates s and returns the number of levels gained
func addExperience(s *models.PlayerSnapshot, amount int) int {
	if amount <= 0 {
		return 0
	}
	if s.Level < 1 {
		s.Level = 1
	}
	s.Experience += amount

	gained := 0
	for s.Experience >= s.Level*ExperiencePerPlayerLevel {
		s.Experience -= s.Level * ExperiencePerPlayerLevel
		s.Level++
		gained++
	}
	return gained
}
