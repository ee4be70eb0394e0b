package entities

import "fmt"

// Параметры системы уровней.
const (
	ExperiencePerTask          = 5
	InitialExperienceThreshold = 10
	thresholdGrowthDivisor     = 10
)

// ErrInvalidLeveling возвращается при восстановлении несогласованного состояния уровня.
var ErrInvalidLeveling = fmt.Errorf("%w: leveling state is inconsistent", ErrInvalidArgument)

// Leveling - состояние прогресса пользователя.
// Инвариант: 0 <= CurrentExperience < ExperienceThreshold.
type Leveling struct {
	CurrentLevel        int `json:"currentLevel"`
	CurrentExperience   int `json:"currentExperience"`
	TotalExperience     int `json:"totalExperience"`
	CompletedTaskCount  int `json:"completedTaskCount"`
	ExperienceThreshold int `json:"experienceThreshold"`
}

// NewLeveling возвращает начальное состояние: уровень 0, порог 10.
func NewLeveling() Leveling {
	return Leveling{ExperienceThreshold: InitialExperienceThreshold}
}

// CompleteTask начисляет опыт за задачу и повышает уровень столько раз,
// сколько нужно для восстановления инварианта. Возвращает true, если был хотя бы один level-up.
//
// Порог растет на threshold/10 с отбрасыванием дробной части, поэтому при пороге
// меньше 10 рост прекращается.
func (l *Leveling) CompleteTask() bool {
	l.CurrentExperience += ExperiencePerTask
	l.TotalExperience += ExperiencePerTask
	l.CompletedTaskCount++

	leveledUp := false
	for l.CurrentExperience >= l.ExperienceThreshold {
		l.CurrentLevel++
		l.CurrentExperience -= l.ExperienceThreshold
		l.ExperienceThreshold += l.ExperienceThreshold / thresholdGrowthDivisor
		leveledUp = true
	}
	return leveledUp
}

// Validate проверяет инварианты состояния.
func (l Leveling) Validate() error {
	switch {
	case l.CurrentLevel < 0,
		l.CurrentExperience < 0,
		l.TotalExperience < 0,
		l.CompletedTaskCount < 0,
		l.ExperienceThreshold <= 0,
		l.CurrentExperience >= l.ExperienceThreshold:
		return ErrInvalidLeveling
	}
	return nil
}
