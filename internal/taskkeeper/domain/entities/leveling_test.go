package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskkeeper/internal/taskkeeper/domain/entities"
)

func TestLevelingCompleteTask(t *testing.T) {
	t.Run("first task does not level up", func(t *testing.T) {
		l := entities.NewLeveling()

		leveled := l.CompleteTask()

		assert.False(t, leveled)
		assert.Equal(t, 0, l.CurrentLevel)
		assert.Equal(t, entities.ExperiencePerTask, l.CurrentExperience)
		assert.Equal(t, entities.ExperiencePerTask, l.TotalExperience)
		assert.Equal(t, 1, l.CompletedTaskCount)
		assert.Equal(t, entities.InitialExperienceThreshold, l.ExperienceThreshold)
	})

	t.Run("reaching the threshold levels up and grows it by ten percent", func(t *testing.T) {
		l := entities.NewLeveling()

		l.CompleteTask()
		leveled := l.CompleteTask()

		assert.True(t, leveled)
		assert.Equal(t, 1, l.CurrentLevel)
		assert.Equal(t, 0, l.CurrentExperience)
		assert.Equal(t, 11, l.ExperienceThreshold)
	})

	t.Run("multiple level-ups from a single completion", func(t *testing.T) {
		l := entities.Leveling{CurrentExperience: 4, ExperienceThreshold: 3}

		leveled := l.CompleteTask()

		assert.True(t, leveled)
		assert.Equal(t, 3, l.CurrentLevel)
		assert.Equal(t, 0, l.CurrentExperience)
		assert.Equal(t, 3, l.ExperienceThreshold, "threshold below ten never grows")
	})

	t.Run("invariant holds over many completions", func(t *testing.T) {
		l := entities.NewLeveling()
		prevThreshold := l.ExperienceThreshold
		prevTotal := l.TotalExperience

		for i := 0; i < 500; i++ {
			l.CompleteTask()

			require.GreaterOrEqual(t, l.CurrentExperience, 0)
			require.Less(t, l.CurrentExperience, l.ExperienceThreshold)
			require.GreaterOrEqual(t, l.ExperienceThreshold, prevThreshold)
			require.Greater(t, l.TotalExperience, prevTotal)
			require.Equal(t, i+1, l.CompletedTaskCount)
			require.NoError(t, l.Validate())

			prevThreshold = l.ExperienceThreshold
			prevTotal = l.TotalExperience
		}
	})
}

func TestLevelingValidate(t *testing.T) {
	tests := []struct {
		name     string
		leveling entities.Leveling
		wantErr  bool
	}{
		{"initial", entities.NewLeveling(), false},
		{"experience equals threshold", entities.Leveling{CurrentExperience: 10, ExperienceThreshold: 10}, true},
		{"zero threshold", entities.Leveling{}, true},
		{"negative level", entities.Leveling{CurrentLevel: -1, ExperienceThreshold: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.leveling.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrInvalidLeveling)
				assert.ErrorIs(t, err, entities.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
		})
	}
}
