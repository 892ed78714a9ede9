package votinghandler

import (
	"docflow-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("пустой бюллетень отклоняет документ", func(t *testing.T) {
		require.Equal(t, models.VotingDenied, Resolve(0, 0, 0.5))
		require.Equal(t, models.VotingDenied, Resolve(0, 0, 1))
	})
	t.Run("порог 0.6, 3 за и 2 против", func(t *testing.T) {
		require.Equal(t, models.VotingAccepted, Resolve(3, 2, 0.6))
	})
	t.Run("порог 0.6, 2 за и 3 против", func(t *testing.T) {
		require.Equal(t, models.VotingDenied, Resolve(2, 3, 0.6))
	})
	t.Run("равенство порогу принимает документ", func(t *testing.T) {
		require.Equal(t, models.VotingAccepted, Resolve(1, 1, 0.5))
		require.Equal(t, models.VotingAccepted, Resolve(4, 0, 1))
		require.Equal(t, models.VotingDenied, Resolve(9, 1, 1))
	})
	t.Run("перебор значений", func(t *testing.T) {
		thresholds := []float64{0.1, 0.25, 1.0 / 3, 0.5, 0.6, 2.0 / 3, 0.75, 0.99, 1}
		for f := 0; f <= 12; f++ {
			for a := 0; a <= 12; a++ {
				if f+a == 0 {
					continue
				}
				for _, threshold := range thresholds {
					expected := models.VotingDenied
					if float64(f)/float64(f+a) >= threshold {
						expected = models.VotingAccepted
					}
					require.Equal(t, expected, Resolve(f, a, threshold), "f=%d a=%d t=%v", f, a, threshold)
				}
			}
		}
	})
}
