// Package progress turns daily intake and goal settings into a single
// completion ratio and a motivational message.
package progress

import (
	"math"

	"github.com/vitatrack/vitatrack/internal/models"
)

// Calculate returns the mean of the per-category completion ratios, each
// capped at 1. A category with no positive goal contributes 0.
func Calculate(intake, goals models.NutrientTotals) float64 {
	in := intake.Values()
	goal := goals.Values()

	var sum float64
	for i := range goal {
		sum += ratio(in[i], goal[i])
	}
	return sum / float64(len(goal))
}

func ratio(intake, goal float64) float64 {
	if goal <= 0 || intake <= 0 || math.IsNaN(intake) || math.IsNaN(goal) {
		return 0
	}
	return math.Min(intake/goal, 1)
}

// Message picks the motivational message for a completion ratio.
func Message(ratio float64) string {
	switch {
	case ratio < 0.2:
		return "Start your day with purpose! Every step counts on your journey to better health."
	case ratio < 0.4:
		return "You're making great progress! Keep moving forward and remember that consistency leads to results."
	case ratio < 0.6:
		return "You're halfway there! Your dedication is truly inspiring. Push through these next steps."
	case ratio < 0.8:
		return "You're almost there! Keep up the great work and stay motivated."
	case ratio < 1.0:
		return "So close to the finish line! Perseverance is the key to success."
	default:
		return "Congratulations on achieving your goal today! Celebrate this win!"
	}
}

// Percent formats ratio as a whole percentage for display.
func Percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}
