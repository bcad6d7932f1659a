package progress

import (
	"math"
	"strings"
	"testing"

	"github.com/vitatrack/vitatrack/internal/models"
)

func TestCalculate(t *testing.T) {
	goals := models.NutrientTotals{Vegetables: 5, Fruits: 2, Grains: 6, Meat: 3, Dairy: 2, Extras: 1}

	tests := []struct {
		name   string
		intake models.NutrientTotals
		goals  models.NutrientTotals
		want   float64
	}{
		{name: "nothing eaten", goals: goals, want: 0},
		{
			name:   "all goals met",
			intake: goals,
			goals:  goals,
			want:   1,
		},
		{
			name:   "overshoot is capped",
			intake: models.NutrientTotals{Vegetables: 50, Fruits: 20, Grains: 60, Meat: 30, Dairy: 20, Extras: 10},
			goals:  goals,
			want:   1,
		},
		{
			name:   "half of every category",
			intake: models.NutrientTotals{Vegetables: 2.5, Fruits: 1, Grains: 3, Meat: 1.5, Dairy: 1, Extras: 0.5},
			goals:  goals,
			want:   0.5,
		},
		{
			name:   "zero goal contributes nothing",
			intake: models.NutrientTotals{Vegetables: 5, Fruits: 2, Grains: 6, Meat: 3, Dairy: 2, Extras: 4},
			goals:  models.NutrientTotals{Vegetables: 5, Fruits: 2, Grains: 6, Meat: 3, Dairy: 2},
			want:   5.0 / 6.0,
		},
		{name: "no goals at all", intake: goals, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.intake, tt.goals)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Calculate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "Start your day"},
		{0.19, "Start your day"},
		{0.2, "making great progress"},
		{0.45, "halfway there"},
		{0.79, "almost there"},
		{0.99, "So close"},
		{1, "Congratulations"},
	}

	for _, tt := range tests {
		if got := Message(tt.ratio); !strings.Contains(got, tt.want) {
			t.Errorf("Message(%v) = %q, want it to contain %q", tt.ratio, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(5.0 / 6.0); got != 83 {
		t.Errorf("Percent() = %d, want 83", got)
	}
}
