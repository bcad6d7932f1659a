package store

import (
	"time"

	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/utils"
)

// CountMeals counts records per meal type among those on the same calendar
// day as day. Records without a meal type are not counted. Every meal type
// is present in the result.
func CountMeals(records []models.Record, day time.Time) map[models.MealType]int {
	counts := zeroCounts()
	for _, r := range records {
		if r.MealType == nil || !utils.SameDay(day, r.Date) {
			continue
		}
		counts[*r.MealType]++
	}
	return counts
}

func zeroCounts() map[models.MealType]int {
	counts := make(map[models.MealType]int, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		counts[mt] = 0
	}
	return counts
}

func cloneCounts(in map[models.MealType]int) map[models.MealType]int {
	out := make(map[models.MealType]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
