package models

// NutrientTotals holds the six food-group categories reported by the
// daily intake and goal settings endpoints.
type NutrientTotals struct {
	Vegetables float64 `json:"vegetables"`
	Fruits     float64 `json:"fruits"`
	Grains     float64 `json:"grains"`
	Meat       float64 `json:"meat"`
	Dairy      float64 `json:"dairy"`
	Extras     float64 `json:"extras"`
}

// Values returns the categories in a fixed order.
func (n NutrientTotals) Values() []float64 {
	return []float64{n.Vegetables, n.Fruits, n.Grains, n.Meat, n.Dairy, n.Extras}
}

// NutrientTotalsFromMap builds totals from a flat category map; missing categories are zero.
func NutrientTotalsFromMap(m map[string]float64) NutrientTotals {
	return NutrientTotals{
		Vegetables: m["vegetables"],
		Fruits:     m["fruits"],
		Grains:     m["grains"],
		Meat:       m["meat"],
		Dairy:      m["dairy"],
		Extras:     m["extras"],
	}
}
