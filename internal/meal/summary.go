package meal

// Total wraps a single count in the {"total": n} shape of the summary.
type Total struct {
	Total int `json:"total"`
}

// Summary aggregates a user's meals.
type Summary struct {
	TotalMeals             Total `json:"totalMeals"`
	TotalMealsDietTrue     Total `json:"totalMealsDietTrue"`
	TotalMealsDietFalse    Total `json:"totalMealsDietFalse"`
	TotalMealsDietSequence Total `json:"totalMealsDietSequence"`
}

// LongestDietStreak returns the longest run of consecutive true values.
// flags must be in the listing order (date_time descending): with colliding
// timestamps the order decides which run is counted.
func LongestDietStreak(flags []bool) int {
	current, longest := 0, 0
	for _, onDiet := range flags {
		if !onDiet {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}
