package handler

import (
	"errors"
	"math"

	"favameal/backend/internal/repository"
)

// MealView carries the per-request, per-user derived attributes of a meal.
// It is computed fresh for every request and never stored on the meal itself,
// so one user's view cannot leak into another user's response.
//
// Nil AvgRating means the meal has no ratings yet; nil UserRating means the
// requesting user has not rated it. Absence is never encoded as zero.
type MealView struct {
	AvgRating  *float64
	UserRating *int
	IsFavorite bool
}

// computeMealView derives the view of a meal for the requesting user. The
// absent-rating cases are ordinary outcomes, not errors; only store failures
// propagate.
func computeMealView(ratings repository.RatingStore, favorites repository.FavoriteStore, mealID, userID uint) (MealView, error) {
	var view MealView

	rows, err := ratings.ListByMeal(mealID)
	if err != nil {
		return MealView{}, err
	}
	if len(rows) > 0 {
		sum := 0
		for _, row := range rows {
			sum += row.Rating
		}
		avg := roundToTenth(float64(sum) / float64(len(rows)))
		view.AvgRating = &avg
	}

	own, err := ratings.Get(mealID, userID)
	switch {
	case err == nil:
		value := own.Rating
		view.UserRating = &value
	case !errors.Is(err, repository.ErrNotFound):
		return MealView{}, err
	}

	isFavorite, err := favorites.Exists(mealID, userID)
	if err != nil {
		return MealView{}, err
	}
	view.IsFavorite = isFavorite

	return view, nil
}

// roundToTenth rounds to one decimal place, halves rounding away from zero
// (math.Round semantics).
func roundToTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
