package services

import "github.com/vantahq/pulseboard/internal/models"

// Scoring heuristics for raw input telemetry. All rates are per minute
// over the sampled window.

const (
	keyboardRateCap = 50.0
	clickRateCap    = 20.0
	movementRateCap = 100.0
)

// ActivityLevel maps raw counters to a 0..100 score. Keyboard input
// carries half the weight, clicks and movements a quarter each.
func ActivityLevel(keystrokes int, mouseClicks int, mouseMovements int, windowMinutes float64) float64 {
	if windowMinutes <= 0 {
		return 0
	}
	keyboardScore := capRatio(float64(keystrokes)/windowMinutes, keyboardRateCap) * 50
	clickScore := capRatio(float64(mouseClicks)/windowMinutes, clickRateCap) * 25
	movementScore := capRatio(float64(mouseMovements)/windowMinutes, movementRateCap) * 25

	total := keyboardScore + clickScore + movementScore
	if total > 100 {
		total = 100
	}
	return total
}

func capRatio(rate float64, limit float64) float64 {
	ratio := rate / limit
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

// DetermineLevel combines the activity score with context modifiers: a
// productive application adds 20, a distracting one subtracts 30, a work
// site adds 15, a distracting site subtracts 25.
func DetermineLevel(activityScore float64, appCategory string, siteCategory string) string {
	score := activityScore
	switch appCategory {
	case AppCategoryDevelopment, AppCategoryDesign, AppCategoryProductive:
		score += 20
	case AppCategoryDistracting:
		score -= 30
	}
	switch siteCategory {
	case SiteCategoryDevelopment, SiteCategoryWorkRelated:
		score += 15
	case SiteCategorySocialMedia, SiteCategoryEntertainment:
		score -= 25
	}

	switch {
	case score >= 80:
		return models.ProductivityVeryHigh
	case score >= 60:
		return models.ProductivityHigh
	case score >= 40:
		return models.ProductivityModerate
	case score >= 20:
		return models.ProductivityLow
	default:
		return models.ProductivityVeryLow
	}
}

// FocusScore rates context switching: under one switch every two minutes
// is full focus, then the score steps down with the switch rate.
func FocusScore(appSwitches int, windowMinutes float64) float64 {
	if windowMinutes <= 0 {
		return 100
	}
	rate := float64(appSwitches) / windowMinutes
	switch {
	case rate <= 0.5:
		return 100
	case rate <= 1.0:
		return 80
	case rate <= 2.0:
		return 60
	default:
		score := 100 - rate*20
		if score < 20 {
			return 20
		}
		return score
	}
}

// EfficiencyScore blends time utilization with the average activity
// level, weighted 60/40.
func EfficiencyScore(timeUtilization float64, averageActivity float64) float64 {
	score := timeUtilization*0.6 + averageActivity*0.4
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
