// Package scoring ranks destinations against a traveller's preferences and
// against each other. Both scores are pure functions used only for ordering.
package scoring

import (
	"math"
	"strings"

	"tripwise/models"
)

// VisitedScore is returned for destinations the traveller has already visited.
const VisitedScore = -100.0

const (
	wishlistBonus      = 50
	interestBonus      = 10
	budgetBonus        = 10
	accessibilityBonus = 10
	childFriendlyBonus = 10
	climateBonus       = 5
	ratingWeight       = 2
)

// interestRule decides whether a destination satisfies one interest.
type interestRule func(d *models.Destination) bool

var interestRules = map[models.Interest]interestRule{
	models.InterestBeaches: func(d *models.Destination) bool {
		return d.Type == models.TypeBeach || d.HasTagContaining("beach")
	},
	models.InterestMountains: func(d *models.Destination) bool {
		return d.Type == models.TypeMountain || d.HasTagContaining("mountain")
	},
	models.InterestCities: func(d *models.Destination) bool {
		return d.Type == models.TypeCity
	},
	models.InterestMuseums: func(d *models.Destination) bool {
		return d.Type == models.TypeMuseum || d.HasTagContaining("museum")
	},
	models.InterestHistoricalSites: func(d *models.Destination) bool {
		return d.Type == models.TypeHistorical || d.HasTagContaining("historical", "history")
	},
	models.InterestFood: func(d *models.Destination) bool {
		return d.Type == models.TypeRestaurant || d.HasTagContaining("food", "culinary")
	},
	models.InterestShopping: func(d *models.Destination) bool {
		return d.Type == models.TypeShopping || d.HasTagContaining("shopping")
	},
	models.InterestNightlife: func(d *models.Destination) bool {
		return d.Category == models.CategoryNightlife || d.HasTagContaining("nightlife")
	},
	models.InterestNature: func(d *models.Destination) bool {
		return d.Category == models.CategoryNature || d.Type == models.TypeNaturalLandmark || d.HasTagContaining("nature")
	},
	models.InterestCulture: func(d *models.Destination) bool {
		return d.Category == models.CategoryCultural || d.Type == models.TypeCultural || d.HasTagContaining("culture")
	},
}

// MatchesInterest reports whether d satisfies interest. Interests without a
// rule never match.
func MatchesInterest(d *models.Destination, interest models.Interest) bool {
	rule, ok := interestRules[interest]
	return ok && rule(d)
}

// CostCeiling is the most expensive cost level acceptable for a budget.
// Unknown budget levels use the Medium ceiling.
func CostCeiling(b models.BudgetLevel) models.CostLevel {
	switch b {
	case models.BudgetLow:
		return models.CostLow
	case models.BudgetLuxury:
		return models.CostHigh
	case models.BudgetUltraLuxury:
		return models.CostVeryHigh
	default:
		return models.CostMedium
	}
}

func fitsBudget(c models.CostLevel, b models.BudgetLevel) bool {
	return c == models.CostFree || c <= CostCeiling(b)
}

// Score measures how well d fits p. Visited destinations score VisitedScore
// and are left to the caller to drop.
func Score(d *models.Destination, p *models.Preference) float64 {
	if p.HasVisited(d.DestinationID) {
		return VisitedScore
	}

	score := 0.0
	if p.InWishlist(d.DestinationID) {
		score += wishlistBonus
	}
	for _, interest := range p.Interests.List() {
		if MatchesInterest(d, interest) {
			score += interestBonus
		}
	}
	if fitsBudget(d.CostLevel, p.BudgetLevel) {
		score += budgetBonus
	}
	// Any stated requirement counts; the specific bits are not compared.
	if p.Accessibility.Any() && d.IsAccessible {
		score += accessibilityBonus
	}
	if p.ChildFriendly && d.IsChildFriendly {
		score += childFriendlyBonus
	}
	if p.PreferredClimates.Has(d.Climate) {
		score += climateBonus
	}
	score += d.AverageRating * ratingWeight
	return score
}

// Similarity measures attribute overlap between two destinations.
func Similarity(a, b *models.Destination) float64 {
	score := 0.0
	if a.Type == b.Type {
		score += 20
	}
	if a.Category == b.Category {
		score += 20
	}
	if strings.EqualFold(a.Country, b.Country) {
		score += 10
	}
	if strings.EqualFold(a.Region, b.Region) {
		score += 15
	}
	score += 5 * float64(commonTags(a.Tags, b.Tags))

	diff := math.Abs(float64(a.CostLevel - b.CostLevel))
	score += (5 - diff) * 2

	if a.Climate == b.Climate {
		score += 10
	}
	if a.IsAccessible == b.IsAccessible {
		score += 5
	}
	if a.IsChildFriendly == b.IsChildFriendly {
		score += 5
	}
	score += 2 * float64(commonSeasons(a.RecommendedSeasons, b.RecommendedSeasons))
	return score
}

func commonTags(a, b []string) int {
	seen := make(map[string]struct{}, len(a))
	for _, t := range a {
		seen[strings.ToLower(t)] = struct{}{}
	}
	n := 0
	for _, t := range b {
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			n++
			delete(seen, k)
		}
	}
	return n
}

func commonSeasons(a, b []models.Season) int {
	seen := make(map[models.Season]struct{}, len(a))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	n := 0
	for _, s := range b {
		if _, ok := seen[s]; ok {
			n++
			delete(seen, s)
		}
	}
	return n
}
