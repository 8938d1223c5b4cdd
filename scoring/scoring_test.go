package scoring

import (
	"testing"

	"tripwise/models"
)

func plainPreference() *models.Preference {
	return &models.Preference{BudgetLevel: models.BudgetMedium}
}

func TestVisitedIsHardExclusion(t *testing.T) {
	d := &models.Destination{
		DestinationID:   "d1",
		Type:            models.TypeBeach,
		AverageRating:   5,
		IsChildFriendly: true,
	}
	p := plainPreference()
	p.VisitedDestinations = []string{"d1"}
	p.WishlistDestinations = []string{"d1"}
	p.Interests = models.InterestBeaches
	p.ChildFriendly = true
	if s := Score(d, p); s != VisitedScore {
		t.Fatalf("expected %v, got %v", VisitedScore, s)
	}
}

func TestWishlistScenario(t *testing.T) {
	p := plainPreference()
	p.VisitedDestinations = []string{"d1"}
	p.WishlistDestinations = []string{"d2"}

	d1 := &models.Destination{DestinationID: "d1", AverageRating: 4}
	d2 := &models.Destination{DestinationID: "d2", AverageRating: 4, CostLevel: models.CostVeryHigh}

	if s := Score(d1, p); s != -100 {
		t.Fatalf("visited: %v", s)
	}
	// wishlist 50 + rating 8; VeryHigh is above the Medium ceiling
	if s := Score(d2, p); s != 58 {
		t.Fatalf("wishlist: %v", s)
	}
}

func TestScoreComponents(t *testing.T) {
	d := &models.Destination{
		DestinationID:   "d1",
		Type:            models.TypeBeach,
		Category:        models.CategoryNature,
		Tags:            []string{"Street FOOD", "Nightlife"},
		CostLevel:       models.CostLow,
		Climate:         models.ClimateTropical,
		IsAccessible:    true,
		IsChildFriendly: true,
		AverageRating:   3,
	}
	p := plainPreference()
	p.Interests = models.InterestBeaches | models.InterestFood | models.InterestNightlife |
		models.InterestNature | models.InterestAdventure
	p.Accessibility = models.AccessHearingImpairment
	p.ChildFriendly = true
	p.PreferredClimates = models.ClimateTropical | models.ClimateCoastal

	// 4 matched interests, budget, accessibility, child friendly, climate, rating
	want := 40.0 + 10 + 10 + 10 + 5 + 6
	if s := Score(d, p); s != want {
		t.Fatalf("expected %v, got %v", want, s)
	}
}

func TestUnruledInterestsNeverMatch(t *testing.T) {
	d := &models.Destination{Tags: []string{"adventure", "wildlife", "architecture"}}
	for _, i := range []models.Interest{
		models.InterestAdventure, models.InterestRelaxation, models.InterestSports,
		models.InterestFamilyActivities, models.InterestLocalExperiences, models.InterestWildlife,
		models.InterestPhotographySpots, models.InterestArchitecture,
	} {
		if MatchesInterest(d, i) {
			t.Fatalf("%v should not match", i)
		}
	}
}

func TestBudgetCeilings(t *testing.T) {
	cases := []struct {
		budget models.BudgetLevel
		cost   models.CostLevel
		fits   bool
	}{
		{models.BudgetLow, models.CostLow, true},
		{models.BudgetLow, models.CostMedium, false},
		{models.BudgetLow, models.CostFree, true},
		{models.BudgetMedium, models.CostMedium, true},
		{models.BudgetMedium, models.CostHigh, false},
		{models.BudgetLuxury, models.CostHigh, true},
		{models.BudgetLuxury, models.CostVeryHigh, false},
		{models.BudgetUltraLuxury, models.CostVeryHigh, true},
		{models.BudgetLevel("Unknown"), models.CostMedium, true},
		{models.BudgetLevel("Unknown"), models.CostHigh, false},
	}
	for _, c := range cases {
		if got := fitsBudget(c.cost, c.budget); got != c.fits {
			t.Fatalf("%s/%s: expected %v", c.budget, c.cost, c.fits)
		}
	}
}

func TestScoreMonotonicInRating(t *testing.T) {
	p := plainPreference()
	p.Interests = models.InterestCities
	prev := -1.0
	for r := 0.0; r <= 5; r += 0.5 {
		d := &models.Destination{DestinationID: "x", Type: models.TypeCity, AverageRating: r}
		s := Score(d, p)
		if s < prev {
			t.Fatalf("score decreased at rating %v: %v < %v", r, s, prev)
		}
		prev = s
	}
}

func sampleDestinations() []*models.Destination {
	return []*models.Destination{
		{
			DestinationID: "a", Type: models.TypeCity, Category: models.CategoryCultural,
			Country: "Japan", Region: "Kansai", Tags: []string{"Temples", "food"},
			CostLevel: models.CostMedium, Climate: models.ClimateTemperate,
			RecommendedSeasons: []models.Season{models.SeasonSpring, models.SeasonAutumn},
		},
		{
			DestinationID: "b", Type: models.TypeCity, Category: models.CategoryHistorical,
			Country: "japan", Region: "KANSAI", Tags: []string{"temples", "Gardens"},
			CostLevel: models.CostHigh, Climate: models.ClimateTemperate, IsAccessible: true,
			RecommendedSeasons: []models.Season{models.SeasonAutumn},
		},
		{
			DestinationID: "c", Type: models.TypeBeach, Category: models.CategoryNature,
			Country: "Thailand", Tags: []string{"beach"}, CostLevel: models.CostFree,
			Climate: models.ClimateTropical, IsChildFriendly: true,
		},
	}
}

func TestSimilarityKnownPair(t *testing.T) {
	ds := sampleDestinations()
	// type 20, country 10, region 15, one tag 5, cost diff 1 -> 8, climate 10,
	// child friendly 5, one season 2
	if s := Similarity(ds[0], ds[1]); s != 75 {
		t.Fatalf("expected 75, got %v", s)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	ds := sampleDestinations()
	for _, a := range ds {
		for _, b := range ds {
			if Similarity(a, b) != Similarity(b, a) {
				t.Fatalf("asymmetric for %s/%s", a.DestinationID, b.DestinationID)
			}
		}
	}
}

func TestSimilaritySelfIsMaximal(t *testing.T) {
	ds := sampleDestinations()
	for _, a := range ds {
		self := Similarity(a, a)
		for _, b := range ds {
			if b != a && Similarity(a, b) > self {
				t.Fatalf("%s is more similar to %s than to itself", a.DestinationID, b.DestinationID)
			}
		}
	}
}
