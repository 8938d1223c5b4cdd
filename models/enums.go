package models

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

type DestinationType string

const (
	TypeCity            DestinationType = "City"
	TypeRegion          DestinationType = "Region"
	TypeCountry         DestinationType = "Country"
	TypeAttraction      DestinationType = "Attraction"
	TypeNaturalLandmark DestinationType = "NaturalLandmark"
	TypeHotel           DestinationType = "Hotel"
	TypeRestaurant      DestinationType = "Restaurant"
	TypeMuseum          DestinationType = "Museum"
	TypePark            DestinationType = "Park"
	TypeBeach           DestinationType = "Beach"
	TypeMountain        DestinationType = "Mountain"
	TypeHistorical      DestinationType = "Historical"
	TypeCultural        DestinationType = "Cultural"
	TypeEntertainment   DestinationType = "Entertainment"
	TypeShopping        DestinationType = "Shopping"
)

type DestinationCategory string

const (
	CategoryLandmark      DestinationCategory = "Landmark"
	CategoryAccommodation DestinationCategory = "Accommodation"
	CategoryDining        DestinationCategory = "Dining"
	CategoryNightlife     DestinationCategory = "Nightlife"
	CategoryShopping      DestinationCategory = "Shopping"
	CategoryNature        DestinationCategory = "Nature"
	CategoryCultural      DestinationCategory = "Cultural"
	CategoryHistorical    DestinationCategory = "Historical"
	CategoryEntertainment DestinationCategory = "Entertainment"
	CategorySports        DestinationCategory = "Sports"
	CategoryWellness      DestinationCategory = "Wellness"
	CategoryEducational   DestinationCategory = "Educational"
	CategoryReligious     DestinationCategory = "Religious"
	CategoryBusiness      DestinationCategory = "Business"
	CategoryTransport     DestinationCategory = "Transport"
)

type Season string

const (
	SeasonSpring    Season = "Spring"
	SeasonSummer    Season = "Summer"
	SeasonAutumn    Season = "Autumn"
	SeasonWinter    Season = "Winter"
	SeasonYearRound Season = "YearRound"
)

var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter, SeasonYearRound}

// ParseSeason matches a season name ignoring case.
func ParseSeason(s string) (Season, bool) {
	for _, v := range Seasons {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

// CostLevel is ordered: Free < Low < Medium < High < VeryHigh.
type CostLevel int

const (
	CostFree CostLevel = iota
	CostLow
	CostMedium
	CostHigh
	CostVeryHigh
)

var costLevelNames = []string{"Free", "Low", "Medium", "High", "VeryHigh"}

func (c CostLevel) String() string {
	if c < CostFree || c > CostVeryHigh {
		return fmt.Sprintf("CostLevel(%d)", int(c))
	}
	return costLevelNames[c]
}

func ParseCostLevel(s string) (CostLevel, bool) {
	for i, n := range costLevelNames {
		if strings.EqualFold(n, s) {
			return CostLevel(i), true
		}
	}
	return 0, false
}

func (c CostLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CostLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if nerr := json.Unmarshal(b, &n); nerr != nil {
			return err
		}
		*c = CostLevel(n)
		return nil
	}
	v, ok := ParseCostLevel(s)
	if !ok {
		return fmt.Errorf("unknown cost level %q", s)
	}
	*c = v
	return nil
}

type BudgetLevel string

const (
	BudgetLow         BudgetLevel = "Budget"
	BudgetMedium      BudgetLevel = "Medium"
	BudgetLuxury      BudgetLevel = "Luxury"
	BudgetUltraLuxury BudgetLevel = "UltraLuxury"
)

type TravelPace string

const (
	PaceRelaxed   TravelPace = "Relaxed"
	PaceModerate  TravelPace = "Moderate"
	PaceIntensive TravelPace = "Intensive"
)

type AccommodationType string

const (
	AccommodationHotel           AccommodationType = "Hotel"
	AccommodationHostel          AccommodationType = "Hostel"
	AccommodationResort          AccommodationType = "Resort"
	AccommodationApartment       AccommodationType = "Apartment"
	AccommodationVilla           AccommodationType = "Villa"
	AccommodationBedAndBreakfast AccommodationType = "BedAndBreakfast"
	AccommodationCamping         AccommodationType = "Camping"
	AccommodationGuestHouse      AccommodationType = "GuestHouse"
	AccommodationBoutique        AccommodationType = "Boutique"
	AccommodationLuxuryHotel     AccommodationType = "LuxuryHotel"
)

type TripDuration string

const (
	TripWeekend  TripDuration = "Weekend"
	TripShort    TripDuration = "Short"
	TripMedium   TripDuration = "Medium"
	TripLong     TripDuration = "Long"
	TripExtended TripDuration = "Extended"
)

type ItemType string

const (
	ItemAccommodation  ItemType = "Accommodation"
	ItemActivity       ItemType = "Activity"
	ItemAttraction     ItemType = "Attraction"
	ItemDining         ItemType = "Dining"
	ItemTransportation ItemType = "Transportation"
	ItemFreeTime       ItemType = "FreeTime"
	ItemEvent          ItemType = "Event"
	ItemBooking        ItemType = "Booking"
	ItemNote           ItemType = "Note"
)

type FeedbackType string

const (
	FeedbackItineraryRating     FeedbackType = "ItineraryRating"
	FeedbackDestinationReview   FeedbackType = "DestinationReview"
	FeedbackItineraryItemReview FeedbackType = "ItineraryItemReview"
	FeedbackAIEngineRating      FeedbackType = "AIEngineRating"
	FeedbackApp                 FeedbackType = "AppFeedback"
	FeedbackFeatureRequest      FeedbackType = "FeatureRequest"
)

type FeedbackAspect string

const (
	AspectValue           FeedbackAspect = "Value"
	AspectAccuracy        FeedbackAspect = "Accuracy"
	AspectUsefulness      FeedbackAspect = "Usefulness"
	AspectRelevance       FeedbackAspect = "Relevance"
	AspectCompleteness    FeedbackAspect = "Completeness"
	AspectVariety         FeedbackAspect = "Variety"
	AspectQuality         FeedbackAspect = "Quality"
	AspectCreativity      FeedbackAspect = "Creativity"
	AspectOrganization    FeedbackAspect = "Organization"
	AspectPace            FeedbackAspect = "Pace"
	AspectTransportation  FeedbackAspect = "Transportation"
	AspectAccommodation   FeedbackAspect = "Accommodation"
	AspectActivities      FeedbackAspect = "Activities"
	AspectFood            FeedbackAspect = "Food"
	AspectCostEstimation  FeedbackAspect = "CostEstimation"
	AspectTimeEstimation  FeedbackAspect = "TimeEstimation"
	AspectUserInterface   FeedbackAspect = "UserInterface"
	AspectRecommendations FeedbackAspect = "Recommendations"
)
