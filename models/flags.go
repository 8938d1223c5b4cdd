package models

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Flag sets are stored as bitmasks in Mongo and exchanged as arrays of names
// over JSON. Bit i of a set corresponds to names[i].

type bitflag interface{ ~uint32 }

func hasFlag[T bitflag](set, f T) bool {
	return f != 0 && set&f == f
}

func listFlags[T bitflag](set T, n int) []T {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		f := T(1) << uint(i)
		if set&f != 0 {
			out = append(out, f)
		}
	}
	return out
}

func flagName[T bitflag](f T, names []string) string {
	for i, n := range names {
		if T(1)<<uint(i) == f {
			return n
		}
	}
	return fmt.Sprintf("0x%x", uint32(f))
}

func marshalFlags[T bitflag](set T, names []string) ([]byte, error) {
	out := make([]string, 0, len(names))
	for i, n := range names {
		if set&(T(1)<<uint(i)) != 0 {
			out = append(out, n)
		}
	}
	return json.Marshal(out)
}

func unmarshalFlags[T bitflag](data []byte, names []string, kind string) (T, error) {
	var in []string
	if err := json.Unmarshal(data, &in); err != nil {
		return 0, err
	}
	return ParseFlags[T](in, names, kind)
}

// ParseFlags converts names into a set, ignoring case.
func ParseFlags[T bitflag](in []string, names []string, kind string) (T, error) {
	var set T
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		idx := -1
		for i, n := range names {
			if strings.EqualFold(n, s) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, fmt.Errorf("unknown %s %q", kind, s)
		}
		set |= T(1) << uint(idx)
	}
	return set, nil
}

// Interest is a set of travel interests.
type Interest uint32

const (
	InterestBeaches Interest = 1 << iota
	InterestMountains
	InterestCities
	InterestMuseums
	InterestHistoricalSites
	InterestFood
	InterestShopping
	InterestNightlife
	InterestNature
	InterestAdventure
	InterestRelaxation
	InterestCulture
	InterestSports
	InterestFamilyActivities
	InterestLocalExperiences
	InterestWildlife
	InterestPhotographySpots
	InterestArchitecture
)

var InterestNames = []string{
	"Beaches", "Mountains", "Cities", "Museums", "HistoricalSites", "Food", "Shopping",
	"Nightlife", "Nature", "Adventure", "Relaxation", "Culture", "Sports",
	"FamilyActivities", "LocalExperiences", "Wildlife", "PhotographySpots", "Architecture",
}

func (s Interest) Has(i Interest) bool           { return hasFlag(s, i) }
func (s Interest) List() []Interest              { return listFlags(s, len(InterestNames)) }
func (s Interest) String() string                { return flagName(s, InterestNames) }
func (s Interest) MarshalJSON() ([]byte, error)  { return marshalFlags(s, InterestNames) }
func (s *Interest) UnmarshalJSON(b []byte) error { return unmarshalInto(s, b, InterestNames, "interest") }

// Accessibility is a set of accessibility requirements or features.
type Accessibility uint32

const (
	AccessWheelchair Accessibility = 1 << iota
	AccessLimitedMobility
	AccessVisualImpairment
	AccessHearingImpairment
	AccessNoStairs
	AccessElevator
	AccessBathroom
	AccessTransportation
)

var AccessibilityNames = []string{
	"WheelchairAccessible", "LimitedMobility", "VisualImpairment", "HearingImpairment",
	"NoStairs", "ElevatorAccess", "AccessibleBathroom", "AccessibleTransportation",
}

func (s Accessibility) Has(a Accessibility) bool { return hasFlag(s, a) }
func (s Accessibility) Any() bool                { return s != 0 }
func (s Accessibility) MarshalJSON() ([]byte, error) {
	return marshalFlags(s, AccessibilityNames)
}
func (s *Accessibility) UnmarshalJSON(b []byte) error {
	return unmarshalInto(s, b, AccessibilityNames, "accessibility requirement")
}

// TransportMode is a set of transportation modes.
type TransportMode uint32

const (
	TransportWalking TransportMode = 1 << iota
	TransportPublic
	TransportRentalCar
	TransportTaxi
	TransportBicycle
	TransportFerry
	TransportTrain
	TransportBus
	TransportRideSharing
	TransportScooter
)

var TransportModeNames = []string{
	"Walking", "PublicTransport", "RentalCar", "Taxi", "Bicycle", "Ferry", "Train", "Bus",
	"RideSharing", "Scooter",
}

func (s TransportMode) Has(m TransportMode) bool { return hasFlag(s, m) }
func (s TransportMode) String() string           { return flagName(s, TransportModeNames) }
func (s TransportMode) MarshalJSON() ([]byte, error) {
	return marshalFlags(s, TransportModeNames)
}
func (s *TransportMode) UnmarshalJSON(b []byte) error {
	return unmarshalInto(s, b, TransportModeNames, "transportation mode")
}

// Dietary is a set of dietary preferences.
type Dietary uint32

const (
	DietVegetarian Dietary = 1 << iota
	DietVegan
	DietGlutenFree
	DietDairyFree
	DietNutAllergy
	DietHalal
	DietKosher
	DietPescatarian
	DietLowCarb
	DietLowSugar
	DietLocalCuisine
)

var DietaryNames = []string{
	"Vegetarian", "Vegan", "GlutenFree", "DairyFree", "NutAllergy", "Halal", "Kosher",
	"Pescatarian", "LowCarb", "LowSugar", "LocalCuisine",
}

func (s Dietary) Has(d Dietary) bool           { return hasFlag(s, d) }
func (s Dietary) MarshalJSON() ([]byte, error) { return marshalFlags(s, DietaryNames) }
func (s *Dietary) UnmarshalJSON(b []byte) error {
	return unmarshalInto(s, b, DietaryNames, "dietary preference")
}

// Climate is a climate type. A destination has exactly one; a preference
// holds a set of them.
type Climate uint32

const (
	ClimateTropical Climate = 1 << iota
	ClimateDesert
	ClimateMediterranean
	ClimateContinental
	ClimatePolar
	ClimateTemperate
	ClimateAlpine
	ClimateCoastal
)

var ClimateNames = []string{
	"Tropical", "Desert", "Mediterranean", "Continental", "Polar", "Temperate", "Alpine", "Coastal",
}

func (s Climate) Has(c Climate) bool           { return hasFlag(s, c) }
func (s Climate) String() string               { return flagName(s, ClimateNames) }
func (s Climate) MarshalJSON() ([]byte, error) { return marshalFlags(s, ClimateNames) }
func (s *Climate) UnmarshalJSON(b []byte) error {
	return unmarshalInto(s, b, ClimateNames, "climate")
}

func unmarshalInto[T bitflag](dst *T, b []byte, names []string, kind string) error {
	v, err := unmarshalFlags[T](b, names, kind)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
