package destinations

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"

	"tripwise/apperr"
	"tripwise/geo"
	"tripwise/models"
)

type fakeDestinations struct {
	items    []models.Destination
	calls    int
	topLimit int
}

func (f *fakeDestinations) GetAll(context.Context) ([]models.Destination, error) {
	f.calls++
	return append([]models.Destination(nil), f.items...), nil
}

func (f *fakeDestinations) GetByID(_ context.Context, id string) (*models.Destination, error) {
	f.calls++
	for i := range f.items {
		if f.items[i].DestinationID == id {
			d := f.items[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeDestinations) GetNearLocation(_ context.Context, lat, lon, radiusKm float64) ([]models.Destination, error) {
	f.calls++
	var out []models.Destination
	for _, d := range f.items {
		if geo.DistanceKm(lat, lon, d.Latitude, d.Longitude) <= radiusKm {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDestinations) GetTopRated(_ context.Context, count int) ([]models.Destination, error) {
	f.calls++
	f.topLimit = count
	out := append([]models.Destination(nil), f.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

func (f *fakeDestinations) GetByRecommendedSeason(_ context.Context, s models.Season) ([]models.Destination, error) {
	f.calls++
	var out []models.Destination
	for _, d := range f.items {
		if d.HasSeason(s) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}
func (f *fakeUsers) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (f *fakeUsers) EmailExists(context.Context, string) (bool, error)       { return false, nil }
func (f *fakeUsers) UsernameExists(context.Context, string) (bool, error)    { return false, nil }
func (f *fakeUsers) Add(context.Context, *models.User) error                 { return nil }
func (f *fakeUsers) Update(context.Context, *models.User) error              { return nil }

type fakePreferences struct {
	prefs map[string]*models.Preference
}

func (f *fakePreferences) GetByUserID(_ context.Context, id string) (*models.Preference, error) {
	return f.prefs[id], nil
}
func (f *fakePreferences) Add(context.Context, *models.Preference) error    { return nil }
func (f *fakePreferences) Update(context.Context, *models.Preference) error { return nil }

func newTestService(items ...models.Destination) (*Service, *fakeDestinations) {
	ds := &fakeDestinations{items: items}
	users := &fakeUsers{users: map[string]*models.User{}}
	prefs := &fakePreferences{prefs: map[string]*models.Preference{}}
	return NewService(ds, users, prefs), ds
}

func dest(id, name string, rating float64) models.Destination {
	return models.Destination{DestinationID: id, Name: name, Description: name, Country: "X", AverageRating: rating}
}

func ids(ds []models.Destination) string {
	var out []string
	for _, d := range ds {
		out = append(out, d.DestinationID)
	}
	return strings.Join(out, ",")
}

func TestPopularReturnsHighestRatedFirst(t *testing.T) {
	svc, _ := newTestService(dest("low", "Low", 1), dest("top", "Top", 5), dest("mid", "Mid", 3))
	got, err := svc.Popular(context.Background(), 2, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if ids(got) != "top,mid" {
		t.Fatalf("unexpected order %s", ids(got))
	}
}

func TestPopularFiltersAfterOverfetch(t *testing.T) {
	a := dest("a", "A", 5)
	b := dest("b", "B", 4)
	b.Category = models.CategoryNature
	c := dest("c", "C", 3)
	svc, _ := newTestService(a, b, c)
	got, err := svc.Popular(context.Background(), 1, models.CategoryNature, "")
	if err != nil || ids(got) != "b" {
		t.Fatalf("unexpected %s %v", ids(got), err)
	}
}

func TestPopularClampsHugeCount(t *testing.T) {
	svc, ds := newTestService(dest("a", "A", 5), dest("b", "B", 4))
	got, err := svc.Popular(context.Background(), math.MaxInt, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if ds.topLimit != 2*maxCount {
		t.Fatalf("store asked for %d, want %d", ds.topLimit, 2*maxCount)
	}
	if ids(got) != "a,b" {
		t.Fatalf("unexpected %s", ids(got))
	}
}

func TestValidationHappensBeforeStoreAccess(t *testing.T) {
	svc, ds := newTestService(dest("a", "A", 4))
	ctx := context.Background()

	checks := []func() error{
		func() error { _, err := svc.Search(ctx, SearchQuery{Page: 0, PageSize: 10}); return err },
		func() error { _, err := svc.Search(ctx, SearchQuery{Page: 1, PageSize: -1}); return err },
		func() error { _, err := svc.Nearby(ctx, 91, 0, 10, "", "", 1, 10); return err },
		func() error { _, err := svc.Nearby(ctx, 0, 181, 10, "", "", 1, 10); return err },
		func() error { _, err := svc.Nearby(ctx, 0, 0, 0, "", "", 1, 10); return err },
		func() error { _, err := svc.Popular(ctx, 0, "", ""); return err },
		func() error { _, err := svc.Seasonal(ctx, models.SeasonSummer, 0); return err },
		func() error { _, err := svc.Similar(ctx, "a", -2); return err },
		func() error { _, err := svc.Similar(ctx, " ", 3); return err },
		func() error { _, err := svc.OffTheBeatenPath(ctx, "", 0); return err },
		func() error { _, err := svc.RecommendedForUser(ctx, "u1", 0); return err },
		func() error { _, err := svc.TransportationOptions(ctx, "", "a"); return err },
	}
	for i, check := range checks {
		if err := check(); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Fatalf("check %d: expected invalid argument, got %v", i, err)
		}
	}
	if ds.calls != 0 {
		t.Fatalf("store touched %d times", ds.calls)
	}
}

func TestSearchFilters(t *testing.T) {
	a := dest("a", "Old Town", 4.5)
	a.City, a.Tags, a.IsAccessible = "Prague", []string{"History", "Beer"}, true
	a.RecommendedSeasons = []models.Season{models.SeasonSpring}
	b := dest("b", "Riverside", 3.9)
	b.City, b.Tags, b.CostLevel = "prague", []string{"walks"}, models.CostFree
	c := dest("c", "Harbour", 4.8)
	c.City, c.Description = "Split", "Old harbour"
	svc, _ := newTestService(a, b, c)
	ctx := context.Background()

	page, _ := svc.Search(ctx, SearchQuery{Term: "old", Page: 1, PageSize: 10})
	if ids(page.Destinations) != "a,c" {
		t.Fatalf("term: %s", ids(page.Destinations))
	}
	page, _ = svc.Search(ctx, SearchQuery{City: "PRAGUE", Page: 1, PageSize: 10})
	if page.TotalCount != 2 {
		t.Fatalf("city: %d", page.TotalCount)
	}
	page, _ = svc.Search(ctx, SearchQuery{Tags: []string{"history"}, Page: 1, PageSize: 10})
	if ids(page.Destinations) != "a" {
		t.Fatalf("tags: %s", ids(page.Destinations))
	}
	minRating := 4.0
	free := models.CostFree
	page, _ = svc.Search(ctx, SearchQuery{MinRating: &minRating, Page: 1, PageSize: 10})
	if ids(page.Destinations) != "a,c" {
		t.Fatalf("min rating: %s", ids(page.Destinations))
	}
	// a and c never set a cost level, so they are Free too
	page, _ = svc.Search(ctx, SearchQuery{CostLevel: &free, Page: 1, PageSize: 10})
	if ids(page.Destinations) != "a,b,c" {
		t.Fatalf("cost level: %s", ids(page.Destinations))
	}
	page, _ = svc.Search(ctx, SearchQuery{Accessible: true, Season: models.SeasonSpring, Page: 1, PageSize: 10})
	if ids(page.Destinations) != "a" {
		t.Fatalf("accessible+season: %s", ids(page.Destinations))
	}
}

func TestSearchPaginationReconstructsResult(t *testing.T) {
	var items []models.Destination
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, dest(id, id, 3))
	}
	svc, _ := newTestService(items...)
	ctx := context.Background()

	full, err := svc.Search(ctx, SearchQuery{Page: 1, PageSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	for size := 1; size <= 8; size++ {
		var joined []models.Destination
		for page := 1; ; page++ {
			p, err := svc.Search(ctx, SearchQuery{Page: page, PageSize: size})
			if err != nil {
				t.Fatal(err)
			}
			if p.TotalCount != full.TotalCount {
				t.Fatalf("total count changed with paging: %d vs %d", p.TotalCount, full.TotalCount)
			}
			if len(p.Destinations) == 0 {
				break
			}
			joined = append(joined, p.Destinations...)
		}
		if ids(joined) != ids(full.Destinations) {
			t.Fatalf("size %d: pages %s != %s", size, ids(joined), ids(full.Destinations))
		}
	}
}

func TestNearbyFiltersAndPaginates(t *testing.T) {
	louvre := dest("louvre", "Louvre", 4.8)
	louvre.Latitude, louvre.Longitude, louvre.Type = 48.8606, 2.3376, models.TypeMuseum
	orsay := dest("orsay", "Orsay", 4.7)
	orsay.Latitude, orsay.Longitude, orsay.Type = 48.86, 2.3266, models.TypeMuseum
	eiffel := dest("eiffel", "Eiffel", 4.6)
	eiffel.Latitude, eiffel.Longitude, eiffel.Type = 48.8584, 2.2945, models.TypeAttraction
	lyon := dest("lyon", "Lyon", 4.5)
	lyon.Latitude, lyon.Longitude, lyon.Type = 45.764, 4.8357, models.TypeMuseum
	svc, _ := newTestService(louvre, orsay, eiffel, lyon)

	page, err := svc.Nearby(context.Background(), 48.8566, 2.3522, 10, models.TypeMuseum, "", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 2 || ids(page.Destinations) != "louvre" {
		t.Fatalf("unexpected %d %s", page.TotalCount, ids(page.Destinations))
	}
}

func TestDetailsNotFound(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Details(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecommendedForUser(t *testing.T) {
	visited := dest("visited", "Visited", 5)
	wish := dest("wish", "Wish", 2)
	beach := dest("beach", "Beach", 4)
	beach.Type = models.TypeBeach
	plain := dest("plain", "Plain", 4)
	svc, _ := newTestService(visited, wish, beach, plain)
	svc.users.(*fakeUsers).users["u1"] = &models.User{UserID: "u1"}
	svc.preferences.(*fakePreferences).prefs["u1"] = &models.Preference{
		UserID:               "u1",
		BudgetLevel:          models.BudgetMedium,
		Interests:            models.InterestBeaches,
		VisitedDestinations:  []string{"visited"},
		WishlistDestinations: []string{"wish"},
	}

	got, err := svc.RecommendedForUser(context.Background(), "u1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if ids(got) != "wish,beach,plain" {
		t.Fatalf("unexpected ranking %s", ids(got))
	}

	if _, err := svc.RecommendedForUser(context.Background(), "ghost", 3); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected missing user, got %v", err)
	}
	svc.users.(*fakeUsers).users["u2"] = &models.User{UserID: "u2"}
	if _, err := svc.RecommendedForUser(context.Background(), "u2", 3); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected missing preference, got %v", err)
	}
}

func TestSimilarExcludesReference(t *testing.T) {
	ref := dest("ref", "Ref", 4)
	ref.Type, ref.Country = models.TypeCity, "Italy"
	twin := ref
	twin.DestinationID = "twin"
	other := dest("other", "Other", 4)
	other.Type, other.Country = models.TypeBeach, "Peru"
	svc, _ := newTestService(other, ref, twin)

	got, err := svc.Similar(context.Background(), "ref", 5)
	if err != nil {
		t.Fatal(err)
	}
	if ids(got) != "twin,other" {
		t.Fatalf("unexpected %s", ids(got))
	}
	if _, err := svc.Similar(context.Background(), "nope", 5); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOffTheBeatenPath(t *testing.T) {
	mk := func(id string, rating float64, count int, region string) models.Destination {
		d := dest(id, id, rating)
		d.RatingsCount, d.Region = count, region
		return d
	}
	svc, _ := newTestService(
		mk("busy", 4.9, 5000, "Alps"),
		mk("quiet", 4.1, 40, "Alps"),
		mk("quieter", 3.5, 3, "alps"),
		mk("poor", 2.0, 1, "Alps"),
		mk("elsewhere", 4.0, 10, "Andes"),
	)
	got, err := svc.OffTheBeatenPath(context.Background(), "ALPS", 5)
	if err != nil {
		t.Fatal(err)
	}
	if ids(got) != "quieter,quiet" {
		t.Fatalf("unexpected %s", ids(got))
	}
}

func TestTransportationOptions(t *testing.T) {
	a := dest("a", "Jakarta", 4)
	a.Latitude, a.Longitude = -6.2, 106.816
	b := dest("b", "Bandung", 4)
	b.Latitude, b.Longitude = -6.9175, 107.6191
	c := dest("c", "Bogor", 4)
	c.Latitude, c.Longitude = -6.595, 106.816
	svc, _ := newTestService(a, b, c)
	ctx := context.Background()

	far, err := svc.TransportationOptions(ctx, "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(far) != 5 || far[4].Mode != "Flight" || far[3].Description != "Rental car from Jakarta to Bandung" {
		t.Fatalf("unexpected options %+v", far)
	}
	near, _ := svc.TransportationOptions(ctx, "a", "c")
	if len(near) != 4 {
		t.Fatalf("no flight expected under 100 km: %+v", near)
	}
	if _, err := svc.TransportationOptions(ctx, "a", "zz"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearchHandler(t *testing.T) {
	svc, _ := newTestService(dest("a", "Alpha", 4), dest("b", "Beta", 3))
	h := NewHandler(svc)
	router := httprouter.New()
	router.GET("/api/destinations", h.Search)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/destinations?q=alp&page=1&page_size=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Data    Page `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.TotalCount != 1 || resp.Data.Destinations[0].Name != "Alpha" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/destinations?page=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
