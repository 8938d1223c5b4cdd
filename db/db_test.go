package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"tripwise/models"
)

func TestNearFilter(t *testing.T) {
	f := nearFilter(38.72, -9.14, 63.71)
	loc, ok := f["location"].(bson.M)
	if !ok {
		t.Fatalf("missing location clause: %v", f)
	}
	within := loc["$geoWithin"].(bson.M)
	sphere := within["$centerSphere"].(bson.A)
	center := sphere[0].(bson.A)
	if center[0] != -9.14 || center[1] != 38.72 {
		t.Fatalf("center must be [lon, lat], got %v", center)
	}
	if r := sphere[1].(float64); r < 0.0099 || r > 0.0101 {
		t.Fatalf("radius in radians = %v", r)
	}
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `[
		{"destinationid":"lis","name":"Lisbon","description":"Hills and trams","country":"Portugal",
		 "latitude":38.72,"longitude":-9.14,"cost_level":"Medium","recommended_seasons":["Spring","Autumn"]}
	]`)
	ds, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds) != 1 {
		t.Fatalf("got %d destinations", len(ds))
	}
	d := ds[0]
	if d.CostLevel != models.CostMedium || !d.HasSeason(models.SeasonAutumn) {
		t.Fatalf("fields not decoded: %+v", d)
	}
	if d.Tags == nil || d.CreatedAt.IsZero() {
		t.Fatal("defaults not filled")
	}
}

func TestLoadSeedFileRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"missing id":  `[{"name":"X","description":"d","country":"c"}]`,
		"duplicate":   `[{"destinationid":"a","name":"X","description":"d","country":"c"},{"destinationid":"a","name":"Y","description":"d","country":"c"}]`,
		"invalid lat": `[{"destinationid":"a","name":"X","description":"d","country":"c","latitude":120}]`,
		"not json":    `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadSeedFile(writeSeed(t, body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil || !strings.Contains(err.Error(), "read seed file") {
		t.Fatalf("unexpected error: %v", err)
	}
}
