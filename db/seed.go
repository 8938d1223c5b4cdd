package db

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"tripwise/models"
)

// LoadSeedFile reads a JSON array of destinations and validates each entry.
func LoadSeedFile(path string) ([]models.Destination, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var ds []models.Destination
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	now := time.Now().UTC()
	seen := make(map[string]bool, len(ds))
	for i := range ds {
		d := &ds[i]
		if d.DestinationID == "" {
			return nil, fmt.Errorf("seed entry %d: destinationid is required", i)
		}
		if seen[d.DestinationID] {
			return nil, fmt.Errorf("seed entry %d: duplicate destinationid %s", i, d.DestinationID)
		}
		seen[d.DestinationID] = true
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("seed entry %s: %w", d.DestinationID, err)
		}
		if d.Tags == nil {
			d.Tags = []string{}
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		d.UpdatedAt = now
	}
	return ds, nil
}

// SeedDestinations upserts ds into the catalog and returns how many were written.
func SeedDestinations(ctx context.Context, s *DestinationStore, ds []models.Destination) (int, error) {
	for i := range ds {
		if err := s.Upsert(ctx, &ds[i]); err != nil {
			return i, err
		}
	}
	return len(ds), nil
}
