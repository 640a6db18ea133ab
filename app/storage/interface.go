package storage

import (
	"context"
	"strings"
)

// FertilizerRecord is the recommended dosage for one crop, in kg/ha.
type FertilizerRecord struct {
	ID       int64  `json:"id" db:"id"`
	CropName string `json:"crop_name" db:"crop_name"`
	N        int    `json:"n_value" db:"n_value"`
	P        int    `json:"p_value" db:"p_value"`
	K        int    `json:"k_value" db:"k_value"`
}

type Interface interface {
	FindFertilizer(ctx context.Context, query string) (*FertilizerRecord, error)
	Seed(ctx context.Context, records []FertilizerRecord) (int, error)
	Close() error
}

// LookupFertilizer returns the first record, in slice order, whose crop name
// occurs in query ignoring case. It is a plain substring test: "pea" matches
// "peanut" and "pear", and whichever comes first wins.
func LookupFertilizer(records []FertilizerRecord, query string) *FertilizerRecord {
	q := strings.ToLower(query)
	for i := range records {
		name := strings.ToLower(records[i].CropName)
		if name != "" && strings.Contains(q, name) {
			rec := records[i]
			return &rec
		}
	}
	return nil
}
