package storage

import "spotify-insights/models"

// RawSource defines the interface for acquiring raw track rows.
// Implemented by the CSV dataset reader and by the chart scraper.
type RawSource interface {
	LoadRaw() ([]*models.RawTrack, error)
}

// TrackStorage defines the interface for storing derived track records
type TrackStorage interface {
	CreateTable() error
	BatchInsert(tracks []*models.DerivedTrack) error
	Close()
}

var (
	_ RawSource    = (*CSVReader)(nil)
	_ TrackStorage = (*PostgresWriter)(nil)
)
