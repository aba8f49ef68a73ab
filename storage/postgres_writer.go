package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spotify-insights/models"
	"spotify-insights/utils"

	_ "github.com/lib/pq"
)

// PostgresWriter handles storing derived tracks in PostgreSQL
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter creates a new PostgresWriter and pings the DB
func NewPostgresWriter(connStr string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{db: db, logger: logger}, nil
}

// CreateTable creates the tracks table if it doesn't exist, with indexes
func (w *PostgresWriter) CreateTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id                  SERIAL PRIMARY KEY,
		track_name          TEXT,
		artist_name         TEXT        NOT NULL,
		genres              TEXT        NOT NULL,
		track_popularity    INTEGER     NOT NULL,
		artist_popularity   INTEGER     DEFAULT 0,
		artist_followers    BIGINT      DEFAULT 0,
		duration_minutes    NUMERIC(8,3) DEFAULT 0,
		album_total_tracks  INTEGER     DEFAULT 0,
		release_date        DATE        NOT NULL,
		release_year        INTEGER     NOT NULL,
		popularity_category VARCHAR(10) NOT NULL,
		UNIQUE (artist_name, track_name, release_date)
	);

	CREATE INDEX IF NOT EXISTS idx_tracks_artist   ON tracks (artist_name);
	CREATE INDEX IF NOT EXISTS idx_tracks_year     ON tracks (release_year);
	CREATE INDEX IF NOT EXISTS idx_tracks_category ON tracks (popularity_category);
	CREATE INDEX IF NOT EXISTS idx_tracks_pop      ON tracks (track_popularity);
	`
	_, err := w.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Info("Table 'tracks' is ready")
	return nil
}

// BatchInsert inserts derived tracks in a single transaction, skipping duplicates
func (w *PostgresWriter) BatchInsert(tracks []*models.DerivedTrack) error {
	if len(tracks) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO tracks (track_name, artist_name, genres, track_popularity,
			artist_popularity, artist_followers, duration_minutes,
			album_total_tracks, release_date, release_year, popularity_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (artist_name, track_name, release_date) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range tracks {
		_, err = stmt.Exec(
			t.TrackName,
			t.ArtistName,
			strings.Join(t.Genres, ", "),
			t.TrackPopularity,
			t.ArtistPopularity,
			t.ArtistFollowers,
			t.DurationInMinutes,
			t.AlbumTotalTracks,
			t.ReleaseDate,
			t.ReleaseYear,
			string(t.PopularityCategory),
		)
		if err != nil {
			w.logger.Warn("Skipping insert for '%s - %s': %v", t.ArtistName, t.TrackName, err)
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Inserted %d/%d tracks into PostgreSQL", inserted, len(tracks))
	return nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() {
	if w.db != nil {
		_ = w.db.Close()
	}
}
