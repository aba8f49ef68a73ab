package services

import (
	"strings"
	"time"

	"spotify-insights/models"
	"spotify-insights/utils"
)

// UnknownGenre is the sentinel assigned when a track carries no genre list.
const UnknownGenre = "unknown"

// releaseDateLayouts are the date forms the dataset uses, most specific first.
// Spotify dumps mix full dates with month- and year-only precision.
var releaseDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// DataCleaner normalizes raw track rows into clean Track records
type DataCleaner struct {
	logger *utils.Logger
}

// NewDataCleaner creates a new DataCleaner
func NewDataCleaner(logger *utils.Logger) *DataCleaner {
	return &DataCleaner{logger: logger}
}

// Clean converts a slice of RawTracks to clean Tracks. Rows without an artist
// name are dropped silently. A retained row with an unparseable release date
// fails the whole pass with a MalformedDateError; no partial result is
// returned. The input is never mutated.
func (c *DataCleaner) Clean(raw []*models.RawTrack) ([]*models.Track, error) {
	var cleaned []*models.Track
	dropped := 0

	for _, r := range raw {
		artist := strings.TrimSpace(r.ArtistName)
		if artist == "" {
			c.logger.Debug("Skipping track %q with no artist name", r.TrackName)
			dropped++
			continue
		}

		releaseDate, err := parseReleaseDate(r.AlbumReleaseDate)
		if err != nil {
			return nil, &MalformedDateError{Artist: artist, Value: r.AlbumReleaseDate}
		}

		track := &models.Track{
			TrackName:        strings.TrimSpace(r.TrackName),
			ArtistName:       artist,
			Genres:           splitGenres(r.ArtistGenres),
			TrackPopularity:  r.TrackPopularity,
			ArtistPopularity: r.ArtistPopularity,
			ArtistFollowers:  r.ArtistFollowers,
			TrackDurationMin: r.TrackDurationMin,
			AlbumTotalTracks: r.AlbumTotalTracks,
			ReleaseDate:      releaseDate,
		}

		cleaned = append(cleaned, track)
	}

	c.logger.Info("Cleaned %d tracks from %d raw records (%d dropped for missing artist)",
		len(cleaned), len(raw), dropped)
	return cleaned, nil
}

// splitGenres breaks a comma-separated genre field into tokens. A missing or
// blank field becomes the single-element "unknown" sentinel list.
func splitGenres(raw string) []string {
	var genres []string
	for _, g := range strings.Split(raw, ",") {
		g = strings.TrimSpace(g)
		if g != "" {
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		return []string{UnknownGenre}
	}
	return genres
}

// parseReleaseDate tries each accepted layout against the trimmed date text.
func parseReleaseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range releaseDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
