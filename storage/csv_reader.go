package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"spotify-insights/models"
	"spotify-insights/utils"
)

// CSVReader loads the track dataset from a CSV file. Columns are located by
// header name, so column order in the file does not matter.
type CSVReader struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVReader creates a new CSVReader
func NewCSVReader(filePath string, logger *utils.Logger) *CSVReader {
	return &CSVReader{filePath: filePath, logger: logger}
}

// LoadRaw reads every data row of the dataset into RawTracks. Missing cells
// become the empty string (text) or zero (numeric); a numeric cell that is
// present but unparseable fails the load, since silently zeroing it would
// skew every aggregate downstream.
func (r *CSVReader) LoadRaw() ([]*models.RawTrack, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, cells resolve to ""

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", r.filePath)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var tracks []*models.RawTrack
	for lineNo, row := range rows[1:] {
		track := &models.RawTrack{
			TrackName:        cell(row, "track_name"),
			ArtistName:       cell(row, "artist_name"),
			ArtistGenres:     cell(row, "artist_genres"),
			AlbumReleaseDate: cell(row, "album_release_date"),
		}

		var parseErr error
		track.TrackPopularity, parseErr = parseIntCell(cell(row, "track_popularity"), parseErr)
		track.ArtistPopularity, parseErr = parseIntCell(cell(row, "artist_popularity"), parseErr)
		track.AlbumTotalTracks, parseErr = parseIntCell(cell(row, "album_total_tracks"), parseErr)
		track.ArtistFollowers, parseErr = parseInt64Cell(cell(row, "artist_followers"), parseErr)
		track.TrackDurationMin, parseErr = parseFloatCell(cell(row, "track_duration_min"), parseErr)
		if parseErr != nil {
			return nil, fmt.Errorf("row %d of %s: %w", lineNo+2, r.filePath, parseErr)
		}

		tracks = append(tracks, track)
	}

	r.logger.Info("Loaded %d raw tracks from %s", len(tracks), r.filePath)
	return tracks, nil
}

func parseIntCell(s string, prev error) (int, error) {
	if prev != nil || s == "" {
		return 0, prev
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q: %w", s, err)
	}
	return n, nil
}

func parseInt64Cell(s string, prev error) (int64, error) {
	if prev != nil || s == "" {
		return 0, prev
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q: %w", s, err)
	}
	return n, nil
}

func parseFloatCell(s string, prev error) (float64, error) {
	if prev != nil || s == "" {
		return 0, prev
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return f, nil
}
