package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"spotify-insights/models"
	"spotify-insights/utils"
)

// CSVWriter handles writing raw snapshots and summary views to CSV files
type CSVWriter struct {
	outputDir string
	logger    *utils.Logger
}

// NewCSVWriter creates a new CSVWriter rooted at the given output directory
func NewCSVWriter(outputDir string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{outputDir: outputDir, logger: logger}
}

// WriteRawTracks writes the acquired raw rows to raw_tracks.csv, so a scraper
// run leaves the same kind of artifact a downloaded dataset file would be.
func (w *CSVWriter) WriteRawTracks(tracks []*models.RawTrack) error {
	header := []string{
		"track_name", "artist_name", "artist_genres", "track_popularity",
		"artist_popularity", "artist_followers", "track_duration_min",
		"album_total_tracks", "album_release_date",
	}
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			t.TrackName,
			t.ArtistName,
			t.ArtistGenres,
			strconv.Itoa(t.TrackPopularity),
			strconv.Itoa(t.ArtistPopularity),
			strconv.FormatInt(t.ArtistFollowers, 10),
			formatFloat(t.TrackDurationMin),
			strconv.Itoa(t.AlbumTotalTracks),
			t.AlbumReleaseDate,
		})
	}
	return w.writeFile("raw_tracks.csv", header, rows)
}

// WriteSummaries exports each computed view of the report to its own CSV file
// in the output directory. Views absent from the report are skipped.
func (w *CSVWriter) WriteSummaries(report *models.InsightReport) error {
	artistRows := make([][]string, 0, len(report.TopArtists))
	for _, a := range report.TopArtists {
		artistRows = append(artistRows, []string{a.Artist, formatFloat(a.MeanPopularity)})
	}
	if err := w.writeFile("top_artists.csv", []string{"artist_name", "mean_popularity"}, artistRows); err != nil {
		return err
	}

	genreRows := make([][]string, 0, len(report.Genres))
	for _, g := range report.Genres {
		genreRows = append(genreRows, []string{g.Genre, formatFloat(g.MeanPopularity)})
	}
	if err := w.writeFile("genre_popularity.csv", []string{"genre", "mean_popularity"}, genreRows); err != nil {
		return err
	}

	yearRows := make([][]string, 0, len(report.YearlyTrend))
	for _, y := range report.YearlyTrend {
		yearRows = append(yearRows, []string{strconv.Itoa(y.Year), formatFloat(y.MeanPopularity)})
	}
	if err := w.writeFile("popularity_by_year.csv", []string{"release_year", "mean_popularity"}, yearRows); err != nil {
		return err
	}

	if report.Correlation != nil {
		header := append([]string{"field"}, report.Correlation.Fields...)
		corrRows := make([][]string, 0, len(report.Correlation.Fields))
		for i, field := range report.Correlation.Fields {
			row := []string{field}
			for j := range report.Correlation.Fields {
				if report.Correlation.IsDefined(i, j) {
					row = append(row, formatFloat(report.Correlation.At(i, j)))
				} else {
					row = append(row, "")
				}
			}
			corrRows = append(corrRows, row)
		}
		if err := w.writeFile("correlation_matrix.csv", header, corrRows); err != nil {
			return err
		}
	}

	return nil
}

// writeFile creates (or replaces) one CSV file under the output directory.
func (w *CSVWriter) writeFile(name string, header []string, rows [][]string) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row to %s: %v", name, err)
		}
	}

	w.logger.Info("Wrote %s (%d rows)", path, len(rows))
	return nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
