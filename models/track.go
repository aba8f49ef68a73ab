package models

import (
	"math"
	"time"
)

// RawTrack represents one unprocessed row of the track dataset, as read from
// the CSV file or harvested by the scraper. Text fields keep whatever the
// source had (empty string = missing); numeric fields are parsed by the loader.
type RawTrack struct {
	TrackName        string
	ArtistName       string
	ArtistGenres     string // comma-separated, e.g. "pop, dance pop"
	TrackPopularity  int    // 0-100
	ArtistPopularity int
	ArtistFollowers  int64
	TrackDurationMin float64
	AlbumTotalTracks int
	AlbumReleaseDate string // ISO date text, e.g. "2019-06-14", "2019-06", "2019"
}

// Track represents a cleaned, normalized track record.
// Invariants: ArtistName is never empty, Genres is never empty
// (missing genres become the single "unknown" sentinel), and
// ReleaseDate is a valid calendar date.
type Track struct {
	TrackName        string
	ArtistName       string
	Genres           []string
	TrackPopularity  int
	ArtistPopularity int
	ArtistFollowers  int64
	TrackDurationMin float64
	AlbumTotalTracks int
	ReleaseDate      time.Time
}

// Category is a binned transform of track popularity.
type Category string

const (
	CategoryLow      Category = "Low"
	CategoryMedium   Category = "Medium"
	CategoryHigh     Category = "High"
	CategoryVeryHigh Category = "Very High"
)

// Categories lists every popularity category in ascending bin order.
var Categories = []Category{CategoryLow, CategoryMedium, CategoryHigh, CategoryVeryHigh}

// DerivedTrack is a Track plus the computed features the insight queries run on.
type DerivedTrack struct {
	Track
	DurationInMinutes  float64
	PopularityCategory Category
	ReleaseYear        int
}

// ArtistPopularity is one row of the top-artists ranking.
type ArtistPopularity struct {
	Artist         string
	MeanPopularity float64
}

// GenrePopularity is one row of the genre ranking. A track listing three
// genres contributes its popularity to three separate genre groups.
type GenrePopularity struct {
	Genre          string
	MeanPopularity float64
}

// YearPopularity is one point of the yearly popularity trend.
type YearPopularity struct {
	Year           int
	MeanPopularity float64
}

// CategoryCount is one bucket of the popularity-category distribution.
type CategoryCount struct {
	Category Category
	Count    int
}

// CorrelationFields enumerates the numeric fields of the correlation matrix,
// in the fixed order the matrix is indexed by.
var CorrelationFields = []string{
	"track_popularity",
	"artist_popularity",
	"artist_followers",
	"track_duration_in_minutes",
	"album_total_tracks",
}

// CorrelationMatrix holds pairwise Pearson coefficients for the fields in
// CorrelationFields. Cells involving a zero-variance field are NaN.
type CorrelationMatrix struct {
	Fields []string
	Values [][]float64
}

// At returns the coefficient for the field pair (i, j).
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// IsDefined reports whether the coefficient at (i, j) is a real number.
func (m *CorrelationMatrix) IsDefined(i, j int) bool {
	return !math.IsNaN(m.Values[i][j])
}

// InsightReport holds every computed summary view for one reporting cycle.
type InsightReport struct {
	TotalRaw     int
	TotalTracks  int
	TopArtists   []ArtistPopularity
	Genres       []GenrePopularity
	Correlation  *CorrelationMatrix // nil when the input set was empty
	YearlyTrend  []YearPopularity
	Distribution []CategoryCount
}
