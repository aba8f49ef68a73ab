package services

import (
	"math"
	"sort"

	"spotify-insights/models"
	"spotify-insights/utils"
)

// InsightService computes the summary views from the derived dataset
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes every summary view and bundles them into one report.
// A correlation failure (empty input) is recoverable: the view is skipped
// and the rest of the report is still produced.
func (s *InsightService) Generate(tracks []*models.DerivedTrack, topN int) *models.InsightReport {
	report := &models.InsightReport{
		TotalTracks:  len(tracks),
		TopArtists:   s.TopArtists(tracks, topN),
		Genres:       s.GenrePopularity(tracks),
		YearlyTrend:  s.PopularityByYear(tracks),
		Distribution: s.CategoryDistribution(tracks),
	}

	corr, err := s.CorrelationMatrix(tracks)
	if err != nil {
		s.logger.Warn("Skipping correlation matrix: %v", err)
	} else {
		report.Correlation = corr
	}

	return report
}

// meanAccumulator collects a running sum and count per group key.
type meanAccumulator struct {
	sum   float64
	count int
}

func (a meanAccumulator) mean() float64 {
	return a.sum / float64(a.count)
}

// TopArtists ranks artists by the arithmetic mean of their tracks'
// popularity, descending, and truncates to the first n entries. Equal means
// break lexicographically by artist name so the ranking is deterministic.
// Fewer than n distinct artists returns all of them; n < 1 returns nothing.
func (s *InsightService) TopArtists(tracks []*models.DerivedTrack, n int) []models.ArtistPopularity {
	if n < 1 {
		return nil
	}

	groups := make(map[string]meanAccumulator)
	for _, t := range tracks {
		acc := groups[t.ArtistName]
		acc.sum += float64(t.TrackPopularity)
		acc.count++
		groups[t.ArtistName] = acc
	}

	ranked := make([]models.ArtistPopularity, 0, len(groups))
	for artist, acc := range groups {
		ranked = append(ranked, models.ArtistPopularity{Artist: artist, MeanPopularity: acc.mean()})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MeanPopularity != ranked[j].MeanPopularity {
			return ranked[i].MeanPopularity > ranked[j].MeanPopularity
		}
		return ranked[i].Artist < ranked[j].Artist
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// genreRow is one element of the exploded (track, single genre) fan-out.
type genreRow struct {
	genre      string
	popularity int
}

// explodeGenres fans each track out into one row per genre token. A track
// listing three genres contributes three rows; nothing is deduplicated, so
// the per-genre weighting stays auditable.
func explodeGenres(tracks []*models.DerivedTrack) []genreRow {
	var rows []genreRow
	for _, t := range tracks {
		for _, g := range t.Genres {
			rows = append(rows, genreRow{genre: g, popularity: t.TrackPopularity})
		}
	}
	return rows
}

// GenrePopularity ranks genre tokens by mean track popularity, descending,
// with the same lexicographic tie-break as TopArtists.
func (s *InsightService) GenrePopularity(tracks []*models.DerivedTrack) []models.GenrePopularity {
	groups := make(map[string]meanAccumulator)
	for _, row := range explodeGenres(tracks) {
		acc := groups[row.genre]
		acc.sum += float64(row.popularity)
		acc.count++
		groups[row.genre] = acc
	}

	ranked := make([]models.GenrePopularity, 0, len(groups))
	for genre, acc := range groups {
		ranked = append(ranked, models.GenrePopularity{Genre: genre, MeanPopularity: acc.mean()})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].MeanPopularity != ranked[j].MeanPopularity {
			return ranked[i].MeanPopularity > ranked[j].MeanPopularity
		}
		return ranked[i].Genre < ranked[j].Genre
	})
	return ranked
}

// correlationValues extracts the five numeric series in the fixed
// models.CorrelationFields order.
func correlationValues(t *models.DerivedTrack) [5]float64 {
	return [5]float64{
		float64(t.TrackPopularity),
		float64(t.ArtistPopularity),
		float64(t.ArtistFollowers),
		t.DurationInMinutes,
		float64(t.AlbumTotalTracks),
	}
}

// CorrelationMatrix computes the pairwise Pearson coefficient for the five
// numeric fields named by models.CorrelationFields. The matrix is symmetric;
// the diagonal is exactly 1.0 for fields with nonzero variance. Any cell
// involving a zero-variance field is NaN rather than an error. An empty
// input set fails with InsufficientDataError: correlation over zero samples
// is undefined.
func (s *InsightService) CorrelationMatrix(tracks []*models.DerivedTrack) (*models.CorrelationMatrix, error) {
	if len(tracks) == 0 {
		return nil, &InsufficientDataError{View: "correlation matrix"}
	}

	const k = 5
	n := float64(len(tracks))

	// Column means.
	var sums [k]float64
	for _, t := range tracks {
		v := correlationValues(t)
		for i := 0; i < k; i++ {
			sums[i] += v[i]
		}
	}
	var means [k]float64
	for i := 0; i < k; i++ {
		means[i] = sums[i] / n
	}

	// Covariance and variance accumulators over centered values.
	var cov [k][k]float64
	for _, t := range tracks {
		v := correlationValues(t)
		for i := 0; i < k; i++ {
			for j := i; j < k; j++ {
				cov[i][j] += (v[i] - means[i]) * (v[j] - means[j])
			}
		}
	}

	values := make([][]float64, k)
	for i := range values {
		values[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			var r float64
			switch {
			case cov[i][i] == 0 || cov[j][j] == 0:
				r = math.NaN()
			case i == j:
				r = 1.0
			default:
				r = cov[i][j] / math.Sqrt(cov[i][i]*cov[j][j])
			}
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &models.CorrelationMatrix{Fields: models.CorrelationFields, Values: values}, nil
}

// PopularityByYear computes the mean track popularity per release year,
// ordered ascending by year. This is the one view sorted by key, not value.
func (s *InsightService) PopularityByYear(tracks []*models.DerivedTrack) []models.YearPopularity {
	groups := make(map[int]meanAccumulator)
	for _, t := range tracks {
		acc := groups[t.ReleaseYear]
		acc.sum += float64(t.TrackPopularity)
		acc.count++
		groups[t.ReleaseYear] = acc
	}

	trend := make([]models.YearPopularity, 0, len(groups))
	for year, acc := range groups {
		trend = append(trend, models.YearPopularity{Year: year, MeanPopularity: acc.mean()})
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Year < trend[j].Year
	})
	return trend
}

// CategoryDistribution counts tracks per popularity category, in the fixed
// ascending bin order. Empty categories are included with a zero count.
func (s *InsightService) CategoryDistribution(tracks []*models.DerivedTrack) []models.CategoryCount {
	counts := make(map[models.Category]int)
	for _, t := range tracks {
		counts[t.PopularityCategory]++
	}

	dist := make([]models.CategoryCount, 0, len(models.Categories))
	for _, c := range models.Categories {
		dist = append(dist, models.CategoryCount{Category: c, Count: counts[c]})
	}
	return dist
}
