package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotify-insights/models"
)

func TestTopArtistsRankingAndTruncation(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	tracks := []*models.DerivedTrack{
		derivedTrack("Adele", 90, []string{"pop"}, 2015),
		derivedTrack("Adele", 70, []string{"pop"}, 2011),
		derivedTrack("Burial", 60, []string{"uk garage"}, 2007),
		derivedTrack("Caribou", 60, []string{"electronic"}, 2020),
		derivedTrack("Daft Punk", 95, []string{"french house"}, 2013),
	}

	top := svc.TopArtists(tracks, 3)
	require.Len(t, top, 3)

	assert.Equal(t, "Daft Punk", top[0].Artist)
	assert.Equal(t, 95.0, top[0].MeanPopularity)
	assert.Equal(t, "Adele", top[1].Artist)
	assert.Equal(t, 80.0, top[1].MeanPopularity, "mean of 90 and 70")
	// Burial and Caribou tie on 60; lexicographic order decides
	assert.Equal(t, "Burial", top[2].Artist)
}

func TestTopArtistsNLargerThanDistinctArtists(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	tracks := []*models.DerivedTrack{
		derivedTrack("A", 10, []string{"pop"}, 2020),
		derivedTrack("B", 20, []string{"pop"}, 2020),
	}

	top := svc.TopArtists(tracks, 100)
	assert.Len(t, top, 2, "all artists returned, no error")
}

func TestTopArtistsEdgeInputs(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	assert.Empty(t, svc.TopArtists(nil, 10), "empty input yields empty ranking")
	assert.Empty(t, svc.TopArtists([]*models.DerivedTrack{
		derivedTrack("A", 10, []string{"pop"}, 2020),
	}, 0), "n below 1 yields empty ranking")
}

func TestGenrePopularityExplosion(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	// Artist A: popularity 80 in "Pop, Rock"; artist B: popularity 40 in "Pop".
	tracks := []*models.DerivedTrack{
		derivedTrack("A", 80, []string{"Pop", "Rock"}, 2020),
		derivedTrack("B", 40, []string{"Pop"}, 2020),
	}

	genres := svc.GenrePopularity(tracks)
	require.Len(t, genres, 2)

	assert.Equal(t, "Rock", genres[0].Genre)
	assert.Equal(t, 80.0, genres[0].MeanPopularity)
	assert.Equal(t, "Pop", genres[1].Genre)
	assert.Equal(t, 60.0, genres[1].MeanPopularity, "mean of 80 and 40")
}

func TestGenrePopularityPreservesMass(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	tracks := []*models.DerivedTrack{
		derivedTrack("A", 80, []string{"pop", "rock", "indie"}, 2020),
		derivedTrack("B", 40, []string{"pop"}, 2019),
		derivedTrack("C", 10, []string{"jazz", "bop"}, 2018),
	}

	// Sum of popularity weighted by genre count per record.
	wantMass := 80.0*3 + 40.0*1 + 10.0*2

	var gotMass float64
	for _, row := range explodeGenres(tracks) {
		gotMass += float64(row.popularity)
	}
	assert.Equal(t, wantMass, gotMass, "explosion is multiplicity-preserving")

	assert.Len(t, svc.GenrePopularity(tracks), 5)
}

func TestGenrePopularityTieBreak(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	tracks := []*models.DerivedTrack{
		derivedTrack("A", 50, []string{"zeta", "alpha"}, 2020),
	}

	genres := svc.GenrePopularity(tracks)
	require.Len(t, genres, 2)
	assert.Equal(t, "alpha", genres[0].Genre, "equal means order lexicographically")
	assert.Equal(t, "zeta", genres[1].Genre)
}

func TestCorrelationMatrixLinearPairs(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	// track_popularity rises 10,20,30; artist_popularity rises with it;
	// artist_followers falls against it; duration is constant (zero variance).
	mk := func(pop, artistPop int, followers int64) *models.DerivedTrack {
		d := derivedTrack("A", pop, []string{"pop"}, 2020)
		d.ArtistPopularity = artistPop
		d.ArtistFollowers = followers
		d.DurationInMinutes = 3.0
		d.AlbumTotalTracks = pop * 2
		return d
	}
	tracks := []*models.DerivedTrack{
		mk(10, 1, 300),
		mk(20, 2, 200),
		mk(30, 3, 100),
	}

	m, err := svc.CorrelationMatrix(tracks)
	require.NoError(t, err)
	require.Equal(t, models.CorrelationFields, m.Fields)
	require.Len(t, m.Values, 5)

	const tol = 1e-12
	// track_popularity vs artist_popularity: perfectly linear, r = 1.
	assert.InDelta(t, 1.0, m.At(0, 1), tol)
	// track_popularity vs artist_followers: perfectly anti-linear, r = -1.
	assert.InDelta(t, -1.0, m.At(0, 2), tol)
	// Zero-variance duration column: undefined everywhere, diagonal included.
	for j := 0; j < 5; j++ {
		assert.False(t, m.IsDefined(3, j), "duration column must be NaN")
	}
	// Diagonal of fields with variance is exactly 1.0.
	for _, i := range []int{0, 1, 2, 4} {
		assert.Equal(t, 1.0, m.At(i, i))
	}
}

func TestCorrelationMatrixSymmetry(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	mk := func(pop, artistPop int, followers int64, dur float64, albumTracks int) *models.DerivedTrack {
		d := derivedTrack("A", pop, []string{"pop"}, 2020)
		d.ArtistPopularity = artistPop
		d.ArtistFollowers = followers
		d.DurationInMinutes = dur
		d.AlbumTotalTracks = albumTracks
		return d
	}
	tracks := []*models.DerivedTrack{
		mk(12, 55, 1200, 3.1, 9),
		mk(67, 40, 90000, 2.4, 14),
		mk(88, 72, 450000, 5.0, 7),
		mk(31, 61, 3300, 3.9, 11),
	}

	m, err := svc.CorrelationMatrix(tracks)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i), "M[%d][%d] vs M[%d][%d]", i, j, j, i)
			assert.False(t, math.IsNaN(m.At(i, j)), "all fields vary, every cell defined")
		}
		assert.Equal(t, 1.0, m.At(i, i))
	}
}

func TestCorrelationMatrixEmptyInput(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	m, err := svc.CorrelationMatrix(nil)
	require.Error(t, err)
	assert.Nil(t, m)

	var insufficientErr *InsufficientDataError
	assert.ErrorAs(t, err, &insufficientErr)
}

func TestCorrelationMatrixSingleRecord(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	// One sample: every field has zero variance, so the whole matrix is
	// undefined, but that is not an error.
	m, err := svc.CorrelationMatrix([]*models.DerivedTrack{
		derivedTrack("A", 50, []string{"pop"}, 2020),
	})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.False(t, m.IsDefined(i, j))
		}
	}
}

func TestPopularityByYearAscending(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	tracks := []*models.DerivedTrack{
		derivedTrack("A", 80, []string{"pop"}, 2021),
		derivedTrack("B", 40, []string{"pop"}, 2019),
		derivedTrack("C", 60, []string{"pop"}, 2021),
		derivedTrack("D", 20, []string{"pop"}, 2020),
	}

	trend := svc.PopularityByYear(tracks)
	require.Len(t, trend, 3)

	assert.Equal(t, models.YearPopularity{Year: 2019, MeanPopularity: 40.0}, trend[0])
	assert.Equal(t, models.YearPopularity{Year: 2020, MeanPopularity: 20.0}, trend[1])
	assert.Equal(t, models.YearPopularity{Year: 2021, MeanPopularity: 70.0}, trend[2])

	for i := 1; i < len(trend); i++ {
		assert.Less(t, trend[i-1].Year, trend[i].Year, "strictly ascending, no duplicate years")
	}
}

func TestPopularityByYearEmptyInput(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())
	assert.Empty(t, svc.PopularityByYear(nil))
}

func TestCategoryDistribution(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	mk := func(category models.Category) *models.DerivedTrack {
		d := derivedTrack("A", 50, []string{"pop"}, 2020)
		d.PopularityCategory = category
		return d
	}
	tracks := []*models.DerivedTrack{
		mk(models.CategoryLow),
		mk(models.CategoryHigh),
		mk(models.CategoryHigh),
		mk(models.CategoryVeryHigh),
	}

	dist := svc.CategoryDistribution(tracks)
	require.Len(t, dist, len(models.Categories), "every category present, empty ones included")

	total := 0
	for _, c := range dist {
		total += c.Count
	}
	assert.Equal(t, len(tracks), total, "counts sum to the track count")

	assert.Equal(t, models.CategoryCount{Category: models.CategoryLow, Count: 1}, dist[0])
	assert.Equal(t, models.CategoryCount{Category: models.CategoryMedium, Count: 0}, dist[1])
	assert.Equal(t, models.CategoryCount{Category: models.CategoryHigh, Count: 2}, dist[2])
	assert.Equal(t, models.CategoryCount{Category: models.CategoryVeryHigh, Count: 1}, dist[3])
}

func TestGenerateReport(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	tracks := []*models.DerivedTrack{
		derivedTrack("A", 80, []string{"Pop", "Rock"}, 2020),
		derivedTrack("B", 40, []string{"Pop"}, 2019),
	}

	report := svc.Generate(tracks, 10)
	assert.Equal(t, 2, report.TotalTracks)
	assert.Len(t, report.TopArtists, 2)
	assert.Len(t, report.Genres, 2)
	assert.Len(t, report.YearlyTrend, 2)
	assert.Len(t, report.Distribution, 4)
	require.NotNil(t, report.Correlation)
}

func TestGenerateReportEmptyInput(t *testing.T) {
	svc := NewInsightService(utilsTestLogger())

	// Correlation is undefined on an empty set; the report skips it instead
	// of failing.
	report := svc.Generate(nil, 10)
	assert.Equal(t, 0, report.TotalTracks)
	assert.Empty(t, report.TopArtists)
	assert.Empty(t, report.Genres)
	assert.Empty(t, report.YearlyTrend)
	assert.Nil(t, report.Correlation)
}
