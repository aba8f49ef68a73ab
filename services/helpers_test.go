package services

import (
	"time"

	"spotify-insights/models"
	"spotify-insights/utils"
)

func utilsTestLogger() *utils.Logger {
	return utils.NewLogger()
}

// derivedTrack builds a DerivedTrack for aggregation tests.
func derivedTrack(artist string, popularity int, genres []string, year int) *models.DerivedTrack {
	return &models.DerivedTrack{
		Track: models.Track{
			TrackName:        "Track by " + artist,
			ArtistName:       artist,
			Genres:           genres,
			TrackPopularity:  popularity,
			ArtistPopularity: 50,
			ArtistFollowers:  1_000_000,
			TrackDurationMin: 3.0,
			AlbumTotalTracks: 10,
			ReleaseDate:      time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		DurationInMinutes:  3.0,
		PopularityCategory: models.CategoryHigh,
		ReleaseYear:        year,
	}
}
