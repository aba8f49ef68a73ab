package services

import (
	"spotify-insights/models"
	"spotify-insights/utils"
)

// FeatureDeriver computes the derived per-track fields the insight queries
// run on: duration in minutes, popularity category, release year
type FeatureDeriver struct {
	logger *utils.Logger
}

// NewFeatureDeriver creates a new FeatureDeriver
func NewFeatureDeriver(logger *utils.Logger) *FeatureDeriver {
	return &FeatureDeriver{logger: logger}
}

// Derive computes a DerivedTrack for every clean track. No row is dropped
// here; a popularity outside [0,100] fails the whole pass with an
// OutOfRangeError since the category bins are undefined beyond that range.
func (d *FeatureDeriver) Derive(tracks []*models.Track) ([]*models.DerivedTrack, error) {
	derived := make([]*models.DerivedTrack, 0, len(tracks))

	for _, t := range tracks {
		category, err := categorizePopularity(t)
		if err != nil {
			return nil, err
		}

		derived = append(derived, &models.DerivedTrack{
			Track: *t,
			// Source duration is already in minutes; the field exists so the
			// report's unit is explicit.
			DurationInMinutes:  t.TrackDurationMin,
			PopularityCategory: category,
			ReleaseYear:        t.ReleaseDate.Year(),
		})
	}

	d.logger.Info("Derived features for %d tracks", len(derived))
	return derived, nil
}

// categorizePopularity assigns the half-open popularity bins
// [0,25) Low, [25,50) Medium, [50,75) High, [75,100] Very High.
// 100 belongs to the top bin; anything outside [0,100] is an error.
func categorizePopularity(t *models.Track) (models.Category, error) {
	p := t.TrackPopularity
	switch {
	case p < 0 || p > 100:
		return "", &OutOfRangeError{Artist: t.ArtistName, Popularity: p}
	case p < 25:
		return models.CategoryLow, nil
	case p < 50:
		return models.CategoryMedium, nil
	case p < 75:
		return models.CategoryHigh, nil
	default:
		return models.CategoryVeryHigh, nil
	}
}
