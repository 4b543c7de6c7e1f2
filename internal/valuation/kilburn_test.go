package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-research/minequant/internal/config"
	"github.com/ridgeline-research/minequant/internal/model"
)

func TestKilburnExplicitRatings(t *testing.T) {
	inputs := model.NormalizedInputs{
		ExplorationSpend: model.Reported(10),
		PropertyAreaKm2:  model.Reported(45),
		Jurisdiction:     "Canada",
		Ratings:          model.GeoRatings{RegionalProspectivity: 3, ProjectMaturity: 3, LocalGeology: 3, AnalyticalData: 3},
	}
	result := Kilburn(inputs, config.Default().Valuation)

	require.True(t, result.Computed())
	assert.False(t, result.RatingsInferred)
	assert.InDelta(t, 3.0, result.CompositeRating, 1e-9)
	assert.Equal(t, "high", result.Category)
	// Top of the high band: (3.0-2.5)/0.5 = 1.0 -> PEM 3.0.
	assert.InDelta(t, 3.0, result.PEM, 1e-9)

	require.NotNil(t, result.MEE)
	// 10 * 1.03 inflation * 3.0 PEM = 30.9
	assert.InDelta(t, 30.9, result.MEE.AppraisedValue, 1e-6)
	assert.InDelta(t, 30.9*0.85, result.MEE.Range.Low, 1e-6)
	assert.InDelta(t, 30.9*1.15, result.MEE.Range.High, 1e-6)

	require.NotNil(t, result.BAC)
	assert.Equal(t, "north_america", result.BAC.Region)
	assert.InDelta(t, 4500.0, result.BAC.AreaHectares, 1e-9)
	// 4500 ha * $25/ha * 3.0 = $337,500 = 0.3375 $M
	assert.InDelta(t, 0.3375, result.BAC.AppraisedValue, 1e-9)

	assert.Equal(t, "MEE", result.PreferredMethodology)
	assert.InDelta(t, 30.9, result.PreferredValue, 1e-6)
}

func TestKilburnDrillMetersProxy(t *testing.T) {
	inputs := model.NormalizedInputs{
		DrillMeters:      model.Reported(25000),
		DevelopmentStage: "advanced exploration",
	}
	result := Kilburn(inputs, config.Default().Valuation)

	require.True(t, result.Computed())
	require.NotNil(t, result.MEE)
	// 25000 m * 0.0003 $M/m = 7.5 $M proxy expenditure.
	assert.InDelta(t, 7.5, result.MEE.Expenditure, 1e-9)
	assert.Equal(t, "MEE", result.PreferredMethodology)
	assert.Nil(t, result.BAC)
}

func TestKilburnInfersRatingsFromStage(t *testing.T) {
	inputs := model.NormalizedInputs{
		ExplorationSpend: model.Reported(5),
		DevelopmentStage: "feasibility",
	}
	result := Kilburn(inputs, config.Default().Valuation)

	require.True(t, result.Computed())
	assert.True(t, result.RatingsInferred)
	assert.Equal(t, 3, result.Ratings.RegionalProspectivity)
	assert.Equal(t, 3, result.Ratings.ProjectMaturity)
	assert.Equal(t, 2, result.Ratings.LocalGeology)
	assert.Equal(t, 2, result.Ratings.AnalyticalData)
	// Composite 2.5 caps the moderate band: PEM 2.0.
	assert.Equal(t, "moderate", result.Category)
	assert.InDelta(t, 2.0, result.PEM, 1e-9)
}

func TestKilburnInsufficientWithoutExplorationFields(t *testing.T) {
	result := Kilburn(model.NormalizedInputs{}, config.Default().Valuation)

	require.False(t, result.Computed())
	assert.ElementsMatch(t, []string{
		model.FieldExplorationSpend,
		model.FieldPropertyAreaKm2,
	}, result.Insufficiency.Missing)
}

func TestRatingCategoryBoundaries(t *testing.T) {
	assert.Equal(t, "very_low", ratingCategory(1.0))
	assert.Equal(t, "very_low", ratingCategory(1.5))
	assert.Equal(t, "low", ratingCategory(2.0))
	assert.Equal(t, "moderate", ratingCategory(2.25))
	assert.Equal(t, "high", ratingCategory(3.0))
	assert.Equal(t, "very_high", ratingCategory(3.25))
}

func TestInterpolatePEMClamps(t *testing.T) {
	// Bottom of each band.
	assert.InDelta(t, 0.5, interpolatePEM(1.0, "very_low"), 1e-9)
	assert.InDelta(t, 1.5, interpolatePEM(2.0, "moderate"), 1e-9)
	// Top of the very_high band.
	assert.InDelta(t, 5.0, interpolatePEM(4.0, "very_high"), 1e-9)
}

func TestBACRegionMapping(t *testing.T) {
	assert.Equal(t, "north_america", bacRegion("British Columbia, Canada"))
	assert.Equal(t, "south_america", bacRegion("Atacama, Chile"))
	assert.Equal(t, "australia", bacRegion("Western Australia"))
	assert.Equal(t, "africa", bacRegion("Mali"))
	assert.Equal(t, "other", bacRegion(""))
}
