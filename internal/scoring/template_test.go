package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateIsValid(t *testing.T) {
	require.NoError(t, DefaultTemplate().Validate())
}

func TestValidateRejectsBadWeightSum(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Investment[0].Weight = 0.50 // pushes the sum past 1.0

	err := tpl.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "sum to")
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Sustainability[0].Key = "vibes"

	err := tpl.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestValidateRejectsMissingCategory(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Investment = tpl.Investment[:5] // drop data_quality

	// Redistribute so the failure is the identity set, not the sum.
	tpl.Investment[0].Weight = 0.45

	err := tpl.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "data_quality")
}

func TestValidateRejectsDuplicateCategory(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Investment = append(tpl.Investment, tpl.Investment[0])

	err := tpl.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestValidateToleratesRoundingNoise(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Investment[0].Weight += 5e-7

	assert.NoError(t, tpl.Validate())
}

func TestLoadTemplateFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	content := `
investment:
  - {key: geology_prospectivity, name: Geology, weight: 0.35}
  - {key: resource_potential, name: Resource, weight: 0.20}
  - {key: economics, name: Economics, weight: 0.15}
  - {key: legal_title, name: Legal, weight: 0.10}
  - {key: permitting_esg, name: Permitting, weight: 0.10}
  - {key: data_quality, name: Data, weight: 0.10}
sustainability:
  - {key: environmental, name: Environmental, weight: 0.40}
  - {key: social, name: Social, weight: 0.30}
  - {key: governance, name: Governance, weight: 0.20}
  - {key: climate, name: Climate, weight: 0.10}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, 0.40, tpl.Sustainability[0].Weight)

	// No penalties block in the file; the default magnitudes apply.
	assert.Equal(t, defaultPenalties, tpl.penalties())
}

func TestLoadTemplateWithCustomPenalties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	content := `
penalties: {critical: 3.0, minor: 1.0}
investment:
  - {key: geology_prospectivity, name: Geology, weight: 0.35}
  - {key: resource_potential, name: Resource, weight: 0.20}
  - {key: economics, name: Economics, weight: 0.15}
  - {key: legal_title, name: Legal, weight: 0.10}
  - {key: permitting_esg, name: Permitting, weight: 0.10}
  - {key: data_quality, name: Data, weight: 0.10}
sustainability:
  - {key: environmental, name: Environmental, weight: 0.35}
  - {key: social, name: Social, weight: 0.30}
  - {key: governance, name: Governance, weight: 0.20}
  - {key: climate, name: Climate, weight: 0.15}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, PenaltyTable{Critical: 3.0, Minor: 1.0}, tpl.penalties())
}

func TestValidateRejectsNonPositivePenalties(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Penalties = PenaltyTable{Critical: -1.5, Minor: 0.5}

	err := tpl.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "penalty points")
}

func TestLoadTemplateFailsOnInvalidWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	content := `
investment:
  - {key: geology_prospectivity, name: Geology, weight: 0.90}
  - {key: resource_potential, name: Resource, weight: 0.20}
  - {key: economics, name: Economics, weight: 0.15}
  - {key: legal_title, name: Legal, weight: 0.10}
  - {key: permitting_esg, name: Permitting, weight: 0.10}
  - {key: data_quality, name: Data, weight: 0.10}
sustainability:
  - {key: environmental, name: Environmental, weight: 0.40}
  - {key: social, name: Social, weight: 0.30}
  - {key: governance, name: Governance, weight: 0.20}
  - {key: climate, name: Climate, weight: 0.10}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadTemplate(path)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestLoadTemplateMissingFile(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
