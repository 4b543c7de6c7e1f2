// Package scoring computes the investment and sustainability scores from
// rubric-matched evidence. Scoring always produces a number: a category
// with no evidence scores 0 with a gap note instead of failing. Only an
// invalid template aborts, at load time.
package scoring

import (
	"fmt"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks an invalid scoring template. It is fatal at load
// time; weights are never silently renormalized.
var ErrConfiguration = eris.New("scoring: invalid configuration")

// Severity classifies a rubric criterion's importance.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMinor    Severity = "minor"
)

// PenaltyTable is the deduction applied to a category's 0-10 sub-score
// for each missing criterion, by severity. Custom templates may override
// the magnitudes.
type PenaltyTable struct {
	Critical float64 `yaml:"critical" json:"critical"`
	Minor    float64 `yaml:"minor" json:"minor"`
}

var defaultPenalties = PenaltyTable{Critical: 1.5, Minor: 0.5}

func (p PenaltyTable) points(s Severity) float64 {
	if s == SeverityCritical {
		return p.Critical
	}
	return p.Minor
}

// Criterion is one rubric item within a category.
type Criterion struct {
	Name                string   `yaml:"name" json:"name"`
	Severity            Severity `yaml:"severity" json:"severity"`
	EvidenceRequirement int      `yaml:"evidence_requirement" json:"evidence_requirement"`
}

// Category is one weighted scoring category. Weight is a fraction; the
// weights of one score type must sum to 1.0.
type Category struct {
	Key      string      `yaml:"key" json:"key"`
	Name     string      `yaml:"name" json:"name"`
	Weight   float64     `yaml:"weight" json:"weight"`
	Criteria []Criterion `yaml:"criteria" json:"criteria"`
}

// Template holds the category definitions for both score types and the
// penalty magnitudes. An omitted penalty block falls back to the default
// 1.5/0.5 deductions.
type Template struct {
	Investment     []Category   `yaml:"investment" json:"investment"`
	Sustainability []Category   `yaml:"sustainability" json:"sustainability"`
	Penalties      PenaltyTable `yaml:"penalties,omitempty" json:"penalties,omitempty"`
}

// penalties returns the template's penalty table, or the default when the
// template leaves the block unset.
func (t *Template) penalties() PenaltyTable {
	if t.Penalties == (PenaltyTable{}) {
		return defaultPenalties
	}
	return t.Penalties
}

// investmentKeys and sustainabilityKeys are the fixed category identity
// sets. Custom templates may change weights and criteria but not the set.
var (
	investmentKeys = []string{
		"geology_prospectivity", "resource_potential", "economics",
		"legal_title", "permitting_esg", "data_quality",
	}
	sustainabilityKeys = []string{
		"environmental", "social", "governance", "climate",
	}
)

const weightTolerance = 1e-6

// DefaultTemplate returns the built-in scoring template.
func DefaultTemplate() *Template {
	return &Template{
		Penalties: defaultPenalties,
		Investment: []Category{
			{Key: "geology_prospectivity", Name: "Geology / Prospectivity", Weight: 0.35, Criteria: []Criterion{
				{Name: "mineral resource estimate", Severity: SeverityCritical, EvidenceRequirement: 3},
				{Name: "grade continuity", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "drilling intercepts", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "regional deposit analogues", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
			{Key: "resource_potential", Name: "Resource Potential", Weight: 0.20, Criteria: []Criterion{
				{Name: "tonnage estimate", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "expansion potential", Severity: SeverityMinor, EvidenceRequirement: 1},
				{Name: "deposit open at depth", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
			{Key: "economics", Name: "Economics", Weight: 0.15, Criteria: []Criterion{
				{Name: "capex estimate", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "opex estimate", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "npv and irr", Severity: SeverityCritical, EvidenceRequirement: 1},
				{Name: "consolidated economics table", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
			{Key: "legal_title", Name: "Legal & Title", Weight: 0.10, Criteria: []Criterion{
				{Name: "title and ownership", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "royalty obligations", Severity: SeverityCritical, EvidenceRequirement: 1},
				{Name: "claim map", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
			{Key: "permitting_esg", Name: "Permitting & ESG", Weight: 0.10, Criteria: []Criterion{
				{Name: "permit status", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "community agreements", Severity: SeverityMinor, EvidenceRequirement: 1},
				{Name: "environmental baseline", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
			{Key: "data_quality", Name: "Data Quality", Weight: 0.10, Criteria: []Criterion{
				{Name: "qaqc protocols", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "third-party verification", Severity: SeverityMinor, EvidenceRequirement: 1},
				{Name: "technical report standard", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
		},
		Sustainability: []Category{
			{Key: "environmental", Name: "Environmental Performance", Weight: 0.35, Criteria: []Criterion{
				{Name: "water management plan", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "tailings management", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "biodiversity baseline", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
			{Key: "social", Name: "Social Performance", Weight: 0.30, Criteria: []Criterion{
				{Name: "community engagement", Severity: SeverityCritical, EvidenceRequirement: 2},
				{Name: "indigenous agreements", Severity: SeverityCritical, EvidenceRequirement: 1},
				{Name: "local employment", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
			{Key: "governance", Name: "Governance", Weight: 0.20, Criteria: []Criterion{
				{Name: "board independence", Severity: SeverityMinor, EvidenceRequirement: 1},
				{Name: "disclosure practices", Severity: SeverityCritical, EvidenceRequirement: 1},
			}},
			{Key: "climate", Name: "Climate & Energy", Weight: 0.15, Criteria: []Criterion{
				{Name: "emissions inventory", Severity: SeverityCritical, EvidenceRequirement: 1},
				{Name: "renewable energy plan", Severity: SeverityMinor, EvidenceRequirement: 1},
			}},
		},
	}
}

// LoadTemplate reads a custom template from a YAML file and validates it.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scoring: read template %s", path)
	}
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, eris.Wrapf(err, "scoring: parse template %s", path)
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Validate enforces the template invariants: weights per score type sum to
// 1.0 within tolerance, the category identity sets are preserved, and any
// supplied penalty magnitudes are positive.
func (t *Template) Validate() error {
	if err := validateCategories("investment", t.Investment, investmentKeys); err != nil {
		return err
	}
	if err := validateCategories("sustainability", t.Sustainability, sustainabilityKeys); err != nil {
		return err
	}
	if t.Penalties != (PenaltyTable{}) {
		if t.Penalties.Critical <= 0 || t.Penalties.Minor <= 0 {
			return eris.Wrapf(ErrConfiguration,
				"penalty points must be positive, got critical=%v minor=%v",
				t.Penalties.Critical, t.Penalties.Minor)
		}
	}
	return nil
}

func validateCategories(kind string, categories []Category, allowed []string) error {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}

	seen := make(map[string]bool, len(categories))
	sum := 0.0
	for _, c := range categories {
		if !known[c.Key] {
			return eris.Wrapf(ErrConfiguration, "%s category %q is not a recognized category", kind, c.Key)
		}
		if seen[c.Key] {
			return eris.Wrapf(ErrConfiguration, "%s category %q is defined twice", kind, c.Key)
		}
		seen[c.Key] = true
		if c.Weight < 0 {
			return eris.Wrapf(ErrConfiguration, "%s category %q has negative weight %v", kind, c.Key, c.Weight)
		}
		sum += c.Weight
	}
	for _, k := range allowed {
		if !seen[k] {
			return eris.Wrapf(ErrConfiguration, "%s template is missing category %q", kind, k)
		}
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return eris.Wrapf(ErrConfiguration,
			"%s category weights sum to %s, must sum to 1.0", kind, fmt.Sprintf("%.6f", sum))
	}
	return nil
}

// criterion returns the rubric item by name, if defined.
func (c Category) criterion(name string) (Criterion, bool) {
	for _, cr := range c.Criteria {
		if cr.Name == name {
			return cr, true
		}
	}
	return Criterion{}, false
}
