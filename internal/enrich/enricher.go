package enrich

import (
	"regexp"
	"strings"

	"github.com/Tatch-AI/harper-memory-service/internal/zep"
	"github.com/Tatch-AI/harper-memory-service/pkg/logger"
	"go.uber.org/zap"
)

// field names the side of a fact record a lookup reads from
type field int

const (
	fromContent field = iota
	fromTarget
)

// lookup matches one fact relation. When contains is set, the fact content
// must include it (case-insensitive) for the fact to match.
type lookup struct {
	relation string
	from     field
	contains string
}

// Enricher assembles a BusinessSummary from a flat list of fact records.
// Resolution order for every attribute: first fact matching a lookup (in
// lookup order), then the first fact metadata entry under any of the
// fallback keys, then Unknown.
type Enricher struct {
	logger *zap.Logger
}

// NewEnricher creates a new enricher
func NewEnricher() *Enricher {
	return &Enricher{logger: logger.Get()}
}

// Enrich builds the business summary from the user's facts
func (e *Enricher) Enrich(facts []zep.Fact) *BusinessSummary {
	summary := &BusinessSummary{
		Name: e.resolve(facts,
			[]string{"business_name", "name"},
			lookup{relation: "HAS_NAME", from: fromTarget},
			lookup{relation: "IS_NAMED", from: fromTarget},
			lookup{relation: "HAS_BUSINESS_NAME", from: fromContent},
		),
		Industry: e.resolve(facts,
			[]string{"industry"},
			lookup{relation: "HAS_INDUSTRY", from: fromTarget},
		),
		Revenue: e.resolve(facts,
			[]string{"annual_revenue", "revenue"},
			lookup{relation: "HAS_ANNUAL_REVENUE", from: fromContent},
		),
		Location: e.resolve(facts,
			[]string{"location", "address"},
			lookup{relation: "IS_LOCATED_AT", from: fromContent},
		),
		Services: Services{
			Type: e.resolve(facts,
				[]string{"business_type"},
				lookup{relation: "HAS_BUSINESS_TYPE", from: fromContent},
			),
			ServiceSplit: ServiceSplit{
				Mechanic: e.resolve(facts,
					[]string{"mechanic_split"},
					lookup{relation: "COMPRISES", from: fromContent, contains: "mechanic"},
				),
				Towing: e.resolve(facts,
					[]string{"towing_split"},
					lookup{relation: "COMPRISES", from: fromContent, contains: "towing"},
				),
			},
		},
		Contact: Contact{
			Owner: e.resolve(facts,
				[]string{"contact_role", "owner"},
				lookup{relation: "HAS_CONTACT_ROLE", from: fromContent},
			),
			Email: e.resolve(facts,
				[]string{"email"},
				lookup{relation: "HAS_EMAIL", from: fromTarget},
			),
			Phone: e.resolve(facts,
				[]string{"phone"},
				lookup{relation: "HAS_PHONE", from: fromTarget},
			),
		},
		Insurance: Insurance{
			Type: e.resolve(facts,
				[]string{"insurance_type"},
				lookup{relation: "HAS_INSURANCE_TYPE", from: fromTarget},
			),
			Deductible: e.resolve(facts,
				[]string{"insurance_deductible", "deductible"},
				lookup{relation: "HAS_INSURANCE_PREFERRED_DEDUCTIBLE", from: fromContent},
			),
			DesiredLimits: e.resolve(facts,
				[]string{"insurance_limits", "desired_limits"},
				lookup{relation: "HAS_INSURANCE_DESIRED_LIMITS", from: fromContent},
			),
		},
		Equipment: Equipment{
			TowTruck: TowTruck{
				Model: e.resolveTruckModel(facts),
				Value: e.resolve(facts,
					[]string{"vehicle_value", "value"},
					lookup{relation: "HAS_VALUE", from: fromTarget},
				),
				OperatingRadius: e.resolve(facts,
					[]string{"operating_radius"},
					lookup{relation: "HAS_OPERATING_RADIUS", from: fromTarget},
				),
			},
		},
	}

	return summary
}

// resolve returns the first matching fact field, then falls back to fact
// metadata under the given keys, then Unknown
func (e *Enricher) resolve(facts []zep.Fact, metaKeys []string, lookups ...lookup) string {
	for _, l := range lookups {
		for _, f := range facts {
			if f.Name != l.relation {
				continue
			}
			if l.contains != "" && !strings.Contains(strings.ToLower(f.Content), strings.ToLower(l.contains)) {
				continue
			}
			val := f.Content
			if l.from == fromTarget {
				val = f.TargetNodeName
			}
			if val != "" {
				return val
			}
		}
	}

	// Metadata is only consulted when no relation matched
	for _, key := range metaKeys {
		for _, f := range facts {
			if val, ok := f.MetadataString(key); ok {
				return val
			}
		}
	}

	return Unknown
}

// vehicleModelPattern matches "<year> <Make> [Model ...]" inside free text,
// e.g. "a 2004 Chevy Silverado valued at $20,000" -> "2004 Chevy Silverado".
// Model tokens must start with an uppercase letter or digit so trailing prose
// ("valued", "with") is not swallowed.
var vehicleModelPattern = regexp.MustCompile(`(?:19|20)\d{2}(?:\s+[A-Z][A-Za-z0-9-]*|\s+[0-9][A-Za-z0-9-]*){1,3}`)

// vehicleRelations are the relations whose content plausibly describes the truck
var vehicleRelations = map[string]bool{
	"HAS_VEHICLE":   true,
	"HAS_EQUIPMENT": true,
	"HAS_VALUE":     true,
	"COMPRISES":     true,
	"OWNS":          true,
}

// resolveTruckModel parses the tow-truck model out of fact free text
func (e *Enricher) resolveTruckModel(facts []zep.Fact) string {
	// Pass 1: relations that describe equipment
	for _, f := range facts {
		if !vehicleRelations[f.Name] {
			continue
		}
		if m := vehicleModelPattern.FindString(f.Content); m != "" {
			return m
		}
	}

	// Pass 2: any fact that mentions a truck
	for _, f := range facts {
		if !strings.Contains(strings.ToLower(f.Content), "truck") {
			continue
		}
		if m := vehicleModelPattern.FindString(f.Content); m != "" {
			return m
		}
	}

	// Metadata fallback
	for _, key := range []string{"truck_model", "vehicle_model"} {
		for _, f := range facts {
			if val, ok := f.MetadataString(key); ok {
				return val
			}
		}
	}

	e.logger.Debug("No vehicle model found in facts", zap.Int("fact_count", len(facts)))
	return Unknown
}
