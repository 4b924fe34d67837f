package enrich

import (
	"testing"

	"github.com/Tatch-AI/harper-memory-service/internal/zep"
	"github.com/stretchr/testify/assert"
)

// garageFacts mirrors a real Zep extraction for a towing/mechanic shop
func garageFacts() []zep.Fact {
	return []zep.Fact{
		{Name: "IS_NAMED", Content: "The business is named Westons Garage, LLC", TargetNodeName: "Westons Garage, LLC"},
		{Name: "HAS_INDUSTRY", Content: "Westons Garage operates in auto services", TargetNodeName: "Auto Services"},
		{Name: "HAS_ANNUAL_REVENUE", Content: "Annual revenue is approximately $500,000", TargetNodeName: "$500,000"},
		{Name: "IS_LOCATED_AT", Content: "Located at 42 Main St, Burlington, VT", TargetNodeName: "42 Main St"},
		{Name: "HAS_BUSINESS_TYPE", Content: "Towing and mechanic shop", TargetNodeName: "Towing and mechanic shop"},
		{Name: "COMPRISES", Content: "Mechanic work comprises 70% of revenue", TargetNodeName: "mechanic work"},
		{Name: "COMPRISES", Content: "Towing comprises 30% of revenue", TargetNodeName: "towing"},
		{Name: "HAS_CONTACT_ROLE", Content: "Dan Weston is the owner", TargetNodeName: "owner"},
		{Name: "HAS_EMAIL", Content: "Contact email is dan@westonsgarage.com", TargetNodeName: "dan@westonsgarage.com"},
		{Name: "HAS_PHONE", Content: "Phone number is 802-555-0134", TargetNodeName: "802-555-0134"},
		{Name: "HAS_INSURANCE_TYPE", Content: "Shopping for commercial auto insurance", TargetNodeName: "Commercial Auto"},
		{Name: "HAS_INSURANCE_PREFERRED_DEDUCTIBLE", Content: "Preferred deductible is $1,000", TargetNodeName: "$1,000"},
		{Name: "HAS_INSURANCE_DESIRED_LIMITS", Content: "Desired limits are $1M/$2M", TargetNodeName: "$1M/$2M"},
		{Name: "HAS_VEHICLE", Content: "The tow truck is a 2004 Chevy Silverado valued at $20,000", TargetNodeName: "tow truck"},
		{Name: "HAS_VALUE", Content: "The tow truck is valued at $20,000", TargetNodeName: "$20,000"},
		{Name: "HAS_OPERATING_RADIUS", Content: "Operates within a 50 mile radius", TargetNodeName: "50 miles"},
	}
}

func TestEnrich_FullProfile(t *testing.T) {
	e := NewEnricher()

	summary := e.Enrich(garageFacts())

	assert.Equal(t, "Westons Garage, LLC", summary.Name)
	assert.Equal(t, "Auto Services", summary.Industry)
	assert.Equal(t, "Annual revenue is approximately $500,000", summary.Revenue)
	assert.Equal(t, "Located at 42 Main St, Burlington, VT", summary.Location)
	assert.Equal(t, "Towing and mechanic shop", summary.Services.Type)
	assert.Equal(t, "Mechanic work comprises 70% of revenue", summary.Services.ServiceSplit.Mechanic)
	assert.Equal(t, "Towing comprises 30% of revenue", summary.Services.ServiceSplit.Towing)
	assert.Equal(t, "Dan Weston is the owner", summary.Contact.Owner)
	assert.Equal(t, "dan@westonsgarage.com", summary.Contact.Email)
	assert.Equal(t, "802-555-0134", summary.Contact.Phone)
	assert.Equal(t, "Commercial Auto", summary.Insurance.Type)
	assert.Equal(t, "Preferred deductible is $1,000", summary.Insurance.Deductible)
	assert.Equal(t, "Desired limits are $1M/$2M", summary.Insurance.DesiredLimits)
	assert.Equal(t, "2004 Chevy Silverado", summary.Equipment.TowTruck.Model)
	assert.Equal(t, "$20,000", summary.Equipment.TowTruck.Value)
	assert.Equal(t, "50 miles", summary.Equipment.TowTruck.OperatingRadius)
}

func TestEnrich_EmptyFacts(t *testing.T) {
	e := NewEnricher()

	summary := e.Enrich(nil)

	assert.Equal(t, Unknown, summary.Name)
	assert.Equal(t, Unknown, summary.Industry)
	assert.Equal(t, Unknown, summary.Revenue)
	assert.Equal(t, Unknown, summary.Location)
	assert.Equal(t, Unknown, summary.Services.Type)
	assert.Equal(t, Unknown, summary.Services.ServiceSplit.Mechanic)
	assert.Equal(t, Unknown, summary.Services.ServiceSplit.Towing)
	assert.Equal(t, Unknown, summary.Contact.Owner)
	assert.Equal(t, Unknown, summary.Contact.Email)
	assert.Equal(t, Unknown, summary.Contact.Phone)
	assert.Equal(t, Unknown, summary.Insurance.Type)
	assert.Equal(t, Unknown, summary.Equipment.TowTruck.Model)
	assert.Equal(t, Unknown, summary.Equipment.TowTruck.Value)
	assert.Equal(t, Unknown, summary.Equipment.TowTruck.OperatingRadius)
}

func TestEnrich_MetadataFallback(t *testing.T) {
	e := NewEnricher()

	facts := []zep.Fact{
		{
			Name:    "MENTIONS",
			Content: "The user talked about their business",
			Metadata: map[string]any{
				"industry": "Plumbing",
				"email":    "joe@example.com",
			},
		},
	}

	summary := e.Enrich(facts)

	assert.Equal(t, "Plumbing", summary.Industry)
	assert.Equal(t, "joe@example.com", summary.Contact.Email)
	assert.Equal(t, Unknown, summary.Revenue)
}

func TestEnrich_MetadataSkipsNonStringValues(t *testing.T) {
	e := NewEnricher()

	facts := []zep.Fact{
		{
			Name:    "MENTIONS",
			Content: "The user talked about their business",
			Metadata: map[string]any{
				"industry":   12345,
				"confidence": 0.93,
				"email":      "joe@example.com",
			},
		},
	}

	summary := e.Enrich(facts)

	assert.Equal(t, Unknown, summary.Industry)
	assert.Equal(t, "joe@example.com", summary.Contact.Email)
}

func TestEnrich_RelationWinsOverMetadata(t *testing.T) {
	e := NewEnricher()

	facts := []zep.Fact{
		{
			Name:           "HAS_INDUSTRY",
			Content:        "Operates in towing",
			TargetNodeName: "Towing",
			Metadata:       map[string]any{"industry": "Plumbing"},
		},
	}

	summary := e.Enrich(facts)

	assert.Equal(t, "Towing", summary.Industry)
}

func TestEnrich_FirstMatchingFactWins(t *testing.T) {
	e := NewEnricher()

	facts := []zep.Fact{
		{Name: "HAS_INDUSTRY", Content: "first", TargetNodeName: "First Industry"},
		{Name: "HAS_INDUSTRY", Content: "second", TargetNodeName: "Second Industry"},
	}

	summary := e.Enrich(facts)

	assert.Equal(t, "First Industry", summary.Industry)
}

func TestEnrich_ServiceSplitCaseInsensitive(t *testing.T) {
	e := NewEnricher()

	facts := []zep.Fact{
		{Name: "COMPRISES", Content: "MECHANIC work is 60%"},
		{Name: "COMPRISES", Content: "Towing makes up the rest"},
	}

	summary := e.Enrich(facts)

	assert.Equal(t, "MECHANIC work is 60%", summary.Services.ServiceSplit.Mechanic)
	assert.Equal(t, "Towing makes up the rest", summary.Services.ServiceSplit.Towing)
}

func TestEnrich_SkipsEmptyTargetNode(t *testing.T) {
	e := NewEnricher()

	facts := []zep.Fact{
		{Name: "HAS_EMAIL", Content: "email mentioned but not extracted", TargetNodeName: ""},
		{Name: "HAS_EMAIL", Content: "second mention", TargetNodeName: "real@example.com"},
	}

	summary := e.Enrich(facts)

	assert.Equal(t, "real@example.com", summary.Contact.Email)
}

func TestResolveTruckModel(t *testing.T) {
	e := NewEnricher()

	tests := []struct {
		name  string
		facts []zep.Fact
		want  string
	}{
		{
			name: "vehicle relation with year make model",
			facts: []zep.Fact{
				{Name: "HAS_VEHICLE", Content: "The tow truck is a 2004 Chevy Silverado valued at $20,000"},
			},
			want: "2004 Chevy Silverado",
		},
		{
			name: "hyphenated model",
			facts: []zep.Fact{
				{Name: "OWNS", Content: "They own a 2019 Ford F-350 for towing"},
			},
			want: "2019 Ford F-350",
		},
		{
			name: "model mentioned outside vehicle relations",
			facts: []zep.Fact{
				{Name: "DISCUSSED", Content: "Their truck is a 2012 Ram 2500"},
			},
			want: "2012 Ram 2500",
		},
		{
			name: "year without model does not match",
			facts: []zep.Fact{
				{Name: "HAS_VEHICLE", Content: "The truck was purchased in 2004 for towing jobs"},
			},
			want: Unknown,
		},
		{
			name: "metadata fallback",
			facts: []zep.Fact{
				{Name: "MENTIONS", Content: "talked about equipment", Metadata: map[string]any{"truck_model": "2008 GMC Sierra"}},
			},
			want: "2008 GMC Sierra",
		},
		{
			name:  "no facts",
			facts: nil,
			want:  Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.resolveTruckModel(tt.facts))
		})
	}
}
