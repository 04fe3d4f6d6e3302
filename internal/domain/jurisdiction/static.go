package jurisdiction

import (
	"context"
	"sort"
	"strings"
)

// StaticProvider serves rules from a fixed in-memory table covering the
// Australian states and territories.  It is the default provider; a
// database-backed implementation can replace it without touching callers.
type StaticProvider struct {
	rules map[string]*Rules
}

// NewStaticProvider builds the default rule table.
func NewStaticProvider() *StaticProvider {
	rules := map[string]*Rules{
		"VIC": {
			State:          "VIC",
			StampDutyNote:  "Land transfer duty applies on transfer; concessions for principal place of residence and first home buyers.",
			GSTNote:        "Residential sales generally input taxed; margin scheme may apply to new residential premises.",
			CoolingOffDays: 3,
			ActReferences: []ActReference{
				{Title: "Sale of Land Act 1962 (Vic)", Section: "s 32"},
				{Title: "Duties Act 2000 (Vic)"},
			},
			DisclosureDocs: []string{"Section 32 vendor statement"},
		},
		"NSW": {
			State:          "NSW",
			StampDutyNote:  "Transfer duty applies; first home buyer assistance scheme available.",
			GSTNote:        "Residential sales generally input taxed.",
			CoolingOffDays: 5,
			ActReferences: []ActReference{
				{Title: "Conveyancing Act 1919 (NSW)"},
				{Title: "Duties Act 1997 (NSW)"},
			},
			DisclosureDocs: []string{"Contract for sale prescribed documents"},
		},
		"QLD": {
			State:          "QLD",
			StampDutyNote:  "Transfer duty applies; home concession available.",
			GSTNote:        "Residential sales generally input taxed.",
			CoolingOffDays: 5,
			ActReferences: []ActReference{
				{Title: "Property Law Act 1974 (Qld)"},
				{Title: "Duties Act 2001 (Qld)"},
			},
		},
		"SA": {
			State:          "SA",
			StampDutyNote:  "Stamp duty applies to residential land transfers.",
			GSTNote:        "Residential sales generally input taxed.",
			CoolingOffDays: 2,
			ActReferences: []ActReference{
				{Title: "Land and Business (Sale and Conveyancing) Act 1994 (SA)"},
			},
			DisclosureDocs: []string{"Form 1 vendor statement"},
		},
		"WA": {
			State:          "WA",
			StampDutyNote:  "Transfer duty applies; residential rate available.",
			GSTNote:        "Residential sales generally input taxed.",
			CoolingOffDays: 0,
			ActReferences: []ActReference{
				{Title: "Transfer of Land Act 1893 (WA)"},
				{Title: "Duties Act 2008 (WA)"},
			},
		},
		"TAS": {
			State:          "TAS",
			StampDutyNote:  "Property transfer duty applies.",
			GSTNote:        "Residential sales generally input taxed.",
			CoolingOffDays: 0,
			ActReferences: []ActReference{
				{Title: "Property Agents and Land Transactions Act 2016 (Tas)"},
			},
		},
		"ACT": {
			State:          "ACT",
			StampDutyNote:  "Conveyance duty applies; being phased toward general rates.",
			GSTNote:        "Residential sales generally input taxed.",
			CoolingOffDays: 5,
			ActReferences: []ActReference{
				{Title: "Civil Law (Sale of Residential Property) Act 2003 (ACT)"},
			},
		},
		"NT": {
			State:          "NT",
			StampDutyNote:  "Stamp duty applies to conveyances of land.",
			GSTNote:        "Residential sales generally input taxed.",
			CoolingOffDays: 4,
			ActReferences: []ActReference{
				{Title: "Law of Property Act 2000 (NT)"},
			},
		},
	}
	return &StaticProvider{rules: rules}
}

func (p *StaticProvider) RulesFor(_ context.Context, state string) (*Rules, error) {
	r, ok := p.rules[strings.ToUpper(strings.TrimSpace(state))]
	if !ok {
		return nil, ErrUnknownState(state)
	}
	return r, nil
}

func (p *StaticProvider) States(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(p.rules))
	for s := range p.rules {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
