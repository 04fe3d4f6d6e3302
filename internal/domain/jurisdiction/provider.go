// Package jurisdiction provides read-only lookups of per-state conveyancing
// rules: stamp duty treatment, GST notes, and governing act references.
// Rules are reference data consulted when enriching document metadata and
// describing financial differences; they never influence alignment.
package jurisdiction

import (
	"context"
	"fmt"

	"github.com/verdictio/lexcompare/pkg/errors"
)

// ActReference names a statute relevant to a document type in a state.
type ActReference struct {
	Title   string `json:"title"`
	Section string `json:"section,omitempty"`
}

// Rules is the rule bundle for one state.
type Rules struct {
	State          string         `json:"state"`
	StampDutyNote  string         `json:"stamp_duty_note"`
	GSTNote        string         `json:"gst_note"`
	CoolingOffDays int            `json:"cooling_off_days"`
	ActReferences  []ActReference `json:"act_references"`
	DisclosureDocs []string       `json:"disclosure_docs,omitempty"`
}

// Provider is the read-only rules port.
type Provider interface {
	// RulesFor returns the rule bundle for a state code (e.g. "VIC").
	// Unknown states yield a JurisdictionUnknown error.
	RulesFor(ctx context.Context, state string) (*Rules, error)

	// States lists the state codes the provider knows about, sorted.
	States(ctx context.Context) ([]string, error)
}

// ErrUnknownState builds the standard not-found error for a state code.
func ErrUnknownState(state string) error {
	return errors.New(errors.ErrCodeJurisdictionUnknown,
		fmt.Sprintf("no rules for jurisdiction %q", state))
}
