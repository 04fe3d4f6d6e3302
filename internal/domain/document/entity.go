// Package document defines the source-document aggregate and its persistence
// ports.  Document content bytes live in object storage; the entity here
// carries metadata plus the extracted text used by the comparison engine.
package document

import (
	"strings"

	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// DocumentType categorises the legal instrument.
type DocumentType string

const (
	TypeContractOfSale DocumentType = "contract_of_sale"
	TypeLeaseAgreement DocumentType = "lease_agreement"
	TypeSection32      DocumentType = "section32"
	TypeTitleDocument  DocumentType = "title_document"
	TypeOther          DocumentType = "other"
)

func (t DocumentType) IsValid() bool {
	switch t {
	case TypeContractOfSale, TypeLeaseAgreement, TypeSection32, TypeTitleDocument, TypeOther:
		return true
	}
	return false
}

// Document is a stored legal document: identity, extracted text, and
// descriptive metadata.  Pages within Text are delimited by form feed
// characters (\f); PageCount is derived from the text at creation.
type Document struct {
	ID           common.ID        `json:"id"`
	Name         string           `json:"name"`
	Type         DocumentType     `json:"type"`
	Jurisdiction string           `json:"jurisdiction"`
	Text         string           `json:"text,omitempty"`
	PageCount    int              `json:"page_count"`
	ContentKey   string           `json:"content_key,omitempty"`
	Metadata     common.Metadata  `json:"metadata,omitempty"`
	CreatedAt    common.Timestamp `json:"created_at"`
	UpdatedAt    common.Timestamp `json:"updated_at"`
}

// New constructs a validated Document from a name, type, jurisdiction code,
// and extracted text.  The page count is the number of form-feed delimited
// pages in the text.
func New(name string, docType DocumentType, jurisdiction, text string) (*Document, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidParam("document name must not be blank")
	}
	if !docType.IsValid() {
		docType = TypeOther
	}
	now := common.Now()
	return &Document{
		ID:           common.NewID(),
		Name:         name,
		Type:         docType,
		Jurisdiction: strings.ToUpper(strings.TrimSpace(jurisdiction)),
		Text:         text,
		PageCount:    CountPages(text),
		Metadata:     common.Metadata{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CountPages returns the number of form-feed delimited pages in text.
// Empty text has zero pages.
func CountPages(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\f") + 1
}

// Ref returns the identity snapshot embedded into comparisons.
func (d *Document) Ref() (id common.ID, name string, pages int) {
	return d.ID, d.Name, d.PageCount
}
