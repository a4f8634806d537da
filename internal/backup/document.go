// Package backup produces and restores versioned snapshots of the whole
// persisted state.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"finledger/internal/core"
)

const (
	Version     = "1.0.0"
	TypeMinimal = "minimal"
)

var (
	ErrInvalidDocument    = errors.New("invalid backup document")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Document is the backup interchange format. Collections missing from an
// older document decode as nil and restore as empty.
type Document struct {
	Revenues            []core.Revenue            `json:"revenues"`
	Expenses            []core.Expense            `json:"expenses"`
	Categories          []string                  `json:"categories"`
	RevenueCategories   []string                  `json:"revenueCategories"`
	Settings            *core.AppSettings         `json:"settings"`
	UserProfile         *core.UserProfile         `json:"userProfile"`
	Savings             []core.Saving             `json:"savings"`
	Goals               []core.Goal               `json:"goals"`
	SavingsTransactions []core.SavingsTransaction `json:"savingsTransactions"`
	Timestamp           time.Time                 `json:"timestamp"`
	Version             string                    `json:"version"`
	Type                string                    `json:"type,omitempty"`
}

func (d *Document) IsMinimal() bool {
	return d.Type == TypeMinimal
}

// Encode renders doc as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrInvalidDocument
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a backup. The payload must be a JSON object and, when a
// version is present, share the current major version.
func Decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidDocument)
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Type != "" && doc.Type != TypeMinimal {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDocument, doc.Type)
	}
	if doc.Version != "" && major(doc.Version) != major(Version) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, doc.Version)
	}
	return &doc, nil
}

func major(v string) string {
	m, _, _ := strings.Cut(strings.TrimPrefix(v, "v"), ".")
	return m
}
