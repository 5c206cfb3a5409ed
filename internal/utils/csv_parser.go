// Package utils provides utility functions for the Engage matching engine.
package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"engage-matching-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in a member import CSV.
var RequiredColumns = []string{
	"member_id",
	"email",
	"gift_tags",
	"availability",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// member_id aliases
	"memberid":  "member_id",
	"member id": "member_id",
	"id":        "member_id",
	"user_id":   "member_id",
	"userid":    "member_id",

	// full_name aliases
	"fullname":  "full_name",
	"full name": "full_name",
	"name":      "full_name",

	// email aliases
	"emailaddress":  "email",
	"email_address": "email",
	"mail":          "email",

	// gift_tags aliases
	"gifttags":   "gift_tags",
	"gift tags":  "gift_tags",
	"gifts":      "gift_tags",
	"skills":     "gift_tags",
	"tags":       "gift_tags",
	"gifting":    "gift_tags",
	"gift_areas": "gift_tags",

	// availability aliases
	"availability_windows": "availability",
	"availabilitywindows":  "availability",
	"windows":              "availability",
	"available":            "availability",
	"time_windows":         "availability",
	"serving_times":        "availability",
}

// CSVParser handles parsing of member import CSV files.
type CSVParser struct {
	columnMapping map[string]int
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping: make(map[string]int),
	}
}

// ParseMembers parses CSV content and returns a slice of ProfileCreate objects.
func (p *CSVParser) ParseMembers(content string, batchID string) ([]*models.ProfileCreate, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	// Build column mapping
	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	// Parse data rows
	var profiles []*models.ProfileCreate
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		profile, err := p.parseRow(record, batchID)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 && len(parseErrors) > 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return profiles, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))

		// Apply alias if exists
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}

		p.columnMapping[normalized] = i
	}

	// Check for required columns
	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow parses a single CSV row into a ProfileCreate object.
func (p *CSVParser) parseRow(record []string, batchID string) (*models.ProfileCreate, error) {
	getValue := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := models.CSVMemberRow{
		MemberID:     getValue("member_id"),
		FullName:     getValue("full_name"),
		Email:        getValue("email"),
		GiftTags:     getValue("gift_tags"),
		Availability: getValue("availability"),
	}

	return row.ToProfileCreate(batchID)
}
