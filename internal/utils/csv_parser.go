package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"auctus-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in a business roster.
var RequiredColumns = []string{
	"name",
	"industry",
	"location",
	"revenue",
	"employees",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// id aliases
	"business_id": "id",
	"businessid":  "id",
	"business id": "id",

	// name aliases
	"business_name": "name",
	"businessname":  "name",
	"business name": "name",
	"company":       "name",
	"company_name":  "name",

	// industry aliases
	"sector": "industry",
	"naics":  "industry",

	// location aliases
	"city":    "location",
	"address": "location",

	// revenue aliases
	"annual_revenue": "revenue",
	"annualrevenue":  "revenue",
	"annual revenue": "revenue",
	"sales":          "revenue",
	"turnover":       "revenue",

	// employees aliases
	"employee_count": "employees",
	"employeecount":  "employees",
	"employee count": "employees",
	"headcount":      "employees",
	"staff":          "employees",

	// optional columns
	"email_address":    "email",
	"emailaddress":     "email",
	"contact_email":    "email",
	"url":              "website",
	"year established": "year_established",
	"yearestablished":  "year_established",
	"founded":          "year_established",
	"looking_for":      "needs",
	"services":         "offers",
}

// listSeparators split multi-value cells such as needs and offers.
const listSeparators = ";|"

// CSVParser handles parsing of business roster CSV files.
type CSVParser struct {
	columnMapping map[string]int
	newID         func() string
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping: make(map[string]int),
		newID: func() string {
			return "biz-" + uuid.NewString()[:8]
		},
	}
}

// ParseBusinesses parses roster content. Rows that fail are reported by line and skipped.
func (p *CSVParser) ParseBusinesses(content string) ([]models.Business, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var businesses []models.Business
	var parseErrors []error
	seen := make(map[string]int)
	lineNum := 1

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

		business, err := p.parseRow(record)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if err := models.ValidateBusiness(&business); err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if first, dup := seen[business.ID]; dup {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w: %s (first on line %d)", lineNum, models.ErrDuplicateID, business.ID, first))
			continue
		}
		seen[business.ID] = lineNum

		businesses = append(businesses, business)
	}

	if len(businesses) == 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return businesses, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := normalizeColumn(col)
		if _, exists := p.columnMapping[normalized]; !exists {
			p.columnMapping[normalized] = i
		}
	}

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

func normalizeColumn(col string) string {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
	if alias, ok := ColumnAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// value returns the trimmed cell for a column, or "" when the column or cell is absent.
func (p *CSVParser) value(record []string, column string) string {
	idx, ok := p.columnMapping[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseRow parses a single CSV row into a Business with derived eligibility flags.
func (p *CSVParser) parseRow(record []string) (models.Business, error) {
	revenue, err := parseAmount(p.value(record, "revenue"))
	if err != nil {
		return models.Business{}, fmt.Errorf("invalid revenue: %w", err)
	}

	employees, err := parseInt(p.value(record, "employees"))
	if err != nil {
		return models.Business{}, fmt.Errorf("invalid employees: %w", err)
	}

	var yearEstablished int
	if year := p.value(record, "year_established"); year != "" {
		if yearEstablished, err = parseInt(year); err != nil {
			return models.Business{}, fmt.Errorf("invalid year_established: %w", err)
		}
	}

	id := p.value(record, "id")
	if id == "" {
		id = p.newID()
	}

	business := models.Business{
		ID:              id,
		Name:            p.value(record, "name"),
		Industry:        models.NormalizeIndustry(p.value(record, "industry")),
		Location:        p.value(record, "location"),
		Revenue:         revenue,
		Employees:       employees,
		Description:     p.value(record, "description"),
		Needs:           splitList(p.value(record, "needs")),
		Offers:          splitList(p.value(record, "offers")),
		YearEstablished: yearEstablished,
		Website:         p.value(record, "website"),
		Email:           p.value(record, "email"),
	}

	for _, industry := range splitList(p.value(record, "industries")) {
		business.Eligibility.Industries = append(business.Eligibility.Industries, models.NormalizeIndustry(industry))
	}
	business.Eligibility = models.DeriveEligibility(&business)

	return business, nil
}

// splitList splits a multi-value cell, dropping empty items. It never returns nil.
func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(listSeparators, r)
	}) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseAmount parses a currency amount, handling commas, "$" and k/m suffixes.
func parseAmount(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		multiplier = 1_000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		multiplier = 1_000_000
		s = strings.TrimSuffix(s, "m")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f * multiplier), nil
}

// parseInt parses a string to int, handling common formats.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Handle float strings (e.g., "12.0")
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	}

	return strconv.Atoi(s)
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) *CSVValidationResult {
	result := &CSVValidationResult{
		Columns:        []string{},
		MissingColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result
	}

	normalizedColumns := make(map[string]bool)
	for _, col := range header {
		normalizedColumns[normalizeColumn(col)] = true
		result.Columns = append(result.Columns, col)
	}

	for _, required := range RequiredColumns {
		if !normalizedColumns[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		result.RowCount++
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}
