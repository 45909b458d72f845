package etl

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/beyzasenay/mini-crm/internal/domain"
	"github.com/beyzasenay/mini-crm/internal/service"
)

// Header aliases per target field, covering Turkish and common variants.
var headerAliases = map[string][]string{
	"name":     {"name", "fullname", "full_name", "firstname", "first_name", "ad", "adı"},
	"lastName": {"lastname", "last_name", "surname", "soyad", "soyadı"},
	"phone":    {"phone", "telephone", "telefon", "telefonno", "mobile"},
	"email":    {"email", "mail", "e-posta", "eposta"},
	"address":  {"address", "adres"},
}

// Report summarizes one import run.
type Report struct {
	Total    int        `json:"total"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Importer ingests cleaned customer rows through the customer intake, so
// batch rows face the same validation and duplicate detection as the API.
// A duplicate row is skipped, but fields the existing record lacks are
// merged onto it.
type Importer struct {
	customers *service.CustomerService
	logger    *zap.Logger
}

func NewImporter(customers *service.CustomerService, logger *zap.Logger) *Importer {
	return &Importer{customers: customers, logger: logger}
}

// ImportFile imports the CSV at path.
func (imp *Importer) ImportFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()
	return imp.Import(ctx, f)
}

// Import reads customer rows from r. The first record is the header.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns := mapColumns(header)

	report := &Report{Errors: []RowError{}}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			report.Errors = append(report.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		report.Total++
		imp.importRow(ctx, report, line, columns, record)
	}

	imp.logger.Info("import finished",
		zap.Int("total", report.Total),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

func (imp *Importer) importRow(ctx context.Context, report *Report, line int, columns map[string]int, record []string) {
	get := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rawName := get("name")
	rawLast := get("lastName")
	combined := strings.TrimSpace(rawName + " " + rawLast)
	firstName, lastName := SplitName(combined)

	email, _ := CleanEmail(get("email"))
	payload := domain.CreateCustomerRequest{
		FirstName: CleanName(firstName),
		LastName:  CleanName(lastName),
		Phone:     CleanPhone(get("phone")),
		Email:     email,
		Address:   get("address"),
	}

	if payload.FirstName == "" {
		report.Errors = append(report.Errors, RowError{Line: line, Reason: "missing_first_name"})
		report.Skipped++
		return
	}

	_, err := imp.customers.Create(ctx, payload)
	if err == nil {
		report.Inserted++
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		if detail, ok := conflict.Detail.(domain.DuplicateDetail); ok {
			if mergeErr := imp.mergeMissing(ctx, detail.Customer.ID, payload); mergeErr != nil {
				report.Errors = append(report.Errors, RowError{Line: line, Reason: mergeErr.Error()})
			}
		}
		report.Skipped++
		return
	}

	report.Errors = append(report.Errors, RowError{Line: line, Reason: err.Error()})
}

// mergeMissing copies row fields the existing record is missing.
func (imp *Importer) mergeMissing(ctx context.Context, id uint, payload domain.CreateCustomerRequest) error {
	existing, err := imp.customers.Get(ctx, id)
	if err != nil {
		return err
	}

	update := domain.UpdateCustomerRequest{}
	changed := false
	if existing.Phone == "" && payload.Phone != "" {
		update.Phone = &payload.Phone
		changed = true
	}
	if existing.Email == "" && payload.Email != "" {
		update.Email = &payload.Email
		changed = true
	}
	if existing.Address == "" && payload.Address != "" {
		update.Address = &payload.Address
		changed = true
	}
	if existing.LastName == "" && payload.LastName != "" {
		update.LastName = &payload.LastName
		changed = true
	}
	if !changed {
		return nil
	}

	_, err = imp.customers.Update(ctx, id, update)
	return err
}

func mapColumns(header []string) map[string]int {
	columns := map[string]int{}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		for field, aliases := range headerAliases {
			if _, taken := columns[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if key == alias {
					columns[field] = i
					break
				}
			}
		}
	}
	return columns
}
