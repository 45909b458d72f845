package service

import (
	"context"
	"strings"

	"github.com/beyzasenay/mini-crm/internal/domain"
	"github.com/beyzasenay/mini-crm/internal/repository"
)

// Match reasons, in check order. The first rule that fires wins.
const (
	MatchReasonPhone = "phone"
	MatchReasonEmail = "email"
	MatchReasonName  = "name"
)

// Match is a duplicate hit: the stored customer plus the rule that matched.
type Match struct {
	Reason   string
	Customer *domain.Customer
}

// Candidate carries the fields the matcher compares.
type Candidate struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

// DuplicateMatcher decides whether a candidate customer already exists,
// comparing by phone, then email, then name. It never writes.
type DuplicateMatcher struct {
	customers *repository.CustomerRepository
}

func NewDuplicateMatcher(customers *repository.CustomerRepository) *DuplicateMatcher {
	return &DuplicateMatcher{customers: customers}
}

// NormalizePhone reduces a free-form phone number to a comparison key:
// digits only, without the "90" country prefix or leading zeros.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimPrefix(b.String(), "90")
	return strings.TrimLeft(digits, "0")
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindDuplicate returns the first match in phone > email > name priority, or
// nil when no rule fires.
func (m *DuplicateMatcher) FindDuplicate(ctx context.Context, candidate Candidate) (*Match, error) {
	if phone := NormalizePhone(candidate.Phone); phone != "" {
		found, err := m.findByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return &Match{Reason: MatchReasonPhone, Customer: found}, nil
		}
	}

	if candidate.Email != "" {
		found, err := m.customers.FindByEmail(ctx, strings.ToLower(candidate.Email))
		if err != nil {
			return nil, err
		}
		if found != nil {
			return &Match{Reason: MatchReasonEmail, Customer: found}, nil
		}
	}

	if normalizeName(candidate.FirstName) != "" {
		found, err := m.customers.FindByName(ctx, candidate.FirstName, candidate.LastName)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return &Match{Reason: MatchReasonName, Customer: found}, nil
		}
	}

	return nil, nil
}

// findByPhone scans every customer with a phone on record and compares
// normalized keys. Full scan; fine at this data volume, a normalized-phone
// column would replace it at scale.
func (m *DuplicateMatcher) findByPhone(ctx context.Context, normalized string) (*domain.Customer, error) {
	candidates, err := m.customers.FindAllWithPhone(ctx)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if NormalizePhone(candidates[i].Phone) == normalized {
			return &candidates[i], nil
		}
	}
	return nil, nil
}
