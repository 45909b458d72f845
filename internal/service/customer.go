package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/beyzasenay/mini-crm/internal/domain"
	"github.com/beyzasenay/mini-crm/internal/repository"
)

// Structural check only, not full RFC validation.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const customerListLimit = 50

// CustomerService handles customer intake: validation, the duplicate gate,
// and partial updates. Both the HTTP layer and the CSV importer go through it.
type CustomerService struct {
	customers *repository.CustomerRepository
	matcher   *DuplicateMatcher
	logger    *zap.Logger
}

func NewCustomerService(customers *repository.CustomerRepository, matcher *DuplicateMatcher, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		matcher:   matcher,
		logger:    logger,
	}
}

func duplicateConflict(match *Match) *domain.ConflictError {
	return &domain.ConflictError{
		Message: "Duplicate customer detected",
		Detail: domain.DuplicateDetail{
			Reason: match.Reason,
			Customer: domain.DuplicateCustomer{
				ID:        match.Customer.ID,
				FirstName: match.Customer.FirstName,
				LastName:  match.Customer.LastName,
				Phone:     match.Customer.Phone,
				Email:     match.Customer.Email,
			},
		},
	}
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Create validates the payload, runs duplicate detection and persists the
// allow-listed fields. The stored email is lowercased so the matcher's exact
// lookup stays sound.
func (s *CustomerService) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, &domain.ValidationError{Message: "`firstName` is required"}
	}
	if req.Email != "" && !validEmail(req.Email) {
		return nil, &domain.ValidationError{Message: "Invalid email format"}
	}

	match, err := s.matcher.FindDuplicate(ctx, Candidate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return nil, err
	}
	if match != nil {
		return nil, duplicateConflict(match)
	}

	s.logger.Info("creating customer",
		zap.String("first_name", req.FirstName),
		zap.String("last_name", req.LastName))

	customer := &domain.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     strings.ToLower(req.Email),
		Address:   req.Address,
		IsActive:  true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.FindAll(ctx, customerListLimit)
}

// Update applies only the fields present in the request. Duplicate detection
// re-runs only when the update touches phone or firstName, against the merged
// post-update view, and a hit on the record itself is not a conflict.
func (s *CustomerService) Update(ctx context.Context, id uint, req domain.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != "" && !validEmail(*req.Email) {
		return nil, &domain.ValidationError{Message: "Invalid email format"}
	}

	if req.Phone != nil || req.FirstName != nil {
		candidate := Candidate{
			FirstName: customer.FirstName,
			LastName:  customer.LastName,
			Phone:     customer.Phone,
		}
		if req.FirstName != nil {
			candidate.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			candidate.LastName = *req.LastName
		}
		if req.Phone != nil {
			candidate.Phone = *req.Phone
		}

		match, err := s.matcher.FindDuplicate(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if match != nil && match.Customer.ID != id {
			return nil, duplicateConflict(match)
		}
	}

	fields := map[string]any{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(*req.Email)
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return customer, nil
	}

	updated, err := s.customers.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated customer", zap.Uint("id", id), zap.Int("fields", len(fields)))
	return updated, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted customer", zap.Uint("id", id))
	return nil
}
