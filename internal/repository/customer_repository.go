package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/beyzasenay/mini-crm/internal/domain"
)

// CustomerRepository provides access to customer storage.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "customer"}
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, limit int) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := r.db.WithContext(ctx).Limit(limit).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// FindAllWithPhone returns every customer that has a phone recorded. The
// matcher normalizes each one in memory, so this is a full scan on purpose.
func (r *CustomerRepository) FindAllWithPhone(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := r.db.WithContext(ctx).Where("phone <> ''").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to scan customers by phone: %w", err)
	}
	return customers, nil
}

// FindByEmail looks up an exact email match. Stored emails are lowercased at
// write time, so the caller must lowercase the argument.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}
	return &customer, nil
}

// FindByName matches firstName case-insensitively; when lastName is non-empty
// it must match case-insensitively as well.
func (r *CustomerRepository) FindByName(ctx context.Context, firstName, lastName string) (*domain.Customer, error) {
	q := r.db.WithContext(ctx).Where("LOWER(first_name) = ?", strings.ToLower(strings.TrimSpace(firstName)))
	if lastName != "" {
		q = q.Where("LOWER(last_name) = ?", strings.ToLower(strings.TrimSpace(lastName)))
	}

	var customer domain.Customer
	if err := q.First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by name: %w", err)
	}
	return &customer, nil
}

// Update applies the given column values and returns the refreshed record.
func (r *CustomerRepository) Update(ctx context.Context, id uint, fields map[string]any) (*domain.Customer, error) {
	res := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &domain.NotFoundError{Resource: "customer"}
	}
	return r.FindByID(ctx, id)
}

func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "customer"}
	}
	return nil
}
