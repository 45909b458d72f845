package domain

import "time"

// Customer is a stored customer record. Optional fields use the empty string
// as absent; emails are lowercased before they are written.
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100" json:"lastName"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Email     string    `gorm:"size:255" json:"email"`
	Address   string    `gorm:"size:500" json:"address"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}

// CreateCustomerRequest carries the allow-listed fields for customer creation.
// Unknown payload fields are dropped at decode time.
type CreateCustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// UpdateCustomerRequest models partial updates: a nil field is absent and
// leaves the stored value untouched, a non-nil field overwrites it.
type UpdateCustomerRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	IsActive  *bool   `json:"isActive"`
}
