package domain

import "fmt"

// ValidationError marks malformed or missing input. Maps to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError marks a reference to an entity that does not exist. Maps to 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError marks a business-rule violation (duplicate customer,
// insufficient stock). Detail carries the structured conflict payload
// surfaced to the caller alongside the 409.
type ConflictError struct {
	Message string
	Detail  any
}

func (e *ConflictError) Error() string {
	return e.Message
}

// DuplicateDetail is the ConflictError detail for duplicate customers.
// Customer is a redacted view of the existing record.
type DuplicateDetail struct {
	Reason   string            `json:"reason"`
	Customer DuplicateCustomer `json:"customer"`
}

type DuplicateCustomer struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// StockDetail is the ConflictError detail for insufficient stock.
type StockDetail struct {
	ProductID uint   `json:"productId"`
	Product   string `json:"product"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}
