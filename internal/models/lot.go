package models

import (
	"strings"
	"time"
)

// LotStatus is the sale state of a lot. The map engine tolerates values
// outside this set and renders them with a fallback style, so the type is
// a plain string rather than a closed enum.
type LotStatus string

const (
	StatusAvailable LotStatus = "AVAILABLE"
	StatusReserved  LotStatus = "RESERVED"
	StatusSold      LotStatus = "SOLD"
)

// Normalize upper-cases the status for table lookups. Status values come
// from an external admin process and arrive in whatever case was typed.
func (s LotStatus) Normalize() LotStatus {
	return LotStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// Known reports whether the status is one of the three modeled states.
func (s LotStatus) Known() bool {
	switch s.Normalize() {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Lot represents one sellable land parcel in the development.
// Slug is the only key used to correlate tour hotspots to records; it is
// globally unique and embedded in public /card/<slug> URLs.
type Lot struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slug        string    `json:"slug"`
	Number      string    `json:"number"`
	Status      LotStatus `json:"status"`
	Currency    string    `json:"currency"`
	Dimensions  string    `json:"dimensions"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Area        float64   `json:"area"`
	ID          int64     `json:"id"`
}
