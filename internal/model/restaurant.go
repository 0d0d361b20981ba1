package model

import (
	"strings"
	"time"
)

// Restaurant mirrors the 'restaurants' table. Its reservations are a
// query-time join, never stored state on the record.
type Restaurant struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Tel       string    `json:"tel"`
	OpenHours string    `json:"openHours"`
	CreatedAt time.Time `json:"createdAt"`
}

// RestaurantSummary is the subset of restaurant fields joined onto a
// reservation. The full document is never embedded.
type RestaurantSummary struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Tel     string `json:"tel"`
}

// Normalize trims whitespace on all user-supplied fields.
func (r *Restaurant) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.Tel = strings.TrimSpace(r.Tel)
	r.OpenHours = strings.TrimSpace(r.OpenHours)
}

func (r *Restaurant) Validate() error {
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	} else if len(r.Name) > 120 {
		fields["name"] = "name cannot be longer than 120 characters"
	}
	if r.Address == "" {
		fields["address"] = "address is required"
	}
	if r.Tel == "" {
		fields["tel"] = "telephone number is required"
	} else if len(r.Tel) > 20 {
		fields["tel"] = "telephone number cannot be longer than 20 characters"
	}
	if r.OpenHours == "" {
		fields["openHours"] = "operating hours are required"
	}
	return newValidationError(fields)
}
