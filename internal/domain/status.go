package domain

import "strings"

// Availability describes whether a product still has stock in the latest month.
type Availability string

const (
	Available  Availability = "Available"
	OutOfStock Availability = "Out of Stock"
)

var availabilityCodes = map[string]Availability{
	"available":    Available,
	"out_of_stock": OutOfStock,
	"out of stock": OutOfStock,
	"outofstock":   OutOfStock,
}

// AvailabilityFor returns the availability label for a leftover quantity.
func AvailabilityFor(leftOver float64) Availability {
	if leftOver > 0 {
		return Available
	}

	return OutOfStock
}

// ParseAvailability returns the availability for a given label (case-insensitive).
func ParseAvailability(label string) (Availability, bool) {
	a, ok := availabilityCodes[strings.ToLower(strings.TrimSpace(label))]

	return a, ok
}
