package models

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

// CartItem is one customized product in a checkout request. Items are
// submitted by the client and live only for the duration of the request.
type CartItem struct {
	Price          float64 `json:"price"`
	Caliber        string  `json:"caliber"`
	PrimaryColor   string  `json:"primaryColor"`
	SecondaryColor string  `json:"secondaryColor"`
	Initials       string  `json:"initials,omitempty"`
	SpecialRequest string  `json:"specialRequest,omitempty"`
}

// SpecialRequestSurcharge is added to an item's price, in major currency
// units, when it carries a non-empty special request.
const SpecialRequestSurcharge = 200

// Domain errors
var (
	ErrEmptyCart    = errors.New("cart must contain at least one item")
	ErrInvalidEmail = errors.New("invalid email format")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// HasSpecialRequest reports whether the item carries a non-blank special
// request.
func (i CartItem) HasSpecialRequest() bool {
	return strings.TrimSpace(i.SpecialRequest) != ""
}

// CartTotal sums the cart in major currency units, including the surcharge
// for items with special requests.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
		if item.HasSpecialRequest() {
			total += SpecialRequestSurcharge
		}
	}
	return total
}

// MinorUnits converts a major-unit amount to the processor's minor-unit
// representation, rounding half up.
func MinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// MajorUnits converts a minor-unit amount back to major units.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// ValidEmail reports whether the address looks like an email. This mirrors
// the client-side check; deliverability is not verified.
func ValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}
