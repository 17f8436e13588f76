package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func ValidateID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Amount is a price expressed in cents.
type Amount int

// MaxAmount caps parsed prices so the cents always fit in an Amount and render exactly as a float64.
const MaxAmount = 1 << 53

func NewAmountFromCents(cents int) Amount {
	return Amount(cents)
}

// ParseAmount converts a decimal string such as "19.99" into cents.
func ParseAmount(value string) (Amount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	cents := math.Round(f * 100)
	if math.Abs(cents) > MaxAmount {
		return 0, fmt.Errorf("amount %q out of range", value)
	}
	return Amount(cents), nil
}

// ToValue renders the amount in currency units, the inverse of ParseAmount.
func (a Amount) ToValue() float64 {
	return float64(a) / 100
}

type Event interface {
	GetName() string
	GetEntityName() string
}
