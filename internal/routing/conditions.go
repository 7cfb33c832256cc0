package routing

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Conditions is the parsed form of a rule predicate.
// Every field is optional; a nil field never rejects a lead.
type Conditions struct {
	ActivitySourceID *int64           `json:"activity_source_id,omitempty" validate:"omitempty,gt=0"`
	PropertyType     *string          `json:"property_type,omitempty" validate:"omitempty,max=255"`
	InterestType     *string          `json:"interest_type,omitempty" validate:"omitempty,max=255"`
	MinPrice         *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice         *decimal.Decimal `json:"max_price,omitempty"`
	AreaIDs          []int64          `json:"area_ids,omitempty" validate:"omitempty,dive,gt=0"`
	City             *string          `json:"city,omitempty" validate:"omitempty,max=255"`
	StateID          *int64           `json:"state_id,omitempty" validate:"omitempty,gt=0"`
}

var conditionValidator = newConditionValidator()

func newConditionValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// ParseConditions parses stored predicate text.
// Blank text and JSON null mean "no conditions".
func ParseConditions(raw string) (Conditions, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return Conditions{}, nil
	}

	var c Conditions
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Conditions{}, fmt.Errorf("%w: %v", ErrMalformedConditions, err)
	}
	c = c.normalize()
	if err := c.Validate(); err != nil {
		return Conditions{}, err
	}
	return c, nil
}

// Validate reports structurally invalid conditions.
func (c Conditions) Validate() error {
	if err := conditionValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedConditions, err)
	}
	if c.MinPrice != nil && c.MinPrice.IsNegative() {
		return fmt.Errorf("%w: min_price must not be negative", ErrMalformedConditions)
	}
	if c.MaxPrice != nil && c.MaxPrice.IsNegative() {
		return fmt.Errorf("%w: max_price must not be negative", ErrMalformedConditions)
	}
	return nil
}

// IsEmpty reports whether no condition is set.
func (c Conditions) IsEmpty() bool {
	return c.ActivitySourceID == nil &&
		c.PropertyType == nil &&
		c.InterestType == nil &&
		c.MinPrice == nil &&
		c.MaxPrice == nil &&
		len(c.AreaIDs) == 0 &&
		c.City == nil &&
		c.StateID == nil
}

// normalize drops blank strings and empty sets so they act as wildcards.
func (c Conditions) normalize() Conditions {
	c.PropertyType = nonBlank(c.PropertyType)
	c.InterestType = nonBlank(c.InterestType)
	c.City = nonBlank(c.City)
	if len(c.AreaIDs) == 0 {
		c.AreaIDs = nil
	}
	return c
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
