package report

import "fmt"

// ShapeError indicates the input bundle or options object is missing
// entirely. It is raised before any aggregation work starts.
type ShapeError struct {
	// What names the absent object: "data" or "options".
	What string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s must be a non-nil object", e.What)
}

// MissingFieldError indicates one of the bundle's collections is absent.
// A nil slice is treated as missing; an empty slice is valid.
type MissingFieldError struct {
	// Field is the bundle field name: "sellers", "products" or
	// "purchase_records".
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("data is missing the %s collection", e.Field)
}

// PolicyTypeError indicates an options policy function is nil.
type PolicyTypeError struct {
	// Policy is the option name: "calculateRevenue" or "calculateBonus".
	Policy string
}

func (e *PolicyTypeError) Error() string {
	return fmt.Sprintf("options.%s must be a function", e.Policy)
}
