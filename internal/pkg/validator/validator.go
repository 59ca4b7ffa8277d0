package validator

// Validator validates tagged structs.
type Validator interface {
	// Validate returns nil, a ValidationError, or an unexpected error.
	Validate(data any) error
}
