package uid

import "github.com/google/uuid"

// UUID generates version 7 UUID strings.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v4 only needs the random source
		return uuid.NewString()
	}
	return id.String()
}
