package crypto

import "github.com/google/uuid"

// IDGenerator produces identifiers for users, blogs and token jtis.
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator emits random v4 UUIDs in canonical lowercase form, which is
// what the id comparison code normalizes to.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
