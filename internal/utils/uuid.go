package utils

import "github.com/google/uuid"

// UUIDGenerator produces whisp identifiers. Version 7 UUIDs are preferred
// for their time-ordered layout; generation falls back to version 4 when
// the entropy source misbehaves.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
