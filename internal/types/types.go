// README: Common value types shared across modules.
package types

import "github.com/google/uuid"

// ID is a UUID in its canonical string form. Stored as uuid in Postgres.
type ID string

// NewID returns a freshly generated random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Valid reports whether the ID parses as a UUID.
func (id ID) Valid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

type Point struct {
	Lat float64
	Lng float64
}
