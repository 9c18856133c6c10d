package user

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// User wraps a Record. Name and Email are empty when the record lacks them.
type User struct {
	ID    ID
	Name  string
	Email string

	// Instance is generated per User value and never repeats,
	// even for two users built from the same record.
	Instance uuid.UUID

	record Record
}

// New creates a User from a record
func New(rec Record) *User {
	return &User{
		ID:       rec.ID,
		Name:     rec.Name,
		Email:    rec.Email,
		Instance: uuid.New(),
		record:   rec,
	}
}

// Record returns the record the user was built from
func (u *User) Record() Record {
	return u.record
}

// Hello returns the greeting for this user
func (u *User) Hello() string {
	return fmt.Sprintf("Hello %s!", u.Name)
}

// SayHello writes the greeting followed by a newline
func (u *User) SayHello(w io.Writer) error {
	_, err := fmt.Fprintln(w, u.Hello())
	return err
}
