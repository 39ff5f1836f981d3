// Package user holds the catalogue's copy of identity principals. Users are
// created by the identity subsystem; the catalogue only mirrors the fields
// it displays and uses their ids for organisation memberships.
package user

import (
	"context"
	"strings"

	"github.com/aidanjbailey/anidopt/internal/domain"
)

// User is a member of one or more organisations.
type User struct {
	id        uint
	username  string
	firstName string
	lastName  string
}

// NewUser validates and creates a User with an id issued by the identity
// subsystem.
func NewUser(id uint, username, firstName, lastName string) (*User, error) {
	verr := &domain.ValidationError{}
	if id == 0 {
		verr.Add("user_id", "user id is required")
	}
	if strings.TrimSpace(username) == "" {
		verr.Add("username", "username is required")
	}
	if strings.TrimSpace(firstName) == "" {
		verr.Add("first_name", "first name is required")
	}
	if strings.TrimSpace(lastName) == "" {
		verr.Add("last_name", "last name is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &User{
		id:        id,
		username:  strings.TrimSpace(username),
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uint, username, firstName, lastName string) *User {
	return &User{id: id, username: username, firstName: firstName, lastName: lastName}
}

func (u *User) ID() uint          { return u.id }
func (u *User) Username() string  { return u.username }
func (u *User) FirstName() string { return u.firstName }
func (u *User) LastName() string  { return u.lastName }

// Repository defines persistence operations for users.
type Repository interface {
	FindByID(ctx context.Context, id uint) (*User, error)
	// Upsert inserts the user or refreshes the stored names. A username
	// taken by another user is a ConstraintViolationError.
	Upsert(ctx context.Context, u *User) error
	// GrantMembership upserts the user and links them to the organisation
	// atomically. It reports false when the link already existed; an
	// unknown organisation is a ConstraintViolationError and stores nothing.
	GrantMembership(ctx context.Context, u *User, organisationID uint) (bool, error)
}
