package moderation

import (
	"errors"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployer Role = "employer"
	RoleUser     Role = "user"
	// RoleScreener is the automatic first-pass screening subsystem.
	RoleScreener Role = "screener"
)

var ErrNotPermitted = errors.New("operator is not permitted")

// Operator is the authenticated identity every moderation operation is attributed to.
type Operator struct {
	Identity string
	UserID   uuid.UUID
	Role     Role
}

func NewAdmin(identity string) Operator {
	return Operator{Identity: identity, Role: RoleAdmin}
}

func NewEmployer(identity string, userID uuid.UUID) Operator {
	return Operator{Identity: identity, UserID: userID, Role: RoleEmployer}
}

func (o Operator) Require(role Role) error {
	if o.Identity == "" || o.Role != role {
		return ErrNotPermitted
	}
	return nil
}
