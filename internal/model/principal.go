package model

import "github.com/google/uuid"

// Principal is the authenticated caller, as extracted from the access token.
// OrgID is the tenant boundary every query is scoped to; it never comes from
// request input.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   string
}

func (p Principal) Authenticated() bool {
	return p.UserID != uuid.Nil
}

func (p Principal) HasOrganization() bool {
	return p.OrgID != uuid.Nil
}
