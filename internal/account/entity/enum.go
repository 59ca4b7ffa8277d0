package entity

import (
	"errors"
	"strings"
)

var (
	ErrRoleUnknown   = errors.New("account: role is unknown")
	ErrStatusUnknown = errors.New("account: status is unknown")
)

type Role string

const (
	// RoleAdmin operates the platform.
	RoleAdmin Role = "Admin"

	// RoleCustomer is the default role of a self-registered account.
	RoleCustomer Role = "Customer"

	// RoleVendor sells on the platform.
	RoleVendor Role = "Vendor"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsUnknown() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleVendor:
		return false
	default:
		return true
	}
}

// ParseRole matches s case-insensitively. Empty input yields RoleCustomer.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleCustomer, nil
	}

	for _, r := range []Role{RoleAdmin, RoleCustomer, RoleVendor} {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}

	return "", ErrRoleUnknown
}

type Status string

const (
	// StatusActive may request and verify codes.
	StatusActive Status = "Active"

	// StatusSuspended is kept for operators; the login flow does not block it.
	StatusSuspended Status = "Suspended"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsUnknown() bool {
	switch s {
	case StatusActive, StatusSuspended:
		return false
	default:
		return true
	}
}

// ParseStatus matches s case-insensitively. Empty input yields StatusActive.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusActive, nil
	}

	for _, st := range []Status{StatusActive, StatusSuspended} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}

	return "", ErrStatusUnknown
}
