package domain

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is the closed set of participant roles in a broadcast session.
type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// ParseRole rejects anything outside the two recognized values so the
// rest of the core never has to compare raw strings.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleInstructor:
		return RoleInstructor, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", ErrInvalidRole
	}
}
