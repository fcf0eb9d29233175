package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"instructor", RoleInstructor, false},
		{"student", RoleStudent, false},
		{"", "", true},
		{"admin", "", true},
		{"Instructor", "", true},
	}
	for _, c := range cases {
		got, err := ParseRole(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidRole) {
				t.Errorf("ParseRole(%q): expected ErrInvalidRole, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseRole(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewJoinRequest(t *testing.T) {
	cases := []struct {
		name     string
		room     string
		identity string
		role     string
		wantErr  error
	}{
		{"valid instructor", "r1", "alice", "instructor", nil},
		{"valid student", "r1", "bob", "student", nil},
		{"empty room", "", "alice", "instructor", ErrRoomEmpty},
		{"empty identity", "r1", "", "student", ErrIdentityEmpty},
		{"bad role", "r1", "alice", "presenter", ErrInvalidRole},
		{"room too long", strings.Repeat("r", MaxRoomIDLen+1), "alice", "student", ErrRoomTooLong},
		{"identity too long", "r1", strings.Repeat("a", MaxIdentityLen+1), "student", ErrIdentityTooLong},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req, err := NewJoinRequest(c.room, c.identity, c.role)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("expected %v, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Room != RoomID(c.room) || req.Identity != Identity(c.identity) {
				t.Errorf("request fields not carried over: %+v", req)
			}
		})
	}
}
