// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const (
	MaxRoomIDLen   = 64
	MaxIdentityLen = 64
)

var (
	ErrRoomEmpty       = errors.New("room id empty")
	ErrRoomTooLong     = errors.New("room id too long")
	ErrIdentityEmpty   = errors.New("identity empty")
	ErrIdentityTooLong = errors.New("identity too long")
)

type (
	// RoomID is the opaque key a broadcast session is registered under.
	RoomID string

	// Identity is the caller-supplied participant name. The coordinator
	// trusts it; binding it to a verified credential is the job of the
	// auth layer in front of us.
	Identity string

	// ConnID addresses one logical client connection. It stays stable
	// across reconnects of the same client, which is what lets an
	// instructor take over their own seat after a drop.
	ConnID string
)

func (r RoomID) Validate() error {
	if len(r) == 0 {
		return ErrRoomEmpty
	}
	if len(r) > MaxRoomIDLen {
		return ErrRoomTooLong
	}
	return nil
}

func (i Identity) Validate() error {
	if len(i) == 0 {
		return ErrIdentityEmpty
	}
	if len(i) > MaxIdentityLen {
		return ErrIdentityTooLong
	}
	return nil
}
