package domain

// JoinRequest is a validated join-broadcast request. NewJoinRequest is
// the only way adapters should build one, so malformed input is caught
// before any session state is touched.
type JoinRequest struct {
	Room     RoomID
	Identity Identity
	Role     Role
}

func NewJoinRequest(room, identity, role string) (JoinRequest, error) {
	r := RoomID(room)
	if err := r.Validate(); err != nil {
		return JoinRequest{}, err
	}
	id := Identity(identity)
	if err := id.Validate(); err != nil {
		return JoinRequest{}, err
	}
	parsed, err := ParseRole(role)
	if err != nil {
		return JoinRequest{}, err
	}
	return JoinRequest{Room: r, Identity: id, Role: parsed}, nil
}
