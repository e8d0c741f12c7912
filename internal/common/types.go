package common

// Role is a member's privilege level inside one room.
type Role string

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleMember || r == RoleModerator || r == RoleAdmin
}

// Rank orders roles; unknown roles rank below member.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

// RoomScope is the geographic level a room is bound to. Each level is
// stricter than the previous one.
type RoomScope string

const (
	ScopeCity     RoomScope = "city"
	ScopeDistrict RoomScope = "district"
	ScopeBuilding RoomScope = "building"
)

func (s RoomScope) IsValid() bool {
	return s == ScopeCity || s == ScopeDistrict || s == ScopeBuilding
}

// ChangeOp is the kind of row mutation carried by the change feed.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "insert"
	ChangeUpdate ChangeOp = "update"
)
