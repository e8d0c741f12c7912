// Package moderation holds the pure admission and privilege decisions for
// chat rooms. Callers evaluate them inside the admission transaction.
package moderation

import (
	"time"

	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

// Input is the state loaded for one admission decision. Nil pointers mean
// the row does not exist.
type Input struct {
	Room       *dbmysql.Room
	Account    *dbmysql.Account
	Membership *dbmysql.Membership
	ActiveMute *dbmysql.Mute
	Now        time.Time
}

// Evaluate returns nil when a message may be admitted, otherwise the first
// failing check as a *common.ChatError.
func Evaluate(in Input) error {
	if in.Room == nil {
		return common.ErrRoomNotFound
	}
	if !in.Room.IsActive {
		return common.ErrRoomInactive
	}
	if in.Account == nil || in.Account.Status == "deleted" {
		return common.ErrAccountNotFound
	}
	if !CheckScope(in.Room, in.Account) {
		return common.AccessDenied("this room is outside your service area")
	}
	if in.Account.Status == "banned" || (in.Membership != nil && in.Membership.IsBanned) {
		return common.ErrBanned
	}
	if in.ActiveMute != nil && in.ActiveMute.ExpiresAt.After(in.Now) {
		return common.Muted(in.ActiveMute.ExpiresAt)
	}
	return nil
}

// CheckScope reports whether the account's address falls inside the room's
// scope. Each level also requires every coarser level to match.
func CheckScope(room *dbmysql.Room, account *dbmysql.Account) bool {
	if room == nil || account == nil {
		return false
	}
	switch common.RoomScope(room.Scope) {
	case common.ScopeCity:
		return account.CityID == room.CityID
	case common.ScopeDistrict:
		return account.CityID == room.CityID &&
			account.DistrictID == room.DistrictID
	case common.ScopeBuilding:
		return account.CityID == room.CityID &&
			account.DistrictID == room.DistrictID &&
			account.BuildingID == room.BuildingID
	default:
		return false
	}
}

func CanModerate(role common.Role) bool {
	return role.Rank() >= common.RoleModerator.Rank()
}

// CanAssignRole: only admins change roles, and only to a known role.
func CanAssignRole(actorRole, newRole common.Role) error {
	if actorRole != common.RoleAdmin {
		return common.AccessDenied("only room admins can change roles")
	}
	if !newRole.IsValid() {
		return common.Validation("unknown role %q", newRole)
	}
	return nil
}

// CanMute requires a moderator acting on a strictly lower role.
func CanMute(actorRole, targetRole common.Role) error {
	if !CanModerate(actorRole) {
		return common.AccessDenied("only moderators can mute members")
	}
	if targetRole.Rank() >= actorRole.Rank() {
		return common.AccessDenied("cannot mute a member with an equal or higher role")
	}
	return nil
}

// CanDelete allows authors to delete their own messages and moderators to
// delete any.
func CanDelete(actorID uint64, actorRole common.Role, msg *dbmysql.Message) error {
	if msg.UserID == actorID || CanModerate(actorRole) {
		return nil
	}
	return common.AccessDenied("you can only delete your own messages")
}
