package moderation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

var now = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func buildingRoom() *dbmysql.Room {
	return &dbmysql.Room{ID: 1, Scope: "building", CityID: 1, DistrictID: 2, BuildingID: 3, IsActive: true}
}

func resident() *dbmysql.Account {
	return &dbmysql.Account{UserID: 10, CityID: 1, DistrictID: 2, BuildingID: 3, Status: "active"}
}

func TestEvaluate(t *testing.T) {
	inactive := buildingRoom()
	inactive.IsActive = false

	neighbour := resident()
	neighbour.BuildingID = 4

	bannedAccount := resident()
	bannedAccount.Status = "banned"

	deleted := resident()
	deleted.Status = "deleted"

	tests := []struct {
		name string
		in   Input
		want *common.ChatError
	}{
		{"admit", Input{Room: buildingRoom(), Account: resident(), Now: now}, nil},
		{"room not found", Input{Account: resident(), Now: now}, common.ErrRoomNotFound},
		{"room inactive", Input{Room: inactive, Account: resident(), Now: now}, common.ErrRoomInactive},
		{"account not found", Input{Room: buildingRoom(), Now: now}, common.ErrAccountNotFound},
		{"deleted account", Input{Room: buildingRoom(), Account: deleted, Now: now}, common.ErrAccountNotFound},
		{"other building", Input{Room: buildingRoom(), Account: neighbour, Now: now}, common.ErrAccessDenied},
		{"banned membership", Input{
			Room: buildingRoom(), Account: resident(), Now: now,
			Membership: &dbmysql.Membership{IsBanned: true},
		}, common.ErrBanned},
		{"banned account", Input{Room: buildingRoom(), Account: bannedAccount, Now: now}, common.ErrBanned},
		{"active mute", Input{
			Room: buildingRoom(), Account: resident(), Now: now,
			ActiveMute: &dbmysql.Mute{ExpiresAt: now.Add(10 * time.Minute)},
		}, common.ErrMuted},
		{"expired mute", Input{
			Room: buildingRoom(), Account: resident(), Now: now,
			ActiveMute: &dbmysql.Mute{ExpiresAt: now},
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestEvaluate_MutedCarriesUntil(t *testing.T) {
	until := now.Add(10 * time.Minute)
	err := Evaluate(Input{
		Room: buildingRoom(), Account: resident(), Now: now,
		ActiveMute: &dbmysql.Mute{ExpiresAt: until},
	})

	ce, ok := common.AsChatError(err)
	require.True(t, ok)
	require.NotNil(t, ce.MutedUntil)
	assert.True(t, until.Equal(*ce.MutedUntil))
}

func TestCheckScope(t *testing.T) {
	acc := resident()

	assert.True(t, CheckScope(&dbmysql.Room{Scope: "city", CityID: 1}, acc))
	assert.False(t, CheckScope(&dbmysql.Room{Scope: "city", CityID: 9}, acc))
	assert.True(t, CheckScope(&dbmysql.Room{Scope: "district", CityID: 1, DistrictID: 2}, acc))
	assert.False(t, CheckScope(&dbmysql.Room{Scope: "district", CityID: 1, DistrictID: 5}, acc))
	// building rooms need the district to match too
	assert.False(t, CheckScope(&dbmysql.Room{Scope: "building", CityID: 1, DistrictID: 5, BuildingID: 3}, acc))
	assert.False(t, CheckScope(&dbmysql.Room{Scope: "planet"}, acc))
	assert.False(t, CheckScope(nil, acc))
}

func TestPrivileges(t *testing.T) {
	assert.True(t, CanModerate(common.RoleAdmin))
	assert.True(t, CanModerate(common.RoleModerator))
	assert.False(t, CanModerate(common.RoleMember))

	assert.NoError(t, CanAssignRole(common.RoleAdmin, common.RoleModerator))
	assert.Error(t, CanAssignRole(common.RoleModerator, common.RoleMember))
	assert.Error(t, CanAssignRole(common.RoleAdmin, common.Role("owner")))

	assert.NoError(t, CanMute(common.RoleModerator, common.RoleMember))
	assert.NoError(t, CanMute(common.RoleAdmin, common.RoleModerator))
	assert.Error(t, CanMute(common.RoleModerator, common.RoleModerator))
	assert.Error(t, CanMute(common.RoleMember, common.RoleMember))

	msg := &dbmysql.Message{UserID: 10}
	assert.NoError(t, CanDelete(10, common.RoleMember, msg))
	assert.NoError(t, CanDelete(11, common.RoleModerator, msg))
	assert.Error(t, CanDelete(11, common.RoleMember, msg))
}
