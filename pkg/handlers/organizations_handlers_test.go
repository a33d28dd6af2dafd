package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

func TestAuthEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("register returns a usable token", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/auth/register", map[string]any{
			"name": "Alice", "email": "alice@test.local", "password": "password123",
		}, "")
		assertStatus(t, rec, http.StatusCreated)
		data := dataObject(t, rec)
		token := data["access_token"].(string)

		me := performRequest(t, env.router, http.MethodGet, "/api/user/me", nil, token)
		assertStatus(t, me, http.StatusOK)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/auth/register", map[string]any{
			"name": "Alice Again", "email": "alice@test.local", "password": "password123",
		}, "")
		assertStatus(t, rec, http.StatusConflict)
	})

	t.Run("login with wrong password rejected", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/auth/login", map[string]any{
			"email": "alice@test.local", "password": "nope-nope",
		}, "")
		assertStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodGet, "/api/user/me", nil, "")
		assertStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("profile update keeps absent fields", func(t *testing.T) {
		_, token := createTestUser(t, env.db, "Updater", "updater@test.local")

		rec := performRequest(t, env.router, http.MethodPut, "/api/user/me", map[string]any{
			"bio": "night shifts preferred",
		}, token)
		assertStatus(t, rec, http.StatusOK)
		data := dataObject(t, rec)
		require.Equal(t, "Updater", data["name"])
		require.Equal(t, "night shifts preferred", data["bio"])

		rec = performRequest(t, env.router, http.MethodPut, "/api/user/me", map[string]any{
			"name": "   ",
		}, token)
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestOrganizationEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	owner, ownerToken := createTestUser(t, env.db, "Owner", "owner@test.local")
	member, memberToken := createTestUser(t, env.db, "Member", "member@test.local")
	_, outsiderToken := createTestUser(t, env.db, "Outsider", "outsider@test.local")

	var orgID string

	t.Run("create makes the caller OWNER", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations", map[string]any{
			"name": "Helping Hands",
		}, ownerToken)
		assertStatus(t, rec, http.StatusCreated)
		orgID = dataObject(t, rec)["id"].(string)

		var m models.OrganizationMember
		require.NoError(t, env.db.First(&m, "organization_id = ? AND user_id = ?", orgID, owner.ID).Error)
		require.Equal(t, models.OrgRoleOwner, m.Role)
	})

	t.Run("available lists it for non-members only", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodGet, "/api/organizations/available", nil, memberToken)
		assertStatus(t, rec, http.StatusOK)
		require.Len(t, dataList(t, rec), 1)

		rec = performRequest(t, env.router, http.MethodGet, "/api/organizations/available", nil, ownerToken)
		require.Empty(t, dataList(t, rec))
	})

	t.Run("open join grants MEMBER", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/join", nil, memberToken)
		assertStatus(t, rec, http.StatusCreated)
		require.Equal(t, string(models.OrgRoleMember), dataObject(t, rec)["role"])
	})

	t.Run("double join conflicts", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/join", nil, memberToken)
		assertStatus(t, rec, http.StatusConflict)
	})

	t.Run("invite code grants the encoded role", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/invites", map[string]any{
			"role": "MANAGER",
		}, ownerToken)
		assertStatus(t, rec, http.StatusCreated)
		code := dataObject(t, rec)["invite_code"].(string)

		rec = performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/join", map[string]any{
			"invite_code": code,
		}, outsiderToken)
		assertStatus(t, rec, http.StatusCreated)
		require.Equal(t, string(models.OrgRoleManager), dataObject(t, rec)["role"])
	})

	t.Run("member cannot issue invites", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/invites", nil, memberToken)
		assertStatus(t, rec, http.StatusForbidden)
	})

	t.Run("forged invite rejected", func(t *testing.T) {
		_, forgerToken := createTestUser(t, env.db, "Forger", "forger@test.local")
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/join", map[string]any{
			"invite_code": orgID + ".ADMIN.deadbeef",
		}, forgerToken)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("member cannot update the organization", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPut, "/api/organizations/"+orgID, map[string]any{
			"name": "Hijacked",
		}, memberToken)
		assertStatus(t, rec, http.StatusForbidden)
	})

	t.Run("owner updates the organization", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPut, "/api/organizations/"+orgID, map[string]any{
			"name": "Helping Hands Intl",
		}, ownerToken)
		assertStatus(t, rec, http.StatusOK)
		require.Equal(t, "Helping Hands Intl", dataObject(t, rec)["name"])
	})

	t.Run("role change matrix", func(t *testing.T) {
		memberPath := fmt.Sprintf("/api/organizations/%s/members/%s", orgID, member.ID)

		// member may not change anyone
		ownerPath := fmt.Sprintf("/api/organizations/%s/members/%s", orgID, owner.ID)
		rec := performRequest(t, env.router, http.MethodPut, ownerPath, map[string]any{"role": "MEMBER"}, memberToken)
		assertStatus(t, rec, http.StatusForbidden)

		// owner promotes member to ADMIN
		rec = performRequest(t, env.router, http.MethodPut, memberPath, map[string]any{"role": "ADMIN"}, ownerToken)
		assertStatus(t, rec, http.StatusOK)

		// admin may not change their own role
		rec = performRequest(t, env.router, http.MethodPut, memberPath, map[string]any{"role": "OWNER"}, memberToken)
		assertStatus(t, rec, http.StatusForbidden)
		assertErrorMessage(t, rec, "cannot change your own role")

		// nobody touches the owner
		rec = performRequest(t, env.router, http.MethodPut, ownerPath, map[string]any{"role": "MEMBER"}, memberToken)
		assertStatus(t, rec, http.StatusForbidden)

		// unknown role rejected
		rec = performRequest(t, env.router, http.MethodPut, memberPath, map[string]any{"role": "SUPERUSER"}, ownerToken)
		assertStatus(t, rec, http.StatusBadRequest)

		// back to MEMBER for the following tests
		rec = performRequest(t, env.router, http.MethodPut, memberPath, map[string]any{"role": "MEMBER"}, ownerToken)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("owner cannot leave", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/leave", nil, ownerToken)
		assertStatus(t, rec, http.StatusForbidden)
	})

	t.Run("member leaves", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/leave", nil, memberToken)
		assertStatus(t, rec, http.StatusOK)

		rec = performRequest(t, env.router, http.MethodGet, "/api/organizations/"+orgID, nil, memberToken)
		assertStatus(t, rec, http.StatusForbidden)
	})

	t.Run("only the owner deletes", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodDelete, "/api/organizations/"+orgID, nil, outsiderToken)
		assertStatus(t, rec, http.StatusForbidden)

		rec = performRequest(t, env.router, http.MethodDelete, "/api/organizations/"+orgID, nil, ownerToken)
		assertStatus(t, rec, http.StatusOK)
	})
}

func TestGroupEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	_, leaderToken := createTestUser(t, env.db, "Leader", "leader@test.local")
	volunteer, volunteerToken := createTestUser(t, env.db, "Volunteer", "volunteer@test.local")

	rec := performRequest(t, env.router, http.MethodPost, "/api/organizations", map[string]any{
		"name": "Food Bank",
	}, leaderToken)
	assertStatus(t, rec, http.StatusCreated)
	orgID := dataObject(t, rec)["id"].(string)

	rec = performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/join", nil, volunteerToken)
	assertStatus(t, rec, http.StatusCreated)

	var groupID string

	t.Run("leader-tier creates a group and becomes GROUP_LEADER", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/groups", map[string]any{
			"organization_id": orgID, "name": "Warehouse", "color": "#336699",
		}, leaderToken)
		assertStatus(t, rec, http.StatusCreated)
		groupID = dataObject(t, rec)["id"].(string)

		var gu models.GroupUser
		require.NoError(t, env.db.First(&gu, "group_id = ?", groupID).Error)
		require.Equal(t, models.GroupRoleLeader, gu.Role)
	})

	t.Run("plain member cannot create groups", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/groups", map[string]any{
			"organization_id": orgID, "name": "Rogue Group",
		}, volunteerToken)
		assertStatus(t, rec, http.StatusForbidden)
	})

	t.Run("org member joins as VOLUNTEER", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/groups/"+groupID+"/join", nil, volunteerToken)
		assertStatus(t, rec, http.StatusCreated)
		require.Equal(t, string(models.GroupRoleVolunteer), dataObject(t, rec)["role"])
	})

	t.Run("leader promotes a member to COORDINATOR", func(t *testing.T) {
		path := fmt.Sprintf("/api/groups/%s/members/%s", groupID, volunteer.ID)
		rec := performRequest(t, env.router, http.MethodPut, path, map[string]any{"role": "COORDINATOR"}, leaderToken)
		assertStatus(t, rec, http.StatusOK)

		// demote back
		rec = performRequest(t, env.router, http.MethodPut, path, map[string]any{"role": "VOLUNTEER"}, leaderToken)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("volunteer cannot edit the group", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPut, "/api/groups/"+groupID, map[string]any{
			"name": "Taken Over",
		}, volunteerToken)
		assertStatus(t, rec, http.StatusForbidden)
	})

	t.Run("group list visible to org members", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodGet, "/api/organizations/"+orgID+"/groups", nil, volunteerToken)
		assertStatus(t, rec, http.StatusOK)
		require.Len(t, dataList(t, rec), 1)
	})

	t.Run("leader removes a member", func(t *testing.T) {
		extra, extraToken := createTestUser(t, env.db, "Extra", "extra@test.local")
		rec := performRequest(t, env.router, http.MethodPost, "/api/organizations/"+orgID+"/join", nil, extraToken)
		assertStatus(t, rec, http.StatusCreated)
		rec = performRequest(t, env.router, http.MethodPost, "/api/groups/"+groupID+"/join", nil, extraToken)
		assertStatus(t, rec, http.StatusCreated)

		path := fmt.Sprintf("/api/groups/%s/members/%s", groupID, extra.ID)
		rec = performRequest(t, env.router, http.MethodDelete, path, nil, volunteerToken)
		assertStatus(t, rec, http.StatusForbidden)

		rec = performRequest(t, env.router, http.MethodDelete, path, nil, leaderToken)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("volunteer leaves the group", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodPost, "/api/groups/"+groupID+"/leave", nil, volunteerToken)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("leader deletes the group", func(t *testing.T) {
		rec := performRequest(t, env.router, http.MethodDelete, "/api/groups/"+groupID, nil, leaderToken)
		assertStatus(t, rec, http.StatusOK)
	})
}
