// Package authz holds the pure authorization predicates. The API is the
// authoritative enforcement point; clients may mirror these checks to
// disable controls but that is cosmetic.
package authz

import "github.com/arnavshah/volunteer-hub-go/pkg/models"

// IsOrganizationAdmin reports whether the role can administer the
// organization itself (settings, invites, deletions of groups).
func IsOrganizationAdmin(role models.OrganizationRole) bool {
	return role == models.OrgRoleOwner || role == models.OrgRoleAdmin
}

// IsOrganizationLeader reports whether the role can create groups,
// positions and shifts within the organization.
func IsOrganizationLeader(role models.OrganizationRole) bool {
	return role.Rank() >= models.OrgRoleManager.Rank()
}

// IsOrganizationMember reports whether the role grants membership at all.
func IsOrganizationMember(role models.OrganizationRole) bool {
	return role.Valid()
}

// CanChangeMemberRole decides whether an actor may move a target member
// to newRole. Self-changes are rejected by the caller before this check.
//
// The matrix: MEMBER may touch nobody; nobody may touch the OWNER or
// grant OWNER; ADMIN may change anyone else; MANAGER may only shuffle
// members below ADMIN rank and may not grant ADMIN or above.
func CanChangeMemberRole(actor, target, newRole models.OrganizationRole) bool {
	if !newRole.Valid() || newRole == models.OrgRoleOwner {
		return false
	}
	if target == models.OrgRoleOwner {
		return false
	}
	switch {
	case IsOrganizationAdmin(actor):
		return true
	case actor == models.OrgRoleManager:
		return target.Rank() < models.OrgRoleAdmin.Rank() &&
			newRole.Rank() < models.OrgRoleAdmin.Rank()
	}
	return false
}

// CanRemoveMember decides whether an actor may remove a target member.
// Leaving is a separate operation and not covered here.
func CanRemoveMember(actor, target models.OrganizationRole) bool {
	if target == models.OrgRoleOwner {
		return false
	}
	switch {
	case IsOrganizationAdmin(actor):
		return true
	case actor == models.OrgRoleManager:
		return target.Rank() < models.OrgRoleAdmin.Rank()
	}
	return false
}

// IsGroupCoordinator reports whether the group role can manage positions,
// shifts and signups inside the group.
func IsGroupCoordinator(role models.GroupRole) bool {
	return role.Rank() >= models.GroupRoleCoordinator.Rank()
}

// CanManageGroup reports whether a caller with the given organization and
// group roles may mutate the group's positions, shifts and signups.
// Either a leader-tier organization role or a coordinator-tier group role
// suffices.
func CanManageGroup(orgRole models.OrganizationRole, groupRole models.GroupRole) bool {
	return IsOrganizationLeader(orgRole) || IsGroupCoordinator(groupRole)
}

// CanDeleteGroup restricts group deletion to organization admins and the
// group leader.
func CanDeleteGroup(orgRole models.OrganizationRole, groupRole models.GroupRole) bool {
	return IsOrganizationAdmin(orgRole) || groupRole == models.GroupRoleLeader
}
