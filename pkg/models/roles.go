package models

// OrganizationRole is the closed set of roles a user can hold inside an
// organization. Rank ordering: OWNER > ADMIN > MANAGER > MEMBER.
type OrganizationRole string

const (
	OrgRoleOwner   OrganizationRole = "OWNER"
	OrgRoleAdmin   OrganizationRole = "ADMIN"
	OrgRoleManager OrganizationRole = "MANAGER"
	OrgRoleMember  OrganizationRole = "MEMBER"
)

// Valid reports whether r is one of the known organization roles.
func (r OrganizationRole) Valid() bool {
	switch r {
	case OrgRoleOwner, OrgRoleAdmin, OrgRoleManager, OrgRoleMember:
		return true
	}
	return false
}

// Rank maps the role to a comparable level, higher meaning more authority.
func (r OrganizationRole) Rank() int {
	switch r {
	case OrgRoleOwner:
		return 4
	case OrgRoleAdmin:
		return 3
	case OrgRoleManager:
		return 2
	case OrgRoleMember:
		return 1
	}
	return 0
}

// GroupRole is the closed set of roles inside a group.
type GroupRole string

const (
	GroupRoleLeader      GroupRole = "GROUP_LEADER"
	GroupRoleCoordinator GroupRole = "COORDINATOR"
	GroupRoleVolunteer   GroupRole = "VOLUNTEER"
)

// Valid reports whether r is one of the known group roles.
func (r GroupRole) Valid() bool {
	switch r {
	case GroupRoleLeader, GroupRoleCoordinator, GroupRoleVolunteer:
		return true
	}
	return false
}

// Rank maps the group role to a comparable level.
func (r GroupRole) Rank() int {
	switch r {
	case GroupRoleLeader:
		return 3
	case GroupRoleCoordinator:
		return 2
	case GroupRoleVolunteer:
		return 1
	}
	return 0
}
