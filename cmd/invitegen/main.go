package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/arnavshah/volunteer-hub-go/pkg/auth"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

// invitegen mints organization invite codes offline, for operators who
// want to hand out elevated-role invites without going through the API.
func main() {
	_ = godotenv.Load("../.env")
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: invitegen <organizationID> [role]")
		os.Exit(1)
	}

	secret := os.Getenv("INVITE_SECRET")
	if secret == "" {
		fmt.Println("Error: INVITE_SECRET not found in environment")
		os.Exit(1)
	}
	auth.ConfigureInvites(secret)

	orgID, err := uuid.Parse(os.Args[1])
	if err != nil {
		fmt.Printf("Error: invalid organization ID: %v\n", err)
		os.Exit(1)
	}

	role := models.OrgRoleMember
	if len(os.Args) > 2 {
		role = models.OrganizationRole(os.Args[2])
	}
	if !role.Valid() || role == models.OrgRoleOwner {
		fmt.Printf("Error: invalid role %q\n", string(role))
		os.Exit(1)
	}

	code := auth.GenerateInviteCode(orgID, role)
	fmt.Printf("Generated %s invite for organization %s:\n%s\n", role, orgID, code)
}
