package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

var inviteSecret []byte

// ErrInvalidInvite is returned for malformed or forged invite codes.
var ErrInvalidInvite = errors.New("invalid invite code")

// ConfigureInvites sets the secret used to sign organization invite codes.
func ConfigureInvites(secret string) {
	inviteSecret = []byte(secret)
}

// GenerateInviteCode creates a signed invite code granting the given role
// in the given organization. Codes are stateless; possession is proof.
func GenerateInviteCode(orgID uuid.UUID, role models.OrganizationRole) string {
	payload := orgID.String() + "." + string(role)
	return payload + "." + signInvite(payload)
}

// VerifyInviteCode validates an invite code and returns the organization
// and role it grants.
func VerifyInviteCode(code string) (uuid.UUID, models.OrganizationRole, error) {
	parts := strings.Split(code, ".")
	if len(parts) != 3 {
		return uuid.Nil, "", ErrInvalidInvite
	}

	payload := parts[0] + "." + parts[1]
	// Constant-time comparison to prevent timing attacks
	if !hmac.Equal([]byte(parts[2]), []byte(signInvite(payload))) {
		return uuid.Nil, "", ErrInvalidInvite
	}

	orgID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", ErrInvalidInvite
	}
	role := models.OrganizationRole(parts[1])
	if !role.Valid() || role == models.OrgRoleOwner {
		return uuid.Nil, "", ErrInvalidInvite
	}
	return orgID, role, nil
}

func signInvite(payload string) string {
	h := hmac.New(sha256.New, inviteSecret)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
