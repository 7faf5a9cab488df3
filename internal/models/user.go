package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	OrganizationID uuid.UUID `json:"organizationId"`
	DealerName     string    `json:"dealerName,omitempty"`
	Region         string    `json:"region,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) Summary() ClientSummary {
	return ClientSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		DealerName: u.DealerName,
		Region:     u.Region,
	}
}

// JWT claims structure, issued by the platform's identity service.
type Claims struct {
	UserID         uuid.UUID `json:"user_id"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	OrganizationID uuid.UUID `json:"organization_id"`
	jwt.RegisteredClaims
}

func (c *Claims) Viewer() Viewer {
	return Viewer{UserID: c.UserID, Role: c.Role, OrganizationID: c.OrganizationID}
}

// Viewer is the identity an operation runs on behalf of.
type Viewer struct {
	UserID         uuid.UUID
	Role           Role
	OrganizationID uuid.UUID
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}
