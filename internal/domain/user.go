package domain

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleSeller  = "seller"
)

// User statuses
const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Magazine business modes. In shared mode everyone in the magazine sees the
// magazine's records; in individual mode each seller sees only their own.
const (
	BusinessModeShared     = "shared"
	BusinessModeIndividual = "individual"
)

// Magazine statuses
const (
	MagazineStatusPending  = "pending"
	MagazineStatusActive   = "active"
	MagazineStatusInactive = "inactive"
)

type User struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	Phone               string     `json:"phone" db:"phone"`
	Role                string     `json:"role" db:"role"`
	Status              string     `json:"status" db:"status"`
	MagazineID          *uuid.UUID `json:"magazine_id" db:"magazine_id"`
	ManagerID           *uuid.UUID `json:"manager_id" db:"manager_id"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date" db:"subscription_end_date"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// Magazine is the tenant/store scope grouping users and, in shared mode,
// inventory and clients.
type Magazine struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	Status              string     `json:"status" db:"status"`
	BusinessMode        string     `json:"business_mode" db:"business_mode"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date" db:"subscription_end_date"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// Actor is the authenticated caller as seen by the core: identity plus the
// visibility scope applied to every read and permission check. Token
// issuance lives outside this service.
type Actor struct {
	UserID     uuid.UUID
	Role       string
	MagazineID uuid.UUID
	ManagerID  uuid.UUID
}

// IsAdmin reports whether the actor sees all tenants.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// WarehouseOwner returns the manager id whose inventory the actor may sell
// from: managers own their warehouse, sellers use their manager's.
func (a Actor) WarehouseOwner() uuid.UUID {
	if a.Role == RoleSeller {
		return a.ManagerID
	}
	return a.UserID
}
