package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

// Capability names a permission checked by the API layer.
type Capability string

const (
	CapUseSelfTraining       Capability = "use_self_training"
	CapViewSelfTrainingStats Capability = "view_self_training_stats"
	CapManagePackages        Capability = "manage_packages"
	CapGrantSubscriptions    Capability = "grant_subscriptions"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapUseSelfTraining,
		CapViewSelfTrainingStats,
		CapManagePackages,
		CapGrantSubscriptions,
	},
	RoleCoach:  {CapUseSelfTraining, CapViewSelfTrainingStats},
	RoleClient: {CapUseSelfTraining},
}

// ParseRole returns the role for s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleCapabilities[r]
	return r, ok
}

// Can reports whether the role grants the capability.
// Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// User represents an account on the platform (admin, coach or client).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"fullName" json:"full_name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
