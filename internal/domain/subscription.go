package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelfTrainingPackage is a purchasable self-training offer managed by admins.
type SelfTrainingPackage struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description,omitempty" json:"description"`
	DurationMonths     int                `bson:"durationMonths" json:"duration_months"`
	Price              float64            `bson:"price" json:"price"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discount_percentage"`
	Features           []string           `bson:"features,omitempty" json:"features"`
	IsActive           bool               `bson:"isActive" json:"is_active"`
	IsPopular          bool               `bson:"isPopular" json:"is_popular"`
	CreatedAt          time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updated_at"`
}

// PricePerMonth is the package price spread over its duration, to 2 decimals.
func (p *SelfTrainingPackage) PricePerMonth() float64 {
	if p.DurationMonths <= 0 {
		return p.Price
	}
	return math.Round(p.Price/float64(p.DurationMonths)*100) / 100
}

// SubscriptionStatus tracks the subscription lifecycle.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription gates access to the self-training features for a user.
type Subscription struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"userId" json:"user_id"`
	PackageID   primitive.ObjectID  `bson:"packageId" json:"package_id"`
	PackageName string              `bson:"packageName" json:"package_name"`
	Status      SubscriptionStatus  `bson:"status" json:"status"`
	StartDate   time.Time           `bson:"startDate" json:"start_date"`
	EndDate     time.Time           `bson:"endDate" json:"end_date"`
	AmountPaid  float64             `bson:"amountPaid" json:"amount_paid"`
	GrantedBy   *primitive.ObjectID `bson:"grantedBy,omitempty" json:"granted_by,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updated_at"`
}

// IsActiveAt reports whether the subscription grants access at t.
func (s *Subscription) IsActiveAt(t time.Time) bool {
	return s.Status == SubscriptionActive && t.Before(s.EndDate)
}
