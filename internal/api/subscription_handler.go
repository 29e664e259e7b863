package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionHandler serves packages and subscriptions.
type SubscriptionHandler struct {
	subscriptions service.SubscriptionService
}

func NewSubscriptionHandler(subscriptions service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type PackageRequest struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	DurationMonths     int      `json:"duration_months" binding:"required,gt=0"`
	Price              float64  `json:"price" binding:"gte=0"`
	DiscountPercentage float64  `json:"discount_percentage" binding:"gte=0,lte=100"`
	Features           []string `json:"features"`
	IsActive           *bool    `json:"is_active"`
	IsPopular          bool     `json:"is_popular"`
}

func (r PackageRequest) toInput() service.PackageInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.PackageInput{
		Name:               r.Name,
		Description:        r.Description,
		DurationMonths:     r.DurationMonths,
		Price:              r.Price,
		DiscountPercentage: r.DiscountPercentage,
		Features:           r.Features,
		IsActive:           active,
		IsPopular:          r.IsPopular,
	}
}

type PackageResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DurationMonths     int       `json:"duration_months"`
	Price              float64   `json:"price"`
	PricePerMonth      float64   `json:"price_per_month"`
	DiscountPercentage float64   `json:"discount_percentage"`
	Features           []string  `json:"features"`
	IsActive           bool      `json:"is_active"`
	IsPopular          bool      `json:"is_popular"`
	CreatedAt          time.Time `json:"created_at"`
}

func mapPackage(p *domain.SelfTrainingPackage) PackageResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PackageResponse{
		ID:                 p.ID.Hex(),
		Name:               p.Name,
		Description:        p.Description,
		DurationMonths:     p.DurationMonths,
		Price:              p.Price,
		PricePerMonth:      p.PricePerMonth(),
		DiscountPercentage: p.DiscountPercentage,
		Features:           features,
		IsActive:           p.IsActive,
		IsPopular:          p.IsPopular,
		CreatedAt:          p.CreatedAt,
	}
}

func mapPackages(packages []domain.SelfTrainingPackage) []PackageResponse {
	out := make([]PackageResponse, len(packages))
	for i := range packages {
		out[i] = mapPackage(&packages[i])
	}
	return out
}

// ListActivePackages handles the public GET /api/self-training/packages.
func (h *SubscriptionHandler) ListActivePackages(c *gin.Context) {
	packages, err := h.subscriptions.ListPackages(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPackages(packages))
}

// MySubscription handles GET /api/self-training/my-subscription.
func (h *SubscriptionHandler) MySubscription(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sub, err := h.subscriptions.ActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSubscription) {
			c.JSON(http.StatusOK, gin.H{"has_subscription": false})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_subscription": true, "subscription": sub})
}

// ListAllPackages handles GET /api/admin/self-training/packages.
func (h *SubscriptionHandler) ListAllPackages(c *gin.Context) {
	packages, err := h.subscriptions.ListPackages(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPackages(packages))
}

func (h *SubscriptionHandler) GetPackage(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	pkg, err := h.subscriptions.GetPackage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPackage(pkg))
}

func (h *SubscriptionHandler) CreatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	pkg, err := h.subscriptions.CreatePackage(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapPackage(pkg))
}

func (h *SubscriptionHandler) UpdatePackage(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	pkg, err := h.subscriptions.UpdatePackage(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPackage(pkg))
}

func (h *SubscriptionHandler) DeletePackage(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.subscriptions.DeletePackage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Package deleted"})
}

type GrantRequest struct {
	UserID     string  `json:"user_id" binding:"required"`
	PackageID  string  `json:"package_id" binding:"required"`
	AmountPaid float64 `json:"amount_paid" binding:"gte=0"`
}

// Grant handles POST /api/admin/self-training/subscriptions.
func (h *SubscriptionHandler) Grant(c *gin.Context) {
	adminID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user_id format")
		return
	}
	packageID, err := primitive.ObjectIDFromHex(req.PackageID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid package_id format")
		return
	}

	sub, err := h.subscriptions.Grant(c.Request.Context(), adminID, userID, packageID, req.AmountPaid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// Cancel handles PUT /api/admin/self-training/subscriptions/:id/cancel.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	sub, err := h.subscriptions.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
