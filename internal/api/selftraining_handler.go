package api

import (
	"net/http"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SelfTrainingHandler serves the assessment-to-plan flow of a subscriber.
type SelfTrainingHandler struct {
	selfTraining service.SelfTrainingService
}

func NewSelfTrainingHandler(selfTraining service.SelfTrainingService) *SelfTrainingHandler {
	return &SelfTrainingHandler{selfTraining: selfTraining}
}

type saveAssessmentResponse struct {
	AssessmentID     string             `json:"assessment_id"`
	CalculatedValues domain.BodyMetrics `json:"calculated_values"`
	CoercedFields    []string           `json:"coerced_fields,omitempty"`
}

// SaveAssessment handles POST /api/self-training/assessment. The body is a
// free-form JSON object; unparseable numbers fall back to defaults.
func (h *SelfTrainingHandler) SaveAssessment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		abortWithError(c, http.StatusBadRequest, "Assessment body must be a JSON object")
		return
	}

	a, err := h.selfTraining.SaveAssessment(c.Request.Context(), userID, raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saveAssessmentResponse{
		AssessmentID:     a.ID.Hex(),
		CalculatedValues: a.Metrics,
		CoercedFields:    a.CoercedFields,
	})
}

// GetAssessment handles GET /api/self-training/assessment.
func (h *SelfTrainingHandler) GetAssessment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	state, err := h.selfTraining.GetAssessment(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if state.Assessment == nil {
		c.JSON(http.StatusOK, gin.H{"has_assessment": false, "reason": state.Reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_assessment": true, "assessment": state.Assessment})
}

// CompleteAssessment handles POST /api/self-training/complete-assessment.
func (h *SelfTrainingHandler) CompleteAssessment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.selfTraining.CompleteAssessment(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": plan.ID.Hex()})
}

// GetMyPlan handles GET /api/self-training/my-plan.
func (h *SelfTrainingHandler) GetMyPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	state, err := h.selfTraining.GetMyPlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if state.Plan == nil {
		c.JSON(http.StatusOK, gin.H{"has_plan": false, "reason": state.Reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_plan": true, "plan": state.Plan})
}

// ListMyPlans handles GET /api/self-training/my-plans.
func (h *SelfTrainingHandler) ListMyPlans(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plans, err := h.selfTraining.ListMyPlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan handles GET /api/self-training/plans/:id.
func (h *SelfTrainingHandler) GetPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	plan, err := h.selfTraining.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ExportPlan handles POST /api/self-training/my-plan/export.
func (h *SelfTrainingHandler) ExportPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	export, err := h.selfTraining.ExportPlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, export)
}

// Stats handles GET /api/admin/self-training/stats.
func (h *SelfTrainingHandler) Stats(c *gin.Context) {
	stats, err := h.selfTraining.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
