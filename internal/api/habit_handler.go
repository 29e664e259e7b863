package api

import (
	"fmt"
	"net/http"

	"wellcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// HabitHandler serves the habit tracker.
type HabitHandler struct {
	habits service.HabitService
}

func NewHabitHandler(habits service.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

type CreateHabitRequest struct {
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Frequency string `json:"frequency"`
}

type ToggleHabitRequest struct {
	Date string `json:"date" binding:"required"`
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	habits, err := h.habits.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	habit, err := h.habits.Create(c.Request.Context(), userID, req.Name, req.Icon, req.Color, req.Frequency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) Toggle(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	habitID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req ToggleHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	result, err := h.habits.Toggle(c.Request.Context(), userID, habitID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	habitID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.habits.Delete(c.Request.Context(), userID, habitID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Habit deleted"})
}

func (h *HabitHandler) Stats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	stats, err := h.habits.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
