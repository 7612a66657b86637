package handlers

import (
	"net/http"

	"novamailer/services/mailer/usecase"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles HTTP requests for dashboard statistics
type StatsHandler struct {
	statsUsecase usecase.StatsUsecase
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsUsecase usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{statsUsecase: statsUsecase}
}

// Dashboard returns aggregate campaign and recipient counts for the caller
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.statsUsecase.Dashboard(userID)
	if err != nil {
		respondError(c, err, "Failed to compute dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
