package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aeroprep/aeroprep-backend/internal/middleware"
	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// StatsHandler serves candidate statistics and leaderboards.
type StatsHandler struct {
	statsService *service.StatsService
	userService  *service.UserService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService, userService *service.UserService) *StatsHandler {
	return &StatsHandler{statsService: statsService, userService: userService}
}

// Stats godoc
// GET /api/v1/user/stats?timeframe=7d|30d|all
func (h *StatsHandler) Stats(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stats, err := h.statsService.UserStats(c.Request.Context(), claims.UserID, c.Query("timeframe"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// Leaderboard godoc
// GET /api/v1/user/leaderboard?type=practice|exam&category=&limit=
// Returns the ranked top-N plus the caller's own rank.
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	kind := service.LeaderboardKind(c.DefaultQuery("type", string(service.LeaderboardPractice)))
	limit, _ := strconv.Atoi(c.Query("limit"))

	board, err := h.statsService.Leaderboard(c.Request.Context(), kind, c.Query("category"), limit, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLeaderboard) || errors.Is(err, service.ErrInvalidFilter) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidFilter)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, board)
}

// Attempts godoc
// GET /api/v1/user/attempts?page=&per_page=
func (h *StatsHandler) Attempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	attempts, pagination, err := h.userService.Attempts(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": attempts}, pagination)
}
