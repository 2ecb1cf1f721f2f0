package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pfledger/finance_ledger_app/internal/apperrors"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/pfledger/finance_ledger_app/internal/dto"
	"github.com/pfledger/finance_ledger_app/internal/middleware"
)

// profileHandler handles HTTP requests for the singleton user profile.
type profileHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newProfileHandler(ls portssvc.LedgerSvcFacade) *profileHandler {
	return &profileHandler{ledgerService: ls}
}

// registerProfileRoutes registers routes related to the user profile.
func registerProfileRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newProfileHandler(ledgerService)

	profile := rg.Group("/profile")
	{
		profile.GET("", h.getProfile)
		profile.PUT("", h.upsertProfile)
	}
}

func (h *profileHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	profile, err := h.ledgerService.GetProfile(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not configured"})
		} else {
			logger.Error("Failed to get profile from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

func (h *profileHandler) upsertProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, err := h.ledgerService.UpsertProfile(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error upserting profile", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to upsert profile in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		}
		return
	}

	logger.Info("Profile saved successfully", slog.Int64("profile_id", profile.ProfileID))
	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}
