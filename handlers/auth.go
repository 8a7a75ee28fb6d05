package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koreasuan/rainmaker-api/middleware"
	"github.com/koreasuan/rainmaker-api/models"
	"github.com/koreasuan/rainmaker-api/services"
	"github.com/koreasuan/rainmaker-api/utils"
)

// AuthHandler exchanges an upstream-verified email for a session token.
// The frontend signs the user in with Google; this endpoint only asks the
// Users sheet which role that address has. Unregistered addresses are turned
// away, same as the original admin policy.
type AuthHandler struct {
	Sheets     services.Mutator
	JWTSecret  string
	SessionTTL time.Duration
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Sheets.SubmitMutation(c.Request.Context(), models.MutationGetUserRole, map[string]string{"email": req.Email})
	if err != nil {
		utils.LogAuthAction("role lookup", req.Email, false)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Role lookup failed"})
		return
	}
	if !result.Success {
		utils.LogAuthAction("login", req.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "등록된 사용자가 아닙니다. 관리자에게 문의하세요."})
		return
	}

	user := models.User{Email: req.Email, Name: req.Name, Role: models.RoleSales}
	if info, ok := result.Data.(map[string]any); ok {
		if role, ok := info["role"].(string); ok && role != "" {
			user.Role = role
		}
		if name, ok := info["name"].(string); ok && name != "" {
			user.Name = name
		}
		if team, ok := info["team"].(string); ok {
			user.Team = team
		}
	}

	token, err := middleware.GenerateToken(user, h.JWTSecret, h.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	utils.LogAuthAction("login", req.Email, true)
	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: user})
}
