package controllers

import (
	"net/http"
	"strings"
	"time"

	"hotel-backoffice/middleware"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	Admins   *services.AdminService
	Secret   []byte
	TokenTTL time.Duration
	Clock    services.Clock
	Log      *logrus.Logger
}

func NewAuthController(admins *services.AdminService, secret []byte, ttl time.Duration, log *logrus.Logger) *AuthController {
	return &AuthController{Admins: admins, Secret: secret, TokenTTL: ttl, Clock: services.RealClock{}, Log: log}
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login (POST /api/auth/login)
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := ctrl.Admins.Authenticate(c.Request.Context(), strings.TrimSpace(payload.Username), payload.Password)
	if err != nil {
		ctrl.Log.WithField("username", payload.Username).Warn("failed login attempt")
		respondServiceError(c, ctrl.Log, err)
		return
	}

	now := ctrl.Clock.Now()
	token, err := middleware.IssueToken(ctrl.Secret, admin.ID, admin.Role, ctrl.TokenTTL, now)
	if err != nil {
		ctrl.Log.WithError(err).Error("failed to issue token")
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "could not issue token")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": now.Add(ctrl.TokenTTL),
		"admin":      admin,
	})
}
