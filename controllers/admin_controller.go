package controllers

import (
	"net/http"
	"strings"

	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminController struct {
	Admins *services.AdminService
	Log    *logrus.Logger
}

func NewAdminController(admins *services.AdminService, log *logrus.Logger) *AdminController {
	return &AdminController{Admins: admins, Log: log}
}

// GetAdmins (GET /api/admins)
func (ctrl *AdminController) GetAdmins(c *gin.Context) {
	admins, err := ctrl.Admins.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admins)
}

type createAdminRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff"`
}

// CreateAdmin (POST /api/admins)
func (ctrl *AdminController) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin := models.Admin{
		FullName: strings.TrimSpace(req.FullName),
		Username: req.Username,
		Role:     req.Role,
		IsActive: true,
	}
	if err := ctrl.Admins.Create(c.Request.Context(), &admin, req.Password); err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, admin)
}

// DeleteAdmin (DELETE /api/admins/:id) deactivates the account.
func (ctrl *AdminController) DeleteAdmin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if self := middleware.StaffID(c); self != nil && *self == id {
		utils.JSONError(c, http.StatusBadRequest, "error.cannotDeactivateSelf", "cannot deactivate your own account")
		return
	}
	if err := ctrl.Admins.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
