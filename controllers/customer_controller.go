package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CustomerController struct {
	CustomerSvc *services.CustomerService
	Log         *logrus.Logger
}

func NewCustomerController(svc *services.CustomerService, log *logrus.Logger) *CustomerController {
	return &CustomerController{CustomerSvc: svc, Log: log}
}

type createCustomerRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Email    string `json:"email" binding:"omitempty,email,max=150"`
	Phone    string `json:"phone" binding:"max=50"`
}

// CreateCustomer (POST /api/customers)
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer := models.Customer{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
	}
	if err := ctrl.CustomerSvc.Create(c.Request.Context(), &customer); err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, customer)
}

// GetCustomers (GET /api/customers?q=&page=&per_page=)
func (ctrl *CustomerController) GetCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	f := services.ReservationFilter{Page: page, PerPage: perPage}.Normalize()

	customers, total, err := ctrl.CustomerSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("q")), f.Page, f.PerPage)
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONPage(c, http.StatusOK, customers, f.Page, f.PerPage, total)
}
