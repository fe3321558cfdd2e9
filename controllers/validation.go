package controllers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the reservation_status and reservation_origin
// binding tags to gin's validator. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if registerErr = v.RegisterValidation("reservation_status", func(fl validator.FieldLevel) bool {
			return models.ReservationStatus(fl.Field().String()).IsValid()
		}); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("reservation_origin", func(fl validator.FieldLevel) bool {
			return models.ReservationOrigin(fl.Field().String()).IsValid()
		})
	})
	return registerErr
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// respondBindError turns binding failures into the standard error envelope.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.validation", "request validation failed", fields)
		return
	}
	utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload", "invalid request payload", err.Error())
}
