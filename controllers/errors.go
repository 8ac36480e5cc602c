package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"handmade-store/models"
	"handmade-store/repositories"
	"handmade-store/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{Error: message})
}

// respondServiceError maps a service or repository error to its status code.
// Anything unrecognized is logged and reported as 500.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, repositories.ErrInvalidID):
		respondError(c, http.StatusBadRequest, "invalid id format")
	case errors.Is(err, repositories.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, repositories.ErrVersionConflict):
		respondError(c, http.StatusConflict, "Product was modified by another request, reload and try again")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidCurrentPassword):
		respondError(c, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, services.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrNoFiles):
		respondError(c, http.StatusBadRequest, "No files uploaded")
	case errors.Is(err, services.ErrMediaNotConfigured):
		log.WithError(err).Error("image upload attempted without media host credentials")
		respondError(c, http.StatusInternalServerError, "Image hosting is not configured on the server")
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error(fallback)
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("%s: %v", fallback, err))
	}
}

// bindingMessage turns a gin binding error into a readable sentence.
func bindingMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind())
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "product_category":
			msgs = append(msgs, "category must be one of: "+strings.Join(models.ProductCategories, ", "))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
