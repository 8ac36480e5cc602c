package controllers

import (
	"handmade-store/middleware"
	"handmade-store/models"
	"handmade-store/services"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type AuthController struct {
	auth    *services.AuthService
	cookies middleware.CookieOptions
}

func NewAuthController(auth *services.AuthService, cookies middleware.CookieOptions) *AuthController {
	return &AuthController{auth: auth, cookies: cookies}
}

// Login godoc
// @Summary Admin login
// @Description Verify admin credentials and set the adminToken session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, admin, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Login failed")
		return
	}

	ctrl.cookies.SetSessionCookie(c, token)
	log.WithField("username", admin.Username).Info("admin logged in")

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Login successful"})
}

// Logout godoc
// @Summary Admin logout
// @Description Clear the session cookie
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	ctrl.cookies.ClearSessionCookie(c)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// Status godoc
// @Summary Session status
// @Description Report whether the request carries a valid admin session. Never fails; a stale cookie is cleared.
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /auth/status [get]
func (ctrl *AuthController) Status(c *gin.Context) {
	claims, hadCookie := middleware.SessionFromRequest(c, ctrl.auth)
	if claims == nil {
		if hadCookie {
			ctrl.cookies.ClearSessionCookie(c)
		}
		c.JSON(http.StatusOK, models.StatusResponse{IsAdmin: false})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{IsAdmin: true, Username: claims.Username})
}

// ChangePassword godoc
// @Summary Change admin password
// @Description Verify the current password and store a new hash
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Password Request"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/change-password [post]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	if err := ctrl.auth.ChangePassword(c.Request.Context(), middleware.CurrentSession(c), req); err != nil {
		respondServiceError(c, err, "Failed to change password")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password updated successfully"})
}
