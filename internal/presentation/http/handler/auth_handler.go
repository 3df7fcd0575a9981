package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/selfcheckout-kiosk/internal/application/service"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/dto/request"
	"github.com/sangkips/selfcheckout-kiosk/internal/presentation/http/dto/response"
)

// AuthHandler handles attendant authentication requests
type AuthHandler struct {
	attendantService *service.AttendantService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(attendantService *service.AttendantService) *AuthHandler {
	return &AuthHandler{attendantService: attendantService}
}

// AttendantLogin handles attendant PIN login
// @Summary Attendant login
// @Description Verify the attendant PIN and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.AttendantLoginRequest true "Attendant PIN"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/attendant [post]
func (h *AuthHandler) AttendantLogin(c *gin.Context) {
	var req request.AttendantLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.attendantService.Login(req.PIN)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", output)
}

// Me returns the claims of the authenticated attendant
// @Summary Current attendant
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	attendantID := GetAttendantID(c)
	if attendantID == nil {
		response.Unauthorized(c, "Attendant not authenticated")
		return
	}

	response.OK(c, "Attendant retrieved successfully", gin.H{
		"attendant_id": attendantID,
		"role":         GetAttendantRole(c),
	})
}
