package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetAttendantID extracts the attendant ID from the Gin context
func GetAttendantID(c *gin.Context) *uuid.UUID {
	idVal, exists := c.Get("attendant_id")
	if !exists {
		return nil
	}
	id, ok := idVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// GetAttendantRole extracts the attendant role from the Gin context
func GetAttendantRole(c *gin.Context) string {
	return c.GetString("attendant_role")
}
