package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/miguel-sanchez/PomodoroPal/internal/errors"
)

// All error responses share the dashboard's envelope: a success flag
// plus a structured error body.
func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	if apiErr == nil {
		apiErr = apperrors.Internal("")
	}

	errorBody := gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		errorBody["details"] = apiErr.Details
	}

	c.JSON(apiErr.Status, gin.H{
		"success": false,
		"error":   errorBody,
	})
}

func writeBadJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   gin.H{"code": "invalid_json", "message": "invalid request body"},
	})
}
