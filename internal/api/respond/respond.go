// Package respond holds the error replies shared by the API handlers.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// BadRequest answers 400 with err as the message.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// DB maps a storage error: not found is 404, unique violations are 409 and
// everything else is logged and answered with 500.
func DB(c *gin.Context, log *zap.Logger, err error, entity, action string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Error(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Error(c, http.StatusConflict, entity+" with this slug already exists")
	default:
		log.Error("failed to "+action,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Error(c, http.StatusInternalServerError, "Failed to "+action)
	}
}
