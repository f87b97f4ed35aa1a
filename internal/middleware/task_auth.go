package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/constants"
	apierrors "github.com/tasktracker/task-tracker-api/internal/errors"
)

// RequireTaskID parses the :id path parameter into the context. Ownership is
// not checked here: every task query is scoped to the authenticated user, so
// a task owned by someone else is reported as not found by the handler.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		c.Set(constants.ContextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID retrieves the parsed task ID from context
func GetTaskID(c *gin.Context) (uint64, bool) {
	taskID, exists := c.Get(constants.ContextKeyTaskID)
	if !exists {
		return 0, false
	}

	v, ok := taskID.(uint64)
	return v, ok
}
