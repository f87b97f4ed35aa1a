package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/constants"
)

// PaginationParams holds the pagination parameters. A zero Limit means the
// caller asked for the full, unpaginated result.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams extracts pagination parameters from the request.
// Pagination is opt-in: without page or limit query parameters the whole list
// is returned.
func GetPaginationParams(c *gin.Context) PaginationParams {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	return NewPaginationParams(page, limit)
}

// NewPaginationParams clamps page and limit to the allowed bounds. Page is
// capped so the offset cannot overflow.
func NewPaginationParams(page, limit int) PaginationParams {
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
