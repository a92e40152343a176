package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PaginatedResponse wraps list endpoints with paging metadata
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func newPaginatedResponse(items interface{}, total int64, page, pageSize int) PaginatedResponse {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	return PaginatedResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// parsePagination reads page/page_size query params with sane defaults
func parsePagination(c echo.Context) (page, pageSize, offset int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = 20
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	offset = (page - 1) * pageSize
	return page, pageSize, offset
}

func getStringFromContext(c echo.Context, key string) string {
	if val := c.Get(key); val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

func getUintFromContext(c echo.Context, key string) uint {
	if val := c.Get(key); val != nil {
		if u, ok := val.(uint); ok {
			return u
		}
	}
	return 0
}
