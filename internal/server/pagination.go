package server

import (
	"strconv"
	"strings"

	"tragedy-commons/internal/web"

	"github.com/gin-gonic/gin"
)

const (
	defaultRequestsPerPage = 25
	maxRequestsPerPage     = 100
)

func parsePagination(c *gin.Context, defaultPerPage, maxPerPage int) (int, int) {
	page := 1
	perPage := defaultPerPage
	if value, err := strconv.Atoi(strings.TrimSpace(c.Query("page"))); err == nil && value > 0 {
		page = value
	}
	if value, err := strconv.Atoi(strings.TrimSpace(c.Query("per_page"))); err == nil && value > 0 {
		perPage = value
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func buildPaginationData(basePath string, page, perPage int, total int64) web.PaginationData {
	if perPage <= 0 {
		perPage = 1
	}
	totalPages := max(int((total+int64(perPage)-1)/int64(perPage)), 1)
	page = min(max(page, 1), totalPages)
	data := web.PaginationData{
		BasePath:   basePath,
		Page:       page,
		PerPage:    perPage,
		Total:      int(total),
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if data.HasPrev {
		data.PrevPage = page - 1
	}
	if data.HasNext {
		data.NextPage = page + 1
	}
	return data
}
