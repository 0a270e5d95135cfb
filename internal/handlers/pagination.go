package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// SortDirection represents sort order
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PaginationParams holds pagination query parameters
type PaginationParams struct {
	Page      int           `json:"page"`       // 1-indexed page number (default: 1)
	Per       int           `json:"per"`        // Items per page (default: 10, max: 100)
	Offset    int           `json:"-"`          // Calculated offset into the result set
	SortOrder SortDirection `json:"sort_order"` // Sort direction: "asc" or "desc" (default: "desc")
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	Page       int  `json:"page"`
	Per        int  `json:"per"`
	Total      int  `json:"total"`       // Total items across all pages
	TotalPages int  `json:"total_pages"` // Calculated total pages
	HasMore    bool `json:"has_more"`    // Whether more pages exist
}

// PaginatedResponse wraps a list response with pagination metadata
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

func queryInt(c fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

// ParsePaginationParams extracts and clamps pagination from the query string
func ParsePaginationParams(c fiber.Ctx) PaginationParams {
	page := max(queryInt(c, "page", 1), 1)
	per := min(max(queryInt(c, "per", 10), 1), 100)

	sortOrder := SortDirection(strings.ToLower(c.Query("sort_order", string(SortDesc))))
	if sortOrder != SortAsc && sortOrder != SortDesc {
		sortOrder = SortDesc
	}

	return PaginationParams{
		Page:      page,
		Per:       per,
		Offset:    (page - 1) * per,
		SortOrder: sortOrder,
	}
}

// BuildPaginationMeta creates pagination metadata for a result set of total items
func BuildPaginationMeta(params PaginationParams, total int) PaginationMeta {
	var totalPages int
	if total > 0 && params.Per > 0 {
		totalPages = (total + params.Per - 1) / params.Per
	}

	return PaginationMeta{
		Page:       params.Page,
		Per:        params.Per,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    params.Page < totalPages,
	}
}

// Paginate returns the page of items selected by params. Items beyond the
// end yield an empty, non-nil page.
func Paginate[T any](items []T, params PaginationParams) PaginatedResponse[T] {
	start := min(params.Offset, len(items))
	end := min(start+params.Per, len(items))
	page := make([]T, end-start)
	copy(page, items[start:end])

	return PaginatedResponse[T]{
		Data:       page,
		Pagination: BuildPaginationMeta(params, len(items)),
	}
}
