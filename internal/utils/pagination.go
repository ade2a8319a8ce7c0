// Package utils provides small helpers shared across the HTTP layer,
// centered on parsing and bounding list pagination parameters.
package utils

import "strconv"

// Pagination bounds for article and catalog listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPagination parses raw page and page_size query values and bounds them:
// page is at least 1, page_size lands in [1, MaxPageSize], and malformed or
// missing values fall back to the defaults.
func ClampPagination(rawPage, rawSize string) (page, pageSize int) {
	page = AtoiDefault(rawPage, DefaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = AtoiDefault(rawSize, DefaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return
}

// TotalPages reports how many pages a listing of total records spans at the
// given page size. Zero records is zero pages.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
