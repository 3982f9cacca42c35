package dto

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is the standard paginated envelope returned by every list endpoint.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// Pagination carries the parsed page parameters of a list request.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePagination reads ?page= and ?page_size= with defaults and bounds.
func ParsePagination(c *gin.Context) Pagination {
	page := 1
	pageSize := DefaultPageSize

	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := c.Query("page_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			pageSize = parsed
			if pageSize > MaxPageSize {
				pageSize = MaxPageSize
			}
		}
	}

	return Pagination{Page: page, PageSize: pageSize}
}

// NewPage builds the envelope, deriving next/previous links from the request
// URL so every other query parameter is preserved.
func NewPage(c *gin.Context, count int64, p Pagination, results any) *Page {
	page := &Page{Count: count, Results: results}

	if int64(p.Page*p.PageSize) < count {
		page.Next = pageLink(c.Request.URL, p.Page+1)
	}
	if p.Page > 1 {
		page.Previous = pageLink(c.Request.URL, p.Page-1)
	}
	return page
}

func pageLink(u *url.URL, page int) *string {
	link := *u
	q := link.Query()
	q.Set("page", strconv.Itoa(page))
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}
