package dto

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePagination_Defaults(t *testing.T) {
	p := ParsePagination(testContext("/api/politicians"))

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestParsePagination_Explicit(t *testing.T) {
	p := ParsePagination(testContext("/api/politicians?page=3&page_size=25"))

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.PageSize)
	assert.Equal(t, 50, p.Offset())
}

func TestParsePagination_ClampsToMax(t *testing.T) {
	p := ParsePagination(testContext("/api/politicians?page_size=5000"))

	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestParsePagination_IgnoresGarbage(t *testing.T) {
	p := ParsePagination(testContext("/api/politicians?page=zero&page_size=-4"))

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestNewPage_MiddlePageHasBothLinks(t *testing.T) {
	c := testContext("/api/politicians?party=green-party&page=2&page_size=10")
	p := Pagination{Page: 2, PageSize: 10}

	page := NewPage(c, 35, p, []string{})

	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Next, "page=3")
	assert.Contains(t, *page.Previous, "page=1")
	// Unrelated query params survive in the links.
	assert.Contains(t, *page.Next, "party=green-party")
}

func TestNewPage_FirstAndLastPages(t *testing.T) {
	first := NewPage(testContext("/api/politicians"), 35, Pagination{Page: 1, PageSize: 10}, nil)
	assert.Nil(t, first.Previous)
	assert.NotNil(t, first.Next)

	last := NewPage(testContext("/api/politicians?page=4"), 35, Pagination{Page: 4, PageSize: 10}, nil)
	assert.NotNil(t, last.Previous)
	assert.Nil(t, last.Next)
}

func TestNewPage_SinglePage(t *testing.T) {
	page := NewPage(testContext("/api/politicians"), 3, Pagination{Page: 1, PageSize: 10}, nil)

	assert.Equal(t, int64(3), page.Count)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
}
