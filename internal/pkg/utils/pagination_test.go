package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFor(query string) Pagination {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/listings?"+query, nil)
	return GetPagination(c)
}

func TestGetPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Offset: 0}, paginationFor(""))
	assert.Equal(t, Pagination{Page: 3, Limit: 10, Offset: 20}, paginationFor("page=3&limit=10"))
	assert.Equal(t, Pagination{Page: 1, Limit: 100, Offset: 0}, paginationFor("limit=500"))
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Offset: 0}, paginationFor("page=-2&limit=abc"))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}
