// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) PaginationParams {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/games?"+query, nil)

	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsFor(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
	assert.Empty(t, params.Search)
	assert.Empty(t, params.Category)
}

func TestGetPaginationParamsClamping(t *testing.T) {
	params := paramsFor(t, "page=-3&limit=500&order=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 100, params.Limit)
	assert.Equal(t, "desc", params.Order)

	params = paramsFor(t, "limit=0")
	assert.Equal(t, 20, params.Limit)
}

func TestGetPaginationParamsPassthrough(t *testing.T) {
	params := paramsFor(t, "page=3&limit=50&sort=downloads&order=asc&search=pong&category=Arcade")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "downloads", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, "pong", params.Search)
	assert.Equal(t, "Arcade", params.Category)
}

func TestCreatePaginationResult(t *testing.T) {
	params := PaginationParams{Page: 2, Limit: 20}
	result := CreatePaginationResult([]string{"a", "b"}, 41, params)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestCreatePaginationResultEmpty(t *testing.T) {
	params := PaginationParams{Page: 1, Limit: 20}
	result := CreatePaginationResult([]string{}, 0, params)

	assert.Equal(t, 0, result.TotalPages)
}
