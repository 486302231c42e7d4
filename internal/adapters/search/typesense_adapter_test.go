package search

import (
	"testing"
	"time"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProfessionalDocument(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := buildProfessionalDocument(&entities.Professional{
		ID:           12,
		Name:         "Carlos Mendez",
		Category:     "electricista",
		Rating:       4.5,
		ReviewsCount: 2,
		Location:     "Santa Fe",
		CreatedAt:    created,
	})

	assert.Equal(t, "12", doc["id"])
	assert.Equal(t, []string{}, doc["specialties"])
	assert.Equal(t, 4.5, doc["rating"])
	assert.Equal(t, created.Unix(), doc["created_at"])
}

func TestBuildSearchParams(t *testing.T) {
	params := buildSearchParams(repositories.SearchParams{Query: "  ", Category: "plomero"})
	require.NotNil(t, params.Q)
	assert.Equal(t, "*", *params.Q)
	require.NotNil(t, params.FilterBy)
	assert.Equal(t, "category:=plomero", *params.FilterBy)
	assert.Equal(t, defaultSearchLimit, *params.PerPage)

	params = buildSearchParams(repositories.SearchParams{Query: "cañerías", Limit: 5})
	assert.Equal(t, "cañerías", *params.Q)
	assert.Nil(t, params.FilterBy)
	assert.Equal(t, 5, *params.PerPage)
}

func TestDocumentID(t *testing.T) {
	id, ok := documentID(map[string]interface{}{"id": "42"})
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = documentID(map[string]interface{}{"id": "abc"})
	assert.False(t, ok)
	_, ok = documentID(map[string]interface{}{})
	assert.False(t, ok)
}
