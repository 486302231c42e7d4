package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	tsclient "github.com/servicios-app/backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	collectionName     = "professionals"
	defaultSearchLimit = 50
)

// TypesenseAdapter implements professional search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProfessionalSearchRepository
var _ repositories.ProfessionalSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	_, err = a.client.Client().Collections().Create(ctx, collectionSchema())
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

func collectionSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "specialties", Type: "string[]", Optional: pointer.True()},
			{Name: "location", Type: "string", Facet: pointer.True()},
			{Name: "available", Type: "bool"},
			{Name: "rating", Type: "float"},
			{Name: "reviews_count", Type: "int32"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("rating"),
	}
}

func buildProfessionalDocument(professional *entities.Professional) map[string]interface{} {
	specialties := professional.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return map[string]interface{}{
		"id":            strconv.FormatInt(professional.ID, 10),
		"name":          professional.Name,
		"category":      professional.Category,
		"description":   professional.Description,
		"specialties":   specialties,
		"location":      professional.Location,
		"available":     professional.Available,
		"rating":        professional.Rating,
		"reviews_count": professional.ReviewsCount,
		"created_at":    professional.CreatedAt.Unix(),
	}
}

func buildSearchParams(params repositories.SearchParams) *api.SearchCollectionParams {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		q = "*"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	searchParams := &api.SearchCollectionParams{
		Q:             pointer.String(q),
		QueryBy:       pointer.String("name,specialties,description"),
		IncludeFields: pointer.String("id"),
		SortBy:        pointer.String("_text_match:desc,rating:desc"),
		PerPage:       pointer.Int(limit),
	}
	if params.Category != "" {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("category:=%s", params.Category))
	}
	return searchParams
}

// Index upserts a professional document
func (a *TypesenseAdapter) Index(ctx context.Context, professional *entities.Professional) error {
	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, buildProfessionalDocument(professional))
	if err != nil {
		return fmt.Errorf("failed to index professional: %w", err)
	}
	return nil
}

// Delete removes a professional from index
func (a *TypesenseAdapter) Delete(ctx context.Context, id int64) error {
	_, err := a.client.Client().Collection(collectionName).Document(strconv.FormatInt(id, 10)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete professional from index: %w", err)
	}
	return nil
}

// Search returns the IDs of matching professionals in relevance order
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]int64, error) {
	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, buildSearchParams(params))
	if err != nil {
		return nil, fmt.Errorf("failed to search professionals: %w", err)
	}

	ids := []int64{}
	if result.Hits == nil {
		return ids, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if id, ok := documentID(*hit.Document); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func documentID(doc map[string]interface{}) (int64, bool) {
	raw, ok := doc["id"].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
