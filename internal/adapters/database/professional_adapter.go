package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

const professionalsTable = "professionals"

var professionalColumns = []interface{}{
	"id", "name", "category", "rating", "reviews_count", "distance", "available",
	"specialties", "price", "avatar", "phone", "description", "location",
	"created_at", "updated_at",
}

// defaultSearchLimit caps the Postgres fallback search
const defaultSearchLimit = 50

// ProfessionalAdapter implements the ProfessionalRepository interface
type ProfessionalAdapter struct {
	db sqlx.ExtContext
}

// NewProfessionalAdapter creates a new professional adapter
func NewProfessionalAdapter(db sqlx.ExtContext) repositories.ProfessionalRepository {
	return &ProfessionalAdapter{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfessional(row rowScanner) (*entities.Professional, error) {
	professional := &entities.Professional{}
	var specialties sql.NullString
	var phone, description sql.NullString

	err := row.Scan(
		&professional.ID,
		&professional.Name,
		&professional.Category,
		&professional.Rating,
		&professional.ReviewsCount,
		&professional.Distance,
		&professional.Available,
		&specialties,
		&professional.Price,
		&professional.Avatar,
		&phone,
		&description,
		&professional.Location,
		&professional.CreatedAt,
		&professional.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	professional.Specialties = entities.DecodeSpecialties(specialties.String)
	professional.Phone = phone.String
	professional.Description = description.String
	return professional, nil
}

// Create creates a new professional
func (a *ProfessionalAdapter) Create(ctx context.Context, professional *entities.Professional) error {
	now := time.Now().UTC()
	record := goqu.Record{
		"name":          professional.Name,
		"category":      professional.Category,
		"rating":        professional.Rating,
		"reviews_count": professional.ReviewsCount,
		"distance":      professional.Distance,
		"available":     professional.Available,
		"specialties":   entities.EncodeSpecialties(professional.Specialties),
		"price":         professional.Price,
		"avatar":        professional.Avatar,
		"phone":         professional.Phone,
		"description":   professional.Description,
		"location":      professional.Location,
		"created_at":    now,
		"updated_at":    now,
	}

	query, args, err := dialect.Insert(professionalsTable).
		Rows(record).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.db.QueryRowxContext(ctx, query, args...).Scan(&professional.ID); err != nil {
		return apperrors.NewInternalError("failed to create professional", err)
	}

	professional.CreatedAt = now
	professional.UpdatedAt = now
	return nil
}

// GetByID retrieves a professional by ID
func (a *ProfessionalAdapter) GetByID(ctx context.Context, id int64) (*entities.Professional, error) {
	return a.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves a professional and holds its row lock for the transaction
func (a *ProfessionalAdapter) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Professional, error) {
	return a.getByID(ctx, id, true)
}

func (a *ProfessionalAdapter) getByID(ctx context.Context, id int64, lock bool) (*entities.Professional, error) {
	ds := dialect.From(professionalsTable).
		Select(professionalColumns...).
		Where(goqu.Ex{"id": id})
	if lock {
		ds = ds.ForUpdate(exp.Wait)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	professional, err := scanProfessional(a.db.QueryRowxContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("professional with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get professional", err)
	}
	return professional, nil
}

// GetByIDs retrieves professionals in the order of ids, skipping missing ones
func (a *ProfessionalAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Professional, error) {
	if len(ids) == 0 {
		return []*entities.Professional{}, nil
	}

	query, args, err := dialect.From(professionalsTable).
		Select(professionalColumns...).
		Where(goqu.C("id").In(ids)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	found, err := a.query(ctx, query, args)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*entities.Professional, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]*entities.Professional, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// List retrieves professionals by ascending ID, optionally filtered by category
func (a *ProfessionalAdapter) List(ctx context.Context, filter repositories.ProfessionalFilter) ([]*entities.Professional, error) {
	ds := dialect.From(professionalsTable).
		Select(professionalColumns...).
		Order(goqu.C("id").Asc())
	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.query(ctx, query, args)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text literally anywhere in the value
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// Search matches the query against name, description and specialties with ILIKE
func (a *ProfessionalAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Professional, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	ds := dialect.From(professionalsTable).
		Select(professionalColumns...).
		Order(goqu.C("rating").Desc(), goqu.C("id").Asc()).
		Limit(uint(limit))

	if params.Query != "" {
		pattern := containsPattern(params.Query)
		ds = ds.Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("description").ILike(pattern),
			goqu.C("specialties").ILike(pattern),
		))
	}
	if params.Category != "" {
		ds = ds.Where(goqu.Ex{"category": params.Category})
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}
	return a.query(ctx, query, args)
}

// Update writes the client-editable columns of a professional
func (a *ProfessionalAdapter) Update(ctx context.Context, professional *entities.Professional) error {
	professional.UpdatedAt = time.Now().UTC()

	query, args, err := dialect.Update(professionalsTable).
		Set(goqu.Record{
			"name":        professional.Name,
			"category":    professional.Category,
			"distance":    professional.Distance,
			"available":   professional.Available,
			"specialties": entities.EncodeSpecialties(professional.Specialties),
			"price":       professional.Price,
			"avatar":      professional.Avatar,
			"phone":       professional.Phone,
			"description": professional.Description,
			"location":    professional.Location,
			"updated_at":  professional.UpdatedAt,
		}).
		Where(goqu.Ex{"id": professional.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update professional", err)
	}
	return expectOneRow(result, fmt.Sprintf("professional with id %d not found", professional.ID))
}

// UpdateRating stores the rating aggregate computed from the professional's reviews
func (a *ProfessionalAdapter) UpdateRating(ctx context.Context, id int64, summary entities.RatingSummary) error {
	query, args, err := dialect.Update(professionalsTable).
		Set(goqu.Record{
			"rating":        summary.Average(),
			"reviews_count": summary.Count,
		}).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update professional rating", err)
	}
	return expectOneRow(result, fmt.Sprintf("professional with id %d not found", id))
}

// Delete deletes a professional
func (a *ProfessionalAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(professionalsTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete professional", err)
	}
	return expectOneRow(result, fmt.Sprintf("professional with id %d not found", id))
}

func (a *ProfessionalAdapter) query(ctx context.Context, query string, args []interface{}) ([]*entities.Professional, error) {
	rows, err := a.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list professionals", err)
	}
	defer rows.Close()

	professionals := make([]*entities.Professional, 0)
	for rows.Next() {
		professional, err := scanProfessional(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan professional", err)
		}
		professionals = append(professionals, professional)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate professionals", err)
	}
	return professionals, nil
}
