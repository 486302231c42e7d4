package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
	"github.com/stretchr/testify/mock"
)

// memDB is an in-memory stand-in for PostgreSQL. Transactions are serialized and roll
// back by restoring a snapshot.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users         map[int64]entities.User
	sessions      map[string]entities.Session
	professionals map[int64]entities.Professional
	requests      map[int64]entities.ServiceRequest
	reviews       map[int64]entities.Review
	nextID        int64
	clock         time.Time

	failUpdateRating error
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[int64]entities.User{},
		sessions:      map[string]entities.Session{},
		professionals: map[int64]entities.Professional{},
		requests:      map[int64]entities.ServiceRequest{},
		reviews:       map[int64]entities.Review{},
		clock:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (db *memDB) tick() (int64, time.Time) {
	db.nextID++
	db.clock = db.clock.Add(time.Second)
	return db.nextID, db.clock
}

type memSnapshot struct {
	users         map[int64]entities.User
	sessions      map[string]entities.Session
	professionals map[int64]entities.Professional
	requests      map[int64]entities.ServiceRequest
	reviews       map[int64]entities.Review
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memSnapshot{
		users:         cloneMap(db.users),
		sessions:      cloneMap(db.sessions),
		professionals: cloneMap(db.professionals),
		requests:      cloneMap(db.requests),
		reviews:       cloneMap(db.reviews),
	}
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users, db.sessions, db.professionals, db.requests, db.reviews =
		s.users, s.sessions, s.professionals, s.requests, s.reviews
}

// WithinTx implements repositories.TxRunner
func (db *memDB) WithinTx(ctx context.Context, fn func(ctx context.Context, store repositories.Store) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	snap := db.snapshot()
	if err := fn(ctx, db); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

func (db *memDB) Users() repositories.UserRepository                     { return memUsers{db} }
func (db *memDB) Sessions() repositories.SessionRepository               { return memSessions{db} }
func (db *memDB) Professionals() repositories.ProfessionalRepository     { return memProfessionals{db} }
func (db *memDB) ServiceRequests() repositories.ServiceRequestRepository { return memRequests{db} }
func (db *memDB) Reviews() repositories.ReviewRepository                 { return memReviews{db} }

func (db *memDB) professional(id int64) entities.Professional {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.professionals[id]
}

func notFound(kind string, id interface{}) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s %v not found", kind, id))
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user *entities.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == user.Username {
			return apperrors.NewConflictError("username taken")
		}
	}
	user.ID, user.CreatedAt = r.db.tick()
	r.db.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*entities.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, notFound("user", username)
}

type memSessions struct{ db *memDB }

func (r memSessions) Create(_ context.Context, session *entities.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[session.TokenHash] = *session
	return nil
}

func (r memSessions) GetByTokenHash(_ context.Context, tokenHash string) (*entities.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[tokenHash]
	if !ok {
		return nil, notFound("session", "")
	}
	return &s, nil
}

func (r memSessions) Delete(_ context.Context, tokenHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sessions[tokenHash]; !ok {
		return notFound("session", "")
	}
	delete(r.db.sessions, tokenHash)
	return nil
}

func (r memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var removed int64
	for k, s := range r.db.sessions {
		if s.Expired(now) {
			delete(r.db.sessions, k)
			removed++
		}
	}
	return removed, nil
}

type memProfessionals struct{ db *memDB }

func (r memProfessionals) Create(_ context.Context, p *entities.Professional) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID, p.CreatedAt = r.db.tick()
	p.UpdatedAt = p.CreatedAt
	r.db.professionals[p.ID] = *p
	return nil
}

func (r memProfessionals) GetByID(_ context.Context, id int64) (*entities.Professional, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.professionals[id]
	if !ok {
		return nil, notFound("professional", id)
	}
	return &p, nil
}

func (r memProfessionals) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Professional, error) {
	return r.GetByID(ctx, id)
}

func (r memProfessionals) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Professional, error) {
	out := []*entities.Professional{}
	for _, id := range ids {
		if p, err := r.GetByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProfessionals) sorted(match func(entities.Professional) bool) []*entities.Professional {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entities.Professional{}
	for _, p := range r.db.professionals {
		if match(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memProfessionals) List(_ context.Context, filter repositories.ProfessionalFilter) ([]*entities.Professional, error) {
	return r.sorted(func(p entities.Professional) bool {
		return filter.Category == "" || p.Category == filter.Category
	}), nil
}

func (r memProfessionals) Search(_ context.Context, params repositories.SearchParams) ([]*entities.Professional, error) {
	q := strings.ToLower(params.Query)
	return r.sorted(func(p entities.Professional) bool {
		if params.Category != "" && p.Category != params.Category {
			return false
		}
		return strings.Contains(strings.ToLower(p.Name+" "+p.Description+" "+strings.Join(p.Specialties, " ")), q)
	}), nil
}

func (r memProfessionals) Update(_ context.Context, p *entities.Professional) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.professionals[p.ID]
	if !ok {
		return notFound("professional", p.ID)
	}
	rating, count := stored.Rating, stored.ReviewsCount
	stored = *p
	stored.Rating, stored.ReviewsCount = rating, count
	r.db.professionals[p.ID] = stored
	return nil
}

func (r memProfessionals) UpdateRating(_ context.Context, id int64, summary entities.RatingSummary) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failUpdateRating != nil {
		return r.db.failUpdateRating
	}
	p, ok := r.db.professionals[id]
	if !ok {
		return notFound("professional", id)
	}
	p.Rating = summary.Average()
	p.ReviewsCount = summary.Count
	r.db.professionals[id] = p
	return nil
}

func (r memProfessionals) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.professionals[id]; !ok {
		return notFound("professional", id)
	}
	delete(r.db.professionals, id)
	return nil
}

type memRequests struct{ db *memDB }

func (r memRequests) Create(_ context.Context, req *entities.ServiceRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.professionals[req.ProfessionalID]; !ok {
		return notFound("professional", req.ProfessionalID)
	}
	req.ID, req.CreatedAt = r.db.tick()
	req.UpdatedAt = req.CreatedAt
	r.db.requests[req.ID] = *req
	return nil
}

func (r memRequests) withName(req entities.ServiceRequest) *entities.ServiceRequest {
	req.ProfessionalName = nil
	if p, ok := r.db.professionals[req.ProfessionalID]; ok {
		name := p.Name
		req.ProfessionalName = &name
	}
	return &req
}

func (r memRequests) GetByID(_ context.Context, id int64) (*entities.ServiceRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req, ok := r.db.requests[id]
	if !ok {
		return nil, notFound("service request", id)
	}
	return r.withName(req), nil
}

func (r memRequests) List(_ context.Context, filter repositories.ServiceRequestFilter) ([]*entities.ServiceRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entities.ServiceRequest{}
	for _, req := range r.db.requests {
		if filter.ProfessionalID == nil || req.ProfessionalID == *filter.ProfessionalID {
			out = append(out, r.withName(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memRequests) Update(_ context.Context, req *entities.ServiceRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.requests[req.ID]; !ok {
		return notFound("service request", req.ID)
	}
	r.db.requests[req.ID] = *req
	return nil
}

func (r memRequests) UpdateStatus(_ context.Context, id int64, status entities.ServiceRequestStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req, ok := r.db.requests[id]
	if !ok {
		return notFound("service request", id)
	}
	req.Status = status
	r.db.requests[id] = req
	return nil
}

func (r memRequests) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.requests[id]; !ok {
		return notFound("service request", id)
	}
	delete(r.db.requests, id)
	return nil
}

func (r memRequests) DeleteByProfessional(_ context.Context, professionalID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, req := range r.db.requests {
		if req.ProfessionalID == professionalID {
			delete(r.db.requests, id)
		}
	}
	return nil
}

type memReviews struct{ db *memDB }

func (r memReviews) Create(_ context.Context, review *entities.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.professionals[review.ProfessionalID]; !ok {
		return notFound("professional", review.ProfessionalID)
	}
	review.ID, review.CreatedAt = r.db.tick()
	review.UpdatedAt = review.CreatedAt
	r.db.reviews[review.ID] = *review
	return nil
}

func (r memReviews) GetByID(_ context.Context, id int64) (*entities.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	review, ok := r.db.reviews[id]
	if !ok {
		return nil, notFound("review", id)
	}
	return &review, nil
}

func (r memReviews) List(_ context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entities.Review{}
	for _, review := range r.db.reviews {
		if filter.ProfessionalID == nil || review.ProfessionalID == *filter.ProfessionalID {
			review := review
			out = append(out, &review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memReviews) Update(_ context.Context, review *entities.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[review.ID]; !ok {
		return notFound("review", review.ID)
	}
	r.db.reviews[review.ID] = *review
	return nil
}

func (r memReviews) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[id]; !ok {
		return notFound("review", id)
	}
	delete(r.db.reviews, id)
	return nil
}

func (r memReviews) Summarize(_ context.Context, professionalID int64) (entities.RatingSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var summary entities.RatingSummary
	for _, review := range r.db.reviews {
		if review.ProfessionalID == professionalID {
			summary.Count++
			summary.Sum += review.Rating
		}
	}
	return summary, nil
}

func (r memReviews) DeleteByProfessional(_ context.Context, professionalID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, review := range r.db.reviews {
		if review.ProfessionalID == professionalID {
			delete(r.db.reviews, id)
		}
	}
	return nil
}

// MockSearchIndex is a testify mock of the search index
type MockSearchIndex struct {
	mock.Mock
}

func (m *MockSearchIndex) Index(ctx context.Context, professional *entities.Professional) error {
	args := m.Called(ctx, professional)
	return args.Error(0)
}

func (m *MockSearchIndex) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSearchIndex) Search(ctx context.Context, params repositories.SearchParams) ([]int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockProfessionalCache struct {
	mock.Mock
}

func (m *MockProfessionalCache) Invalidate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func mockProfessionalWithRating(id int64, rating float64, count int) interface{} {
	return mock.MatchedBy(func(p *entities.Professional) bool {
		return p.ID == id && p.Rating == rating && p.ReviewsCount == count
	})
}

func boolPtr(b bool) *bool { return &b }
