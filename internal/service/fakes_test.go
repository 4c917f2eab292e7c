// internal/service/fakes_test.go
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/models"
	"finops-assessment/internal/recommendations"
	"finops-assessment/internal/store"

	"github.com/google/uuid"
)

type responseKey struct {
	assessmentID string
	capability   catalog.CapabilityID
	lens         catalog.LensID
}

// memStore mirrors PostgresStore semantics in memory.
type memStore struct {
	mu          sync.Mutex
	assessments map[string]models.Assessment
	responses   map[responseKey]models.Response
	clock       time.Time
	calls       map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		assessments: make(map[string]models.Assessment),
		responses:   make(map[responseKey]models.Response),
		clock:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		calls:       make(map[string]int),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *memStore) CreateAssessment(ctx context.Context, a *models.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateAssessment"]++
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Status = models.StatusInProgress
	a.CreatedAt = m.tick()
	a.UpdatedAt = a.CreatedAt
	m.assessments[a.ID] = *a
	return nil
}

func (m *memStore) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return nil, apperrors.NewAssessmentNotFoundError(id)
	}
	return &a, nil
}

func (m *memStore) UpsertResponse(ctx context.Context, r *models.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["UpsertResponse"]++
	a, ok := m.assessments[r.AssessmentID]
	if !ok || a.IsCompleted() {
		return apperrors.NewAssessmentCompletedError(r.AssessmentID)
	}
	k := responseKey{r.AssessmentID, r.CapabilityID, r.LensID}
	now := m.tick()
	if prev, ok := m.responses[k]; ok {
		r.CreatedAt = prev.CreatedAt
	} else {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.responses[k] = *r
	return nil
}

func (m *memStore) ListResponses(ctx context.Context, assessmentID string) ([]models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.responsesOf(assessmentID), nil
}

func (m *memStore) responsesOf(assessmentID string) []models.Response {
	var out []models.Response
	for k, r := range m.responses {
		if k.assessmentID == assessmentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CapabilityID != out[j].CapabilityID {
			return out[i].CapabilityID < out[j].CapabilityID
		}
		return out[i].LensID < out[j].LensID
	})
	return out
}

func (m *memStore) ResponsesFor(ctx context.Context, ids []string) (map[string][]models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]models.Response, len(ids))
	for _, id := range ids {
		if rs := m.responsesOf(id); len(rs) > 0 {
			out[id] = rs
		}
	}
	return out, nil
}

func (m *memStore) CompleteAssessment(ctx context.Context, id string, overall int, recs string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok || a.IsCompleted() {
		return apperrors.NewAssessmentCompletedError(id)
	}
	a.Status = models.StatusCompleted
	a.OverallPercentage = &overall
	a.Recommendations = &recs
	a.UpdatedAt = m.tick()
	m.assessments[id] = a
	return nil
}

func (m *memStore) UpdateRecommendations(ctx context.Context, id, recs string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["UpdateRecommendations"]++
	a, ok := m.assessments[id]
	if !ok {
		return apperrors.NewAssessmentNotFoundError(id)
	}
	a.Recommendations = &recs
	m.assessments[id] = a
	return nil
}

func (m *memStore) ListCompleted(ctx context.Context, domain catalog.DomainName) ([]models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListCompleted"]++
	var out []models.Assessment
	for _, a := range m.assessments {
		if a.IsCompleted() && a.Covers(domain) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ListAbsentRecommendations(ctx context.Context, after string, limit int) ([]models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListAbsentRecommendations"]++
	var out []models.Assessment
	for _, a := range m.assessments {
		if !a.IsCompleted() || a.ID <= after {
			continue
		}
		if a.Recommendations == nil || recommendations.IsAbsent(*a.Recommendations) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCache struct {
	mu          sync.Mutex
	entries     map[string]models.Benchmark
	invalidated []catalog.DomainName
	getErr      error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]models.Benchmark)}
}

func (c *memCache) Get(ctx context.Context, domain catalog.DomainName, orgHash string) (*models.Benchmark, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.entries[store.BenchmarkKey(domain, orgHash)]
	if !ok {
		return nil, false, nil
	}
	return &b, true, nil
}

func (c *memCache) Set(ctx context.Context, orgHash string, b *models.Benchmark) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[store.BenchmarkKey(b.Domain, orgHash)] = *b
	return nil
}

func (c *memCache) InvalidateDomain(ctx context.Context, domain catalog.DomainName) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, domain)
	for k, b := range c.entries {
		if b.Domain == domain {
			delete(c.entries, k)
		}
	}
	return nil
}

type memIndexer struct {
	mu   sync.Mutex
	docs []store.ResultDocument
	err  error
}

func (i *memIndexer) Index(ctx context.Context, doc store.ResultDocument) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.err != nil {
		return i.err
	}
	i.docs = append(i.docs, doc)
	return nil
}
