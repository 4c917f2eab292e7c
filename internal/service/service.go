// internal/service/service.go
package service

import (
	"context"

	"finops-assessment/internal/benchmark"
	"finops-assessment/internal/catalog"
	"finops-assessment/internal/common/logger"
	"finops-assessment/internal/evaluator"
	"finops-assessment/internal/models"
	"finops-assessment/internal/recommendations"
	"finops-assessment/internal/scoring"
	"finops-assessment/internal/store"
)

// Store is the persistence the service needs. *store.PostgresStore
// implements it.
type Store interface {
	CreateAssessment(ctx context.Context, a *models.Assessment) error
	GetAssessment(ctx context.Context, id string) (*models.Assessment, error)
	UpsertResponse(ctx context.Context, r *models.Response) error
	ListResponses(ctx context.Context, assessmentID string) ([]models.Response, error)
	ResponsesFor(ctx context.Context, assessmentIDs []string) (map[string][]models.Response, error)
	CompleteAssessment(ctx context.Context, id string, overallPercentage int, recommendations string) error
	UpdateRecommendations(ctx context.Context, id, recommendations string) error
	ListCompleted(ctx context.Context, domain catalog.DomainName) ([]models.Assessment, error)
	ListAbsentRecommendations(ctx context.Context, after string, limit int) ([]models.Assessment, error)
}

type BenchmarkCache interface {
	Get(ctx context.Context, domain catalog.DomainName, orgHash string) (*models.Benchmark, bool, error)
	Set(ctx context.Context, orgHash string, b *models.Benchmark) error
	InvalidateDomain(ctx context.Context, domain catalog.DomainName) error
}

type ResultIndexer interface {
	Index(ctx context.Context, doc store.ResultDocument) error
}

// Dependencies wires the service. Cache and Indexer are optional.
type Dependencies struct {
	Catalog         *catalog.Catalog
	Store           Store
	Cache           BenchmarkCache
	Indexer         ResultIndexer
	Evaluator       *evaluator.Evaluator
	Recommendations *recommendations.Generator
	Logger          logger.Logger
}

// AssessmentService runs the assessment lifecycle: start, answer, complete,
// results and benchmarks.
type AssessmentService struct {
	catalog    *catalog.Catalog
	store      Store
	cache      BenchmarkCache
	indexer    ResultIndexer
	evaluator  *evaluator.Evaluator
	recs       *recommendations.Generator
	engine     *scoring.Engine
	aggregator *benchmark.Aggregator
	logger     logger.Logger
}

func NewAssessmentService(deps Dependencies) *AssessmentService {
	engine := scoring.NewEngine(deps.Catalog)

	cache := deps.Cache
	if cache == nil {
		cache = (*store.BenchmarkCache)(nil)
	}
	indexer := deps.Indexer
	if indexer == nil {
		indexer = (*store.ResultIndexer)(nil)
	}

	return &AssessmentService{
		catalog:    deps.Catalog,
		store:      deps.Store,
		cache:      cache,
		indexer:    indexer,
		evaluator:  deps.Evaluator,
		recs:       deps.Recommendations,
		engine:     engine,
		aggregator: benchmark.NewAggregator(engine),
		logger:     deps.Logger.WithFields(map[string]interface{}{"component": "assessment-service"}),
	}
}

func (s *AssessmentService) Catalog() *catalog.Catalog {
	return s.catalog
}

// domainsOf lists the domains whose questions an assessment covers.
func (s *AssessmentService) domainsOf(a *models.Assessment) []catalog.DomainName {
	if a.Scope == models.ScopeComplete {
		return s.catalog.Domains()
	}
	return []catalog.DomainName{a.Domain}
}
