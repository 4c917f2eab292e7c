// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/common/database"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// sentinelPattern matches stored recommendation text that must be
// regenerated; kept in sync with recommendations.IsAbsent.
const sentinelPattern = "%Unable to generate recommendations%"

const assessmentColumns = `id, org_hash, user_hash, scope, domain, technology_scope, status,
	overall_percentage, recommendations, created_at, updated_at`

// PostgresStore persists assessments and responses.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateAssessment inserts a new in-progress assessment, assigning an id
// when a is missing one.
func (s *PostgresStore) CreateAssessment(ctx context.Context, a *models.Assessment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Status = models.StatusInProgress

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO assessments (id, org_hash, user_hash, scope, domain, technology_scope, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		a.ID, a.OrgHash, a.UserHash, string(a.Scope), nullString(string(a.Domain)),
		nullString(a.TechnologyScope), string(a.Status),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return database.MapError("create assessment", err)
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewAssessmentNotFoundError(id)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE id = $1`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewAssessmentNotFoundError(id)
	}
	if err != nil {
		return nil, database.MapError("get assessment", err)
	}
	return a, nil
}

// UpsertResponse writes one answer. Concurrent writers to the same
// (assessment, capability, lens) row are ordered by the row lock and the
// last write wins. Writes to an assessment that is no longer in progress
// affect nothing and are reported as ASSESSMENT_COMPLETED.
func (s *PostgresStore) UpsertResponse(ctx context.Context, r *models.Response) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO responses (assessment_id, capability_id, lens_id, answer_level, answer_details, score, improvement)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (SELECT 1 FROM assessments WHERE id = $1 AND status = 'in_progress')
		ON CONFLICT (assessment_id, capability_id, lens_id) DO UPDATE SET
			answer_level   = EXCLUDED.answer_level,
			answer_details = EXCLUDED.answer_details,
			score          = EXCLUDED.score,
			improvement    = EXCLUDED.improvement,
			updated_at     = now()
		RETURNING created_at, updated_at`,
		r.AssessmentID, string(r.CapabilityID), string(r.LensID), string(r.AnswerLevel),
		r.AnswerDetails, r.Score, r.Improvement,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewAssessmentCompletedError(r.AssessmentID)
	}
	return database.MapError("upsert response", err)
}

func (s *PostgresStore) ListResponses(ctx context.Context, assessmentID string) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT assessment_id, capability_id, lens_id, answer_level, answer_details, score, improvement, created_at, updated_at
		FROM responses
		WHERE assessment_id = $1
		ORDER BY capability_id, lens_id`, assessmentID)
	if err != nil {
		return nil, database.MapError("list responses", err)
	}
	defer rows.Close()

	var out []models.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, database.MapError("list responses", err)
		}
		out = append(out, r)
	}
	return out, database.MapError("list responses", rows.Err())
}

// ResponsesFor loads the responses of many assessments in one query.
func (s *PostgresStore) ResponsesFor(ctx context.Context, assessmentIDs []string) (map[string][]models.Response, error) {
	out := make(map[string][]models.Response, len(assessmentIDs))
	if len(assessmentIDs) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT assessment_id, capability_id, lens_id, answer_level, answer_details, score, improvement, created_at, updated_at
		FROM responses
		WHERE assessment_id = ANY($1)
		ORDER BY assessment_id, capability_id, lens_id`, pq.Array(assessmentIDs))
	if err != nil {
		return nil, database.MapError("load responses", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, database.MapError("load responses", err)
		}
		out[r.AssessmentID] = append(out[r.AssessmentID], r)
	}
	return out, database.MapError("load responses", rows.Err())
}

// CompleteAssessment finalizes an in-progress assessment. It succeeds at
// most once per assessment.
func (s *PostgresStore) CompleteAssessment(ctx context.Context, id string, overallPercentage int, recommendations string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE assessments
		SET status = 'completed', overall_percentage = $2, recommendations = $3, updated_at = now()
		WHERE id = $1 AND status = 'in_progress'`,
		id, overallPercentage, recommendations)
	if err != nil {
		return database.MapError("complete assessment", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return database.MapError("complete assessment", err)
	}
	if n == 0 {
		return apperrors.NewAssessmentCompletedError(id)
	}
	return nil
}

func (s *PostgresStore) UpdateRecommendations(ctx context.Context, id, recommendations string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE assessments SET recommendations = $2, updated_at = now() WHERE id = $1`,
		id, recommendations)
	if err != nil {
		return database.MapError("update recommendations", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return database.MapError("update recommendations", err)
	}
	if n == 0 {
		return apperrors.NewAssessmentNotFoundError(id)
	}
	return nil
}

// ListCompleted returns completed assessments that cover domain.
func (s *PostgresStore) ListCompleted(ctx context.Context, domain catalog.DomainName) ([]models.Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE status = 'completed' AND (scope = 'complete' OR domain = $1)
		ORDER BY created_at`, string(domain))
	if err != nil {
		return nil, database.MapError("list completed assessments", err)
	}
	return collectAssessments(rows, "list completed assessments")
}

// ListAbsentRecommendations returns completed assessments whose stored
// recommendations are missing, blank or the failure sentinel, in id order
// starting after the given id. A limit of 0 returns every match.
func (s *PostgresStore) ListAbsentRecommendations(ctx context.Context, after string, limit int) ([]models.Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE status = 'completed'
		  AND (recommendations IS NULL OR btrim(recommendations) = '' OR recommendations LIKE $1)
		  AND id::text > $2
		ORDER BY id
		LIMIT NULLIF($3, 0)`, sentinelPattern, after, limit)
	if err != nil {
		return nil, database.MapError("list absent recommendations", err)
	}
	return collectAssessments(rows, "list absent recommendations")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row scanner) (*models.Assessment, error) {
	var (
		a               models.Assessment
		scope, status   string
		domain, tech    sql.NullString
		overall         sql.NullInt64
		recommendations sql.NullString
	)
	if err := row.Scan(&a.ID, &a.OrgHash, &a.UserHash, &scope, &domain, &tech, &status,
		&overall, &recommendations, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.OrgHash = strings.TrimSpace(a.OrgHash)
	a.UserHash = strings.TrimSpace(a.UserHash)
	a.Scope = models.ScopeKind(scope)
	a.Status = models.AssessmentStatus(status)
	a.Domain = catalog.DomainName(domain.String)
	a.TechnologyScope = tech.String
	if overall.Valid {
		v := int(overall.Int64)
		a.OverallPercentage = &v
	}
	if recommendations.Valid {
		v := recommendations.String
		a.Recommendations = &v
	}
	return &a, nil
}

func collectAssessments(rows *sql.Rows, operation string) ([]models.Assessment, error) {
	defer rows.Close()
	var out []models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, database.MapError(operation, err)
		}
		out = append(out, *a)
	}
	return out, database.MapError(operation, rows.Err())
}

func scanResponse(row scanner) (models.Response, error) {
	var (
		r                     models.Response
		capability, lens, lvl string
	)
	err := row.Scan(&r.AssessmentID, &capability, &lens, &lvl, &r.AnswerDetails, &r.Score,
		&r.Improvement, &r.CreatedAt, &r.UpdatedAt)
	r.CapabilityID = catalog.CapabilityID(capability)
	r.LensID = catalog.LensID(lens)
	r.AnswerLevel = catalog.AnswerLevel(lvl)
	return r, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
