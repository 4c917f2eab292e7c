// internal/store/indexer.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const resultIndexMapping = `{
  "mappings": {
    "properties": {
      "assessmentId":      {"type": "keyword"},
      "scope":             {"type": "keyword"},
      "domain":            {"type": "keyword"},
      "technologyScope":   {"type": "keyword"},
      "overallPercentage": {"type": "integer"},
      "weightedPercentage": {"type": "float"},
      "responseCount":     {"type": "integer"},
      "lensPercentages":   {"type": "object"},
      "domainPercentages": {"type": "object"},
      "completedAt":       {"type": "date"}
    }
  }
}`

// ResultDocument is the anonymized shape of a completed assessment in the
// results index. It carries no organization or user identity.
type ResultDocument struct {
	AssessmentID       string                     `json:"assessmentId"`
	Scope              models.ScopeKind           `json:"scope"`
	Domain             catalog.DomainName         `json:"domain,omitempty"`
	TechnologyScope    string                     `json:"technologyScope,omitempty"`
	OverallPercentage  int                        `json:"overallPercentage"`
	WeightedPercentage float64                    `json:"weightedPercentage"`
	ResponseCount      int                        `json:"responseCount"`
	LensPercentages    map[catalog.LensID]int     `json:"lensPercentages"`
	DomainPercentages  map[catalog.DomainName]int `json:"domainPercentages"`
	CompletedAt        time.Time                  `json:"completedAt"`
}

// NewResultDocument flattens a completed assessment and its report.
func NewResultDocument(a models.Assessment, report models.ScoreReport, weighted float64) ResultDocument {
	doc := ResultDocument{
		AssessmentID:       a.ID,
		Scope:              a.Scope,
		Domain:             a.Domain,
		TechnologyScope:    a.TechnologyScope,
		OverallPercentage:  report.OverallPercentage,
		WeightedPercentage: weighted,
		ResponseCount:      report.ResponseCount,
		LensPercentages:    make(map[catalog.LensID]int, len(report.LensScores)),
		DomainPercentages:  make(map[catalog.DomainName]int, len(report.DomainScores)),
		CompletedAt:        a.UpdatedAt.UTC(),
	}
	for id, ls := range report.LensScores {
		doc.LensPercentages[id] = ls.Percentage
	}
	for name, ds := range report.DomainScores {
		if ds.Count > 0 {
			doc.DomainPercentages[name] = ds.Percentage
		}
	}
	return doc
}

// ResultIndexer writes completed results to Elasticsearch for analytics.
// A nil *ResultIndexer indexes nothing.
type ResultIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewResultIndexer(client *elasticsearch.Client, index string) *ResultIndexer {
	if client == nil {
		return nil
	}
	return &ResultIndexer{client: client, index: index}
}

// EnsureIndex creates the index with its mapping when missing.
func (i *ResultIndexer) EnsureIndex(ctx context.Context) error {
	if i == nil {
		return nil
	}
	res, err := i.client.Indices.Exists([]string{i.index}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return apperrors.NewIndexingFailedError(err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.client.Indices.Create(i.index,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(resultIndexMapping)),
	)
	if err != nil {
		return apperrors.NewIndexingFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() && !strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
		return apperrors.NewIndexingFailedError(fmt.Errorf("create index %s: %s", i.index, res.Status()))
	}
	return nil
}

// Index upserts the document keyed by assessment id.
func (i *ResultIndexer) Index(ctx context.Context, doc ResultDocument) error {
	if i == nil {
		return nil
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewIndexingFailedError(err)
	}

	res, err := i.client.Index(i.index, bytes.NewReader(body),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(doc.AssessmentID),
	)
	if err != nil {
		return apperrors.NewIndexingFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewIndexingFailedError(fmt.Errorf("index %s: %s: %s", i.index, res.Status(), readBody(res.Body)))
	}
	return nil
}

func readBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(data)
}
