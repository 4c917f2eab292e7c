// Package benchmark compares an organization's domain percentage against
// anonymized peers.
package benchmark

import (
	"math"
	"sort"
	"time"

	"finops-assessment/internal/catalog"
	"finops-assessment/internal/models"
	"finops-assessment/internal/scoring"
)

// Candidate is a stored assessment with its responses.
type Candidate struct {
	Assessment models.Assessment
	Responses  []models.Response
}

type Request struct {
	Domain           catalog.DomainName
	RequesterOrgHash string
}

type Aggregator struct {
	engine *scoring.Engine
	now    func() time.Time
}

func NewAggregator(engine *scoring.Engine) *Aggregator {
	return &Aggregator{engine: engine, now: time.Now}
}

type orgPoint struct {
	orgHash    string
	percentage float64
}

// Compute builds the peer comparison for one domain. Only completed
// assessments that cover the domain count, each organization contributes
// its most recent one, and the requester's organization is never part of
// the peer set.
func (a *Aggregator) Compute(req Request, candidates []Candidate) models.Benchmark {
	latest := make(map[string]*Candidate)
	for i := range candidates {
		c := &candidates[i]
		if !c.Assessment.IsCompleted() || !c.Assessment.Covers(req.Domain) || c.Assessment.OrgHash == "" {
			continue
		}
		if cur, ok := latest[c.Assessment.OrgHash]; !ok || newer(c.Assessment, cur.Assessment) {
			latest[c.Assessment.OrgHash] = c
		}
	}

	result := models.Benchmark{
		Domain:      req.Domain,
		Series:      []models.BenchmarkPoint{},
		GeneratedAt: a.now().UTC(),
	}

	peers := make([]orgPoint, 0, len(latest))
	for orgHash, c := range latest {
		ds, ok := a.engine.ScoreDomain(c.Responses, req.Domain)
		if !ok {
			continue
		}
		pct := domainPercentage(ds)
		if orgHash == req.RequesterOrgHash {
			own := pct
			result.OwnPercentage = &own
			continue
		}
		peers = append(peers, orgPoint{orgHash: orgHash, percentage: pct})
	}

	if len(peers) == 0 {
		return result
	}

	sort.Slice(peers, func(i, j int) bool {
		if peers[i].percentage != peers[j].percentage {
			return peers[i].percentage < peers[j].percentage
		}
		return peers[i].orgHash < peers[j].orgHash
	})

	var sum float64
	for i, p := range peers {
		sum += p.percentage
		result.Series = append(result.Series, models.BenchmarkPoint{
			Label:      Label(i),
			Percentage: round1(p.percentage),
		})
	}
	avg := round1(sum / float64(len(peers)))
	result.PeerAverage = &avg
	result.PeerCount = len(peers)
	return result
}

// Label returns "Company A" for 0, "Company Z" for 25, "Company AA" for 26.
func Label(i int) string {
	var letters []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return "Company " + string(letters)
}

func newer(a, b models.Assessment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// domainPercentage keeps one decimal per organization before averaging,
// unlike the integer percentage of the score report.
func domainPercentage(ds models.DomainScore) float64 {
	return round1(100 * float64(ds.Total) / float64(ds.Count*catalog.MaxScore))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
