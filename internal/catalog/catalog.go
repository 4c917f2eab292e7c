// Package catalog holds the FinOps framework reference data: domains,
// capabilities, lenses, the question bank and the answer scale. A Catalog is
// immutable once built and is passed explicitly to the scoring components.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	apperrors "finops-assessment/internal/common/errors"
)

// DomainName is one of the four top-level capability groupings.
type DomainName string

const (
	DomainUnderstandUsageCost   DomainName = "Understand Usage & Cost"
	DomainQuantifyBusinessValue DomainName = "Quantify Business Value"
	DomainOptimizeUsageCost     DomainName = "Optimize Usage & Cost"
	DomainManagePractice        DomainName = "Manage the FinOps Practice"
)

// CapabilityID identifies a capability, e.g. "allocation".
type CapabilityID string

// LensID identifies an assessment lens, e.g. "knowledge".
type LensID string

const (
	LensKnowledge  LensID = "knowledge"
	LensProcess    LensID = "process"
	LensMetrics    LensID = "metrics"
	LensAdoption   LensID = "adoption"
	LensAutomation LensID = "automation"
)

// AnswerLevel is one of the five percentage buckets a question is answered with.
type AnswerLevel string

const (
	Level0To20   AnswerLevel = "0-20%"
	Level21To40  AnswerLevel = "21-40%"
	Level41To60  AnswerLevel = "41-60%"
	Level61To80  AnswerLevel = "61-80%"
	Level81To100 AnswerLevel = "81-100%"
)

// MaxScore is the number of points a single response can earn.
const MaxScore = 4

type Capability struct {
	ID     CapabilityID `json:"id"`
	Name   string       `json:"name"`
	Domain DomainName   `json:"domain"`
}

type Lens struct {
	ID     LensID `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Question is keyed by (capability, lens). Phrasings[0] is the canonical one.
type Question struct {
	Capability CapabilityID `json:"capabilityId"`
	Lens       LensID       `json:"lensId"`
	Phrasings  []string     `json:"phrasings"`
}

// Text returns the canonical phrasing.
func (q Question) Text() string {
	if len(q.Phrasings) == 0 {
		return ""
	}
	return q.Phrasings[0]
}

// Scope is the technology area an assessment is run against.
type Scope struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type questionKey struct {
	capability CapabilityID
	lens       LensID
}

// Catalog is safe for concurrent use; all accessors return copies.
type Catalog struct {
	domains      []DomainName
	capabilities []Capability
	capByID      map[CapabilityID]Capability
	lenses       []Lens
	lensByID     map[LensID]Lens
	questions    map[questionKey]Question
	answers      []AnswerLevel
	scopes       []Scope
}

// Definition is the raw material a Catalog is built from.
type Definition struct {
	Domains      []DomainName
	Capabilities []Capability
	Lenses       []Lens
	Questions    []Question
	AnswerLevels []AnswerLevel
	Scopes       []Scope
}

// New validates a definition and freezes it into a Catalog.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		domains:      append([]DomainName(nil), def.Domains...),
		capabilities: append([]Capability(nil), def.Capabilities...),
		capByID:      make(map[CapabilityID]Capability, len(def.Capabilities)),
		lenses:       append([]Lens(nil), def.Lenses...),
		lensByID:     make(map[LensID]Lens, len(def.Lenses)),
		questions:    make(map[questionKey]Question, len(def.Questions)),
		answers:      append([]AnswerLevel(nil), def.AnswerLevels...),
		scopes:       append([]Scope(nil), def.Scopes...),
	}

	if len(c.answers) != MaxScore+1 {
		return nil, fmt.Errorf("catalog: expected %d answer levels, got %d", MaxScore+1, len(c.answers))
	}

	knownDomain := make(map[DomainName]bool, len(c.domains))
	for _, d := range c.domains {
		if knownDomain[d] {
			return nil, fmt.Errorf("catalog: duplicate domain %q", d)
		}
		knownDomain[d] = true
	}

	for _, capability := range c.capabilities {
		if _, dup := c.capByID[capability.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate capability %q", capability.ID)
		}
		if !knownDomain[capability.Domain] {
			return nil, fmt.Errorf("catalog: capability %q references unknown domain %q", capability.ID, capability.Domain)
		}
		c.capByID[capability.ID] = capability
	}

	weightSum := 0
	for _, lens := range c.lenses {
		if _, dup := c.lensByID[lens.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate lens %q", lens.ID)
		}
		if lens.Weight < 0 {
			return nil, fmt.Errorf("catalog: lens %q has negative weight", lens.ID)
		}
		weightSum += lens.Weight
		c.lensByID[lens.ID] = lens
	}
	if weightSum != 100 {
		return nil, fmt.Errorf("catalog: lens weights sum to %d, want 100", weightSum)
	}

	for _, q := range def.Questions {
		if _, ok := c.capByID[q.Capability]; !ok {
			return nil, fmt.Errorf("catalog: question references unknown capability %q", q.Capability)
		}
		if _, ok := c.lensByID[q.Lens]; !ok {
			return nil, fmt.Errorf("catalog: question references unknown lens %q", q.Lens)
		}
		if len(q.Phrasings) == 0 {
			return nil, fmt.Errorf("catalog: question %s/%s has no phrasing", q.Capability, q.Lens)
		}
		q.Phrasings = append([]string(nil), q.Phrasings...)
		c.questions[questionKey{q.Capability, q.Lens}] = q
	}

	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in FinOps framework catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(defaultDefinition())
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func (c *Catalog) Domains() []DomainName {
	return append([]DomainName(nil), c.domains...)
}

func (c *Catalog) Capabilities() []Capability {
	return append([]Capability(nil), c.capabilities...)
}

// CapabilitiesIn lists the capabilities of one domain in catalog order.
func (c *Catalog) CapabilitiesIn(domain DomainName) []Capability {
	var out []Capability
	for _, capability := range c.capabilities {
		if capability.Domain == domain {
			out = append(out, capability)
		}
	}
	return out
}

func (c *Catalog) Lenses() []Lens {
	return append([]Lens(nil), c.lenses...)
}

func (c *Catalog) Capability(id CapabilityID) (Capability, bool) {
	capability, ok := c.capByID[id]
	return capability, ok
}

func (c *Catalog) Lens(id LensID) (Lens, bool) {
	lens, ok := c.lensByID[id]
	return lens, ok
}

func (c *Catalog) Question(capability CapabilityID, lens LensID) (Question, bool) {
	q, ok := c.questions[questionKey{capability, lens}]
	if !ok {
		return Question{}, false
	}
	q.Phrasings = append([]string(nil), q.Phrasings...)
	return q, true
}

// QuestionsFor returns the questions in scope for a domain, or for the whole
// framework when domain is empty, ordered by capability then lens.
func (c *Catalog) QuestionsFor(domain DomainName) []Question {
	var out []Question
	for _, capability := range c.capabilities {
		if domain != "" && capability.Domain != domain {
			continue
		}
		for _, lens := range c.lenses {
			if q, ok := c.Question(capability.ID, lens.ID); ok {
				out = append(out, q)
			}
		}
	}
	return out
}

func (c *Catalog) AnswerLevels() []AnswerLevel {
	return append([]AnswerLevel(nil), c.answers...)
}

// LevelIndex returns the ordinal position of an answer level (0..4).
func (c *Catalog) LevelIndex(level AnswerLevel) (int, bool) {
	for i, l := range c.answers {
		if l == level {
			return i, true
		}
	}
	return 0, false
}

func (c *Catalog) Scopes() []Scope {
	return append([]Scope(nil), c.scopes...)
}

func (c *Catalog) Scope(id string) (Scope, bool) {
	for _, s := range c.scopes {
		if s.ID == id {
			return s, true
		}
	}
	return Scope{}, false
}

// ParseCapabilityID validates a raw id at the system boundary.
func (c *Catalog) ParseCapabilityID(raw string) (CapabilityID, error) {
	id := CapabilityID(strings.TrimSpace(raw))
	if id == "" {
		return "", apperrors.NewValidationError("capability_id is required")
	}
	if _, ok := c.capByID[id]; !ok {
		return "", apperrors.NewUnknownCapabilityError(string(id))
	}
	return id, nil
}

func (c *Catalog) ParseLensID(raw string) (LensID, error) {
	id := LensID(strings.TrimSpace(raw))
	if id == "" {
		return "", apperrors.NewValidationError("lens_id is required")
	}
	if _, ok := c.lensByID[id]; !ok {
		return "", apperrors.NewUnknownLensError(string(id))
	}
	return id, nil
}

func (c *Catalog) ParseAnswerLevel(raw string) (AnswerLevel, error) {
	level := AnswerLevel(strings.TrimSpace(raw))
	if level == "" {
		return "", apperrors.NewValidationError("answer is required")
	}
	if _, ok := c.LevelIndex(level); !ok {
		return "", apperrors.NewInvalidAnswerLevelError(raw)
	}
	return level, nil
}

// ParseDomain accepts an exact domain name, ignoring case and surrounding space.
func (c *Catalog) ParseDomain(raw string) (DomainName, error) {
	trimmed := strings.TrimSpace(raw)
	for _, d := range c.domains {
		if strings.EqualFold(string(d), trimmed) {
			return d, nil
		}
	}
	return "", apperrors.NewInvalidScopeError(fmt.Sprintf("unknown domain %q", raw))
}
