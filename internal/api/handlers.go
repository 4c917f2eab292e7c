// internal/api/handlers.go
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"finops-assessment/internal/catalog"
	apperrors "finops-assessment/internal/common/errors"
	"finops-assessment/internal/service"

	"github.com/labstack/echo/v4"
)

type submitBody struct {
	CapabilityID  string `json:"capabilityId"`
	LensID        string `json:"lensId"`
	Answer        string `json:"answer"`
	AnswerDetails string `json:"answerDetails"`
}

type catalogDomain struct {
	Name         catalog.DomainName   `json:"name"`
	Capabilities []catalog.Capability `json:"capabilities"`
}

type catalogView struct {
	Domains      []catalogDomain       `json:"domains"`
	Lenses       []catalog.Lens        `json:"lenses"`
	AnswerLevels []catalog.AnswerLevel `json:"answerLevels"`
	Scopes       []catalog.Scope       `json:"scopes"`
}

func (s *Server) startAssessment(c echo.Context) error {
	var req service.StartRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewValidationError("request body is not valid JSON")
	}
	a, err := s.service.StartAssessment(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) submitResponse(c echo.Context) error {
	var body submitBody
	if err := c.Bind(&body); err != nil {
		return apperrors.NewValidationError("request body is not valid JSON")
	}
	sub, err := s.service.SubmitResponse(c.Request().Context(), service.SubmitRequest{
		AssessmentID:  c.Param("id"),
		CapabilityID:  body.CapabilityID,
		LensID:        body.LensID,
		Answer:        body.Answer,
		AnswerDetails: body.AnswerDetails,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

func (s *Server) completeAssessment(c echo.Context) error {
	done, err := s.service.CompleteAssessment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, done)
}

func (s *Server) getResults(c echo.Context) error {
	results, err := s.service.GetResults(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) getProgress(c echo.Context) error {
	p, err := s.service.Progress(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// getBenchmark reads the domain from the path; ?assessmentId= identifies
// the requesting organization. echo leaves the parameter escaped when the
// request carries a RawPath (e.g. "&" sent as %26).
func (s *Server) getBenchmark(c echo.Context) error {
	domain, err := url.PathUnescape(c.Param("domain"))
	if err != nil {
		return apperrors.NewValidationError("domain path parameter is not valid URL encoding")
	}
	b, err := s.service.BenchmarkFor(c.Request().Context(), domain, c.QueryParam("assessmentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) getCatalog(c echo.Context) error {
	cat := s.service.Catalog()
	view := catalogView{
		Lenses:       cat.Lenses(),
		AnswerLevels: cat.AnswerLevels(),
		Scopes:       cat.Scopes(),
	}
	for _, d := range cat.Domains() {
		view.Domains = append(view.Domains, catalogDomain{Name: d, Capabilities: cat.CapabilitiesIn(d)})
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	return c.JSON(status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}

// handleError renders StandardErrors with their mapped status; everything
// else is an echo error or an internal one.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    http.StatusText(he.Code),
				"message": he.Message,
			},
		})
		return
	}

	stdErr := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(stdErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"path":  c.Path(),
			"code":  stdErr.Code,
			"error": stdErr.Error(),
		})
	}
	_ = c.JSON(status, map[string]interface{}{"error": stdErr})
}
