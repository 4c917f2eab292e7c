// internal/recommendations/postprocess.go
package recommendations

import (
	"regexp"
	"strings"

	"finops-assessment/internal/models"

	"github.com/tidwall/gjson"
)

// Sentinel is stored and returned whenever recommendations could not be
// generated. Text carrying it is treated as absent and regenerated.
const Sentinel = "Unable to generate recommendations at this time."

const sentinelMarker = "Unable to generate recommendations"

const (
	fieldTitle          = "Title:"
	fieldDescription    = "Description:"
	fieldWhyImportant   = "Why it is important:"
	fieldWhyMatters     = "Why it matters:"
	fieldRecommendation = "Recommendation:"

	placeholderDescription    = "Description: Brief description of this recommendation"
	placeholderWhyImportant   = "Why it is important: This will help improve your FinOps maturity"
	placeholderRecommendation = "Recommendation: Implement specific steps to address this area"
)

var preambleOpeners = []string{
	"executive summary",
	"introduction",
	"conclusion",
	"summary",
	"here are",
	"based on",
	"i'll provide",
}

var (
	blankRuns    = regexp.MustCompile(`\n\s*\n`)
	listPrefix   = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s+`)
	boldMarkers  = strings.NewReplacer("**", "", "__", "")
	fieldMarkers = []string{fieldTitle, fieldDescription, fieldWhyImportant, fieldWhyMatters, fieldRecommendation}
)

// IsAbsent reports whether stored recommendation text needs regenerating.
func IsAbsent(text string) bool {
	return strings.TrimSpace(text) == "" || strings.Contains(text, sentinelMarker)
}

// PostProcess cleans oracle output: a leading preamble paragraph is dropped,
// runs of blank lines collapse to one, and output without field markers is
// rebuilt into Title/Description/Why it is important/Recommendation blocks.
func PostProcess(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = stripPreamble(strings.TrimSpace(text))
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if text == "" || hasDescription(text) {
		return text
	}
	return synthesize(text)
}

func hasDescription(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if marker, _, ok := splitField(line); ok && marker == fieldDescription {
			return true
		}
	}
	return false
}

func stripPreamble(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || !isPreambleLine(lines[0]) {
		return text
	}

	i := 1
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || hasFieldMarker(line) {
			break
		}
	}
	return strings.Join(lines[i:], "\n")
}

func isPreambleLine(line string) bool {
	line = strings.ToLower(strings.TrimLeft(boldMarkers.Replace(strings.TrimSpace(line)), "# "))
	for _, opener := range preambleOpeners {
		if strings.HasPrefix(line, opener) {
			return true
		}
	}
	return false
}

func hasFieldMarker(line string) bool {
	_, _, ok := splitField(line)
	return ok
}

// splitField recognizes "Marker: value" lines, ignoring case, bold markup
// and list numbering.
func splitField(line string) (marker, value string, ok bool) {
	clean := listPrefix.ReplaceAllString(boldMarkers.Replace(strings.TrimSpace(line)), "")
	lower := strings.ToLower(clean)
	for _, m := range fieldMarkers {
		if strings.HasPrefix(lower, strings.ToLower(m)) {
			return m, strings.TrimSpace(clean[len(m):]), true
		}
	}
	return "", "", false
}

func synthesize(text string) string {
	var blocks []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		marker, value, ok := splitField(line)
		if ok && marker != fieldTitle {
			continue
		}
		if !ok {
			value = listPrefix.ReplaceAllString(boldMarkers.Replace(line), "")
		}
		if value == "" {
			continue
		}
		blocks = append(blocks, strings.Join([]string{
			fieldTitle + " " + value,
			placeholderDescription,
			placeholderWhyImportant,
			placeholderRecommendation,
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// Parse splits recommendation text into structured entries. A JSON array of
// objects is accepted as well as the labeled text format.
func Parse(text string) []models.Recommendation {
	if IsAbsent(text) {
		return nil
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "[") && gjson.Valid(trimmed) {
		return parseJSON(trimmed)
	}

	var (
		out     []models.Recommendation
		current *models.Recommendation
		field   *string
	)
	flush := func() {
		if current != nil && current.Title != "" {
			out = append(out, *current)
		}
		current = nil
		field = nil
	}

	for _, raw := range strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		marker, value, ok := splitField(line)
		if !ok {
			if field != nil {
				*field = strings.TrimSpace(*field + " " + line)
			}
			continue
		}
		if marker == fieldTitle {
			flush()
			current = &models.Recommendation{}
		}
		if current == nil {
			current = &models.Recommendation{}
		}
		switch marker {
		case fieldTitle:
			field = &current.Title
		case fieldDescription:
			field = &current.Description
		case fieldWhyImportant, fieldWhyMatters:
			field = &current.WhyImportant
		case fieldRecommendation:
			field = &current.Recommendation
		}
		*field = value
	}
	flush()
	return out
}

func parseJSON(doc string) []models.Recommendation {
	var out []models.Recommendation
	gjson.Parse(doc).ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		rec := models.Recommendation{
			Title:          firstString(item, "title", "Title"),
			Description:    firstString(item, "description", "Description"),
			WhyImportant:   firstString(item, "why_important", "whyImportant", "why_it_is_important", "Why it is important"),
			Recommendation: firstString(item, "recommendation", "Recommendation"),
		}
		if rec.Title != "" {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}
