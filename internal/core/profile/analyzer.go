// Package profile infers a semantic type per column from sampled values.
// The result is computed once per run and treated as ground truth by every
// agent, so typing decisions stay consistent across the pipeline.
package profile

import (
	"regexp"
	"strings"
	"time"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
)

// Pattern-match fraction thresholds. A type is assigned from data only when
// its fraction clears the threshold; the column-name fallback never overrides
// a confident data result.
const (
	EmailThreshold   = 0.50
	PhoneThreshold   = 0.30
	DateThreshold    = 0.30
	NumericThreshold = 0.70
)

// DefaultSampleSize bounds how many non-null values per column are inspected.
const DefaultSampleSize = 1000

var (
	emailDomainRe = regexp.MustCompile(`@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	numericRe     = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	phoneStripRe  = regexp.MustCompile(`[\s\-().]`)
	phoneShapeRe  = regexp.MustCompile(`^\+?\d+$`)
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
	"02 Jan 2006",
	"Jan 2, 2006",
}

var typeKeywords = map[model.SemanticType][]string{
	model.TypeEmail:   {"email", "e-mail", "mail"},
	model.TypePhone:   {"phone", "tel", "mobile", "cell"},
	model.TypeDate:    {"date", "time", "created", "updated", "timestamp", "dob", "birth"},
	model.TypeCompany: {"company", "organisation", "organization", "org", "employer", "firm", "business"},
}

// Analyze profiles every column of the dataset over a sample of up to
// sampleSize non-null values. Output is deterministic for a given sample.
func Analyze(ds *model.Dataset, sampleSize int) map[string]model.ColumnProfile {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	profiles := make(map[string]model.ColumnProfile)
	for _, col := range ds.Columns() {
		profiles[col] = analyzeColumn(ds, col, sampleSize)
	}
	return profiles
}

func analyzeColumn(ds *model.Dataset, col string, sampleSize int) model.ColumnProfile {
	p := model.ColumnProfile{Name: col, SemanticType: model.TypeUnknown}

	values := sampleValues(ds, col, sampleSize)
	p.NonNullCount = len(values)
	if len(values) == 0 {
		if t := keywordType(col); t != model.TypeUnknown {
			p.SemanticType = t
		}
		return p
	}

	counts := map[string]int{}
	for _, v := range values {
		counts[strings.ToLower(v)]++
	}
	p.UniqueCount = len(counts)
	p.MostCommon, p.MostCommonCount = mostCommon(values)
	if len(values) > 10 {
		p.SampleValues = values[:10]
	} else {
		p.SampleValues = values
	}

	n := float64(len(values))
	emailFrac := countMatches(values, isEmailLike) / n
	phoneFrac := countMatches(values, isPhoneLike) / n
	dateFrac := countMatches(values, isDateLike) / n
	numericFrac := countMatches(values, isNumericLike) / n

	switch {
	case emailFrac > EmailThreshold && phoneFrac > PhoneThreshold:
		// Rare co-occurrence: the higher fraction wins, email on a tie.
		if phoneFrac > emailFrac {
			p.SemanticType, p.Confidence = model.TypePhone, phoneFrac
		} else {
			p.SemanticType, p.Confidence = model.TypeEmail, emailFrac
		}
	case emailFrac > EmailThreshold:
		p.SemanticType, p.Confidence = model.TypeEmail, emailFrac
	case phoneFrac > PhoneThreshold:
		p.SemanticType, p.Confidence = model.TypePhone, phoneFrac
	case dateFrac > DateThreshold:
		p.SemanticType, p.Confidence = model.TypeDate, dateFrac
	case numericFrac > NumericThreshold:
		p.SemanticType, p.Confidence = model.TypeNumeric, numericFrac
	default:
		// Cardinality is a data-pattern test like the fractions above. The
		// name-based fallback below runs only when it too is inconclusive,
		// never to override a categorical/company/free_text result.
		p.SemanticType, p.Confidence = cardinalityType(p.UniqueCount, len(values))
	}

	if p.SemanticType == model.TypeUnknown {
		if t := keywordType(col); t != model.TypeUnknown {
			p.SemanticType = t
		}
	}

	switch p.SemanticType {
	case model.TypeEmail:
		p.MostCommonDomain = dominantDomain(values)
	case model.TypePhone:
		p.CountryHint = phoneCountryHint(values)
	}

	return p
}

// cardinalityType classifies text columns no data pattern claimed. Degenerate
// (one distinct value) and near-maximal cardinality carry no signal; a small
// repeated value set reads as categorical, a moderate one as company-style
// entity text, and fully unique text as free text.
func cardinalityType(unique, total int) (model.SemanticType, float64) {
	if total < 3 || unique <= 1 {
		return model.TypeUnknown, 0
	}
	if unique == total {
		return model.TypeFreeText, 0
	}
	catCeiling := total / 20
	if catCeiling < 20 {
		catCeiling = 20
	}
	if unique <= catCeiling {
		return model.TypeCategorical, 1 - float64(unique)/float64(total)
	}
	return model.TypeCompany, 1 - float64(unique)/float64(total)
}

func keywordType(col string) model.SemanticType {
	lower := strings.ToLower(col)
	// Fixed check order keeps fallback results stable across runs.
	for _, t := range []model.SemanticType{model.TypeEmail, model.TypePhone, model.TypeDate, model.TypeCompany} {
		for _, kw := range typeKeywords[t] {
			if strings.Contains(lower, kw) {
				return t
			}
		}
	}
	return model.TypeUnknown
}

func sampleValues(ds *model.Dataset, col string, sampleSize int) []string {
	var values []string
	for i := 0; i < ds.RowCount() && len(values) < sampleSize; i++ {
		v, _ := ds.Cell(i, col)
		s := strings.TrimSpace(model.CellString(v))
		if s != "" {
			values = append(values, s)
		}
	}
	return values
}

func countMatches(values []string, match func(string) bool) float64 {
	var n float64
	for _, v := range values {
		if match(v) {
			n++
		}
	}
	return n
}

func isEmailLike(v string) bool {
	return strings.Count(v, "@") == 1 && emailDomainRe.MatchString(v)
}

func isPhoneLike(v string) bool {
	stripped := phoneStripRe.ReplaceAllString(v, "")
	if !phoneShapeRe.MatchString(stripped) {
		return false
	}
	digits := strings.TrimPrefix(stripped, "+")
	return len(digits) >= 10
}

func isDateLike(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func isNumericLike(v string) bool {
	return numericRe.MatchString(v)
}

func mostCommon(values []string) (string, int) {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", 0
	for _, v := range values { // iterate values, not map, for determinism
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount
}

func dominantDomain(values []string) string {
	counts := map[string]int{}
	order := []string{}
	for _, v := range values {
		at := strings.LastIndex(v, "@")
		if at < 0 || at == len(v)-1 {
			continue
		}
		domain := strings.ToLower(v[at+1:])
		if counts[domain] == 0 {
			order = append(order, domain)
		}
		counts[domain]++
	}
	best, bestCount := "", 0
	for _, d := range order {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// phoneCountryHint scores country-code prefixes seen in the sample. Only US
// and India are distinguished; anything else defaults to US.
func phoneCountryHint(values []string) string {
	scores := map[string]int{"IN": 0, "US": 0}
	for _, v := range values {
		stripped := phoneStripRe.ReplaceAllString(v, "")
		switch {
		case strings.HasPrefix(stripped, "+91"), len(stripped) == 12 && strings.HasPrefix(stripped, "91"):
			scores["IN"]++
		case strings.HasPrefix(stripped, "+1"), len(stripped) == 11 && strings.HasPrefix(stripped, "1"):
			scores["US"]++
		}
	}
	if scores["IN"] > scores["US"] {
		return "IN"
	}
	return "US"
}
