package agents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/common"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

// Personal-mail domains that say nothing about the row's employer; rows whose
// email sits on one of these are exempt from company validation.
var genericMailDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "hotmail.com": true,
	"outlook.com": true, "icloud.com": true, "mail.com": true,
	"protonmail.com": true, "aol.com": true, "live.com": true,
	"msn.com": true, "ymail.com": true, "zoho.com": true,
}

// companyVariantSimilarity is the edit-distance score above which a value is
// treated as a misspelling of the canonical name without consulting the model.
const companyVariantSimilarity = 0.75

// companyVariantConfidence is reported for deterministic verdicts and for
// model verdicts that carry no usable score of their own.
const companyVariantConfidence = 0.88

// variantVerdict is the JSON shape the model answers same-company questions in.
type variantVerdict struct {
	SameCompany bool    `json:"same_company"`
	Confidence  float64 `json:"confidence"`
}

// CompanyAgent normalizes variant spellings of the dominant company name in
// company-typed columns. It emits one issue per occurrence; the orchestrator
// folds identical (current, proposed) pairs into a single grouped issue.
type CompanyAgent struct{}

func NewCompanyAgent() *CompanyAgent { return &CompanyAgent{} }

func (a *CompanyAgent) Name() string { return "company" }

func (a *CompanyAgent) Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc Reasoning) ([]model.Issue, error) {
	var issues []model.Issue
	exempt := genericMailRows(ds, profiles)

	for _, col := range ds.Columns() {
		p, ok := profiles[col]
		if !ok || p.SemanticType != model.TypeCompany {
			continue
		}

		names, occurrences := collectNames(ds, col)
		if len(names) < 2 {
			continue
		}

		canonical, err := a.canonicalName(ctx, rc, names, p)
		if err != nil {
			if errors.Is(err, llm.ErrUnavailable) {
				return issues, fmt.Errorf("company agent: %w", err)
			}
			canonical = deterministicCanonical(names, p)
		}

		verdicts := map[string]float64{}
		for _, name := range names {
			if strings.EqualFold(name, canonical) || name == canonical {
				continue
			}
			variant, conf, err := a.isVariant(ctx, rc, name, canonical)
			if err != nil {
				if errors.Is(err, llm.ErrUnavailable) {
					return issues, fmt.Errorf("company agent: %w", err)
				}
				continue
			}
			if variant {
				verdicts[name] = conf
			}
		}

		for _, name := range names {
			conf, variant := verdicts[name]
			if !variant {
				continue
			}
			for _, row := range occurrences[name] {
				if exempt[row] {
					continue
				}
				issues = append(issues, model.Issue{
					ID:            model.NewIssueID(a.Name(), model.IssueCompanyVariant, row, col),
					Row:           row,
					Column:        col,
					Type:          model.IssueCompanyVariant,
					SourceAgent:   a.Name(),
					Description:   fmt.Sprintf("%q appears to be a variant of %q", name, canonical),
					CurrentValue:  name,
					ProposedValue: canonical,
					HasProposal:   true,
					Confidence:    conf,
				})
			}
		}
	}

	return issues, nil
}

// canonicalName picks the name the column should converge on. Deterministic
// frequency wins outright when one spelling clearly dominates; otherwise the
// model chooses, anchored on the observed spellings.
func (a *CompanyAgent) canonicalName(ctx context.Context, rc Reasoning, names []string, p model.ColumnProfile) (string, error) {
	deterministic := deterministicCanonical(names, p)
	if rc.Client == nil {
		return deterministic, nil
	}
	if p.MostCommonCount > 0 && p.NonNullCount > 0 && float64(p.MostCommonCount)/float64(p.NonNullCount) > 0.8 {
		return deterministic, nil
	}

	response, err := ask(ctx, rc,
		"You pick the canonical company name from observed spellings. Prefer the full official name over abbreviations. Reply with exactly one name from the list.",
		fmt.Sprintf("Observed spellings: %s", strings.Join(names, ", ")))
	if err != nil {
		return "", err
	}
	choice := common.CleanValue(response)
	for _, n := range names {
		if strings.EqualFold(n, choice) {
			return n, nil
		}
	}
	return deterministic, nil
}

// isVariant decides whether name is a misspelling/abbreviation of canonical.
// Small edit distances resolve deterministically; anything else needs world
// knowledge (two real companies can be one edit apart). The model answers in
// JSON so its confidence travels with the verdict.
func (a *CompanyAgent) isVariant(ctx context.Context, rc Reasoning, name, canonical string) (bool, float64, error) {
	if common.Similarity(name, canonical) >= companyVariantSimilarity {
		return true, companyVariantConfidence, nil
	}
	if rc.Client == nil {
		return false, 0, nil
	}

	response, err := ask(ctx, rc,
		`You decide whether two strings refer to the same company. Reply with JSON: {"same_company": true|false, "confidence": <0.0-1.0>}.`,
		fmt.Sprintf("Does %q refer to the same company as %q?", name, canonical))
	if err != nil {
		return false, 0, err
	}
	verdict, err := common.ParseJSON[variantVerdict](response)
	if err != nil {
		// Unparseable reply: no verdict for this name, keep going.
		return false, 0, nil
	}
	conf := verdict.Confidence
	if conf <= 0 || conf > 1 {
		conf = companyVariantConfidence
	}
	return verdict.SameCompany, conf, nil
}

func collectNames(ds *model.Dataset, col string) ([]string, map[string][]int) {
	occurrences := map[string][]int{}
	var names []string
	for row := 0; row < ds.RowCount(); row++ {
		cell, _ := ds.Cell(row, col)
		name := strings.TrimSpace(model.CellString(cell))
		if name == "" {
			continue
		}
		if _, seen := occurrences[name]; !seen {
			names = append(names, name)
		}
		occurrences[name] = append(occurrences[name], row)
	}
	return names, occurrences
}

// deterministicCanonical prefers the profile's most common value, then the
// longest name (full names over abbreviations), lexical order breaking ties.
func deterministicCanonical(names []string, p model.ColumnProfile) string {
	for _, n := range names {
		if strings.EqualFold(n, p.MostCommon) {
			return n
		}
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return sorted[0]
}

func genericMailRows(ds *model.Dataset, profiles map[string]model.ColumnProfile) map[int]bool {
	exempt := map[int]bool{}
	for _, col := range ds.Columns() {
		p, ok := profiles[col]
		if !ok || p.SemanticType != model.TypeEmail {
			continue
		}
		for row := 0; row < ds.RowCount(); row++ {
			cell, _ := ds.Cell(row, col)
			email := strings.TrimSpace(model.CellString(cell))
			at := strings.LastIndex(email, "@")
			if at < 0 || at == len(email)-1 {
				continue
			}
			if genericMailDomains[strings.ToLower(email[at+1:])] {
				exempt[row] = true
			}
		}
	}
	return exempt
}
