package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/common"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

var (
	emailValidRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Shapes a syntactically plausible address must not contain.
	emailBadShapeRes = []*regexp.Regexp{
		regexp.MustCompile(`@.*@`),
		regexp.MustCompile(`\.\.`),
		regexp.MustCompile(`^\.`),
		regexp.MustCompile(`\.$`),
		regexp.MustCompile(`@\.`),
		regexp.MustCompile(`\.@`),
	}
)

// EmailAgent flags cells in email-typed columns that fail address validation
// and proposes repairs, anchored on the column's dominant domain.
type EmailAgent struct{}

func NewEmailAgent() *EmailAgent { return &EmailAgent{} }

func (a *EmailAgent) Name() string { return "email" }

func (a *EmailAgent) Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc Reasoning) ([]model.Issue, error) {
	var issues []model.Issue

	for _, col := range ds.Columns() {
		p, ok := profiles[col]
		if !ok || p.SemanticType != model.TypeEmail {
			continue
		}

		for row := 0; row < ds.RowCount(); row++ {
			cell, _ := ds.Cell(row, col)
			raw := model.CellString(cell)
			email := strings.TrimSpace(raw)
			if email == "" {
				continue
			}

			problem := describeEmailProblem(email)
			if problem == "" && raw == email {
				continue
			}

			issue := model.Issue{
				ID:           model.NewIssueID(a.Name(), model.IssueInvalidEmail, row, col),
				Row:          row,
				Column:       col,
				Type:         model.IssueInvalidEmail,
				SourceAgent:  a.Name(),
				CurrentValue: raw,
			}

			switch {
			case problem == "":
				// Only surrounding whitespace was wrong.
				issue.Description = "Email has leading or trailing whitespace"
				issue.ProposedValue = email
				issue.HasProposal = true
				issue.Confidence = 0.98
			default:
				issue.Description = problem
				proposed, conf, err := a.proposeFix(ctx, rc, email, p)
				if err != nil {
					if errors.Is(err, llm.ErrUnavailable) {
						// Reasoning chain is gone; report what we have.
						return issues, fmt.Errorf("email agent: %w", err)
					}
					// Row-local failure: keep the detection, drop the fix.
				}
				if proposed != "" {
					issue.ProposedValue = proposed
					issue.HasProposal = true
					issue.Confidence = conf
				} else {
					issue.Confidence = 0.6
				}
			}

			issues = append(issues, issue)
		}
	}

	return issues, nil
}

func describeEmailProblem(email string) string {
	if !strings.Contains(email, "@") {
		return "Missing @ symbol"
	}
	if domain := email[strings.LastIndex(email, "@")+1:]; !strings.Contains(domain, ".") {
		return "Missing domain extension"
	}
	for _, re := range emailBadShapeRes {
		if re.MatchString(email) {
			return "Contains invalid characters or patterns"
		}
	}
	if !emailValidRe.MatchString(email) {
		return "Invalid email format"
	}
	return ""
}

// proposeFix tries a cheap deterministic repair before escalating to the
// reasoning client with the column's dominant domain as an anchor.
func (a *EmailAgent) proposeFix(ctx context.Context, rc Reasoning, email string, p model.ColumnProfile) (string, float64, error) {
	if cleaned := strings.ReplaceAll(email, " ", ""); emailValidRe.MatchString(cleaned) {
		return cleaned, 0.95, nil
	}
	if rc.Client == nil {
		return "", 0, nil
	}

	system := "You repair malformed email addresses. Reply with only the corrected address, or NONE if no confident correction exists."
	user := fmt.Sprintf("Invalid email: %q", email)
	if p.MostCommonDomain != "" {
		user += fmt.Sprintf("\nThe most common domain in this column is %q; prefer it when the domain is missing or truncated.", p.MostCommonDomain)
	}

	response, err := ask(ctx, rc, system, user)
	if err != nil {
		return "", 0, err
	}
	proposed := common.CleanValue(response)
	if proposed == "" || !emailValidRe.MatchString(proposed) {
		return "", 0, nil
	}
	return proposed, 0.85, nil
}
