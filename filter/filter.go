package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/sbc/scrapbox"
)

// Page is the view of a listing entry that expressions see
type Page struct {
	ID           string
	Title        string
	Image        string
	Descriptions []string
	Author       string
	Pinned       bool
	Views        int
	Linked       int
	Created      time.Time
	Updated      time.Time
	Accessed     time.Time
}

// NewPage converts a listing entry into a filter Page
func NewPage(p scrapbox.PageSummary) Page {
	page := Page{
		ID:           p.ID,
		Title:        p.Title,
		Image:        p.Image,
		Descriptions: p.Descriptions,
		Pinned:       p.IsPinned(),
		Views:        p.Views,
		Linked:       p.Linked,
		Created:      unixTime(p.Created),
		Updated:      p.UpdatedAt(),
		Accessed:     unixTime(p.Accessed),
	}
	if page.Descriptions == nil {
		page.Descriptions = []string{}
	}
	if p.User != nil {
		page.Author = p.User.Name
	}
	return page
}

// Filter is a compiled page filter expression
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a boolean expression over Page fields, e.g.
//
//	Views > 100 and Updated > daysAgo(30)
//	titleHas("go") or Pinned
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression", Position: -1}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnv(Page{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, err)
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Match evaluates the filter against a page
func (f *Filter) Match(p scrapbox.PageSummary) (bool, error) {
	result, err := expr.Run(f.program, newEnv(NewPage(p)))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, PageTitle: p.Title, Reason: err.Error(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{Expression: f.expr, PageTitle: p.Title, Reason: fmt.Sprintf("result is %T, not bool", result)}
	}
	return matched, nil
}

// Apply returns the pages the filter matches, in their original order
func (f *Filter) Apply(pages []scrapbox.PageSummary) ([]scrapbox.PageSummary, error) {
	matched := make([]scrapbox.PageSummary, 0, len(pages))
	for _, p := range pages {
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expr
}

// newEnv builds the expression environment for one page
func newEnv(page Page) map[string]any {
	return map[string]any{
		"Page": page,

		// Direct page properties for convenience
		"ID":           page.ID,
		"Title":        page.Title,
		"Image":        page.Image,
		"Descriptions": page.Descriptions,
		"Author":       page.Author,
		"Pinned":       page.Pinned,
		"Views":        page.Views,
		"Linked":       page.Linked,
		"Created":      page.Created,
		"Updated":      page.Updated,
		"Accessed":     page.Accessed,

		// Text helpers, case-insensitive
		"titleHas": func(substr string) bool {
			return strings.Contains(strings.ToLower(page.Title), strings.ToLower(substr))
		},
		"describes": func(substr string) bool {
			for _, d := range page.Descriptions {
				if strings.Contains(strings.ToLower(d), strings.ToLower(substr)) {
					return true
				}
			}
			return false
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,
	}
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
