package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// Translation is the outcome of turning chat input into SQL, with an
// optional chart suggestion when the result shape supports one.
type Translation struct {
	SQL     string
	Chart   *model.ChartSpec
	Summary string
}

// Translator converts natural-language chat input into SQL.
type Translator interface {
	Translate(input string, ds *model.Dataset) (*Translation, error)
}

// RuleTranslator matches chat input against a fixed set of question
// shapes. It works offline; unrecognized input falls back to a row
// preview, and input that already looks like SQL passes through.
type RuleTranslator struct{}

// NewRuleTranslator creates a RuleTranslator.
func NewRuleTranslator() *RuleTranslator {
	return &RuleTranslator{}
}

var (
	countPattern   = regexp.MustCompile(`(?i)^(?:how many|count)\b`)
	aggByPattern   = regexp.MustCompile(`(?i)\b(average|avg|mean|total|sum|max|maximum|min|minimum)\b\s+(?:of\s+)?(.+?)\s+(?:by|per|for each)\s+(.+?)\s*\??$`)
	plainByPattern = regexp.MustCompile(`(?i)^(?:show|plot|chart|graph)?\s*(.+?)\s+(?:by|per)\s+(.+?)\s*\??$`)
	topNPattern    = regexp.MustCompile(`(?i)^(?:show\s+)?(?:the\s+)?top\s+(\d+)\s+(.+?)\s+by\s+(.+?)\s*\??$`)
	distinctPat    = regexp.MustCompile(`(?i)^(?:list|show)?\s*(?:the\s+)?(?:distinct|unique)\s+(.+?)\s*\??$`)
	histogramPat   = regexp.MustCompile(`(?i)^(?:show\s+)?(?:a\s+)?(?:histogram|distribution)\s+(?:of\s+)?(.+?)\s*\??$`)
)

// Translate converts input into SQL against the loaded dataset.
func (t *RuleTranslator) Translate(input string, ds *model.Dataset) (*Translation, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty question")
	}
	if ds == nil || len(ds.Columns) == 0 {
		return nil, fmt.Errorf("no dataset loaded")
	}

	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "select") || strings.HasPrefix(lower, "with") {
		return &Translation{SQL: input, Summary: "Ran your SQL directly."}, nil
	}

	if m := topNPattern.FindStringSubmatch(input); m != nil {
		return t.translateTopN(m, ds)
	}
	if m := aggByPattern.FindStringSubmatch(input); m != nil {
		return t.translateAggBy(m, ds)
	}
	if m := histogramPat.FindStringSubmatch(input); m != nil {
		return t.translateHistogram(m, ds)
	}
	if m := distinctPat.FindStringSubmatch(input); m != nil {
		return t.translateDistinct(m, ds)
	}
	if countPattern.MatchString(input) {
		return &Translation{
			SQL:     fmt.Sprintf("SELECT COUNT(*) AS count FROM %s", TableName),
			Summary: "Counted all rows.",
		}, nil
	}
	if m := plainByPattern.FindStringSubmatch(input); m != nil {
		if tr, err := t.translateSumBy(m, ds); err == nil {
			return tr, nil
		}
	}

	// Fallback: a preview of the raw data.
	return &Translation{
		SQL:     fmt.Sprintf("SELECT * FROM %s LIMIT 50", TableName),
		Summary: "I couldn't map that to a query, so here are the first rows.",
	}, nil
}

func (t *RuleTranslator) translateAggBy(m []string, ds *model.Dataset) (*Translation, error) {
	fn := aggFunc(m[1])
	valueCol, ok := resolveColumn(m[2], ds)
	if !ok {
		return nil, fmt.Errorf("no column matching %q", m[2])
	}
	groupCol, ok := resolveColumn(m[3], ds)
	if !ok {
		return nil, fmt.Errorf("no column matching %q", m[3])
	}

	alias := strings.ToLower(fn) + "_" + valueCol
	sqlText := fmt.Sprintf(
		"SELECT %s, %s(%s) AS %s FROM %s GROUP BY %s ORDER BY %s DESC",
		quoteIdent(groupCol), fn, quoteIdent(valueCol), quoteIdent(alias),
		TableName, quoteIdent(groupCol), quoteIdent(alias),
	)
	return &Translation{
		SQL: sqlText,
		Chart: &model.ChartSpec{
			Type:     model.ChartBar,
			Title:    fmt.Sprintf("%s of %s by %s", fn, valueCol, groupCol),
			LabelCol: groupCol,
			ValueCol: alias,
		},
		Summary: fmt.Sprintf("%s of %s grouped by %s.", fn, valueCol, groupCol),
	}, nil
}

func (t *RuleTranslator) translateSumBy(m []string, ds *model.Dataset) (*Translation, error) {
	valueCol, ok := resolveColumn(m[1], ds)
	if !ok {
		return nil, fmt.Errorf("no column matching %q", m[1])
	}
	idx := ds.ColumnIndex(valueCol)
	if idx < 0 || !ds.Columns[idx].Type.IsNumeric() {
		return nil, fmt.Errorf("column %q is not numeric", valueCol)
	}
	return t.translateAggBy([]string{m[0], "sum", m[1], m[2]}, ds)
}

func (t *RuleTranslator) translateTopN(m []string, ds *model.Dataset) (*Translation, error) {
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		n = 10
	}
	labelCol, ok := resolveColumn(m[2], ds)
	if !ok {
		return nil, fmt.Errorf("no column matching %q", m[2])
	}
	valueCol, ok := resolveColumn(m[3], ds)
	if !ok {
		return nil, fmt.Errorf("no column matching %q", m[3])
	}

	alias := "total_" + valueCol
	sqlText := fmt.Sprintf(
		"SELECT %s, SUM(%s) AS %s FROM %s GROUP BY %s ORDER BY %s DESC LIMIT %d",
		quoteIdent(labelCol), quoteIdent(valueCol), quoteIdent(alias),
		TableName, quoteIdent(labelCol), quoteIdent(alias), n,
	)
	return &Translation{
		SQL: sqlText,
		Chart: &model.ChartSpec{
			Type:     model.ChartBar,
			Title:    fmt.Sprintf("Top %d %s by %s", n, labelCol, valueCol),
			LabelCol: labelCol,
			ValueCol: alias,
		},
		Summary: fmt.Sprintf("Top %d %s ranked by %s.", n, labelCol, valueCol),
	}, nil
}

func (t *RuleTranslator) translateDistinct(m []string, ds *model.Dataset) (*Translation, error) {
	col, ok := resolveColumn(m[1], ds)
	if !ok {
		return nil, fmt.Errorf("no column matching %q", m[1])
	}
	return &Translation{
		SQL:     fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", quoteIdent(col), TableName, quoteIdent(col)),
		Summary: fmt.Sprintf("Distinct values of %s.", col),
	}, nil
}

func (t *RuleTranslator) translateHistogram(m []string, ds *model.Dataset) (*Translation, error) {
	col, ok := resolveColumn(m[1], ds)
	if !ok {
		return nil, fmt.Errorf("no column matching %q", m[1])
	}
	sqlText := fmt.Sprintf(
		"SELECT %s, COUNT(*) AS count FROM %s GROUP BY %s ORDER BY %s",
		quoteIdent(col), TableName, quoteIdent(col), quoteIdent(col),
	)
	return &Translation{
		SQL: sqlText,
		Chart: &model.ChartSpec{
			Type:     model.ChartHistogram,
			Title:    fmt.Sprintf("Distribution of %s", col),
			LabelCol: col,
			ValueCol: "count",
		},
		Summary: fmt.Sprintf("Distribution of %s.", col),
	}, nil
}

func aggFunc(word string) string {
	switch strings.ToLower(word) {
	case "average", "avg", "mean":
		return "AVG"
	case "total", "sum":
		return "SUM"
	case "max", "maximum":
		return "MAX"
	case "min", "minimum":
		return "MIN"
	}
	return "SUM"
}

// columnNames implements fuzzy.Source over a dataset's columns.
type columnNames []model.Column

func (c columnNames) String(i int) string { return c[i].Name }
func (c columnNames) Len() int            { return len(c) }

// resolveColumn maps a phrase from the question to a dataset column by
// fuzzy match, so "sales" finds "total_sales" and "dates" finds "date".
func resolveColumn(phrase string, ds *model.Dataset) (string, bool) {
	phrase = strings.TrimSpace(strings.Trim(phrase, `"'`))
	if phrase == "" {
		return "", false
	}

	// Exact match first, case-insensitive.
	for _, c := range ds.Columns {
		if strings.EqualFold(c.Name, phrase) {
			return c.Name, true
		}
	}

	matches := fuzzy.FindFrom(phrase, columnNames(ds.Columns))
	if len(matches) == 0 {
		return "", false
	}
	return ds.Columns[matches[0].Index].Name, true
}
