// Package query assembles parameterized SQL from composable fragments.
//
// Fragments reference named arguments as @name. Compile rewrites them to
// positional $n placeholders in first-appearance order, so independent
// fragments (strategy filters, feature joins, feature scores) can be
// combined without coordinating argument positions.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrMissingArg means a fragment referenced a named argument that was
	// never bound.
	ErrMissingArg = errors.New("query references unbound argument")

	// ErrUnusedArg means an argument was bound but no fragment references
	// it. Surfacing this catches features that bind arguments despite being
	// disabled.
	ErrUnusedArg = errors.New("query binds unreferenced argument")
)

var argPattern = regexp.MustCompile(`@([a-zA-Z_][a-zA-Z0-9_]*)`)

// Compiled is a ready-to-execute query: positional SQL plus its arguments.
type Compiled struct {
	SQL  string
	Args []any
}

// Compile rewrites @name placeholders in sql to $n positional placeholders
// and returns the arguments in placeholder order. Every referenced name must
// be bound and every bound name must be referenced.
func Compile(sql string, args map[string]any) (*Compiled, error) {
	positions := make(map[string]int, len(args))
	ordered := make([]any, 0, len(args))
	var missing []string

	out := argPattern.ReplaceAllStringFunc(sql, func(m string) string {
		name := m[1:]
		if n, ok := positions[name]; ok {
			return "$" + strconv.Itoa(n)
		}
		value, ok := args[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		ordered = append(ordered, value)
		positions[name] = len(ordered)
		return "$" + strconv.Itoa(len(ordered))
	})

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingArg, strings.Join(missing, ", "))
	}

	var unused []string
	for name := range args {
		if _, ok := positions[name]; !ok {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return nil, fmt.Errorf("%w: %s", ErrUnusedArg, strings.Join(unused, ", "))
	}

	return &Compiled{SQL: out, Args: ordered}, nil
}

// scoreTerm is one weighted contributor to a composite ORDER BY expression.
type scoreTerm struct {
	weight float64
	expr   string
}

// Builder accumulates joins, filters, weighted score terms and named
// arguments for a single candidate-selection query over posts.
type Builder struct {
	from    string
	selects string
	joins   []string
	filters []string
	scores  []scoreTerm
	orderBy string
	limit   string
	args    map[string]any
}

// NewBuilder starts a query over the given FROM source, selecting p.* by
// default.
func NewBuilder(from string) *Builder {
	return &Builder{
		from:    from,
		selects: "p.*",
		args:    make(map[string]any),
	}
}

// Select overrides the projection.
func (b *Builder) Select(cols string) *Builder {
	b.selects = cols
	return b
}

// Join appends a join fragment. Empty fragments are ignored so disabled
// features can return "".
func (b *Builder) Join(fragment string) *Builder {
	if strings.TrimSpace(fragment) != "" {
		b.joins = append(b.joins, fragment)
	}
	return b
}

// Where appends a filter fragment; all fragments are AND-ed.
func (b *Builder) Where(fragment string) *Builder {
	if strings.TrimSpace(fragment) != "" {
		b.filters = append(b.filters, fragment)
	}
	return b
}

// Score adds a weighted term to the composite score expression. Zero-weight
// terms are dropped.
func (b *Builder) Score(weight float64, expr string) *Builder {
	if weight != 0 && strings.TrimSpace(expr) != "" {
		b.scores = append(b.scores, scoreTerm{weight: weight, expr: expr})
	}
	return b
}

// OrderBy sets an explicit ORDER BY expression, overriding the composite
// score expression.
func (b *Builder) OrderBy(expr string) *Builder {
	b.orderBy = expr
	return b
}

// Limit binds the row limit under the given argument name.
func (b *Builder) Limit(argName string, n int) *Builder {
	b.limit = "@" + argName
	b.args[argName] = n
	return b
}

// Bind attaches a named argument value.
func (b *Builder) Bind(name string, value any) *Builder {
	b.args[name] = value
	return b
}

// BindAll attaches a set of named argument values.
func (b *Builder) BindAll(args map[string]any) *Builder {
	for name, value := range args {
		b.args[name] = value
	}
	return b
}

// ScoreExpression returns the weighted sum of all score terms, or "" when no
// terms were added.
func (b *Builder) ScoreExpression() string {
	if len(b.scores) == 0 {
		return ""
	}
	terms := make([]string, 0, len(b.scores))
	for _, t := range b.scores {
		terms = append(terms, fmt.Sprintf("(%v * (%s))", t.weight, t.expr))
	}
	return strings.Join(terms, " + ")
}

// Args returns the accumulated named arguments.
func (b *Builder) Args() map[string]any {
	return b.args
}

// SQL renders the uncompiled query text with @name placeholders intact.
func (b *Builder) SQL() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.selects)
	sb.WriteString("\nFROM ")
	sb.WriteString(b.from)
	for _, j := range b.joins {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(j))
	}
	if len(b.filters) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(b.filters, "\n  AND "))
	}
	order := b.orderBy
	if order == "" {
		order = b.ScoreExpression()
		if order != "" {
			order = "(" + order + ") DESC"
		}
	}
	if order != "" {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(order)
	}
	if b.limit != "" {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(b.limit)
	}
	return sb.String()
}

// Compile renders and compiles the query in one step.
func (b *Builder) Compile() (*Compiled, error) {
	return Compile(b.SQL(), b.args)
}
