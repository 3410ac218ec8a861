// Package sparql contains the query composition, execution, and result
// binding layer for the marketplace knowledge base. Composition is pure and
// side-effect-free: the builder renders structured predicates to SPARQL text
// without touching the network, so it is testable independently of the store.
package sparql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

// BaseOntologyURI is the namespace every marketplace individual lives in.
const BaseOntologyURI = "http://smartcompare.com/ontologia#"

// prefixHeader is attached to every rendered query exactly once. Build is
// idempotent with respect to the header: rendering an already-prefixed query
// never duplicates it.
const prefixHeader = `PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
PREFIX sc: <http://smartcompare.com/ontologia#>
`

// WithPrefixes prepends the standard prefix header unless the query already
// starts with one.
func WithPrefixes(query string) string {
	if strings.HasPrefix(strings.TrimLeft(query, " \t\n"), "PREFIX") {
		return query
	}
	return prefixHeader + "\n" + query
}

// localNameRe matches identifiers that are safe to interpolate as sc: local
// names. Anything else is rejected before composition, which is the injection
// barrier for IDs arriving from the transport layer.
var localNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateLocalName rejects identifiers that cannot be a URI local name.
func ValidateLocalName(id string) error {
	if !localNameRe.MatchString(id) {
		return errors.InvalidParam("identifier is not a valid ontology local name").
			WithDetailf("id=%q", id)
	}
	return nil
}

// escapeLiteral makes a string safe for embedding in a quoted SPARQL literal.
func escapeLiteral(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return r.Replace(s)
}

// Filter is a structured predicate rendered into a query's WHERE clause.
// The four variants cover every dynamic constraint the marketplace composes;
// services never concatenate raw filter text.
type Filter interface {
	renderTo(sb *strings.Builder)
}

// HierarchyFilter constrains a subject to a class or any descendant class
// (transitive subclass semantics). Category filters always use this form,
// never an exact-type match.
type HierarchyFilter struct {
	// Subject is a variable reference such as "?producto".
	Subject string
	// Class is either an sc: local name ("Laptop") or a variable reference
	// ("?categoria") when the class itself is bound elsewhere.
	Class string
}

func (f HierarchyFilter) renderTo(sb *strings.Builder) {
	class := f.Class
	if !strings.HasPrefix(class, "?") {
		class = "sc:" + class
	}
	fmt.Fprintf(sb, "    %s rdf:type/rdfs:subClassOf* %s .\n", f.Subject, class)
}

// RangeFilter constrains a bound numeric variable to an inclusive interval.
// A nil bound leaves that side open.
type RangeFilter struct {
	Var string
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (f RangeFilter) renderTo(sb *strings.Builder) {
	if f.Min != nil {
		fmt.Fprintf(sb, "    FILTER(%s >= %s)\n", f.Var, f.Min.String())
	}
	if f.Max != nil {
		fmt.Fprintf(sb, "    FILTER(%s <= %s)\n", f.Var, f.Max.String())
	}
}

// GreaterThanFilter renders a strictly exclusive numeric lower bound.
// RangeFilter's bounds are inclusive by contract; the best-value price guard
// is the one exclusive comparison in the query set, so it gets its own
// variant.
type GreaterThanFilter struct {
	Var   string
	Bound decimal.Decimal
}

func (f GreaterThanFilter) renderTo(sb *strings.Builder) {
	fmt.Fprintf(sb, "    FILTER(%s > %s)\n", f.Var, f.Bound.String())
}

// EqualityFilter constrains a subject's property chain to an exact literal.
// Each hop in Path introduces a fresh intermediate variable; the final hop's
// object is the quoted literal value.
type EqualityFilter struct {
	Subject string
	Path    []string
	Value   string
}

func (f EqualityFilter) renderTo(sb *strings.Builder) {
	subject := f.Subject
	for i, predicate := range f.Path {
		if i == len(f.Path)-1 {
			fmt.Fprintf(sb, "    %s %s \"%s\" .\n", subject, predicate, escapeLiteral(f.Value))
			return
		}
		hop := fmt.Sprintf("?eq_%s_%d", strings.TrimPrefix(f.Subject, "?"), i)
		fmt.Fprintf(sb, "    %s %s %s .\n", subject, predicate, hop)
		subject = hop
	}
}

// SubstringFilter matches a keyword case-insensitively against one or more
// of the subject's properties, combined with logical OR between properties
// (a UNION of pattern groups) and logical AND with every other filter.
type SubstringFilter struct {
	Subject    string
	Predicates []string
	Keyword    string
}

func (f SubstringFilter) renderTo(sb *strings.Builder) {
	keyword := escapeLiteral(strings.ToLower(f.Keyword))
	for i, predicate := range f.Predicates {
		if i > 0 {
			sb.WriteString("    UNION\n")
		}
		v := fmt.Sprintf("?kw_%d", i)
		fmt.Fprintf(sb, "    {\n        %s %s %s .\n        FILTER(CONTAINS(LCASE(%s), \"%s\"))\n    }\n",
			f.Subject, predicate, v, v, keyword)
	}
}

// SelectQuery accumulates the parts of a SPARQL SELECT and renders them in
// canonical order. Zero values render nothing, so callers only set what the
// operation needs.
type SelectQuery struct {
	distinct    bool
	projections []string
	values      string
	patterns    []string
	unionGroups [][]string
	filters     []Filter
	optionals   []string
	groupBy     string
	having      string
	orderBy     string
	limit       int
	offset      int
	hasOffset   bool
}

// NewSelect starts a query projecting the given variables or expressions.
func NewSelect(projections ...string) *SelectQuery {
	return &SelectQuery{projections: projections}
}

// Distinct marks the projection DISTINCT.
func (q *SelectQuery) Distinct() *SelectQuery {
	q.distinct = true
	return q
}

// Values inlines a VALUES block binding v to the given sc: local names.
func (q *SelectQuery) Values(v string, localNames []string) *SelectQuery {
	terms := make([]string, len(localNames))
	for i, n := range localNames {
		terms[i] = "sc:" + n
	}
	q.values = fmt.Sprintf("    VALUES %s { %s }\n", v, strings.Join(terms, " "))
	return q
}

// Pattern appends a required triple pattern.
func (q *SelectQuery) Pattern(p string) *SelectQuery {
	q.patterns = append(q.patterns, p)
	return q
}

// Union appends a UNION of pattern groups, each group a set of triple
// patterns sharing one block.
func (q *SelectQuery) Union(groups ...[]string) *SelectQuery {
	q.unionGroups = groups
	return q
}

// Filter appends a structured filter.
func (q *SelectQuery) Filter(f Filter) *SelectQuery {
	q.filters = append(q.filters, f)
	return q
}

// Optional appends an OPTIONAL block with the given triple patterns.
func (q *SelectQuery) Optional(patterns ...string) *SelectQuery {
	block := "    OPTIONAL {\n"
	for _, p := range patterns {
		block += "        " + p + "\n"
	}
	block += "    }\n"
	q.optionals = append(q.optionals, block)
	return q
}

// GroupBy sets the GROUP BY clause.
func (q *SelectQuery) GroupBy(expr string) *SelectQuery {
	q.groupBy = expr
	return q
}

// Having sets the HAVING clause.
func (q *SelectQuery) Having(expr string) *SelectQuery {
	q.having = expr
	return q
}

// OrderBy sets the ORDER BY clause; desc wraps the expression in DESC().
func (q *SelectQuery) OrderBy(expr string, desc bool) *SelectQuery {
	if desc {
		q.orderBy = fmt.Sprintf("DESC(%s)", expr)
	} else {
		q.orderBy = expr
	}
	return q
}

// Limit sets the LIMIT clause; non-positive values render no limit.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.limit = n
	return q
}

// Offset sets the OFFSET clause.
func (q *SelectQuery) Offset(n int) *SelectQuery {
	q.offset = n
	q.hasOffset = true
	return q
}

// Build renders the query with the standard prefix header attached.
func (q *SelectQuery) Build() string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if q.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(q.projections, " "))
	sb.WriteString("\nWHERE {\n")

	sb.WriteString(q.values)
	for _, p := range q.patterns {
		sb.WriteString("    " + p + "\n")
	}
	for i, group := range q.unionGroups {
		if i > 0 {
			sb.WriteString("    UNION\n")
		}
		sb.WriteString("    {\n")
		for _, p := range group {
			sb.WriteString("        " + p + "\n")
		}
		sb.WriteString("    }\n")
	}
	for _, f := range q.filters {
		f.renderTo(&sb)
	}
	for _, o := range q.optionals {
		sb.WriteString(o)
	}
	sb.WriteString("}\n")

	if q.groupBy != "" {
		sb.WriteString("GROUP BY " + q.groupBy + "\n")
	}
	if q.having != "" {
		sb.WriteString("HAVING " + q.having + "\n")
	}
	if q.orderBy != "" {
		sb.WriteString("ORDER BY " + q.orderBy + "\n")
	}
	if q.limit > 0 {
		fmt.Fprintf(&sb, "LIMIT %d\n", q.limit)
	}
	if q.hasOffset && q.offset > 0 {
		fmt.Fprintf(&sb, "OFFSET %d\n", q.offset)
	}

	return WithPrefixes(sb.String())
}
