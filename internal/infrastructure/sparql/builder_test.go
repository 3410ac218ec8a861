package sparql

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPrefixesIdempotent(t *testing.T) {
	q := NewSelect("?s").Pattern("?s ?p ?o .").Build()
	assert.Equal(t, 1, strings.Count(q, "PREFIX sc:"))

	again := WithPrefixes(q)
	assert.Equal(t, q, again)
	assert.Equal(t, 1, strings.Count(again, "PREFIX sc:"))
}

func TestWithPrefixesLeadingWhitespace(t *testing.T) {
	q := "\n  PREFIX sc: <http://smartcompare.com/ontologia#>\nSELECT ?s WHERE { ?s ?p ?o }"
	assert.Equal(t, q, WithPrefixes(q))
}

func TestValidateLocalName(t *testing.T) {
	valid := []string{"laptop_1", "Laptop", "user_maria", "v1.2-beta", "_internal"}
	for _, id := range valid {
		assert.NoError(t, ValidateLocalName(id), id)
	}

	invalid := []string{
		"",
		"1laptop",
		"laptop 1",
		"laptop} . ?s ?p ?o",
		"sc:laptop",
		"a/b",
		"x\ny",
	}
	for _, id := range invalid {
		assert.Error(t, ValidateLocalName(id), id)
	}
}

func TestHierarchyFilterRendering(t *testing.T) {
	q := NewSelect("?producto").
		Filter(HierarchyFilter{Subject: "?producto", Class: "Laptop"}).
		Build()
	assert.Contains(t, q, "?producto rdf:type/rdfs:subClassOf* sc:Laptop .")

	q = NewSelect("?producto").
		Filter(HierarchyFilter{Subject: "?producto", Class: "?categoria"}).
		Build()
	assert.Contains(t, q, "?producto rdf:type/rdfs:subClassOf* ?categoria .")
}

func TestRangeFilterInclusiveBounds(t *testing.T) {
	min := decimal.RequireFromString("100")
	max := decimal.RequireFromString("999.99")

	q := NewSelect("?p").Filter(RangeFilter{Var: "?precio", Min: &min, Max: &max}).Build()
	assert.Contains(t, q, "FILTER(?precio >= 100)")
	assert.Contains(t, q, "FILTER(?precio <= 999.99)")

	q = NewSelect("?p").Filter(RangeFilter{Var: "?precio", Min: &min}).Build()
	assert.Contains(t, q, ">=")
	assert.NotContains(t, q, "<=")

	q = NewSelect("?p").Filter(RangeFilter{Var: "?precio"}).Build()
	assert.NotContains(t, q, "FILTER")
}

func TestGreaterThanFilterExclusive(t *testing.T) {
	q := NewSelect("?p").Filter(GreaterThanFilter{Var: "?precio", Bound: decimal.Zero}).Build()
	assert.Contains(t, q, "FILTER(?precio > 0)")
	assert.NotContains(t, q, ">=")
}

func TestEqualityFilterPropertyPath(t *testing.T) {
	var sb strings.Builder
	EqualityFilter{
		Subject: "?producto",
		Path:    []string{"sc:tieneMarca", "sc:tieneNombre"},
		Value:   "Dell",
	}.renderTo(&sb)

	out := sb.String()
	assert.Contains(t, out, "?producto sc:tieneMarca ?eq_producto_0 .")
	assert.Contains(t, out, "?eq_producto_0 sc:tieneNombre \"Dell\" .")
}

func TestEqualityFilterEscapesLiteral(t *testing.T) {
	var sb strings.Builder
	EqualityFilter{
		Subject: "?p",
		Path:    []string{"sc:tieneNombre"},
		Value:   `Dell" } . ?x ?y ?z`,
	}.renderTo(&sb)
	assert.Contains(t, sb.String(), `\"`)
	assert.NotContains(t, sb.String(), `"Dell" }`)
}

func TestSubstringFilterUnionOverPredicates(t *testing.T) {
	var sb strings.Builder
	SubstringFilter{
		Subject:    "?producto",
		Predicates: []string{"sc:tieneNombre", "sc:tieneDescripcion"},
		Keyword:    "Gaming",
	}.renderTo(&sb)

	out := sb.String()
	assert.Equal(t, 1, strings.Count(out, "UNION"))
	assert.Contains(t, out, "FILTER(CONTAINS(LCASE(?kw_0), \"gaming\"))")
	assert.Contains(t, out, "FILTER(CONTAINS(LCASE(?kw_1), \"gaming\"))")
	assert.Contains(t, out, "?producto sc:tieneDescripcion ?kw_1 .")
}

func TestSelectQueryClauseOrder(t *testing.T) {
	q := NewSelect("?categoria", "(COUNT(?p) AS ?n)").
		Pattern("?p rdf:type ?categoria .").
		GroupBy("?categoria").
		Having("(COUNT(?p) > 0)").
		OrderBy("?n", true).
		Limit(10).
		Offset(20).
		Build()

	require.Contains(t, q, "GROUP BY ?categoria")
	require.Contains(t, q, "HAVING (COUNT(?p) > 0)")
	require.Contains(t, q, "ORDER BY DESC(?n)")
	require.Contains(t, q, "LIMIT 10")
	require.Contains(t, q, "OFFSET 20")

	order := []string{"SELECT", "WHERE {", "GROUP BY", "HAVING", "ORDER BY", "LIMIT", "OFFSET"}
	pos := -1
	for _, clause := range order {
		i := strings.Index(q, clause)
		require.Greater(t, i, pos, clause)
		pos = i
	}
}

func TestSelectQueryZeroLimitOmitted(t *testing.T) {
	q := NewSelect("?s").Pattern("?s ?p ?o .").Limit(0).Offset(0).Build()
	assert.NotContains(t, q, "LIMIT")
	assert.NotContains(t, q, "OFFSET")
}

func TestSelectQueryValuesBlock(t *testing.T) {
	q := NewSelect("?producto").
		Values("?producto", []string{"laptop_1", "laptop_2"}).
		Pattern("?producto sc:tieneNombre ?nombre .").
		Build()
	assert.Contains(t, q, "VALUES ?producto { sc:laptop_1 sc:laptop_2 }")
}

func TestSelectQueryUnionGroups(t *testing.T) {
	q := NewSelect("?x").
		Union(
			[]string{"?x sc:a ?y ."},
			[]string{"?y sc:b ?x ."},
			[]string{"?x sc:c ?z ."},
		).
		Build()
	assert.Equal(t, 2, strings.Count(q, "UNION"))
}
