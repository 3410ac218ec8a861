package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

type mockExecutor struct {
	selectFn   func(ctx context.Context, query string, inference bool) (*sparql.ResultSet, error)
	queries    []string
	inferences []bool
}

func (m *mockExecutor) Select(ctx context.Context, query string, inference bool) (*sparql.ResultSet, error) {
	m.queries = append(m.queries, query)
	m.inferences = append(m.inferences, inference)
	return m.selectFn(ctx, query, inference)
}

type mockFreshness struct {
	calls int
	err   error
}

func (m *mockFreshness) EnsureFresh(ctx context.Context) error {
	m.calls++
	return m.err
}

func rowsResult(rows ...sparql.Row) *sparql.ResultSet {
	return &sparql.ResultSet{Rows: rows}
}

func productRow(subject, id, name, price string) sparql.Row {
	return sparql.Row{
		subject:  {Type: "uri", Value: sparql.BaseOntologyURI + id},
		"nombre": {Type: "literal", Value: name},
		"precio": {Type: "literal", Value: price},
	}
}

// mockSchema declares a flat hierarchy: every listed class descends
// directly from Producto.
type mockSchema struct {
	classes map[string]bool
}

func (m *mockSchema) HasClass(name string) bool { return m.classes[name] }

func (m *mockSchema) IsSubclassOf(child, ancestor string) bool {
	return m.classes[child] && (child == ancestor || ancestor == "Producto")
}

func newService(exec *mockExecutor, freshness *mockFreshness) *Service {
	return NewService(exec, freshness, nil, nil, logging.NewNopLogger())
}

func newServiceWithSchema(exec *mockExecutor, schema *mockSchema) *Service {
	return NewService(exec, &mockFreshness{}, schema, nil, logging.NewNopLogger())
}

func TestListBindsAndSkips(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(
			productRow("producto", "laptop_1", "Laptop", "1000"),
			sparql.Row{"producto": {Type: "uri", Value: "broken"}},
		), nil
	}}

	products, err := newService(exec, &mockFreshness{}).List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "laptop_1", products[0].ID)

	// no limit requested: the default page size applies, no inference
	assert.Contains(t, exec.queries[0], "LIMIT 100")
	assert.Equal(t, []bool{false}, exec.inferences)
}

func TestListClampsLimit(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(), nil
	}}

	_, err := newService(exec, &mockFreshness{}).List(context.Background(), 9000, -5)
	require.NoError(t, err)
	assert.Contains(t, exec.queries[0], "LIMIT 500")
	assert.NotContains(t, exec.queries[0], "OFFSET")
}

func TestGetByID(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(
			sparql.Row{
				"propiedad": {Type: "uri", Value: sparql.BaseOntologyURI + "tieneNombre"},
				"valor":     {Type: "literal", Value: "Laptop Dell"},
			},
			sparql.Row{
				"propiedad": {Type: "uri", Value: sparql.BaseOntologyURI + "tienePrecio"},
				"valor":     {Type: "literal", Value: "1299.99"},
			},
		), nil
	}}

	p, err := newService(exec, &mockFreshness{}).GetByID(context.Background(), "laptop_1")
	require.NoError(t, err)
	assert.Equal(t, "laptop_1", p.ID)
	assert.Equal(t, "Laptop Dell", p.Name)
}

func TestGetByIDNotFound(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(), nil
	}}

	_, err := newService(exec, &mockFreshness{}).GetByID(context.Background(), "fantasma_1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsCode(err, errors.CodeProductNotFound))
}

func TestGetByIDRejectsBadIdentifierWithoutQuerying(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		t.Fatal("must not reach the store")
		return nil, nil
	}}

	_, err := newService(exec, &mockFreshness{}).GetByID(context.Background(), "x} ?s ?p ?o")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, exec.queries)
}

func TestSimilarEnsuresFreshnessAndInference(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(productRow("similar", "laptop_2", "Parecida", "900")), nil
	}}
	freshness := &mockFreshness{}

	products, err := newService(exec, freshness).Similar(context.Background(), "laptop_1", 5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "laptop_2", products[0].ID)
	assert.Equal(t, 1, freshness.calls)
	assert.Equal(t, []bool{true}, exec.inferences)
}

func TestSimilarPropagatesFreshnessFailure(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		t.Fatal("must not query when inference is stale")
		return nil, nil
	}}
	freshness := &mockFreshness{err: errors.New(errors.CodeReasonerTimeout, "run timed out")}

	_, err := newService(exec, freshness).Similar(context.Background(), "laptop_1", 5)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReasonerTimeout))
}

func TestIncompatibleReturnsReasons(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(sparql.Row{
			"incompatible": {Type: "uri", Value: sparql.BaseOntologyURI + "cargador_1"},
			"nombre":       {Type: "literal", Value: "Cargador"},
			"razon":        {Type: "literal", Value: "Sistema operativo diferente"},
		}), nil
	}}
	freshness := &mockFreshness{}

	out, err := newService(exec, freshness).Incompatible(context.Background(), "laptop_1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "cargador_1", out[0].ProductID)
	assert.Equal(t, "Sistema operativo diferente", out[0].Reason)
	assert.Equal(t, 1, freshness.calls)
	assert.Equal(t, []bool{true}, exec.inferences)
}

func TestCompatibleQueryFailurePropagates(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return nil, errors.New(errors.CodeSPARQLConnection, "endpoint down")
	}}

	_, err := newService(exec, &mockFreshness{}).Compatible(context.Background(), "laptop_1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSPARQLConnection))
}

func TestSearchRejectsUndeclaredCategory(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		t.Error("store should not be queried for an unknown category")
		return rowsResult(), nil
	}}
	schema := &mockSchema{classes: map[string]bool{"Laptop": true, "Producto": true}}

	_, err := newServiceWithSchema(exec, schema).Search(context.Background(),
		sparql.SearchParams{Category: "Drones"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCategoryNotFound))
	assert.Empty(t, exec.queries)
}

func TestSearchAcceptsDeclaredCategory(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(productRow("producto", "laptop_1", "Laptop", "1000")), nil
	}}
	schema := &mockSchema{classes: map[string]bool{"Laptop": true, "Producto": true}}

	products, err := newServiceWithSchema(exec, schema).Search(context.Background(),
		sparql.SearchParams{Category: "Laptop"})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestSearchWithoutSchemaSkipsValidation(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return rowsResult(), nil
	}}

	_, err := newService(exec, &mockFreshness{}).Search(context.Background(),
		sparql.SearchParams{Category: "Laptop"})
	require.NoError(t, err)
	assert.Len(t, exec.queries, 1)
}
