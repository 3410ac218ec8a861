package comparison

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

type mockExecutor struct {
	selectFn func(ctx context.Context, query string, inference bool) (*sparql.ResultSet, error)
}

func (m *mockExecutor) Select(ctx context.Context, query string, inference bool) (*sparql.ResultSet, error) {
	return m.selectFn(ctx, query, inference)
}

type mockGetter struct {
	products map[string]*catalog.Product
}

func (m *mockGetter) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, errors.New(errors.CodeProductNotFound, "product not found")
	}
	return p, nil
}

func comparisonRow(id, name, price, ram string) sparql.Row {
	row := sparql.Row{
		"producto": {Type: "uri", Value: sparql.BaseOntologyURI + id},
		"nombre":   {Type: "literal", Value: name},
		"precio":   {Type: "literal", Value: price},
	}
	if ram != "" {
		row["ram"] = sparql.Term{Type: "literal", Value: ram}
	}
	return row
}

func newService(exec *mockExecutor, getter ProductGetter) *Service {
	return NewService(exec, getter, nil, logging.NewNopLogger())
}

func TestCompare(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return &sparql.ResultSet{Rows: []sparql.Row{
			comparisonRow("laptop_1", "Laptop Cara", "1500", "32"),
			comparisonRow("laptop_2", "Laptop Barata", "800", "16"),
		}}, nil
	}}

	result, err := newService(exec, &mockGetter{}).Compare(context.Background(), []string{"laptop_1", "laptop_2"})
	require.NoError(t, err)

	require.Len(t, result.Products, 2)
	require.NotNil(t, result.BestPrice)
	assert.Equal(t, "laptop_2", result.BestPrice.ID)
	assert.Contains(t, result.Differences, "ram_gb")
}

func TestCompareIDCountBounds(t *testing.T) {
	svc := newService(&mockExecutor{}, &mockGetter{})

	_, err := svc.Compare(context.Background(), []string{"solo_uno"})
	assert.True(t, errors.IsValidation(err))

	ids := make([]string, 11)
	for i := range ids {
		ids[i] = "p"
	}
	_, err = svc.Compare(context.Background(), ids)
	assert.True(t, errors.IsValidation(err))
}

func TestCompareReportsMissingIDs(t *testing.T) {
	exec := &mockExecutor{selectFn: func(context.Context, string, bool) (*sparql.ResultSet, error) {
		return &sparql.ResultSet{Rows: []sparql.Row{
			comparisonRow("laptop_1", "Laptop", "1000", ""),
		}}, nil
	}}

	_, err := newService(exec, &mockGetter{}).Compare(context.Background(),
		[]string{"laptop_1", "fantasma_1", "fantasma_2"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Detail, "fantasma_1,fantasma_2")
}

func TestCompareBySpecs(t *testing.T) {
	laptop, _ := catalog.NewProduct("laptop_1", "Laptop", decimal.NewFromInt(1000))
	laptop.Specs["procesador"] = "i7"
	laptop.Specs["tieneResolucion"] = "1080p"
	phone, _ := catalog.NewProduct("phone_1", "Telefono", decimal.NewFromInt(500))
	phone.Specs["procesador"] = "Snapdragon"

	getter := &mockGetter{products: map[string]*catalog.Product{
		"laptop_1": laptop,
		"phone_1":  phone,
	}}

	table, err := newService(&mockExecutor{}, getter).CompareBySpecs(context.Background(),
		[]string{"laptop_1", "phone_1"})
	require.NoError(t, err)

	i7, snapdragon, res := "i7", "Snapdragon", "1080p"
	assert.Equal(t, []*string{&i7, &snapdragon}, table.Rows["procesador"])
	// the phone never asserts a resolution, its cell stays nil
	assert.Equal(t, []*string{&res, nil}, table.Rows["tieneResolucion"])
}

func TestCompareBySpecsPropagatesNotFound(t *testing.T) {
	getter := &mockGetter{products: map[string]*catalog.Product{}}
	_, err := newService(&mockExecutor{}, getter).CompareBySpecs(context.Background(),
		[]string{"a_1", "b_2"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBestValue(t *testing.T) {
	exec := &mockExecutor{selectFn: func(ctx context.Context, query string, inference bool) (*sparql.ResultSet, error) {
		assert.Contains(t, query, "LIMIT 10")
		return &sparql.ResultSet{Rows: []sparql.Row{
			{
				"producto":       {Type: "uri", Value: sparql.BaseOntologyURI + "laptop_1"},
				"nombre":         {Type: "literal", Value: "Laptop"},
				"precio":         {Type: "literal", Value: "1000"},
				"ram":            {Type: "literal", Value: "16"},
				"almacenamiento": {Type: "literal", Value: "512"},
				"valorScore":     {Type: "literal", Value: "0.528"},
			},
		}}, nil
	}}

	entries, err := newService(exec, &mockGetter{}).BestValue(context.Background(), "Laptop", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "laptop_1", entries[0].ProductID)
	assert.InDelta(t, 0.528, entries[0].ValueScore, 1e-9)
}
