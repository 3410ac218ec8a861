package sparql

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllProducts(t *testing.T) {
	q := AllProducts(50, 100)
	assert.Contains(t, q, "SELECT DISTINCT ?producto")
	assert.Contains(t, q, "?producto rdf:type/rdfs:subClassOf* sc:Producto .")
	assert.Contains(t, q, "?producto sc:tienePrecio ?precio .")
	assert.Contains(t, q, "ORDER BY ?nombre")
	assert.Contains(t, q, "LIMIT 50")
	assert.Contains(t, q, "OFFSET 100")
}

func TestProductByID(t *testing.T) {
	q, err := ProductByID("laptop_dell_xps")
	require.NoError(t, err)
	assert.Contains(t, q, "sc:laptop_dell_xps ?propiedad ?valor .")

	_, err = ProductByID("laptop} ?s ?p ?o")
	assert.Error(t, err)
}

func TestSearchProductsNoFilters(t *testing.T) {
	q, err := SearchProducts(SearchParams{Limit: 20})
	require.NoError(t, err)
	assert.NotContains(t, q, "FILTER(?precio")
	assert.NotContains(t, q, "CONTAINS")
	assert.Contains(t, q, "ORDER BY ?precio")
	assert.Contains(t, q, "LIMIT 20")
}

func TestSearchProductsAllFilters(t *testing.T) {
	min := decimal.RequireFromString("500")
	max := decimal.RequireFromString("1500")
	q, err := SearchProducts(SearchParams{
		Category: "Laptop",
		MinPrice: &min,
		MaxPrice: &max,
		Brand:    "Dell",
		Keyword:  "Gaming",
		Limit:    10,
	})
	require.NoError(t, err)

	// category uses subclass semantics, never an exact type match
	assert.Contains(t, q, "?producto rdf:type/rdfs:subClassOf* sc:Laptop .")
	// bounds are inclusive
	assert.Contains(t, q, "FILTER(?precio >= 500)")
	assert.Contains(t, q, "FILTER(?precio <= 1500)")
	// brand matches through the two-hop path to the brand name
	assert.Contains(t, q, "sc:tieneMarca ?eq_producto_0 .")
	assert.Contains(t, q, "?eq_producto_0 sc:tieneNombre \"Dell\" .")
	// keyword matches name or description, case-insensitively
	assert.Contains(t, q, "LCASE(?kw_0)")
	assert.Contains(t, q, "\"gaming\"")
}

func TestSearchProductsRejectsBadCategory(t *testing.T) {
	_, err := SearchProducts(SearchParams{Category: "Laptop . ?s ?p ?o"})
	assert.Error(t, err)
}

func TestSimilarProducts(t *testing.T) {
	q, err := SimilarProducts("laptop_1", 10)
	require.NoError(t, err)
	assert.Contains(t, q, "sc:laptop_1 sc:esSimilarA ?similar .")
	assert.Contains(t, q, "?similar sc:esSimilarA sc:laptop_1 .")
	assert.Contains(t, q, "sc:laptop_1 sc:esEquivalenteTecnico ?similar .")
	assert.Equal(t, 2, strings.Count(q, "UNION"))
	assert.Contains(t, q, "LIMIT 10")
}

func TestCompatibleProductsBidirectional(t *testing.T) {
	q, err := CompatibleProducts("mouse_1")
	require.NoError(t, err)
	assert.Contains(t, q, "sc:mouse_1 sc:esCompatibleCon ?compatible .")
	assert.Contains(t, q, "?compatible sc:esCompatibleCon sc:mouse_1 .")
}

func TestIncompatibleProductsReason(t *testing.T) {
	q, err := IncompatibleProducts("laptop_1")
	require.NoError(t, err)
	assert.Contains(t, q, "FILTER(?so1 != ?so2)")
	assert.Contains(t, q, "BIND(\"Sistema operativo diferente\" AS ?razon)")
	assert.Contains(t, q, "OPTIONAL")
}

func TestCompareProducts(t *testing.T) {
	q, err := CompareProducts([]string{"laptop_1", "laptop_2", "laptop_3"})
	require.NoError(t, err)
	assert.Contains(t, q, "VALUES ?producto { sc:laptop_1 sc:laptop_2 sc:laptop_3 }")
	assert.Contains(t, q, "sc:tieneRAM_GB ?ram")
	assert.Contains(t, q, "sc:tieneAlmacenamiento_GB ?almacenamiento")

	_, err = CompareProducts([]string{"laptop_1", "x; DROP"})
	assert.Error(t, err)
}

func TestBestValueInCategory(t *testing.T) {
	q, err := BestValueInCategory("Laptop", 5)
	require.NoError(t, err)
	assert.Contains(t, q, "((?ram + ?almacenamiento) / ?precio AS ?valorScore)")
	// strictly positive price keeps the division defined
	assert.Contains(t, q, "FILTER(?precio > 0)")
	assert.Contains(t, q, "ORDER BY DESC(?valorScore)")
	assert.Contains(t, q, "LIMIT 5")
}

func TestRecommendationsForUser(t *testing.T) {
	q, err := RecommendationsForUser("user_maria", 10)
	require.NoError(t, err)
	assert.Contains(t, q, "SELECT DISTINCT")
	assert.Contains(t, q, "?producto sc:esRecomendadoPara sc:user_maria .")
	assert.Contains(t, q, "BIND(\"Recomendado por perfil\" AS ?razon)")
	assert.Contains(t, q, "?producto sc:estaDentroPresupuesto sc:user_maria .")
	assert.Contains(t, q, "BIND(\"Dentro de presupuesto\" AS ?razon)")
	assert.Contains(t, q, "sc:user_maria sc:prefiereCategoria ?categoria .")
	assert.Contains(t, q, "BIND(\"Categoría preferida\" AS ?razon)")
	assert.Equal(t, 2, strings.Count(q, "UNION"))
}

func TestUserBudgetProducts(t *testing.T) {
	q, err := UserBudgetProducts("user_maria")
	require.NoError(t, err)
	assert.Contains(t, q, "sc:user_maria sc:presupuestoMaximo ?presupuesto .")
	assert.Contains(t, q, "FILTER(?precio <= ?presupuesto)")
	assert.Contains(t, q, "ORDER BY DESC(?precio)")
}

func TestAggregationQueries(t *testing.T) {
	q := PriceRangeByCategory()
	assert.Contains(t, q, "(MIN(?precio) AS ?precioMinimo)")
	assert.Contains(t, q, "(AVG(?precio) AS ?precioPromedio)")
	assert.Contains(t, q, "GROUP BY ?categoria")
	assert.Contains(t, q, "?categoria rdfs:subClassOf* sc:Producto .")

	q = VendorStatistics()
	assert.Contains(t, q, "GROUP BY ?vendedor")
	assert.Contains(t, q, "(COUNT(?producto) AS ?totalProductos)")
	assert.Contains(t, q, "ORDER BY DESC(?totalProductos)")

	q = BrandComparison()
	assert.Contains(t, q, "GROUP BY ?marca")
	assert.Contains(t, q, "HAVING (COUNT(?producto) > 0)")
}
