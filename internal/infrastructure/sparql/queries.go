package sparql

import (
	"github.com/shopspring/decimal"
)

// SearchParams carries the optional product search filters. Nil / empty
// fields compose to no constraint; active filters combine with logical AND.
type SearchParams struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Brand    string
	Keyword  string
	Limit    int
	Offset   int
}

// AllProducts lists products of any category with their basic properties,
// paginated and ordered by name.
func AllProducts(limit, offset int) string {
	return NewSelect("?producto", "?nombre", "?precio", "?descripcion", "?stock", "?marca", "?vendedor").
		Distinct().
		Filter(HierarchyFilter{Subject: "?producto", Class: "Producto"}).
		Pattern("?producto sc:tieneNombre ?nombre .").
		Pattern("?producto sc:tienePrecio ?precio .").
		Optional("?producto sc:tieneDescripcion ?descripcion .").
		Optional("?producto sc:tieneStock ?stock .").
		Optional("?producto sc:tieneMarca ?marcaUri .", "?marcaUri sc:tieneNombre ?marca .").
		Optional("?producto sc:vendidoPor ?vendedorUri .", "?vendedorUri sc:tieneNombre ?vendedor .").
		OrderBy("?nombre", false).
		Limit(limit).
		Offset(offset).
		Build()
}

// ProductByID fetches every property of a single product as flat
// property/value rows.
func ProductByID(productID string) (string, error) {
	if err := ValidateLocalName(productID); err != nil {
		return "", err
	}
	return NewSelect("?propiedad", "?valor").
		Pattern("sc:" + productID + " ?propiedad ?valor .").
		Build(), nil
}

// SearchProducts composes the filtered product search. Category filters use
// transitive subclass semantics, price bounds are inclusive, and the keyword
// matches name OR description case-insensitively.
func SearchProducts(p SearchParams) (string, error) {
	q := NewSelect("?producto", "?nombre", "?precio", "?stock", "?marca", "?vendedor", "?categoria").
		Distinct().
		Pattern("?producto rdf:type ?categoria .").
		Filter(HierarchyFilter{Subject: "?producto", Class: "Producto"}).
		Pattern("?producto sc:tieneNombre ?nombre .").
		Pattern("?producto sc:tienePrecio ?precio .")

	if p.Category != "" {
		if err := ValidateLocalName(p.Category); err != nil {
			return "", err
		}
		q.Filter(HierarchyFilter{Subject: "?producto", Class: p.Category})
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		q.Filter(RangeFilter{Var: "?precio", Min: p.MinPrice, Max: p.MaxPrice})
	}
	if p.Brand != "" {
		q.Filter(EqualityFilter{
			Subject: "?producto",
			Path:    []string{"sc:tieneMarca", "sc:tieneNombre"},
			Value:   p.Brand,
		})
	}
	if p.Keyword != "" {
		q.Filter(SubstringFilter{
			Subject:    "?producto",
			Predicates: []string{"sc:tieneNombre", "sc:tieneDescripcion"},
			Keyword:    p.Keyword,
		})
	}

	return q.
		Optional("?producto sc:tieneStock ?stock .").
		Optional("?producto sc:tieneMarca ?marcaUri .", "?marcaUri sc:tieneNombre ?marca .").
		Optional("?producto sc:vendidoPor ?vendedorUri .", "?vendedorUri sc:tieneNombre ?vendedor .").
		OrderBy("?precio", false).
		Limit(p.Limit).
		Offset(p.Offset).
		Build(), nil
}

// SimilarProducts fetches products related to productID through similarity
// or technical-equivalence properties, in either direction.
func SimilarProducts(productID string, limit int) (string, error) {
	if err := ValidateLocalName(productID); err != nil {
		return "", err
	}
	return NewSelect("?similar", "?nombre", "?precio", "?marca").
		Distinct().
		Union(
			[]string{"sc:" + productID + " sc:esSimilarA ?similar ."},
			[]string{"?similar sc:esSimilarA sc:" + productID + " ."},
			[]string{"sc:" + productID + " sc:esEquivalenteTecnico ?similar ."},
		).
		Pattern("?similar sc:tieneNombre ?nombre .").
		Pattern("?similar sc:tienePrecio ?precio .").
		Optional("?similar sc:tieneMarca ?marcaUri .", "?marcaUri sc:tieneNombre ?marca .").
		Limit(limit).
		Build(), nil
}

// CompatibleProducts fetches products declared compatible with productID in
// either direction.
func CompatibleProducts(productID string) (string, error) {
	if err := ValidateLocalName(productID); err != nil {
		return "", err
	}
	return NewSelect("?compatible", "?nombre", "?precio").
		Distinct().
		Union(
			[]string{"sc:" + productID + " sc:esCompatibleCon ?compatible ."},
			[]string{"?compatible sc:esCompatibleCon sc:" + productID + " ."},
		).
		Pattern("?compatible sc:tieneNombre ?nombre .").
		Pattern("?compatible sc:tienePrecio ?precio .").
		Build(), nil
}

// IncompatibleProducts fetches products declared incompatible with
// productID, with a derived reason when the operating systems differ.
func IncompatibleProducts(productID string) (string, error) {
	if err := ValidateLocalName(productID); err != nil {
		return "", err
	}
	return NewSelect("?incompatible", "?nombre", "?razon").
		Distinct().
		Union(
			[]string{"sc:" + productID + " sc:incompatibleCon ?incompatible ."},
			[]string{"?incompatible sc:incompatibleCon sc:" + productID + " ."},
		).
		Pattern("?incompatible sc:tieneNombre ?nombre .").
		Optional(
			"sc:"+productID+" sc:tieneSistemaOperativo ?so1 .",
			"?incompatible sc:tieneSistemaOperativo ?so2 .",
			"FILTER(?so1 != ?so2)",
			"BIND(\"Sistema operativo diferente\" AS ?razon)",
		).
		Build(), nil
}

// CompareProducts fetches the comparable specification set for every product
// in ids in one query via a VALUES block.
func CompareProducts(ids []string) (string, error) {
	for _, id := range ids {
		if err := ValidateLocalName(id); err != nil {
			return "", err
		}
	}
	return NewSelect("?producto", "?nombre", "?precio", "?ram", "?almacenamiento", "?pulgadas", "?procesador", "?so").
		Values("?producto", ids).
		Pattern("?producto sc:tieneNombre ?nombre .").
		Pattern("?producto sc:tienePrecio ?precio .").
		Optional("?producto sc:tieneRAM_GB ?ram .").
		Optional("?producto sc:tieneAlmacenamiento_GB ?almacenamiento .").
		Optional("?producto sc:tienePulgadas ?pulgadas .").
		Optional("?producto sc:procesadorModelo ?procesador .").
		Optional("?producto sc:tieneSistemaOperativo ?soUri .", "?soUri sc:tieneNombre ?so .").
		Build(), nil
}

// BestValueInCategory ranks a category's products by the value score
// (ram + storage) / price. The price guard keeps the division defined.
func BestValueInCategory(category string, limit int) (string, error) {
	if err := ValidateLocalName(category); err != nil {
		return "", err
	}
	return NewSelect("?producto", "?nombre", "?precio", "?ram", "?almacenamiento",
		"((?ram + ?almacenamiento) / ?precio AS ?valorScore)").
		Filter(HierarchyFilter{Subject: "?producto", Class: category}).
		Pattern("?producto sc:tieneNombre ?nombre .").
		Pattern("?producto sc:tienePrecio ?precio .").
		Pattern("?producto sc:tieneRAM_GB ?ram .").
		Pattern("?producto sc:tieneAlmacenamiento_GB ?almacenamiento .").
		Filter(GreaterThanFilter{Var: "?precio", Bound: decimal.Zero}).
		OrderBy("?valorScore", true).
		Limit(limit).
		Build(), nil
}

// RecommendationsForUser unions the three semantic recommendation sources,
// each tagged with its reason string. DISTINCT gives the cross-source
// deduplication by product identity.
func RecommendationsForUser(userID string, limit int) (string, error) {
	if err := ValidateLocalName(userID); err != nil {
		return "", err
	}
	return NewSelect("?producto", "?nombre", "?precio", "?razon").
		Distinct().
		Union(
			[]string{
				"?producto sc:esRecomendadoPara sc:" + userID + " .",
				"BIND(\"Recomendado por perfil\" AS ?razon)",
			},
			[]string{
				"?producto sc:estaDentroPresupuesto sc:" + userID + " .",
				"BIND(\"Dentro de presupuesto\" AS ?razon)",
			},
			[]string{
				"sc:" + userID + " sc:prefiereCategoria ?categoria .",
				"?producto rdf:type/rdfs:subClassOf* ?categoria .",
				"BIND(\"Categoría preferida\" AS ?razon)",
			},
		).
		Pattern("?producto sc:tieneNombre ?nombre .").
		Pattern("?producto sc:tienePrecio ?precio .").
		Limit(limit).
		Build(), nil
}

// UserBudgetProducts lists every product whose price fits the user's stated
// maximum budget, most expensive first.
func UserBudgetProducts(userID string) (string, error) {
	if err := ValidateLocalName(userID); err != nil {
		return "", err
	}
	return NewSelect("?producto", "?nombre", "?precio").
		Pattern("sc:" + userID + " sc:presupuestoMaximo ?presupuesto .").
		Filter(HierarchyFilter{Subject: "?producto", Class: "Producto"}).
		Pattern("?producto sc:tieneNombre ?nombre .").
		Pattern("?producto sc:tienePrecio ?precio .").
		Pattern("FILTER(?precio <= ?presupuesto)").
		OrderBy("?precio", true).
		Build(), nil
}

// PriceRangeByCategory aggregates price statistics per product category.
func PriceRangeByCategory() string {
	return NewSelect("?categoria",
		"(MIN(?precio) AS ?precioMinimo)",
		"(MAX(?precio) AS ?precioMaximo)",
		"(AVG(?precio) AS ?precioPromedio)",
		"(COUNT(?producto) AS ?totalProductos)").
		Pattern("?producto rdf:type ?categoria .").
		Pattern("?categoria rdfs:subClassOf* sc:Producto .").
		Pattern("?producto sc:tienePrecio ?precio .").
		GroupBy("?categoria").
		OrderBy("?totalProductos", true).
		Build()
}

// VendorStatistics aggregates product counts and price statistics per vendor.
func VendorStatistics() string {
	return NewSelect("?vendedor",
		"(COUNT(?producto) AS ?totalProductos)",
		"(AVG(?precio) AS ?precioPromedio)",
		"(MIN(?precio) AS ?precioMinimo)",
		"(MAX(?precio) AS ?precioMaximo)").
		Pattern("?producto sc:vendidoPor ?vendedorUri .").
		Pattern("?vendedorUri sc:tieneNombre ?vendedor .").
		Pattern("?producto sc:tienePrecio ?precio .").
		GroupBy("?vendedor").
		OrderBy("?totalProductos", true).
		Build()
}

// BrandComparison aggregates product counts and average price per brand.
func BrandComparison() string {
	return NewSelect("?marca",
		"(COUNT(?producto) AS ?totalProductos)",
		"(AVG(?precio) AS ?precioPromedio)").
		Pattern("?producto sc:tieneMarca ?marcaUri .").
		Pattern("?marcaUri sc:tieneNombre ?marca .").
		Pattern("?producto sc:tienePrecio ?precio .").
		GroupBy("?marca").
		Having("(COUNT(?producto) > 0)").
		OrderBy("?totalProductos", true).
		Build()
}
