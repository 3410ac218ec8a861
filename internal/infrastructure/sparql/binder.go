package sparql

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/market"
)

// The binder converts loosely-structured binding rows into typed entities.
// A row that is missing a required field or carries an unparseable value is
// skipped silently; the batch never fails because of one bad row. BindStats
// exposes the skip count as an observability side channel — callers log it,
// nothing else.

// BindStats counts the outcome of one binding pass.
type BindStats struct {
	Bound   int
	Skipped int
}

// LocalName extracts an identifier from a URI: the substring after the last
// fragment separator if present, else after the last path separator, else
// the URI unchanged. Pure and deterministic.
func LocalName(uri string) string {
	if i := strings.LastIndex(uri, "#"); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// str returns the term value for name, and whether the variable was bound.
func (r Row) str(name string) (string, bool) {
	t, ok := r[name]
	if !ok || t.Value == "" {
		return "", false
	}
	return t.Value, true
}

// dec parses the term for name as a decimal.
func (r Row) dec(name string) (decimal.Decimal, bool) {
	s, ok := r.str(name)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// integer parses the term for name as an int.
func (r Row) integer(name string) (int, bool) {
	s, ok := r.str(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// float parses the term for name as a float64.
func (r Row) float(name string) (float64, bool) {
	s, ok := r.str(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// bindProduct builds one Product from a row whose subject is bound to
// subjectVar. Required: subject URI, name, non-negative decimal price. A
// row carrying a negative stock is invalid as a whole, not salvaged by
// dropping the field.
func bindProduct(row Row, subjectVar string) (*catalog.Product, bool) {
	uri, ok := row.str(subjectVar)
	if !ok {
		return nil, false
	}
	name, ok := row.str("nombre")
	if !ok {
		return nil, false
	}
	price, ok := row.dec("precio")
	if !ok {
		return nil, false
	}

	p, err := catalog.NewProduct(LocalName(uri), name, price)
	if err != nil {
		return nil, false
	}
	p.URI = uri

	if v, ok := row.str("descripcion"); ok {
		p.Description = v
	}
	if v, ok := row.integer("stock"); ok {
		// stock, when present, must be non-negative
		if v < 0 {
			return nil, false
		}
		p.Stock = &v
	}
	if v, ok := row.str("categoria"); ok {
		p.Category = LocalName(v)
	}
	if v, ok := row.str("marca"); ok {
		p.Brand = v
	}
	if v, ok := row.str("vendedor"); ok {
		p.Vendor = v
	}
	return p, true
}

// BindProducts binds every row to a Product, skipping malformed rows. The
// subject variable differs per query family ("producto", "similar",
// "compatible"), so the caller names it.
func BindProducts(rows []Row, subjectVar string) ([]*catalog.Product, BindStats) {
	products := make([]*catalog.Product, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		p, ok := bindProduct(row, subjectVar)
		if !ok {
			stats.Skipped++
			continue
		}
		products = append(products, p)
		stats.Bound++
	}
	return products, stats
}

// BindComparisonProducts binds the projection of CompareProducts, lifting
// the typed specification columns into the product's Specs mapping.
func BindComparisonProducts(rows []Row) ([]*catalog.Product, BindStats) {
	products := make([]*catalog.Product, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		p, ok := bindProduct(row, "producto")
		if !ok {
			stats.Skipped++
			continue
		}
		if v, ok := row.integer("ram"); ok {
			p.Specs["ram_gb"] = v
		}
		if v, ok := row.integer("almacenamiento"); ok {
			p.Specs["almacenamiento_gb"] = v
		}
		if v, ok := row.float("pulgadas"); ok {
			p.Specs["pulgadas"] = v
		}
		if v, ok := row.str("procesador"); ok {
			p.Specs["procesador"] = v
		}
		if v, ok := row.str("so"); ok {
			p.Specs["sistema_operativo"] = v
		}
		products = append(products, p)
		stats.Bound++
	}
	return products, stats
}

// ProductFromProperties reconstructs a single product from flat
// property/value rows (one row per fact, as returned by ProductByID).
// Recognized property names map to structured fields; everything else lands
// in the Specs mapping. Missing name or price fall back to defaults, the
// same tolerance the list binder applies per row.
func ProductFromProperties(productID string, rows []Row) *catalog.Product {
	name := "Producto " + productID
	price := decimal.Zero
	var description string
	var stock *int
	specs := make(map[string]interface{})

	for _, row := range rows {
		propURI, ok := row.str("propiedad")
		if !ok {
			continue
		}
		value, ok := row.str("valor")
		if !ok {
			continue
		}
		switch LocalName(propURI) {
		case "tieneNombre":
			name = value
		case "tienePrecio":
			if d, err := decimal.NewFromString(value); err == nil && !d.IsNegative() {
				price = d
			}
		case "tieneDescripcion":
			description = value
		case "tieneStock":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				stock = &n
			}
		default:
			specs[LocalName(propURI)] = value
		}
	}

	p, err := catalog.NewProduct(productID, name, price)
	if err != nil {
		// price was validated above; reachable only with a zero-value bug
		p, _ = catalog.NewProduct(productID, name, decimal.Zero)
	}
	p.Description = description
	p.Stock = stock
	p.Specs = specs
	p.URI = BaseOntologyURI + productID
	return p
}

// RecommendationRow is one raw recommendation before scoring.
type RecommendationRow struct {
	Product *catalog.Product
	Reason  string
}

// defaultReason is used when the query returns no reason binding.
const defaultReason = "Recomendado"

// BindRecommendationRows binds the three-source recommendation projection.
// Scoring happens in the application layer; the binder only carries the
// reason text through.
func BindRecommendationRows(rows []Row) ([]RecommendationRow, BindStats) {
	recs := make([]RecommendationRow, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		p, ok := bindProduct(row, "producto")
		if !ok {
			stats.Skipped++
			continue
		}
		reason, ok := row.str("razon")
		if !ok {
			reason = defaultReason
		}
		recs = append(recs, RecommendationRow{Product: p, Reason: reason})
		stats.Bound++
	}
	return recs, stats
}

// Incompatibility names a product that cannot be combined with the queried
// one, with the derived reason when one exists.
type Incompatibility struct {
	ProductID string
	Name      string
	Reason    string
}

// BindIncompatibilities binds the incompatible-products projection.
func BindIncompatibilities(rows []Row) ([]Incompatibility, BindStats) {
	out := make([]Incompatibility, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		uri, ok := row.str("incompatible")
		if !ok {
			stats.Skipped++
			continue
		}
		name, ok := row.str("nombre")
		if !ok {
			stats.Skipped++
			continue
		}
		reason, ok := row.str("razon")
		if !ok {
			reason = "No especificada"
		}
		out = append(out, Incompatibility{
			ProductID: LocalName(uri),
			Name:      name,
			Reason:    reason,
		})
		stats.Bound++
	}
	return out, stats
}

// BestValueEntry is one row of the value-score ranking.
type BestValueEntry struct {
	ProductID  string
	Name       string
	Price      decimal.Decimal
	RAMGB      int
	StorageGB  int
	ValueScore float64
}

// BindBestValue binds the best-value projection.
func BindBestValue(rows []Row) ([]BestValueEntry, BindStats) {
	out := make([]BestValueEntry, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		uri, ok := row.str("producto")
		if !ok {
			stats.Skipped++
			continue
		}
		name, ok := row.str("nombre")
		if !ok {
			stats.Skipped++
			continue
		}
		price, ok := row.dec("precio")
		if !ok {
			stats.Skipped++
			continue
		}
		ram, _ := row.integer("ram")
		storage, _ := row.integer("almacenamiento")
		score, _ := row.float("valorScore")
		out = append(out, BestValueEntry{
			ProductID:  LocalName(uri),
			Name:       name,
			Price:      price,
			RAMGB:      ram,
			StorageGB:  storage,
			ValueScore: score,
		})
		stats.Bound++
	}
	return out, stats
}

// BindMarketStats binds the per-category aggregation projection.
func BindMarketStats(rows []Row) ([]market.MarketStats, BindStats) {
	out := make([]market.MarketStats, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		categoryURI, ok := row.str("categoria")
		if !ok {
			stats.Skipped++
			continue
		}
		minPrice, okMin := row.dec("precioMinimo")
		maxPrice, okMax := row.dec("precioMaximo")
		avgPrice, okAvg := row.dec("precioPromedio")
		count, okCount := row.integer("totalProductos")
		if !okMin || !okMax || !okAvg || !okCount {
			stats.Skipped++
			continue
		}
		out = append(out, market.MarketStats{
			Category:     LocalName(categoryURI),
			MinPrice:     minPrice,
			MaxPrice:     maxPrice,
			AvgPrice:     avgPrice,
			ProductCount: count,
		})
		stats.Bound++
	}
	return out, stats
}

// BindVendorStats binds the per-vendor aggregation projection.
func BindVendorStats(rows []Row) ([]market.VendorStats, BindStats) {
	out := make([]market.VendorStats, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		vendor, ok := row.str("vendedor")
		if !ok {
			stats.Skipped++
			continue
		}
		count, okCount := row.integer("totalProductos")
		avgPrice, okAvg := row.dec("precioPromedio")
		minPrice, okMin := row.dec("precioMinimo")
		maxPrice, okMax := row.dec("precioMaximo")
		if !okCount || !okAvg || !okMin || !okMax {
			stats.Skipped++
			continue
		}
		out = append(out, market.VendorStats{
			Vendor:       vendor,
			ProductCount: count,
			AvgPrice:     avgPrice,
			MinPrice:     minPrice,
			MaxPrice:     maxPrice,
		})
		stats.Bound++
	}
	return out, stats
}

// BindBrandStats binds the per-brand aggregation projection.
func BindBrandStats(rows []Row) ([]market.BrandStats, BindStats) {
	out := make([]market.BrandStats, 0, len(rows))
	var stats BindStats
	for _, row := range rows {
		brand, ok := row.str("marca")
		if !ok {
			stats.Skipped++
			continue
		}
		count, okCount := row.integer("totalProductos")
		avgPrice, okAvg := row.dec("precioPromedio")
		if !okCount || !okAvg {
			stats.Skipped++
			continue
		}
		out = append(out, market.BrandStats{
			Brand:        brand,
			ProductCount: count,
			AvgPrice:     avgPrice,
		})
		stats.Bound++
	}
	return out, stats
}
