// Package catalog defines the marketplace's core business entities. Entities
// are value objects: constructed fresh from graph query results on every
// request and never cached between requests.
package catalog

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

// Product represents a marketplace product reconstructed from knowledge-base
// facts. The identifier is the local name of the product's source URI.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	// Stock is nil when the knowledge base carries no stock fact for the
	// product; absence is treated as available.
	Stock    *int
	Category string
	Brand    string
	Vendor   string
	// Specs is the open mapping of specification name to value. Insertion
	// order is irrelevant.
	Specs map[string]interface{}
	URI   string
}

// NewProduct constructs a Product and validates its invariants: a
// non-negative price, and a non-negative stock when present.
func NewProduct(id, name string, price decimal.Decimal) (*Product, error) {
	if price.IsNegative() {
		return nil, errors.InvalidParam("product price cannot be negative").
			WithDetailf("id=%s price=%s", id, price)
	}
	return &Product{
		ID:    id,
		Name:  name,
		Price: price,
		Specs: make(map[string]interface{}),
	}, nil
}

// Available reports whether the product can be purchased: true when the
// knowledge base carries no stock fact, or when stock is positive.
func (p *Product) Available() bool {
	return p.Stock == nil || *p.Stock > 0
}

// SetPrice replaces the product price. Reserved for future write paths;
// read flows never mutate a constructed product.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errors.InvalidParam("product price cannot be negative").
			WithDetailf("id=%s price=%s", p.ID, price)
	}
	p.Price = price
	return nil
}

// SetStock replaces the product stock. Reserved for future write paths.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return errors.InvalidParam("product stock cannot be negative").
			WithDetailf("id=%s stock=%d", p.ID, stock)
	}
	p.Stock = &stock
	return nil
}

// Comparison is an ordered set of at least two products. The transport
// boundary enforces the upper bound of ten; the lower bound is enforced here.
type Comparison struct {
	Products []*Product
}

// NewComparison validates the lower cardinality bound and wraps the product
// list. The slice order is preserved; it drives tie-breaking in BestPrice
// and the value order in Differences.
func NewComparison(products []*Product) (*Comparison, error) {
	if len(products) < 2 {
		return nil, errors.InvalidParam("a comparison requires at least 2 products").
			WithDetailf("got=%d", len(products))
	}
	return &Comparison{Products: products}, nil
}

// BestPrice returns the product with the lowest price. Ties are broken by
// encounter order: the first product at the minimum wins.
func (c *Comparison) BestPrice() *Product {
	best := c.Products[0]
	for _, p := range c.Products[1:] {
		if p.Price.LessThan(best.Price) {
			best = p
		}
	}
	return best
}

// Differences cross-tabulates specifications over the union of all products'
// spec keys. A key is included only when the per-product values are not all
// equal; a product lacking the spec contributes a nil entry. Values appear
// in product order.
func (c *Comparison) Differences() map[string][]interface{} {
	keys := make(map[string]struct{})
	for _, p := range c.Products {
		for k := range p.Specs {
			keys[k] = struct{}{}
		}
	}

	diffs := make(map[string][]interface{})
	for k := range keys {
		values := make([]interface{}, len(c.Products))
		distinct := make(map[string]struct{})
		for i, p := range c.Products {
			values[i] = p.Specs[k]
			distinct[fmt.Sprint(p.Specs[k])] = struct{}{}
		}
		if len(distinct) > 1 {
			diffs[k] = values
		}
	}
	return diffs
}

// Recommendation pairs a product with the reason the knowledge base produced
// it and a derived relevance score in [0,1]. Score is nil when no scoring
// rule matched at all (distinct from the 0.5 default assigned by the ranker).
type Recommendation struct {
	Product *Product
	Reason  string
	Score   *float64
	UserID  string
}

// Less orders recommendations descending by score. An unscored
// recommendation sorts after every scored one, giving a total order so that
// ranked output is stable.
func (r Recommendation) Less(other Recommendation) bool {
	if r.Score == nil {
		return false
	}
	if other.Score == nil {
		return true
	}
	return *r.Score > *other.Score
}

// SortRecommendations sorts in place, descending by score with the original
// order preserved among equals.
func SortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Less(recs[j])
	})
}

// User represents a marketplace user profile as asserted in the knowledge
// base. Read flows only consult the budget and preferences; the mutators
// exist for future write paths.
type User struct {
	ID                  string
	Name                string
	Email               string
	MaxBudget           *decimal.Decimal
	PreferredCategories []string
	PurchaseHistory     []string
	URI                 string
}

// CanAfford reports whether price fits the user's budget. A user without a
// stated budget can afford anything.
func (u *User) CanAfford(price decimal.Decimal) bool {
	return u.MaxBudget == nil || price.LessThanOrEqual(*u.MaxBudget)
}

// AddPurchase appends a product to the purchase history, ignoring duplicates.
func (u *User) AddPurchase(productID string) {
	for _, id := range u.PurchaseHistory {
		if id == productID {
			return
		}
	}
	u.PurchaseHistory = append(u.PurchaseHistory, productID)
}

// AddPreferredCategory appends a category preference, ignoring duplicates.
func (u *User) AddPreferredCategory(category string) {
	for _, c := range u.PreferredCategories {
		if c == category {
			return
		}
	}
	u.PreferredCategories = append(u.PreferredCategories, category)
}
