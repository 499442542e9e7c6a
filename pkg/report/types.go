// Package report computes per-seller performance reports from sales data.
//
// The pipeline runs in four stages over in-memory collections: validate the
// input bundle, index sellers and products, aggregate purchase records into
// per-seller accumulators, then rank sellers by profit and emit rounded
// report rows. Each call operates on its own local state; independent calls
// never share mutable data.
package report

// Seller identifies a selling party. Inputs are never mutated.
type Seller struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Product is a catalog entry keyed by SKU. Name and Category are
// descriptive only; the pipeline reads PurchasePrice.
type Product struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name,omitempty"`
	Category      string  `json:"category,omitempty"`
	PurchasePrice float64 `json:"purchase_price"`
}

// PurchaseItem is one line of a purchase record. Discount is a percentage
// in [0,100].
type PurchaseItem struct {
	SKU       string  `json:"sku"`
	Quantity  int64   `json:"quantity"`
	SalePrice float64 `json:"sale_price"`
	Discount  float64 `json:"discount"`
}

// PurchaseRecord is one completed transaction by one seller.
type PurchaseRecord struct {
	SellerID    int64          `json:"seller_id"`
	TotalAmount float64        `json:"total_amount"`
	Items       []PurchaseItem `json:"items"`
}

// Bundle is the input to Compute. All three slices must be non-nil; an
// empty slice is valid, a nil one is a missing field.
type Bundle struct {
	Sellers         []Seller         `json:"sellers"`
	Products        []Product        `json:"products"`
	PurchaseRecords []PurchaseRecord `json:"purchase_records"`
}

// RevenueFunc computes revenue for one purchase record against a product
// card. It exists as a swap point for alternative discount policies; the
// default aggregation path computes revenue inline (see Compute).
type RevenueFunc func(purchase PurchaseRecord, product Product) float64

// BonusFunc maps a seller's position in the profit-sorted ranking to a
// bonus value. index is 0-based, total is the number of ranked sellers.
// The returned value is emitted as-is (rounded to 2 decimals), it is not
// weighted by profit inside the pipeline.
type BonusFunc func(index, total int, seller *Stats) float64

// Options carries the injectable policies for Compute. Both must be
// non-nil.
type Options struct {
	CalculateRevenue RevenueFunc
	CalculateBonus   BonusFunc
}

// Stats accumulates one seller's metrics during the aggregation pass.
// Revenue and Profit hold unrounded running sums; rounding happens only
// when rows are emitted.
type Stats struct {
	SellerID   int64
	Name       string
	Revenue    float64
	Profit     float64
	SalesCount int64

	// productsSold maps SKU to quantity; skuOrder preserves first-insert
	// order so quantity ties rank deterministically.
	productsSold map[string]int64
	skuOrder     []string
}

// ProductsSold returns the accumulated quantity for a SKU.
func (s *Stats) ProductsSold(sku string) int64 {
	return s.productsSold[sku]
}

func (s *Stats) addSold(sku string, qty int64) {
	if _, ok := s.productsSold[sku]; !ok {
		s.skuOrder = append(s.skuOrder, sku)
	}
	s.productsSold[sku] += qty
}

// TopProduct is one entry of a row's best-seller list.
type TopProduct struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

// Row is one emitted report line. Revenue, Profit and Bonus are rounded
// to exactly 2 decimal places; SalesCount and identity fields pass
// through unchanged.
type Row struct {
	SellerID    int64        `json:"seller_id"`
	Name        string       `json:"name"`
	Revenue     float64      `json:"revenue"`
	Profit      float64      `json:"profit"`
	SalesCount  int64        `json:"sales_count"`
	TopProducts []TopProduct `json:"top_products"`
	Bonus       float64      `json:"bonus"`
}
