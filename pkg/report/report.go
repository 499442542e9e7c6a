package report

import (
	"context"
	"math"
	"slices"

	"github.com/retailops/seller-report/internal/logctx"
)

// maxTopProducts caps the per-seller best-seller list.
const maxTopProducts = 10

// Compute runs the full pipeline: validate, index, aggregate, rank.
//
// It returns one Row per distinct input seller, ordered by profit
// descending (stable, so equal profits keep the sellers' input order).
// Validation failures are returned before any aggregation work happens;
// after validation the computation cannot fail. Sellers or SKUs that
// purchase data references but the bundle does not define are skipped
// silently, per the lenient-data policy: a malformed bundle is fatal,
// inconsistent rows inside it are not.
//
// The context carries only the logger; there are no suspension points.
func Compute(ctx context.Context, data *Bundle, opts *Options) ([]Row, error) {
	if err := validate(data, opts); err != nil {
		return nil, err
	}

	log := logctx.FromContext(ctx)

	idx := buildIndex(data)
	log.Debug().
		Int("sellers", len(idx.order)).
		Int("products", len(idx.products)).
		Msg("indexed input bundle")

	matched := aggregate(idx, data.PurchaseRecords)
	log.Debug().
		Int("purchase_records", len(data.PurchaseRecords)).
		Int64("matched_records", matched).
		Msg("aggregation pass complete")

	return rank(idx, opts.CalculateBonus), nil
}

// validate fail-fasts on structural problems before any stage runs.
// Each condition is checked independently; the first violation wins.
func validate(data *Bundle, opts *Options) error {
	if data == nil {
		return &ShapeError{What: "data"}
	}
	if data.Sellers == nil {
		return &MissingFieldError{Field: "sellers"}
	}
	if data.Products == nil {
		return &MissingFieldError{Field: "products"}
	}
	if data.PurchaseRecords == nil {
		return &MissingFieldError{Field: "purchase_records"}
	}
	if opts == nil {
		return &ShapeError{What: "options"}
	}
	if opts.CalculateRevenue == nil {
		return &PolicyTypeError{Policy: "calculateRevenue"}
	}
	if opts.CalculateBonus == nil {
		return &PolicyTypeError{Policy: "calculateBonus"}
	}
	return nil
}

// index holds the per-invocation lookup state. It is local to one
// Compute call and discarded with it.
type index struct {
	sellers  map[int64]Seller
	products map[string]Product
	stats    map[int64]*Stats

	// order lists seller ids by first appearance in the input, the
	// tie-break order for the profit ranking. A duplicate id keeps its
	// first position; its later definition wins the map slots.
	order []int64
}

func buildIndex(data *Bundle) *index {
	idx := &index{
		sellers:  make(map[int64]Seller, len(data.Sellers)),
		products: make(map[string]Product, len(data.Products)),
		stats:    make(map[int64]*Stats, len(data.Sellers)),
		order:    make([]int64, 0, len(data.Sellers)),
	}

	for _, s := range data.Sellers {
		if _, ok := idx.sellers[s.ID]; !ok {
			idx.order = append(idx.order, s.ID)
		}
		idx.sellers[s.ID] = s
		idx.stats[s.ID] = &Stats{
			SellerID:     s.ID,
			Name:         s.FirstName + " " + s.LastName,
			productsSold: make(map[string]int64),
		}
	}

	for _, p := range data.Products {
		idx.products[p.SKU] = p
	}

	return idx
}

// aggregate walks the purchase records once, in input order, and returns
// the number of records that matched a known seller.
//
// A record for an unknown seller is skipped whole. An item with an
// unknown SKU is skipped alone; the record's sales_count and revenue
// updates stand. Accumulation is add-only and unrounded.
func aggregate(idx *index, records []PurchaseRecord) int64 {
	var matched int64

	for _, purchase := range records {
		stats, ok := idx.stats[purchase.SellerID]
		if !ok {
			continue
		}
		matched++

		stats.SalesCount++
		stats.Revenue += purchase.TotalAmount

		for _, item := range purchase.Items {
			product, ok := idx.products[item.SKU]
			if !ok {
				continue
			}

			qty := float64(item.Quantity)
			itemRevenue := item.SalePrice * qty * (1 - item.Discount/100)
			itemCost := product.PurchasePrice * qty

			stats.Profit += itemRevenue - itemCost
			stats.addSold(item.SKU, item.Quantity)
		}
	}

	return matched
}

// rank sorts accumulators by profit descending, assigns bonuses by
// position, builds each top-products list and emits the rounded rows.
func rank(idx *index, bonus BonusFunc) []Row {
	ranked := make([]*Stats, 0, len(idx.order))
	for _, id := range idx.order {
		ranked = append(ranked, idx.stats[id])
	}

	// Stable, so profit ties keep input order.
	slices.SortStableFunc(ranked, func(a, b *Stats) int {
		switch {
		case a.Profit > b.Profit:
			return -1
		case a.Profit < b.Profit:
			return 1
		default:
			return 0
		}
	})

	rows := make([]Row, len(ranked))
	total := len(ranked)
	for i, stats := range ranked {
		rows[i] = Row{
			SellerID:    stats.SellerID,
			Name:        stats.Name,
			Revenue:     round2(stats.Revenue),
			Profit:      round2(stats.Profit),
			SalesCount:  stats.SalesCount,
			TopProducts: topProducts(stats),
			Bonus:       round2(bonus(i, total, stats)),
		}
	}
	return rows
}

func topProducts(stats *Stats) []TopProduct {
	top := make([]TopProduct, 0, len(stats.skuOrder))
	for _, sku := range stats.skuOrder {
		top = append(top, TopProduct{SKU: sku, Quantity: stats.productsSold[sku]})
	}

	slices.SortStableFunc(top, func(a, b TopProduct) int {
		switch {
		case a.Quantity > b.Quantity:
			return -1
		case a.Quantity < b.Quantity:
			return 1
		default:
			return 0
		}
	})

	if len(top) > maxTopProducts {
		top = top[:maxTopProducts]
	}
	return top
}

// round2 rounds to 2 decimal places for emitted values only; internal
// accumulation stays unrounded.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
