package report

// SimpleRevenue is the reference revenue policy: the discounted sum of a
// record's line items. The product card is unused; it is part of the
// RevenueFunc contract for policies that price per catalog entry.
func SimpleRevenue(purchase PurchaseRecord, _ Product) float64 {
	var revenue float64
	for _, item := range purchase.Items {
		fullPrice := item.SalePrice * float64(item.Quantity)
		revenue += fullPrice * (1 - item.Discount/100)
	}
	return revenue
}

// BonusByProfitRank is the reference bonus policy. It returns a flat
// percentage by position in the profit-sorted ranking: last place 0,
// first 15, second and third 10, everyone else 5.
//
// The last-place check runs before the first-place check, so a lone
// seller (first and last at once) receives 0. Callers replacing this
// policy must keep that precedence if they want the same edge behavior.
func BonusByProfitRank(index, total int, _ *Stats) float64 {
	if index == total-1 {
		return 0
	}
	if index == 0 {
		return 15
	}
	if index == 1 || index == 2 {
		return 10
	}
	return 5
}
