package catalog

import "fmt"

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

type dealOpt func(*Deal)

func withDiscount(pct float64) dealOpt {
	return func(d *Deal) { d.DiscountPercent = f64(pct) }
}

func withSavings(v float64) dealOpt {
	return func(d *Deal) { d.Savings = f64(v) }
}

func withPrice(v float64) dealOpt {
	return func(d *Deal) { d.Price = v }
}

func withCategory(c string) dealOpt {
	return func(d *Deal) { d.Category = str(c) }
}

func withStore(id, slug string) dealOpt {
	return func(d *Deal) {
		d.StoreID = id
		d.StoreSlug = slug
		d.StoreName = slug
	}
}

func withProduct(id string) dealOpt {
	return func(d *Deal) { d.ProductID = id }
}

func withValidFrom(date string) dealOpt {
	return func(d *Deal) { d.ValidFrom = date }
}

func newDeal(id, name string, opts ...dealOpt) Deal {
	d := Deal{
		DealID:      id,
		ProductID:   "p-" + id,
		ProductName: name,
		StoreID:     "s1",
		StoreSlug:   "bonus",
		StoreName:   "Bónus",
		Price:       10,
		ValidFrom:   "2026-03-02",
		ValidTo:     "2026-03-08",
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func manyDeals(n int) []Deal {
	out := make([]Deal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, newDeal(fmt.Sprintf("d%02d", i), fmt.Sprintf("Vøra %d", i)))
	}
	return out
}

func dealIDs(deals []Deal) []string {
	out := make([]string, 0, len(deals))
	for _, d := range deals {
		out = append(out, d.DealID)
	}
	return out
}

func viewIDs(views []DealView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.DealID)
	}
	return out
}
