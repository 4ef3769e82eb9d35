package service

import (
	"math"

	"quotehub_backend/internal/quotes/repository"

	"github.com/google/uuid"
)

// The totals pipeline is a pure fold over raw inputs. Every derived field is
// recomputed from scratch on each pass, so running it twice on the same inputs
// yields identical output. Money is int64 cents, rounded half away from zero.

func roundCents(v float64) int64 {
	if v < 0 {
		return -int64(math.Floor(-v + 0.5))
	}
	return int64(math.Floor(v + 0.5))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeLine derives the line-level totals from quantity and unit amounts
func ComputeLine(quantity float64, unitPriceCents, unitCostCents int64) repository.ItemTotals {
	totals := repository.ItemTotals{
		LineTotalCents: roundCents(quantity * float64(unitPriceCents)),
		LineCostCents:  roundCents(quantity * float64(unitCostCents)),
	}
	totals.LineMarginCents = totals.LineTotalCents - totals.LineCostCents
	if totals.LineTotalCents != 0 {
		totals.MarginPercent = round2(float64(totals.LineMarginCents) / float64(totals.LineTotalCents) * 100)
	}
	return totals
}

// ComputeSection sums the given line totals into section totals
func ComputeSection(lines []repository.ItemTotals) repository.SectionTotals {
	var totals repository.SectionTotals
	for _, l := range lines {
		totals.SectionTotalCents += l.LineTotalCents
		totals.SectionCostCents += l.LineCostCents
	}
	totals.SectionMarginCents = totals.SectionTotalCents - totals.SectionCostCents
	return totals
}

// ComputeQuote derives the quote-level financials from section totals plus the
// quote's discount and VAT rates. Discount applies before VAT; VAT applies to
// the net total.
func ComputeQuote(sections []repository.SectionTotals, discountPercent, vatRate float64) repository.QuoteTotals {
	var totals repository.QuoteTotals
	for _, s := range sections {
		totals.SubtotalCents += s.SectionTotalCents
		totals.TotalCostCents += s.SectionCostCents
	}

	totals.DiscountAmountCents = roundCents(float64(totals.SubtotalCents) * discountPercent / 100)
	totals.NetTotalCents = totals.SubtotalCents - totals.DiscountAmountCents
	totals.VatAmountCents = roundCents(float64(totals.NetTotalCents) * vatRate / 100)
	totals.GrandTotalCents = totals.NetTotalCents + totals.VatAmountCents
	totals.TotalMarginCents = totals.NetTotalCents - totals.TotalCostCents
	if totals.NetTotalCents != 0 {
		totals.MarginPercent = round2(float64(totals.TotalMarginCents) / float64(totals.NetTotalCents) * 100)
	}
	return totals
}

// ComputeAggregate runs the full cascade for a quote: lines, then their
// sections, then the quote header. Sections with no items contribute zeros.
func ComputeAggregate(q *repository.Quote, sections []repository.Section, items []repository.LineItem) repository.Computed {
	computed := repository.Computed{
		Sections: make(map[uuid.UUID]repository.SectionTotals, len(sections)),
		Items:    make(map[uuid.UUID]repository.ItemTotals, len(items)),
	}

	bySection := make(map[uuid.UUID][]repository.ItemTotals, len(sections))
	for _, it := range items {
		lt := ComputeLine(it.Quantity, it.UnitPriceCents, it.UnitCostCents)
		computed.Items[it.ID] = lt
		bySection[it.SectionID] = append(bySection[it.SectionID], lt)
	}

	sectionTotals := make([]repository.SectionTotals, 0, len(sections))
	for _, s := range sections {
		st := ComputeSection(bySection[s.ID])
		computed.Sections[s.ID] = st
		sectionTotals = append(sectionTotals, st)
	}

	computed.Quote = ComputeQuote(sectionTotals, q.DiscountPercent, q.VatRate)
	return computed
}
