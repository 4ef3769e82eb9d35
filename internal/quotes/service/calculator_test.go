package service

import (
	"testing"

	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"

	"github.com/google/uuid"
)

func TestComputeLine(t *testing.T) {
	got := ComputeLine(10, 10000, 9000)
	if got.LineTotalCents != 100000 {
		t.Fatalf("expected line total 100000, got %d", got.LineTotalCents)
	}
	if got.LineCostCents != 90000 {
		t.Fatalf("expected line cost 90000, got %d", got.LineCostCents)
	}
	if got.LineMarginCents != 10000 {
		t.Fatalf("expected line margin 10000, got %d", got.LineMarginCents)
	}
	if got.MarginPercent != 10.0 {
		t.Fatalf("expected margin percent 10.0, got %f", got.MarginPercent)
	}
}

func TestComputeLineFractionalQuantity(t *testing.T) {
	// 2.5 * 9.99 = 24.975, rounds half away from zero to 24.98
	got := ComputeLine(2.5, 999, 0)
	if got.LineTotalCents != 2498 {
		t.Fatalf("expected line total 2498, got %d", got.LineTotalCents)
	}
}

func TestComputeLineZeroTotalNoDivide(t *testing.T) {
	got := ComputeLine(0, 10000, 5000)
	if got.MarginPercent != 0 {
		t.Fatalf("expected margin percent 0 for zero total, got %f", got.MarginPercent)
	}
}

func TestComputeQuoteDiscountBeforeVat(t *testing.T) {
	sections := []repository.SectionTotals{
		{SectionTotalCents: 100000, SectionCostCents: 60000},
	}
	got := ComputeQuote(sections, 10, 23)

	if got.SubtotalCents != 100000 {
		t.Fatalf("expected subtotal 100000, got %d", got.SubtotalCents)
	}
	if got.DiscountAmountCents != 10000 {
		t.Fatalf("expected discount 10000, got %d", got.DiscountAmountCents)
	}
	if got.NetTotalCents != 90000 {
		t.Fatalf("expected net total 90000, got %d", got.NetTotalCents)
	}
	if got.VatAmountCents != 20700 {
		t.Fatalf("expected vat 20700, got %d", got.VatAmountCents)
	}
	if got.GrandTotalCents != 110700 {
		t.Fatalf("expected grand total 110700, got %d", got.GrandTotalCents)
	}
	if got.TotalMarginCents != 30000 {
		t.Fatalf("expected margin 30000, got %d", got.TotalMarginCents)
	}
}

func TestComputeQuoteZeroRates(t *testing.T) {
	sections := []repository.SectionTotals{{SectionTotalCents: 5000, SectionCostCents: 5000}}
	got := ComputeQuote(sections, 0, 0)

	if got.DiscountAmountCents != 0 || got.VatAmountCents != 0 {
		t.Fatalf("expected zero discount and vat, got %d and %d", got.DiscountAmountCents, got.VatAmountCents)
	}
	if got.GrandTotalCents != 5000 {
		t.Fatalf("expected grand total 5000, got %d", got.GrandTotalCents)
	}
	if got.MarginPercent != 0 {
		t.Fatalf("expected margin percent 0, got %f", got.MarginPercent)
	}
}

func TestComputeQuoteEmpty(t *testing.T) {
	got := ComputeQuote(nil, 10, 23)
	if got.GrandTotalCents != 0 || got.MarginPercent != 0 {
		t.Fatalf("expected all-zero totals, got %+v", got)
	}
}

func TestComputeSectionSums(t *testing.T) {
	got := ComputeSection([]repository.ItemTotals{
		{LineTotalCents: 1000, LineCostCents: 600},
		{LineTotalCents: 2000, LineCostCents: 900},
	})
	if got.SectionTotalCents != 3000 {
		t.Fatalf("expected section total 3000, got %d", got.SectionTotalCents)
	}
	if got.SectionMarginCents != 1500 {
		t.Fatalf("expected section margin 1500, got %d", got.SectionMarginCents)
	}
}

func TestComputeAggregateIdempotent(t *testing.T) {
	quoteID := uuid.New()
	sectionID := uuid.New()
	itemID := uuid.New()

	q := &repository.Quote{ID: quoteID, DiscountPercent: 10, VatRate: 23}
	sections := []repository.Section{{ID: sectionID, QuoteID: quoteID}}
	items := []repository.LineItem{{
		ID:             itemID,
		SectionID:      sectionID,
		QuoteID:        quoteID,
		Quantity:       10,
		UnitPriceCents: 10000,
		UnitCostCents:  6000,
	}}

	first := ComputeAggregate(q, sections, items)
	second := ComputeAggregate(q, sections, items)

	if first.Quote != second.Quote {
		t.Fatalf("expected identical quote totals, got %+v vs %+v", first.Quote, second.Quote)
	}
	if first.Sections[sectionID] != second.Sections[sectionID] {
		t.Fatalf("expected identical section totals")
	}
	if first.Items[itemID] != second.Items[itemID] {
		t.Fatalf("expected identical item totals")
	}
	if first.Quote.GrandTotalCents != 110700 {
		t.Fatalf("expected grand total 110700, got %d", first.Quote.GrandTotalCents)
	}
}

func TestComputeAggregateEmptySectionContributesZero(t *testing.T) {
	quoteID := uuid.New()
	fullID := uuid.New()
	emptyID := uuid.New()

	q := &repository.Quote{ID: quoteID}
	sections := []repository.Section{
		{ID: fullID, QuoteID: quoteID},
		{ID: emptyID, QuoteID: quoteID},
	}
	items := []repository.LineItem{{
		ID:             uuid.New(),
		SectionID:      fullID,
		QuoteID:        quoteID,
		Quantity:       1,
		UnitPriceCents: 2500,
	}}

	got := ComputeAggregate(q, sections, items)
	if got.Sections[emptyID].SectionTotalCents != 0 {
		t.Fatalf("expected empty section total 0, got %d", got.Sections[emptyID].SectionTotalCents)
	}
	if got.Quote.SubtotalCents != 2500 {
		t.Fatalf("expected subtotal 2500, got %d", got.Quote.SubtotalCents)
	}
}

func TestRoundCentsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0.5, 1},
		{1.5, 2},
		{2.4, 2},
		{-0.5, -1},
		{-1.5, -2},
	}
	for _, c := range cases {
		if got := roundCents(c.in); got != c.want {
			t.Fatalf("roundCents(%f) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPreviewMatchesPersistedCalculation(t *testing.T) {
	s := &Service{}
	resp := s.Preview(&transport.CalculateRequest{
		DiscountPercent: 10,
		VatRate:         23,
		Sections: []transport.SectionRequest{
			{
				Name: "Works",
				Items: []transport.LineItemRequest{
					{Description: "Panels", Quantity: 10, UnitPriceCents: 10000, UnitCostCents: 6000},
				},
			},
		},
	})

	if resp.SubtotalCents != 100000 {
		t.Fatalf("subtotal = %d", resp.SubtotalCents)
	}
	if resp.DiscountAmountCents != 10000 {
		t.Fatalf("discount = %d", resp.DiscountAmountCents)
	}
	if resp.NetTotalCents != 90000 {
		t.Fatalf("net = %d", resp.NetTotalCents)
	}
	if resp.VatAmountCents != 20700 {
		t.Fatalf("vat = %d", resp.VatAmountCents)
	}
	if resp.GrandTotalCents != 110700 {
		t.Fatalf("grand = %d", resp.GrandTotalCents)
	}
	if len(resp.Sections) != 1 || len(resp.Sections[0].Items) != 1 {
		t.Fatalf("unexpected shape: %+v", resp.Sections)
	}
	if resp.Sections[0].SectionTotalCents != 100000 {
		t.Fatalf("section total = %d", resp.Sections[0].SectionTotalCents)
	}
	if resp.Sections[0].Items[0].LineMarginCents != 40000 {
		t.Fatalf("line margin = %d", resp.Sections[0].Items[0].LineMarginCents)
	}
}
