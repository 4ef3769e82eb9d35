package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quotehub_backend/internal/conversion/ports"
	"quotehub_backend/internal/conversion/transport"
	"quotehub_backend/internal/events"
	"quotehub_backend/platform/apperr"
	"quotehub_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeQuoteReader struct {
	quote *ports.QuoteSnapshot
	err   error
}

func (f *fakeQuoteReader) GetQuoteForConversion(ctx context.Context, id uuid.UUID) (*ports.QuoteSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeInventoryReader struct {
	stock map[uuid.UUID]ports.StockFigures
}

func (f *fakeInventoryReader) GetStock(ctx context.Context, productID uuid.UUID, location string) (ports.StockFigures, error) {
	return f.stock[productID], nil
}

type fakeOrderCreator struct {
	result   *ports.OrderResult
	err      error
	received *ports.OrderRequest
}

func (f *fakeOrderCreator) CreateOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderResult, error) {
	f.received = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeNoteAppender struct {
	appended []string
	err      error
}

func (f *fakeNoteAppender) AppendConversionNote(ctx context.Context, quoteID, actorID uuid.UUID, body string) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, body)
	return nil
}

func newTestService(quotes ports.QuoteReader, inventory ports.InventoryReader, orders ports.OrderCreator, notes ports.NoteAppender) *Service {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	return New(quotes, inventory, orders, notes, bus, log, "main-warehouse")
}

func wonQuote(items []ports.QuoteItem) *ports.QuoteSnapshot {
	return &ports.QuoteSnapshot{
		ID:          uuid.New(),
		QuoteNumber: "QUO-2026-0001",
		Status:      "Won",
		Items:       items,
	}
}

func productItem(productID uuid.UUID, qty float64, priceCents, totalCents int64) ports.QuoteItem {
	return ports.QuoteItem{
		ID:             uuid.New(),
		SectionID:      uuid.New(),
		ProductID:      &productID,
		Description:    "widget",
		Quantity:       qty,
		UnitPriceCents: priceCents,
		LineTotalCents: totalCents,
	}
}

func adHocItem(qty float64, totalCents int64) ports.QuoteItem {
	return ports.QuoteItem{
		ID:             uuid.New(),
		SectionID:      uuid.New(),
		Description:    "custom work",
		Quantity:       qty,
		LineTotalCents: totalCents,
	}
}

func TestSelectItemsModes(t *testing.T) {
	sectionA := uuid.New()
	sectionB := uuid.New()
	itemA := ports.QuoteItem{ID: uuid.New(), SectionID: sectionA}
	itemB := ports.QuoteItem{ID: uuid.New(), SectionID: sectionB}
	items := []ports.QuoteItem{itemA, itemB}

	if got := selectItems(items, transport.Selection{Mode: transport.ModeAll}); len(got) != 2 {
		t.Fatalf("mode all: expected 2 items, got %d", len(got))
	}
	if got := selectItems(items, transport.Selection{}); len(got) != 2 {
		t.Fatalf("empty mode: expected 2 items, got %d", len(got))
	}

	got := selectItems(items, transport.Selection{Mode: transport.ModeSections, SectionIDs: []uuid.UUID{sectionA}})
	if len(got) != 1 || got[0].ID != itemA.ID {
		t.Fatalf("mode sections: expected only the section A item")
	}

	got = selectItems(items, transport.Selection{Mode: transport.ModeItems, ItemIDs: []uuid.UUID{itemB.ID}})
	if len(got) != 1 || got[0].ID != itemB.ID {
		t.Fatalf("mode items: expected only item B")
	}

	// Unmatched selections yield an empty set, not an error.
	got = selectItems(items, transport.Selection{Mode: transport.ModeItems, ItemIDs: []uuid.UUID{uuid.New()}})
	if len(got) != 0 {
		t.Fatalf("unmatched selection: expected empty set, got %d", len(got))
	}
}

func TestCeilQuantity(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{1.0, 1},
		{1.1, 2},
		{2.5, 3},
		{0.01, 1},
		{3.0, 3},
	}
	for _, c := range cases {
		if got := ceilQuantity(c.in); got != c.want {
			t.Fatalf("ceilQuantity(%f) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPreviewUnresolvedQuoteReturnsEmpty(t *testing.T) {
	svc := newTestService(
		&fakeQuoteReader{err: apperr.NotFound("quote not found")},
		&fakeInventoryReader{}, &fakeOrderCreator{}, &fakeNoteAppender{},
	)

	resp, err := svc.Preview(context.Background(), uuid.New(), transport.PreviewRequest{})
	if err != nil {
		t.Fatalf("expected soft empty result, got error %v", err)
	}
	if resp.TotalItems != 0 || len(resp.Items) != 0 {
		t.Fatalf("expected empty preview, got %+v", resp)
	}
}

func TestPreviewRejectsNonWonQuote(t *testing.T) {
	quote := wonQuote(nil)
	quote.Status = "Approved"
	svc := newTestService(&fakeQuoteReader{quote: quote},
		&fakeInventoryReader{}, &fakeOrderCreator{}, &fakeNoteAppender{})

	_, err := svc.Preview(context.Background(), quote.ID, transport.PreviewRequest{})
	if !apperr.Is(err, apperr.KindIneligible) {
		t.Fatalf("expected ineligible error, got %v", err)
	}
}

func TestPreviewStockAndAdHocFlags(t *testing.T) {
	productID := uuid.New()
	items := []ports.QuoteItem{
		productItem(productID, 5, 1000, 5000),
		adHocItem(2, 3000),
	}
	quote := wonQuote(items)
	inventory := &fakeInventoryReader{stock: map[uuid.UUID]ports.StockFigures{
		productID: {OnHand: 10, Reserved: 8},
	}}
	svc := newTestService(&fakeQuoteReader{quote: quote}, inventory, &fakeOrderCreator{}, &fakeNoteAppender{})

	resp, err := svc.Preview(context.Background(), quote.ID, transport.PreviewRequest{})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}

	if resp.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", resp.TotalItems)
	}
	if resp.TotalQuantity != 7 {
		t.Fatalf("expected total quantity 7, got %f", resp.TotalQuantity)
	}
	if resp.TotalValueCents != 8000 {
		t.Fatalf("expected total value 8000, got %d", resp.TotalValueCents)
	}
	if !resp.HasInsufficientStock {
		t.Fatalf("expected insufficient stock flag: available 2 < needed 5")
	}
	if !resp.HasAdHocItems {
		t.Fatalf("expected ad-hoc flag")
	}

	product := resp.Items[0]
	if product.AvailableQuantity != 2 || product.HasSufficientStock {
		t.Fatalf("expected available 2 and insufficient, got %+v", product)
	}
	adHoc := resp.Items[1]
	if !adHoc.AdHoc || adHoc.HasSufficientStock || adHoc.AvailableQuantity != 0 {
		t.Fatalf("expected zero-stock ad-hoc line, got %+v", adHoc)
	}
}

func TestCommitRejectsNonWonQuote(t *testing.T) {
	quote := wonQuote(nil)
	quote.Status = "Draft"
	svc := newTestService(&fakeQuoteReader{quote: quote},
		&fakeInventoryReader{}, &fakeOrderCreator{}, &fakeNoteAppender{})

	_, err := svc.Commit(context.Background(), quote.ID, uuid.New(), transport.CommitRequest{DestinationSite: "north"})
	if !apperr.Is(err, apperr.KindIneligible) {
		t.Fatalf("expected ineligible error, got %v", err)
	}
}

func TestCommitNoOrderableItems(t *testing.T) {
	quote := wonQuote([]ports.QuoteItem{adHocItem(1, 1000), adHocItem(2, 2000)})
	svc := newTestService(&fakeQuoteReader{quote: quote},
		&fakeInventoryReader{}, &fakeOrderCreator{}, &fakeNoteAppender{})

	_, err := svc.Commit(context.Background(), quote.ID, uuid.New(), transport.CommitRequest{DestinationSite: "north"})
	if !apperr.Is(err, apperr.KindIneligible) {
		t.Fatalf("expected ineligible error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperr, got %v", err)
	}
	warnings, ok := appErr.Details.([]string)
	if !ok || len(warnings) != 1 || !strings.Contains(warnings[0], "2 ad-hoc") {
		t.Fatalf("expected skipped-item warnings in details, got %v", appErr.Details)
	}
}

func TestCommitBuildsOrderWithCeiledQuantities(t *testing.T) {
	productID := uuid.New()
	quote := wonQuote([]ports.QuoteItem{
		productItem(productID, 2.5, 1000, 2500),
		adHocItem(1, 500),
	})
	orders := &fakeOrderCreator{result: &ports.OrderResult{
		OrderID:         uuid.New(),
		OrderNumber:     "SO-2026-0009",
		TotalValueCents: 3000,
	}}
	notes := &fakeNoteAppender{}
	svc := newTestService(&fakeQuoteReader{quote: quote}, &fakeInventoryReader{}, orders, notes)

	resp, err := svc.Commit(context.Background(), quote.ID, uuid.New(), transport.CommitRequest{
		DestinationSite: "north-site",
		Notes:           "urgent",
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if orders.received == nil {
		t.Fatalf("expected order creation call")
	}
	if len(orders.received.Lines) != 1 {
		t.Fatalf("expected 1 orderable line, got %d", len(orders.received.Lines))
	}
	if orders.received.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity ceiled to 3, got %d", orders.received.Lines[0].Quantity)
	}
	if orders.received.SourceQuoteNumber != "QUO-2026-0001" {
		t.Fatalf("expected source quote back-reference")
	}
	if !strings.Contains(orders.received.Notes, "QUO-2026-0001") || !strings.Contains(orders.received.Notes, "urgent") {
		t.Fatalf("expected composed notes, got %q", orders.received.Notes)
	}

	if resp.OrderNumber != "SO-2026-0009" || resp.ItemCount != 1 {
		t.Fatalf("unexpected commit response %+v", resp)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", resp.Warnings)
	}
	if len(notes.appended) != 1 || !strings.Contains(notes.appended[0], "SO-2026-0009") {
		t.Fatalf("expected linkage note naming the order, got %v", notes.appended)
	}
}

func TestCommitCollaboratorFailureLeavesQuoteUntouched(t *testing.T) {
	productID := uuid.New()
	quote := wonQuote([]ports.QuoteItem{productItem(productID, 1, 1000, 1000), adHocItem(1, 500)})
	orders := &fakeOrderCreator{err: errors.New("order service unavailable")}
	notes := &fakeNoteAppender{}
	svc := newTestService(&fakeQuoteReader{quote: quote}, &fakeInventoryReader{}, orders, notes)

	_, err := svc.Commit(context.Background(), quote.ID, uuid.New(), transport.CommitRequest{DestinationSite: "north"})
	if !apperr.Is(err, apperr.KindCollaborator) {
		t.Fatalf("expected collaborator failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "order service unavailable") {
		t.Fatalf("expected collaborator message surfaced verbatim, got %v", err)
	}
	if len(notes.appended) != 0 {
		t.Fatalf("expected no quote mutation on collaborator failure")
	}
}

func TestCommitNoteFailureDoesNotFailCommit(t *testing.T) {
	productID := uuid.New()
	quote := wonQuote([]ports.QuoteItem{productItem(productID, 1, 1000, 1000)})
	orders := &fakeOrderCreator{result: &ports.OrderResult{
		OrderID:     uuid.New(),
		OrderNumber: "SO-2026-0010",
	}}
	notes := &fakeNoteAppender{err: errors.New("notes table locked")}
	svc := newTestService(&fakeQuoteReader{quote: quote}, &fakeInventoryReader{}, orders, notes)

	resp, err := svc.Commit(context.Background(), quote.ID, uuid.New(), transport.CommitRequest{DestinationSite: "north"})
	if err != nil {
		t.Fatalf("expected commit to succeed despite note failure, got %v", err)
	}
	if resp.OrderNumber != "SO-2026-0010" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "linkage note") {
		t.Fatalf("expected a linkage note warning, got %v", resp.Warnings)
	}
}
