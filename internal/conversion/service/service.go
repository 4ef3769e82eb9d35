package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"quotehub_backend/internal/conversion/ports"
	"quotehub_backend/internal/conversion/transport"
	"quotehub_backend/internal/events"
	"quotehub_backend/platform/apperr"
	"quotehub_backend/platform/logger"

	"github.com/google/uuid"
)

const statusWon = "Won"

// Service orchestrates converting won quotes into fulfillment orders. It
// never mutates the quote aggregate itself; the only quote-side effect is a
// best-effort linkage note after the order exists.
type Service struct {
	quotes    ports.QuoteReader
	inventory ports.InventoryReader
	orders    ports.OrderCreator
	notes     ports.NoteAppender
	bus       events.Bus
	log       *logger.Logger

	defaultLocation string
}

// New creates a new conversion service
func New(quotes ports.QuoteReader, inventory ports.InventoryReader, orders ports.OrderCreator, notes ports.NoteAppender, bus events.Bus, log *logger.Logger, defaultLocation string) *Service {
	return &Service{
		quotes:          quotes,
		inventory:       inventory,
		orders:          orders,
		notes:           notes,
		bus:             bus,
		log:             log,
		defaultLocation: defaultLocation,
	}
}

// selectItems applies the selection mode to a quote's items. Unknown IDs
// simply do not match; an empty selection set is a valid empty result.
func selectItems(items []ports.QuoteItem, sel transport.Selection) []ports.QuoteItem {
	switch sel.Mode {
	case "", transport.ModeAll:
		return items
	case transport.ModeSections:
		wanted := make(map[uuid.UUID]bool, len(sel.SectionIDs))
		for _, id := range sel.SectionIDs {
			wanted[id] = true
		}
		var out []ports.QuoteItem
		for _, it := range items {
			if wanted[it.SectionID] {
				out = append(out, it)
			}
		}
		return out
	case transport.ModeItems:
		wanted := make(map[uuid.UUID]bool, len(sel.ItemIDs))
		for _, id := range sel.ItemIDs {
			wanted[id] = true
		}
		var out []ports.QuoteItem
		for _, it := range items {
			if wanted[it.ID] {
				out = append(out, it)
			}
		}
		return out
	default:
		return nil
	}
}

// ceilQuantity rounds a fractional quote quantity up to whole order units
func ceilQuantity(q float64) int64 {
	return int64(math.Ceil(q))
}

// partitionOrderable splits items into those with a product link and ad-hoc
// items that cannot be ordered.
func partitionOrderable(items []ports.QuoteItem) (orderable, adHoc []ports.QuoteItem) {
	for _, it := range items {
		if it.ProductID != nil {
			orderable = append(orderable, it)
		} else {
			adHoc = append(adHoc, it)
		}
	}
	return orderable, adHoc
}

func (s *Service) location(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultLocation
}

// Preview reports, without side effects, what a commit would do: per-item
// stock sufficiency, ad-hoc flags and aggregate totals. An unresolvable quote
// degrades to an empty result because preview is advisory.
func (s *Service) Preview(ctx context.Context, quoteID uuid.UUID, req transport.PreviewRequest) (*transport.PreviewResponse, error) {
	empty := &transport.PreviewResponse{QuoteID: quoteID, Items: []transport.PreviewItem{}}

	quote, err := s.quotes.GetQuoteForConversion(ctx, quoteID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return empty, nil
		}
		return nil, err
	}
	if quote.Status != statusWon {
		return nil, apperr.Ineligible(fmt.Sprintf("quote %s is not won and cannot be converted", quote.QuoteNumber))
	}

	location := s.location(req.SourceLocation)
	selected := selectItems(quote.Items, req.Selection)

	resp := &transport.PreviewResponse{
		QuoteID: quoteID,
		Items:   make([]transport.PreviewItem, 0, len(selected)),
	}
	for _, it := range selected {
		line := transport.PreviewItem{
			LineItemID:  it.ID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
		}
		if it.ProductID == nil {
			line.AdHoc = true
			resp.HasAdHocItems = true
		} else {
			stock, err := s.inventory.GetStock(ctx, *it.ProductID, location)
			if err != nil {
				return nil, err
			}
			line.AvailableQuantity = stock.OnHand - stock.Reserved
			line.HasSufficientStock = line.AvailableQuantity >= it.Quantity
			if !line.HasSufficientStock {
				resp.HasInsufficientStock = true
			}
		}
		resp.Items = append(resp.Items, line)
		resp.TotalItems++
		resp.TotalQuantity += it.Quantity
		resp.TotalValueCents += it.LineTotalCents
	}

	return resp, nil
}

// Commit converts a won quote into a fulfillment order. Ad-hoc items are
// skipped with a warning; a selection with no orderable items at all is an
// error. A collaborator failure surfaces verbatim and leaves the quote
// untouched.
func (s *Service) Commit(ctx context.Context, quoteID, actorID uuid.UUID, req transport.CommitRequest) (*transport.CommitResponse, error) {
	quote, err := s.quotes.GetQuoteForConversion(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != statusWon {
		return nil, apperr.Ineligible(fmt.Sprintf("quote %s is not won and cannot be converted", quote.QuoteNumber))
	}

	selected := selectItems(quote.Items, req.Selection)
	orderable, adHoc := partitionOrderable(selected)

	var warnings []string
	if len(adHoc) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d ad-hoc item(s) skipped", len(adHoc)))
	}
	if len(orderable) == 0 {
		return nil, apperr.Ineligible("no orderable items in selection").WithDetails(warnings)
	}

	lines := make([]ports.OrderLine, 0, len(orderable))
	for _, it := range orderable {
		lines = append(lines, ports.OrderLine{
			ProductID:      *it.ProductID,
			Quantity:       ceilQuantity(it.Quantity),
			UnitPriceCents: it.UnitPriceCents,
		})
	}

	notes := fmt.Sprintf("Converted from quote %s", quote.QuoteNumber)
	if strings.TrimSpace(req.Notes) != "" {
		notes += ". " + req.Notes
	}

	result, err := s.orders.CreateOrder(ctx, ports.OrderRequest{
		DestinationSite:   req.DestinationSite,
		SourceLocation:    s.location(req.SourceLocation),
		RequestedByID:     actorID,
		RequiredBy:        req.RequiredBy,
		Notes:             notes,
		SourceQuoteID:     quote.ID,
		SourceQuoteNumber: quote.QuoteNumber,
		Lines:             lines,
	})
	if err != nil {
		return nil, apperr.Collaborator(err.Error()).WithDetails(warnings)
	}

	// Best-effort linkage. The order already exists; a failed note leaves the
	// quote without the back-reference, so the caller gets a warning instead
	// of an error.
	noteBody := fmt.Sprintf("Converted to order %s (%d item(s)) at %s",
		result.OrderNumber, len(lines), time.Now().Format(time.RFC3339))
	if err := s.notes.AppendConversionNote(ctx, quote.ID, actorID, noteBody); err != nil {
		s.log.Warn("conversion note append failed",
			"quoteId", quote.ID, "orderNumber", result.OrderNumber, "error", err.Error())
		warnings = append(warnings, "linkage note could not be recorded")
	}

	s.bus.Publish(ctx, events.QuoteConverted{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		ItemCount:   len(lines),
		ActorID:     actorID,
	})
	s.log.ConversionResult(quote.QuoteNumber, result.OrderNumber, len(lines), len(warnings))

	if warnings == nil {
		warnings = []string{}
	}
	return &transport.CommitResponse{
		OrderID:         result.OrderID,
		OrderNumber:     result.OrderNumber,
		ItemCount:       len(lines),
		TotalValueCents: result.TotalValueCents,
		Warnings:        warnings,
	}, nil
}
