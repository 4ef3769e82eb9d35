package service

import (
	"context"
	"fmt"
	"time"

	"quotehub_backend/internal/events"
	"quotehub_backend/internal/quotes/ports"
	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"
	"quotehub_backend/platform/apperr"
	"quotehub_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for quotes
type Service struct {
	repo    *repository.Repository
	catalog ports.CatalogReader // optional, nil disables product lookups
	bus     events.Bus
	log     *logger.Logger
}

// New creates a new quotes service
func New(repo *repository.Repository, catalog ports.CatalogReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, bus: bus, log: log}
}

// Create creates a new quote draft with its sections, items and contacts.
// Totals are computed server-side before the aggregate is persisted, so the
// stored row is consistent from its first write.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateQuoteRequest) (*transport.QuoteResponse, error) {
	quoteNumber, err := s.repo.NextQuoteNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate quote number: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	now := time.Now()
	quote := repository.Quote{
		ID:              uuid.New(),
		QuoteNumber:     quoteNumber,
		Version:         1,
		Status:          string(transport.QuoteStatusDraft),
		ClientName:      req.ClientName,
		ClientReference: req.ClientReference,
		ProjectName:     req.ProjectName,
		Currency:        currency,
		DiscountPercent: req.DiscountPercent,
		VatRate:         req.VatRate,
		ValidUntil:      req.ValidUntil,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var sections []repository.Section
	var items []repository.LineItem
	for si, sreq := range req.Sections {
		section := repository.Section{
			ID:          uuid.New(),
			QuoteID:     quote.ID,
			Name:        sreq.Name,
			Description: sreq.Description,
			TemplateRef: sreq.TemplateRef,
			SortOrder:   si,
			CreatedAt:   now,
		}
		sections = append(sections, section)

		for ii, ireq := range sreq.Items {
			item, err := s.buildItem(ctx, quote.ID, section.ID, ii, ireq, now)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
	}

	contacts := buildContacts(quote.ID, req.Contacts, now)

	// Compute totals up front so the insert carries consistent derived fields.
	computed := ComputeAggregate(&quote, sections, items)
	applyComputed(&quote, sections, items, computed)

	actor := actorID
	note := repository.Note{
		ID:        uuid.New(),
		QuoteID:   quote.ID,
		ActorID:   &actor,
		NoteType:  "system",
		Body:      fmt.Sprintf("Quote %s created", quoteNumber),
		CreatedAt: now,
	}

	if err := s.repo.CreateAggregate(ctx, &quote, sections, items, contacts, []repository.Note{note}); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	s.bus.Publish(ctx, events.QuoteCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		ActorID:     actorID,
	})

	return s.Get(ctx, quote.ID)
}

// buildItem resolves catalog defaults and assembles a line item row
func (s *Service) buildItem(ctx context.Context, quoteID, sectionID uuid.UUID, sortOrder int, req transport.LineItemRequest, now time.Time) (*repository.LineItem, error) {
	item := repository.LineItem{
		ID:             uuid.New(),
		SectionID:      sectionID,
		QuoteID:        quoteID,
		ProductID:      req.ProductID,
		Description:    req.Description,
		Unit:           req.Unit,
		Quantity:       req.Quantity,
		UnitPriceCents: req.UnitPriceCents,
		UnitCostCents:  req.UnitCostCents,
		SortOrder:      sortOrder,
		CreatedAt:      now,
	}

	if req.ProductID != nil && s.catalog != nil {
		product, err := s.catalog.GetProduct(ctx, *req.ProductID)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("product %s not found", req.ProductID))
		}
		// Catalog values fill in whatever the caller left blank.
		if item.Description == "" {
			item.Description = product.Name
		}
		if item.Unit == "" {
			item.Unit = product.Unit
		}
		if item.UnitPriceCents == 0 {
			item.UnitPriceCents = product.UnitPriceCents
		}
		if item.UnitCostCents == 0 {
			item.UnitCostCents = product.UnitCostCents
		}
	}

	if item.Unit == "" {
		item.Unit = "pcs"
	}
	if item.Description == "" {
		return nil, apperr.Validation("line item requires a description or a product reference")
	}
	return &item, nil
}

// buildContacts assembles contact rows, keeping at most one primary. When
// several requests claim primary, the first wins and the rest are demoted.
func buildContacts(quoteID uuid.UUID, reqs []transport.ContactRequest, now time.Time) []repository.Contact {
	var contacts []repository.Contact
	primarySeen := false
	for _, creq := range reqs {
		isPrimary := creq.IsPrimary && !primarySeen
		if isPrimary {
			primarySeen = true
		}
		contacts = append(contacts, repository.Contact{
			ID:        uuid.New(),
			QuoteID:   quoteID,
			Name:      creq.Name,
			Email:     creq.Email,
			Phone:     creq.Phone,
			Role:      creq.Role,
			IsPrimary: isPrimary,
			CreatedAt: now,
		})
	}
	return contacts
}

// applyComputed copies derived fields back onto in-memory models before insert
func applyComputed(q *repository.Quote, sections []repository.Section, items []repository.LineItem, computed repository.Computed) {
	for i := range items {
		t := computed.Items[items[i].ID]
		items[i].LineTotalCents = t.LineTotalCents
		items[i].LineCostCents = t.LineCostCents
		items[i].LineMarginCents = t.LineMarginCents
		items[i].MarginPercent = t.MarginPercent
	}
	for i := range sections {
		t := computed.Sections[sections[i].ID]
		sections[i].SectionTotalCents = t.SectionTotalCents
		sections[i].SectionCostCents = t.SectionCostCents
		sections[i].SectionMarginCents = t.SectionMarginCents
	}
	qt := computed.Quote
	q.SubtotalCents = qt.SubtotalCents
	q.DiscountAmountCents = qt.DiscountAmountCents
	q.NetTotalCents = qt.NetTotalCents
	q.VatAmountCents = qt.VatAmountCents
	q.GrandTotalCents = qt.GrandTotalCents
	q.TotalCostCents = qt.TotalCostCents
	q.TotalMarginCents = qt.TotalMarginCents
	q.MarginPercent = qt.MarginPercent
}

// Get retrieves the full quote aggregate
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.repo.GetSections(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByQuoteID(ctx, id)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repo.GetContacts(ctx, id)
	if err != nil {
		return nil, err
	}
	return assembleResponse(quote, sections, items, contacts), nil
}

// List retrieves quotes with filtering and pagination
func (s *Service) List(ctx context.Context, req transport.ListQuotesRequest) (*transport.QuoteListResponse, error) {
	params := repository.ListParams{
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.Status != "" {
		status := req.Status
		params.Status = &status
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.QuoteResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, *headerResponse(&result.Items[i]))
	}
	return &transport.QuoteListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update edits whole-quote fields. Permitted only while the quote is in Draft.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateQuoteRequest) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil {
		quote.ClientName = *req.ClientName
	}
	if req.ClientReference != nil {
		quote.ClientReference = req.ClientReference
	}
	if req.ProjectName != nil {
		quote.ProjectName = *req.ProjectName
	}
	if req.Currency != nil {
		quote.Currency = *req.Currency
	}
	if req.DiscountPercent != nil {
		quote.DiscountPercent = *req.DiscountPercent
	}
	if req.VatRate != nil {
		quote.VatRate = *req.VatRate
	}
	if req.ValidUntil != nil {
		quote.ValidUntil = req.ValidUntil
	}
	quote.UpdatedAt = time.Now()

	if err := s.repo.UpdateHeaderFields(ctx, draftGuard("quote fields can only be edited in Draft"), quote); err != nil {
		return nil, err
	}

	// Discount or VAT changes ripple into the derived totals.
	if req.DiscountPercent != nil || req.VatRate != nil {
		if err := s.Recalculate(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a quote. Only drafts can be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, draftGuard("only Draft quotes can be deleted"), id)
}

// Recalculate runs the full bottom-up totals cascade for one quote. The
// repository serializes concurrent passes on the same quote via a row lock.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) error {
	return s.repo.RecalculateTx(ctx, id, ComputeAggregate)
}

// Preview computes the full totals cascade for unsaved input. Nothing is
// persisted, so the same payload always yields the same result.
func (s *Service) Preview(req *transport.CalculateRequest) *transport.CalculateResponse {
	resp := &transport.CalculateResponse{
		Sections: make([]transport.CalculateSectionResult, 0, len(req.Sections)),
	}

	sectionTotals := make([]repository.SectionTotals, 0, len(req.Sections))
	for _, sec := range req.Sections {
		lines := make([]repository.ItemTotals, 0, len(sec.Items))
		items := make([]transport.CalculateLineResult, 0, len(sec.Items))
		for _, it := range sec.Items {
			lt := ComputeLine(it.Quantity, it.UnitPriceCents, it.UnitCostCents)
			lines = append(lines, lt)
			items = append(items, transport.CalculateLineResult{
				Description:     it.Description,
				Unit:            it.Unit,
				Quantity:        it.Quantity,
				UnitPriceCents:  it.UnitPriceCents,
				UnitCostCents:   it.UnitCostCents,
				LineTotalCents:  lt.LineTotalCents,
				LineCostCents:   lt.LineCostCents,
				LineMarginCents: lt.LineMarginCents,
				MarginPercent:   lt.MarginPercent,
			})
		}

		st := ComputeSection(lines)
		sectionTotals = append(sectionTotals, st)
		resp.Sections = append(resp.Sections, transport.CalculateSectionResult{
			Name:               sec.Name,
			SectionTotalCents:  st.SectionTotalCents,
			SectionCostCents:   st.SectionCostCents,
			SectionMarginCents: st.SectionMarginCents,
			Items:              items,
		})
	}

	qt := ComputeQuote(sectionTotals, req.DiscountPercent, req.VatRate)
	resp.SubtotalCents = qt.SubtotalCents
	resp.DiscountAmountCents = qt.DiscountAmountCents
	resp.NetTotalCents = qt.NetTotalCents
	resp.VatAmountCents = qt.VatAmountCents
	resp.GrandTotalCents = qt.GrandTotalCents
	resp.TotalCostCents = qt.TotalCostCents
	resp.TotalMarginCents = qt.TotalMarginCents
	resp.MarginPercent = qt.MarginPercent
	return resp
}

// ── Response assembly ─────────────────────────────────────────────────────────

func headerResponse(q *repository.Quote) *transport.QuoteResponse {
	return &transport.QuoteResponse{
		ID:                  q.ID,
		QuoteNumber:         q.QuoteNumber,
		Version:             q.Version,
		ParentID:            q.ParentID,
		Status:              transport.QuoteStatus(q.Status),
		ClientName:          q.ClientName,
		ClientReference:     q.ClientReference,
		ProjectName:         q.ProjectName,
		Currency:            q.Currency,
		DiscountPercent:     q.DiscountPercent,
		VatRate:             q.VatRate,
		SubtotalCents:       q.SubtotalCents,
		DiscountAmountCents: q.DiscountAmountCents,
		NetTotalCents:       q.NetTotalCents,
		VatAmountCents:      q.VatAmountCents,
		GrandTotalCents:     q.GrandTotalCents,
		TotalCostCents:      q.TotalCostCents,
		TotalMarginCents:    q.TotalMarginCents,
		MarginPercent:       q.MarginPercent,
		ValidUntil:          q.ValidUntil,
		SubmittedAt:         q.SubmittedAt,
		ApprovedAt:          q.ApprovedAt,
		ApprovedByID:        q.ApprovedByID,
		RejectedAt:          q.RejectedAt,
		WonAt:               q.WonAt,
		LostAt:              q.LostAt,
		ExpiredAt:           q.ExpiredAt,
		CancelledAt:         q.CancelledAt,
		Sections:            []transport.SectionResponse{},
		Contacts:            []transport.ContactResponse{},
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
	}
}

func assembleResponse(q *repository.Quote, sections []repository.Section, items []repository.LineItem, contacts []repository.Contact) *transport.QuoteResponse {
	resp := headerResponse(q)

	itemsBySection := make(map[uuid.UUID][]transport.LineItemResponse, len(sections))
	for _, it := range items {
		itemsBySection[it.SectionID] = append(itemsBySection[it.SectionID], transport.LineItemResponse{
			ID:              it.ID,
			SectionID:       it.SectionID,
			ProductID:       it.ProductID,
			Description:     it.Description,
			Unit:            it.Unit,
			Quantity:        it.Quantity,
			UnitPriceCents:  it.UnitPriceCents,
			UnitCostCents:   it.UnitCostCents,
			SortOrder:       it.SortOrder,
			LineTotalCents:  it.LineTotalCents,
			LineCostCents:   it.LineCostCents,
			LineMarginCents: it.LineMarginCents,
			MarginPercent:   it.MarginPercent,
		})
	}

	for _, sec := range sections {
		sectionItems := itemsBySection[sec.ID]
		if sectionItems == nil {
			sectionItems = []transport.LineItemResponse{}
		}
		resp.Sections = append(resp.Sections, transport.SectionResponse{
			ID:                 sec.ID,
			Name:               sec.Name,
			Description:        sec.Description,
			TemplateRef:        sec.TemplateRef,
			SortOrder:          sec.SortOrder,
			SectionTotalCents:  sec.SectionTotalCents,
			SectionCostCents:   sec.SectionCostCents,
			SectionMarginCents: sec.SectionMarginCents,
			Items:              sectionItems,
		})
	}

	for _, c := range contacts {
		resp.Contacts = append(resp.Contacts, transport.ContactResponse{
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Phone:     c.Phone,
			Role:      c.Role,
			IsPrimary: c.IsPrimary,
		})
	}

	return resp
}
