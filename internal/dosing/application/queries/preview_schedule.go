package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
)

// PreviewScheduleQuery resolves a definition without storing anything.
type PreviewScheduleQuery struct {
	MedicineID uuid.UUID
	Dose       string
	Definition domain.ScheduleDefinition
	RangeEnd   *time.Time
}

// PreviewDTO is the outcome of a preview.
type PreviewDTO struct {
	Medicine domain.MedicineSnapshot
	Resolved *domain.ResolvedSchedule
	Events   []domain.IntakeEvent
	Days     []domain.DayGroup
	// ExpiryDate and CountDate are the end dates the other modes would
	// produce, for an editing session to match raw date edits against.
	ExpiryDate *time.Time
	CountDate  *time.Time
}

// PreviewScheduleHandler handles the PreviewScheduleQuery.
type PreviewScheduleHandler struct {
	stock    domain.StockReader
	resolver *domain.EndResolver
}

// NewPreviewScheduleHandler creates a new PreviewScheduleHandler.
func NewPreviewScheduleHandler(stock domain.StockReader, resolver *domain.EndResolver) *PreviewScheduleHandler {
	return &PreviewScheduleHandler{stock: stock, resolver: resolver}
}

// Handle executes the PreviewScheduleQuery.
func (h *PreviewScheduleHandler) Handle(ctx context.Context, query PreviewScheduleQuery) (*PreviewDTO, error) {
	medicine, err := h.stock.Snapshot(ctx, query.MedicineID)
	if err != nil {
		return nil, fmt.Errorf("read medicine %s: %w", query.MedicineID, err)
	}

	resolved, err := h.resolver.Resolve(domain.ResolveRequest{
		Definition: query.Definition,
		Stock:      medicine.Stock,
		Expiry:     medicine.Expiry,
		RangeEnd:   query.RangeEnd,
	})
	if err != nil {
		return nil, err
	}

	// Preview events carry no schedule identity yet.
	events := domain.Project(uuid.Nil, resolved, query.Dose)
	dto := &PreviewDTO{
		Medicine: *medicine,
		Resolved: resolved,
		Events:   events,
		Days:     domain.GroupByDay(events),
	}
	dto.ExpiryDate, dto.CountDate = h.resolver.Candidates(query.Definition, medicine.Stock, medicine.Expiry)
	return dto, nil
}
