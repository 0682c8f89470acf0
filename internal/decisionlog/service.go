package decisionlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plataforma-sst/accessgate/internal/shared"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Insert(ctx context.Context, rec Record) error
	List(ctx context.Context, f Filter, limit, offset int) ([]Record, error)
	Count(ctx context.Context, f Filter) (int, error)
}

// Service records decisions asynchronously and serves the audit timeline.
type Service struct {
	logger *slog.Logger
	store  Store
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, store Store) *Service {
	return &Service{logger: logger, store: store, now: time.Now}
}

// Record persists the record off the request path. Failures are logged and
// swallowed; auditing never fails a request.
func (s *Service) Record(ctx context.Context, rec Record) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.At.IsZero() {
		rec.At = s.now().UTC()
	}
	go func() {
		insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.store.Insert(insertCtx, rec); err != nil {
			s.logger.Warn("record access decision", slog.Any("error", err))
		}
	}()
}

// TimelinePage is one page of the decision timeline.
type TimelinePage struct {
	Records    []Record          `json:"records"`
	Pagination shared.Pagination `json:"pagination"`
}

// Timeline lists decisions matching the filter, newest first.
func (s *Service) Timeline(ctx context.Context, f Filter, page, perPage int) (TimelinePage, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = shared.DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	total, err := s.store.Count(ctx, f)
	if err != nil {
		return TimelinePage{}, err
	}
	records, err := s.store.List(ctx, f, perPage, (page-1)*perPage)
	if err != nil {
		return TimelinePage{}, err
	}
	if records == nil {
		records = []Record{}
	}
	return TimelinePage{
		Records:    records,
		Pagination: shared.NewPagination(page, perPage, total),
	}, nil
}
