package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pazlcollab/internal/domain"
	"pazlcollab/internal/platform/metrics"
	"pazlcollab/internal/recordstore"
	"pazlcollab/pkg/sentinel"
)

// RecordAPI is the slice of the record store the catalog reads.
type RecordAPI interface {
	List(ctx context.Context, opts recordstore.ListOptions) ([]recordstore.Record, error)
	Get(ctx context.Context, id string) (recordstore.Record, error)
}

// approvedFormula matches every spelling of approved the store has carried:
// decorated and plain, both locales. Moderators edit statuses by hand, so the
// read side accepts them all.
var approvedFormula = fmt.Sprintf(
	"OR({%[1]s}='🟢 Approved',{%[1]s}='Approved',{%[1]s}='🟢 Одобрено',{%[1]s}='Одобрено')",
	recordstore.FieldStatus,
)

// Service reads approved experts through the cache.
type Service struct {
	store   RecordAPI
	cache   Cache
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewService(store RecordAPI, cache Cache, log *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, cache: cache, log: log, metrics: m}
}

// Experts returns the approved listing, serving the cache while fresh and
// falling back to a stale copy when the store is unreachable.
func (s *Service) Experts(ctx context.Context) ([]Expert, error) {
	if experts, ok := s.cache.Fresh(ctx); ok {
		if s.metrics != nil {
			s.metrics.CatalogCacheHits.Inc()
		}
		return experts, nil
	}

	recs, err := s.store.List(ctx, recordstore.ListOptions{Formula: approvedFormula})
	if err != nil {
		if stale, ok := s.cache.Stale(ctx); ok {
			if s.metrics != nil {
				s.metrics.CatalogCacheStale.Inc()
			}
			s.log.Warn("serving stale catalog, store unreachable", zap.Error(err))
			return stale, nil
		}
		return nil, err
	}

	experts := make([]Expert, 0, len(recs))
	for _, rec := range recs {
		experts = append(experts, expertFromRecord(rec))
	}
	s.cache.Set(ctx, experts)
	return experts, nil
}

// ByTelegramID returns one profile regardless of moderation status, so users
// can check their own standing.
func (s *Service) ByTelegramID(ctx context.Context, telegramID string) (Expert, error) {
	formula := fmt.Sprintf("{%s}='%s'", recordstore.FieldTelegramID, telegramID)
	recs, err := s.store.List(ctx, recordstore.ListOptions{Formula: formula, MaxRecords: 1})
	if err != nil {
		return Expert{}, err
	}
	if len(recs) == 0 {
		return Expert{}, sentinel.ErrNotFound
	}
	return expertFromRecord(recs[0]), nil
}

// ByRecordID returns one approved expert by record identifier.
func (s *Service) ByRecordID(ctx context.Context, recordID string) (Expert, error) {
	rec, err := s.store.Get(ctx, recordID)
	if err != nil {
		return Expert{}, err
	}
	e := expertFromRecord(rec)
	if e.Status != domain.StatusApproved.String() {
		return Expert{}, sentinel.ErrNotFound
	}
	return e, nil
}
