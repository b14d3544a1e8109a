package parts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"parts-manager/core/classify"
	"parts-manager/core/logger"
	"parts-manager/core/metrics"
	"parts-manager/core/reconcile"
	"parts-manager/core/supplier"

	"go.uber.org/zap"
)

// ErrReconciliationFailed is returned when no usable source answered or the
// taxonomy could not be loaded. It wraps the originating causes.
var ErrReconciliationFailed = errors.New("part reconciliation failed")

// ErrArchiveDisabled is returned by archive operations when no archive is configured.
var ErrArchiveDisabled = errors.New("metadata archive is disabled")

const (
	operationSingle = "single"
	operationMany   = "many"
)

// PartTypeStore is the persistence the service needs for part types.
type PartTypeStore interface {
	TaxonomyProvider
	GetOrCreatePartType(ctx context.Context, userID int64, pt *classify.PartType) (classify.PartType, bool, error)
}

// Dependencies are the collaborators of the service. Results and Archive
// are optional.
type Dependencies struct {
	Sources   supplier.Set
	PartTypes PartTypeStore
	Results   *ResultCache
	Archive   *Archive
	Logger    *zap.Logger
}

// Options tune a Service.
type Options struct {
	CostPolicy   reconcile.CostPolicy
	FetchTimeout time.Duration
	TaxonomyTTL  time.Duration
}

// Service reconciles supplier listings into classified part records.
type Service struct {
	sources   supplier.Set
	partTypes PartTypeStore
	taxonomy  *TaxonomyCache
	results   *ResultCache
	archive   *Archive
	logger    *zap.Logger
	opts      Options
}

// NewService creates a new parts service.
func NewService(deps Dependencies, opts Options) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.CostPolicy == "" {
		opts.CostPolicy = reconcile.CostPolicyNoneWithoutPrice
	}
	return &Service{
		sources:   deps.Sources,
		partTypes: deps.PartTypes,
		taxonomy:  NewTaxonomyCache(deps.PartTypes, opts.TaxonomyTTL),
		results:   deps.Results,
		archive:   deps.Archive,
		logger:    log,
		opts:      opts,
	}
}

// requestLogger tags the logger with the ray id, assigning one when ctx has none.
func (s *Service) requestLogger(ctx context.Context, userID int64, q supplier.Query) (context.Context, *zap.Logger) {
	if _, ok := logger.RayIDFromContext(ctx); !ok {
		ctx = logger.ContextWithRayID(ctx, "")
	}
	l := logger.WithRayID(s.logger, ctx).With(
		zap.Int64("user_id", userID),
		zap.String("part_number", q.PartNumber),
	)
	return ctx, l
}

func validateQuery(q supplier.Query) (supplier.Query, error) {
	q.PartNumber = strings.TrimSpace(q.PartNumber)
	if q.PartNumber == "" {
		return q, fmt.Errorf("%w: part number is required", classify.ErrInvalidArgument)
	}
	return q, nil
}

// gather fetches every source under the configured timeout. A source that
// exceeds the timeout counts as failed. gather fails when the request itself
// was cancelled or every configured source failed.
func (s *Service) gather(ctx context.Context, q supplier.Query, log *zap.Logger) (reconcile.Sources, error) {
	fetchCtx := ctx
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	res, err := supplier.Gather(fetchCtx, s.sources, q, log)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return reconcile.Sources{}, errors.Join(ctxErr, res.Err())
	}
	if err != nil {
		log.Warn("Supplier fetch timed out", zap.Duration("timeout", s.opts.FetchTimeout))
	}
	if res.AllFailed() {
		return reconcile.Sources{}, res.Err()
	}
	return res.Sources, nil
}

func (s *Service) fail(operation string, log *zap.Logger, err error) error {
	metrics.ReconciliationsTotal.WithLabelValues(operation, metrics.OutcomeFailed).Inc()
	log.Error("Reconciliation failed", zap.Error(err))
	return fmt.Errorf("%w: %w", ErrReconciliationFailed, err)
}

// ReconcileAndClassify builds the canonical record for a part number and
// assigns its part type and keywords. found is false when no source
// produced a candidate or a datasheet.
func (s *Service) ReconcileAndClassify(ctx context.Context, userID int64, q supplier.Query) (reconcile.PartMetadata, bool, error) {
	q, err := validateQuery(q)
	if err != nil {
		return reconcile.PartMetadata{}, false, err
	}
	ctx, log := s.requestLogger(ctx, userID, q)

	if s.results != nil {
		cached, ok, err := s.results.Get(ctx, userID, q)
		switch {
		case err != nil:
			log.Warn("Result cache lookup failed", zap.Error(err))
		case ok:
			metrics.ReconciliationsTotal.WithLabelValues(operationSingle, metrics.OutcomeCached).Inc()
			log.Debug("Serving cached metadata")
			return cached, true, nil
		}
	}

	sources, err := s.gather(ctx, q, log)
	if err != nil {
		return reconcile.PartMetadata{}, false, s.fail(operationSingle, log, err)
	}

	m, ok := reconcile.Merge(sources, s.opts.CostPolicy)
	if !ok {
		metrics.ReconciliationsTotal.WithLabelValues(operationSingle, metrics.OutcomeNotFound).Inc()
		log.Info("Part not found at any supplier")
		return reconcile.PartMetadata{}, false, nil
	}

	tax, err := s.taxonomy.Get(ctx, userID)
	if err != nil {
		return reconcile.PartMetadata{}, false, s.fail(operationSingle, log, err)
	}
	classify.ClassifyMetadata(&m, tax)
	metrics.ClassifiedPartTypes.WithLabelValues(strconv.FormatBool(m.PartType != "")).Inc()

	s.store(ctx, userID, q, m, log)

	metrics.ReconciliationsTotal.WithLabelValues(operationSingle, metrics.OutcomeFound).Inc()
	log.Info("Part reconciled",
		zap.String("part_type", m.PartType),
		zap.String("lowest_cost_supplier", string(m.LowestCostSupplier)))
	return m, true, nil
}

// store archives and caches m. Failures are logged only.
func (s *Service) store(ctx context.Context, userID int64, q supplier.Query, m reconcile.PartMetadata, log *zap.Logger) {
	if s.archive != nil {
		if err := s.archive.Put(ctx, userID, m); err != nil {
			log.Warn("Failed to archive metadata", zap.Error(err))
		}
	}
	if s.results != nil {
		if err := s.results.Set(ctx, userID, q, m); err != nil {
			log.Warn("Failed to cache metadata", zap.Error(err))
		}
	}
}

// ReconcileAndClassifyMany returns one classified record per listing of every
// listing source. An empty slice means nothing was found.
func (s *Service) ReconcileAndClassifyMany(ctx context.Context, userID int64, q supplier.Query) ([]reconcile.CommonPart, error) {
	q, err := validateQuery(q)
	if err != nil {
		return nil, err
	}
	ctx, log := s.requestLogger(ctx, userID, q)

	sources, err := s.gather(ctx, q, log)
	if err != nil {
		return nil, s.fail(operationMany, log, err)
	}

	parts := reconcile.ToCommonParts(sources)
	if len(parts) == 0 {
		metrics.ReconciliationsTotal.WithLabelValues(operationMany, metrics.OutcomeNotFound).Inc()
		log.Info("Part not found at any supplier")
		return parts, nil
	}

	tax, err := s.taxonomy.Get(ctx, userID)
	if err != nil {
		return nil, s.fail(operationMany, log, err)
	}
	for i := range parts {
		classify.ClassifyCommonPart(&parts[i], tax)
		metrics.ClassifiedPartTypes.WithLabelValues(strconv.FormatBool(parts[i].PartType != "")).Inc()
	}

	metrics.ReconciliationsTotal.WithLabelValues(operationMany, metrics.OutcomeFound).Inc()
	log.Info("Parts reconciled", zap.Int("results", len(parts)))
	return parts, nil
}

// GetPartTypes returns the taxonomy of a user.
func (s *Service) GetPartTypes(ctx context.Context, userID int64) ([]classify.PartType, error) {
	tax, err := s.taxonomy.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tax.PartTypes(), nil
}

// GetOrCreatePartType returns the named part type, creating it for the user
// when missing. Creating a part type refreshes the user's taxonomy and drops
// the user's cached records, whose classification may change.
func (s *Service) GetOrCreatePartType(ctx context.Context, userID int64, pt *classify.PartType) (classify.PartType, error) {
	if s.partTypes == nil {
		return classify.PartType{}, fmt.Errorf("%w: no part type store", classify.ErrInvalidArgument)
	}
	out, created, err := s.partTypes.GetOrCreatePartType(ctx, userID, pt)
	if err != nil {
		return classify.PartType{}, err
	}
	if created {
		s.taxonomy.Invalidate(userID)
		if s.results != nil {
			if err := s.results.InvalidateUser(ctx, userID); err != nil {
				s.logger.Warn("Failed to drop cached metadata", zap.Int64("user_id", userID), zap.Error(err))
			}
		}
		s.logger.Info("Part type created", zap.Int64("user_id", userID), zap.String("name", out.Name))
	}
	return out, nil
}

// GetArchived returns the last archived record of a part number.
func (s *Service) GetArchived(ctx context.Context, userID int64, partNumber string) (reconcile.PartMetadata, bool, error) {
	if s.archive == nil {
		return reconcile.PartMetadata{}, false, ErrArchiveDisabled
	}
	return s.archive.Get(ctx, userID, strings.TrimSpace(partNumber))
}

// ListArchived returns the part numbers archived for a user.
func (s *Service) ListArchived(ctx context.Context, userID int64) ([]string, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.List(ctx, userID)
}

// RemoveArchived deletes the archived record of a part number.
func (s *Service) RemoveArchived(ctx context.Context, userID int64, partNumber string) error {
	if s.archive == nil {
		return ErrArchiveDisabled
	}
	if err := s.archive.Remove(ctx, userID, strings.TrimSpace(partNumber)); err != nil {
		return err
	}
	s.logger.Info("Archived metadata removed", zap.Int64("user_id", userID), zap.String("part_number", partNumber))
	return nil
}
