package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/config"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/domain/schedule"
	"github.com/laev/remem-api/internal/platform/logger"
	"github.com/laev/remem-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	items    store.ItemStore
	windows  store.WindowStore
	outcomes store.OutcomeStore
	locks    *itemLocks
	logger   *slog.Logger

	rejectDuplicate bool
	lockTimeout     time.Duration

	// runTx and now are injectable so tests can run the transactional
	// paths against in-memory stores and a fixed clock.
	runTx func(ctx context.Context, fn store.TxFn) error
	now   func() time.Time
}

// NewReviewService creates a new ReviewService implementation backed by the
// given database and stores.
func NewReviewService(
	db *sql.DB,
	items store.ItemStore,
	windows store.WindowStore,
	outcomes store.OutcomeStore,
	cfg config.ReviewConfig,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if items == nil {
		panic("items store cannot be nil")
	}
	if windows == nil {
		panic("windows store cannot be nil")
	}
	if outcomes == nil {
		panic("outcomes store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		items:           items,
		windows:         windows,
		outcomes:        outcomes,
		locks:           newItemLocks(),
		logger:          logger.With(slog.String("component", "review_service")),
		rejectDuplicate: cfg.RejectDuplicateOutcome,
		lockTimeout:     time.Duration(cfg.LockTimeoutMillis) * time.Millisecond,
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		now: time.Now,
	}
}

// CreateItem implements ReviewService.CreateItem.
// It persists the item and its initial review window in one transaction.
func (s *reviewServiceImpl) CreateItem(
	ctx context.Context,
	ownerID uuid.UUID,
	mainText, subText, offset string,
) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	loc, err := schedule.ParseOffset(offset)
	if err != nil {
		log.Warn("invalid offset on item creation",
			slog.String("owner_id", ownerID.String()),
			slog.String("offset", offset))
		return nil, err
	}

	item, err := domain.NewItem(ownerID, mainText, subText)
	if err != nil {
		log.Warn("item validation failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	start, end := schedule.DayWindow(s.now(), loc)
	window, err := domain.NewReviewWindow(item.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build initial window: %w", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.items.WithTx(tx).Create(ctx, item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		if err := s.windows.WithTx(tx).Create(ctx, window); err != nil {
			return fmt.Errorf("failed to create initial window: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create item",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_item", "transaction failed", err)
	}

	log.Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.Time("window_start", window.Start))

	return item, nil
}

// ListDueAt implements ReviewService.ListDueAt.
func (s *reviewServiceImpl) ListDueAt(
	ctx context.Context,
	ownerID uuid.UUID,
	at time.Time,
) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.items.ListDueAt(ctx, ownerID, at.UTC())
	if err != nil {
		log.Error("failed to list due items",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("list_due", "query failed", err)
	}

	log.Debug("listed due items",
		slog.String("owner_id", ownerID.String()),
		slog.Time("at", at),
		slog.Int("count", len(items)))

	return items, nil
}

// ListAll implements ReviewService.ListAll.
// For each item it combines the window schedule with the outcome ledger to
// derive counts, upcoming dates, the per-outcome history partition, and the
// skipped windows.
func (s *reviewServiceImpl) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*ItemView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list items",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("list_all", "query failed", err)
	}

	now := s.now().UTC()
	views := make([]*ItemView, 0, len(items))
	for _, item := range items {
		view, err := s.buildView(ctx, item, now)
		if err != nil {
			log.Error("failed to build item view",
				slog.String("item_id", item.ID.String()),
				slog.String("error", err.Error()))
			return nil, NewServiceError("list_all", "view derivation failed", err)
		}
		views = append(views, view)
	}

	return views, nil
}

// buildView derives one item's review state at the given instant.
func (s *reviewServiceImpl) buildView(ctx context.Context, item *domain.Item, now time.Time) (*ItemView, error) {
	windows, err := s.windows.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}

	records, err := s.outcomes.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}

	counts, err := s.outcomes.CountsForItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}

	view := &ItemView{
		Item:         item,
		SuccessCount: counts.Success,
		FailCount:    counts.Fail,
	}

	for _, rec := range records {
		if rec.WasMemorized {
			view.MemorizedDates = append(view.MemorizedDates, rec.RecordedAt)
		} else {
			view.NotMemorizedDates = append(view.NotMemorizedDates, rec.RecordedAt)
		}
	}

	for _, w := range windows {
		if w.Start.After(now) {
			view.UpcomingReviewDates = append(view.UpcomingReviewDates, w.Start)
			continue
		}
		if w.Elapsed(now) && !windowResolved(w, records) {
			view.SkippedDates = append(view.SkippedDates, w.Start)
		}
	}

	return view, nil
}

// windowResolved reports whether any ledger entry was recorded inside the
// window's [start, end) interval.
func windowResolved(w *domain.ReviewWindow, records []*domain.OutcomeRecord) bool {
	for _, rec := range records {
		if w.Contains(rec.RecordedAt) {
			return true
		}
	}
	return false
}

// RecordOutcome implements ReviewService.RecordOutcome.
// The ledger append and the conditional window shift run in one transaction
// inside the item's critical section, so concurrent submissions on the same
// item cannot double-shift or lose updates.
func (s *reviewServiceImpl) RecordOutcome(
	ctx context.Context,
	ownerID, itemID uuid.UUID,
	wasMemorized bool,
	offset string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := schedule.ParseOffset(offset); err != nil {
		log.Warn("invalid offset on outcome recording",
			slog.String("item_id", itemID.String()),
			slog.String("offset", offset))
		return err
	}

	release, err := s.locks.acquire(ctx, itemID, s.lockTimeout)
	if err != nil {
		log.Warn("failed to acquire item lock",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return err
	}
	defer release()

	if err := s.checkOwnership(ctx, ownerID, itemID); err != nil {
		return err
	}

	now := s.now().UTC()
	rec, err := domain.NewOutcomeRecord(itemID, wasMemorized, now)
	if err != nil {
		return fmt.Errorf("failed to build outcome record: %w", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txWindows := s.windows.WithTx(tx)
		txOutcomes := s.outcomes.WithTx(tx)

		if s.rejectDuplicate {
			resolved, err := s.currentWindowResolved(ctx, txWindows, txOutcomes, itemID, now)
			if err != nil {
				return err
			}
			if resolved {
				return ErrOutcomeAlreadyRecorded
			}
		}

		if err := txOutcomes.Append(ctx, rec); err != nil {
			return fmt.Errorf("failed to append outcome: %w", err)
		}

		if !wasMemorized {
			if err := txWindows.ShiftFutureByOneDay(ctx, itemID, now); err != nil {
				return fmt.Errorf("failed to shift future windows: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOutcomeAlreadyRecorded) {
			log.Debug("duplicate outcome rejected",
				slog.String("item_id", itemID.String()))
			return err
		}
		log.Error("failed to record outcome",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return NewServiceError("record_outcome", "transaction failed", err)
	}

	log.Info("outcome recorded",
		slog.String("item_id", itemID.String()),
		slog.Bool("was_memorized", wasMemorized))

	return nil
}

// currentWindowResolved reports whether an outcome already exists inside a
// window containing now. Used only in strict duplicate-rejection mode.
func (s *reviewServiceImpl) currentWindowResolved(
	ctx context.Context,
	windows store.WindowStore,
	outcomes store.OutcomeStore,
	itemID uuid.UUID,
	now time.Time,
) (bool, error) {
	containing, err := windows.WindowsContaining(ctx, itemID, now)
	if err != nil {
		return false, fmt.Errorf("failed to query current windows: %w", err)
	}
	if len(containing) == 0 {
		return false, nil
	}

	records, err := outcomes.ListByItem(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to list outcomes: %w", err)
	}

	for _, w := range containing {
		if windowResolved(w, records) {
			return true, nil
		}
	}
	return false, nil
}

// DeleteItem implements ReviewService.DeleteItem.
// It cascades deletion of the item's windows and ledger before removing the
// item row, all in one transaction.
func (s *reviewServiceImpl) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	release, err := s.locks.acquire(ctx, itemID, s.lockTimeout)
	if err != nil {
		log.Warn("failed to acquire item lock",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return err
	}
	defer release()

	if err := s.checkOwnership(ctx, ownerID, itemID); err != nil {
		return err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.windows.WithTx(tx).DeleteByItem(ctx, itemID); err != nil {
			return fmt.Errorf("failed to delete windows: %w", err)
		}
		if err := s.outcomes.WithTx(tx).DeleteByItem(ctx, itemID); err != nil {
			return fmt.Errorf("failed to delete outcomes: %w", err)
		}
		if err := s.items.WithTx(tx).Delete(ctx, itemID); err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return err
		}
		log.Error("failed to delete item",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return NewServiceError("delete_item", "transaction failed", err)
	}

	log.Info("item deleted",
		slog.String("item_id", itemID.String()),
		slog.String("owner_id", ownerID.String()))

	return nil
}

// checkOwnership resolves the item and verifies it belongs to ownerID.
// Returns ErrItemNotFound or ErrItemNotOwned accordingly.
func (s *reviewServiceImpl) checkOwnership(ctx context.Context, ownerID, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			log.Debug("item not found",
				slog.String("item_id", itemID.String()))
			return ErrItemNotFound
		}
		return NewServiceError("get_item", "lookup failed", err)
	}

	if item.OwnerID != ownerID {
		log.Warn("user does not own item",
			slog.String("item_id", itemID.String()),
			slog.String("user_id", ownerID.String()),
			slog.String("owner_id", item.OwnerID.String()))
		return ErrItemNotOwned
	}

	return nil
}
