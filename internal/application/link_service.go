package application

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/domain/link"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"go.uber.org/zap"
)

// LinkService manages the many-to-many associations.
type LinkService struct {
	repo    link.Repository
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// NewLinkService creates a new LinkService. rec may be nil.
func NewLinkService(repo link.Repository, rec *metrics.Recorder, logger *zap.Logger) *LinkService {
	return &LinkService{repo: repo, logger: logger, metrics: rec}
}

// Link associates owner with target. An existing pair is a
// DuplicateLinkError; a missing owner or target is a
// ConstraintViolationError.
func (s *LinkService) Link(ctx context.Context, kind link.Kind, ownerID, targetID uint) (err error) {
	defer s.observe(kind, "link", time.Now(), &err)

	if err := validatePair(kind, ownerID, targetID); err != nil {
		return err
	}
	if err := s.repo.Insert(ctx, kind, ownerID, targetID); err != nil {
		return err
	}
	s.logger.Info("link created",
		zap.String("kind", string(kind)),
		zap.Uint("owner_id", ownerID),
		zap.Uint("target_id", targetID),
	)
	return nil
}

// Unlink removes the association. Removing an absent pair is a no-op.
func (s *LinkService) Unlink(ctx context.Context, kind link.Kind, ownerID, targetID uint) (err error) {
	defer s.observe(kind, "unlink", time.Now(), &err)

	if err := validatePair(kind, ownerID, targetID); err != nil {
		return err
	}
	removed, err := s.repo.Delete(ctx, kind, ownerID, targetID)
	if err != nil {
		return err
	}
	if removed {
		s.logger.Info("link removed",
			zap.String("kind", string(kind)),
			zap.Uint("owner_id", ownerID),
			zap.Uint("target_id", targetID),
		)
	}
	return nil
}

// LinksFor yields the target ids associated with owner in ascending order.
// The sequence is lazy and reads current state on every range.
func (s *LinkService) LinksFor(ctx context.Context, kind link.Kind, ownerID uint) iter.Seq2[uint, error] {
	if !kind.IsValid() {
		return func(yield func(uint, error) bool) {
			yield(0, domain.NewValidationError("kind", fmt.Sprintf("unknown link kind %q", kind)))
		}
	}
	return s.repo.Targets(ctx, kind, ownerID)
}

// Targets drains LinksFor into a slice.
func (s *LinkService) Targets(ctx context.Context, kind link.Kind, ownerID uint) ([]uint, error) {
	ids := make([]uint, 0)
	for id, err := range s.LinksFor(ctx, kind, ownerID) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *LinkService) observe(kind link.Kind, operation string, started time.Time, err *error) {
	s.metrics.Observe(string(kind)+"_link", operation, started, *err)
}

func validatePair(kind link.Kind, ownerID, targetID uint) error {
	if !kind.IsValid() {
		return domain.NewValidationError("kind", fmt.Sprintf("unknown link kind %q", kind))
	}
	verr := &domain.ValidationError{}
	if ownerID == 0 {
		verr.Add("owner_id", "owner is required")
	}
	if targetID == 0 {
		verr.Add("target_id", "target is required")
	}
	return verr.Err()
}
