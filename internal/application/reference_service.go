package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"go.uber.org/zap"
)

// ReferenceItemRequest is the request DTO for creating or renaming a
// vocabulary row. ParentID is the species of a breed or the descriptor type
// of a descriptor. Version is only read on update.
type ReferenceItemRequest struct {
	Name     string `json:"name"`
	ParentID uint   `json:"parent_id"`
	Version  int64  `json:"version"`
}

// EstimationRequest is the request DTO for recording an expected adult size.
type EstimationRequest struct {
	BreedID uint    `json:"breed_id"`
	SexID   uint    `json:"sex_id"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
}

// EstimationDTO is the API response representation of an estimation.
type EstimationDTO struct {
	ID      uint    `json:"id"`
	BreedID uint    `json:"breed_id"`
	SexID   uint    `json:"sex_id"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
}

// ReferenceService implements read and write use cases for the fixed
// vocabularies.
type ReferenceService struct {
	repo    reference.Repository
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// NewReferenceService creates a new ReferenceService. rec may be nil.
func NewReferenceService(repo reference.Repository, rec *metrics.Recorder, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, logger: logger, metrics: rec}
}

// List returns every row of kind ordered by name.
func (s *ReferenceService) List(ctx context.Context, kind reference.Kind) ([]reference.Item, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown reference kind %q", kind))
	}
	items, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	return items, nil
}

// Get returns one row of kind.
func (s *ReferenceService) Get(ctx context.Context, kind reference.Kind, id uint) (*reference.Item, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown reference kind %q", kind))
	}
	item, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Exists reports whether a row of kind with id is stored.
func (s *ReferenceService) Exists(ctx context.Context, kind reference.Kind, id uint) (bool, error) {
	if !kind.IsValid() {
		return false, domain.NewValidationError("kind", fmt.Sprintf("unknown reference kind %q", kind))
	}
	if id == 0 {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, kind, id)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %d: %w", kind, id, err)
	}
	return ok, nil
}

// Create stores a new vocabulary row. A name already used within the same
// scope is a ConstraintViolationError.
func (s *ReferenceService) Create(ctx context.Context, kind reference.Kind, req ReferenceItemRequest) (_ *reference.Item, err error) {
	defer s.observe("create", time.Now(), &err)

	if err := s.validateItem(ctx, kind, req); err != nil {
		return nil, err
	}
	item, err := s.repo.Create(ctx, kind, reference.Item{
		Name:     strings.TrimSpace(req.Name),
		ParentID: req.ParentID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reference item created",
		zap.String("kind", string(kind)),
		zap.Uint("id", item.ID),
		zap.String("name", item.Name),
	)
	return &item, nil
}

// Update renames a vocabulary row or moves it to another parent. The
// request carries the version the caller loaded; a stale version is a
// ConflictError.
func (s *ReferenceService) Update(ctx context.Context, kind reference.Kind, id uint, req ReferenceItemRequest) (_ *reference.Item, err error) {
	defer s.observe("update", time.Now(), &err)

	if err := s.validateItem(ctx, kind, req); err != nil {
		return nil, err
	}
	item := reference.Item{ID: id, Name: strings.TrimSpace(req.Name), ParentID: req.ParentID, Version: req.Version}
	outcome, err := s.repo.Update(ctx, kind, item)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case domain.WriteNotFound:
		return nil, domain.NewNotFoundError(string(kind), id)
	case domain.WriteConflict:
		ok, err := s.repo.Exists(ctx, kind, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s %d: %w", kind, id, err)
		}
		if !ok {
			return nil, domain.NewNotFoundError(string(kind), id)
		}
		s.logger.Warn("reference item update rejected: stale version",
			zap.String("kind", string(kind)),
			zap.Uint("id", id),
			zap.Int64("version", req.Version),
		)
		return nil, domain.NewConflictError(fmt.Sprintf("%s %d was modified since version %d", kind, id, req.Version))
	}

	item.Version++
	s.logger.Info("reference item updated",
		zap.String("kind", string(kind)),
		zap.Uint("id", id),
		zap.Int64("version", item.Version),
	)
	return &item, nil
}

// Estimate returns the expected adult size for a breed and sex.
func (s *ReferenceService) Estimate(ctx context.Context, breedID, sexID uint) (*EstimationDTO, error) {
	e, err := s.repo.FindEstimation(ctx, breedID, sexID)
	if err != nil {
		return nil, err
	}
	dto := toEstimationDTO(e)
	return &dto, nil
}

// SaveEstimation records the expected adult size for a breed and sex. A
// second estimation for the same pair is a ConstraintViolationError.
func (s *ReferenceService) SaveEstimation(ctx context.Context, req EstimationRequest) (_ *EstimationDTO, err error) {
	defer s.observe("save_estimation", time.Now(), &err)

	e, err := reference.NewEstimation(req.BreedID, req.SexID, req.Height, req.Weight)
	if err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	if err := s.requireExisting(ctx, verr, reference.KindBreed, "breed_id", req.BreedID); err != nil {
		return nil, err
	}
	if err := s.requireExisting(ctx, verr, reference.KindSex, "sex_id", req.SexID); err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	saved, err := s.repo.SaveEstimation(ctx, e)
	if err != nil {
		return nil, err
	}
	s.logger.Info("estimation saved",
		zap.Uint("breed_id", saved.BreedID),
		zap.Uint("sex_id", saved.SexID),
	)
	dto := toEstimationDTO(saved)
	return &dto, nil
}

func (s *ReferenceService) validateItem(ctx context.Context, kind reference.Kind, req ReferenceItemRequest) error {
	if !kind.IsValid() {
		return domain.NewValidationError("kind", fmt.Sprintf("unknown reference kind %q", kind))
	}
	verr := &domain.ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		verr.Add("name", "name is required")
	}
	if parent, ok := kind.Parent(); ok {
		if req.ParentID == 0 {
			verr.Add("parent_id", fmt.Sprintf("%s is required", parent))
		} else if err := s.requireExisting(ctx, verr, parent, "parent_id", req.ParentID); err != nil {
			return err
		}
	} else if req.ParentID != 0 {
		verr.Add("parent_id", fmt.Sprintf("%s has no parent", kind))
	}
	return verr.Err()
}

// requireExisting adds a field error when id is set but no row of kind has
// it. Only infrastructure failures are returned.
func (s *ReferenceService) requireExisting(ctx context.Context, verr *domain.ValidationError, kind reference.Kind, field string, id uint) error {
	if id == 0 {
		return nil
	}
	ok, err := s.Exists(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		verr.Add(field, fmt.Sprintf("%s %d does not exist", kind, id))
	}
	return nil
}

func (s *ReferenceService) observe(operation string, started time.Time, err *error) {
	s.metrics.Observe("reference", operation, started, *err)
}

func toEstimationDTO(e *reference.Estimation) EstimationDTO {
	return EstimationDTO{
		ID:      e.ID,
		BreedID: e.BreedID,
		SexID:   e.SexID,
		Height:  e.Height,
		Weight:  e.Weight,
	}
}
