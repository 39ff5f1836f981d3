package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
	orgDomain "github.com/aidanjbailey/anidopt/internal/domain/organisation"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"go.uber.org/zap"
)

// OrganisationRequest is the request DTO for creating or updating an
// organisation. ID and Version are only read on update.
type OrganisationRequest struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Version int64  `json:"version"`
}

// DependentsDTO counts the rows that keep an organisation from being deleted.
type DependentsDTO struct {
	Animals int64 `json:"animals"`
	Members int64 `json:"members"`
}

// OrganisationDTO is the API response representation of an organisation.
// Dependents is only resolved for single-organisation reads.
type OrganisationDTO struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	Version    int64          `json:"version"`
	Dependents *DependentsDTO `json:"dependents,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// OrganisationService implements use cases for shelters and rescues.
type OrganisationService struct {
	repo   orgDomain.OrganisationRepository
	events emitter
	logger *zap.Logger
	rec    *metrics.Recorder
}

// NewOrganisationService creates a new OrganisationService. publisher and
// rec may be nil.
func NewOrganisationService(
	repo orgDomain.OrganisationRepository,
	publisher EventPublisher,
	rec *metrics.Recorder,
	logger *zap.Logger,
) *OrganisationService {
	return &OrganisationService{
		repo:   repo,
		events: emitter{publisher: publisher, logger: logger, metrics: rec},
		logger: logger,
		rec:    rec,
	}
}

// GetByID returns the organisation with its dependents counted.
func (s *OrganisationService) GetByID(ctx context.Context, id uint) (*OrganisationDTO, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	deps, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count dependents of organisation %d: %w", id, err)
	}
	dto := toOrganisationDTO(o)
	dto.Dependents = &DependentsDTO{Animals: deps.Animals, Members: deps.Members}
	return &dto, nil
}

// ListAll returns every organisation ordered by name.
func (s *OrganisationService) ListAll(ctx context.Context) ([]OrganisationDTO, error) {
	orgs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organisations: %w", err)
	}
	out := make([]OrganisationDTO, len(orgs))
	for i, o := range orgs {
		out[i] = toOrganisationDTO(o)
	}
	return out, nil
}

// ExistsByID reports whether the organisation is stored.
func (s *OrganisationService) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}

// Create stores a new organisation. A duplicate name is a
// ConstraintViolationError.
func (s *OrganisationService) Create(ctx context.Context, req OrganisationRequest) (_ *OrganisationDTO, err error) {
	defer s.observe("create", time.Now(), &err)

	o, err := orgDomain.NewOrganisation(orgDomain.Draft{Name: req.Name})
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, o)
	if err != nil {
		return nil, err
	}

	s.logger.Info("organisation created",
		zap.Uint("organisation_id", saved.ID()),
		zap.String("name", saved.Name()),
	)
	s.publish(ctx, messaging.OrganisationCreated, saved)
	dto := toOrganisationDTO(saved)
	return &dto, nil
}

// Update writes a revision of organisation id under the same identity and
// version rules as animals.
func (s *OrganisationService) Update(ctx context.Context, id uint, req OrganisationRequest) (_ *OrganisationDTO, err error) {
	defer s.observe("update", time.Now(), &err)

	if id != req.ID {
		return nil, domain.NewIdentityMismatchError(id, req.ID)
	}
	o, err := orgDomain.Revise(orgDomain.Draft{ID: req.ID, Name: req.Name, Version: req.Version})
	if err != nil {
		return nil, err
	}

	stored, outcome, err := s.repo.Update(ctx, o)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case domain.WriteNotFound:
		return nil, domain.NewNotFoundError("organisation", id)
	case domain.WriteConflict:
		ok, err := s.repo.ExistsByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check organisation %d: %w", id, err)
		}
		if !ok {
			return nil, domain.NewNotFoundError("organisation", id)
		}
		s.logger.Warn("organisation update rejected: stale version",
			zap.Uint("organisation_id", id),
			zap.Int64("version", req.Version),
		)
		return nil, domain.NewConflictError(fmt.Sprintf("organisation %d was modified since version %d", id, req.Version))
	}

	s.logger.Info("organisation updated",
		zap.Uint("organisation_id", id),
		zap.Int64("version", stored.Version()),
	)
	s.publish(ctx, messaging.OrganisationUpdated, stored)
	dto := toOrganisationDTO(stored)
	return &dto, nil
}

// Delete removes the organisation. It is refused with a
// ConstraintViolationError while animals or members reference it and
// reports false when the organisation was already absent.
func (s *OrganisationService) Delete(ctx context.Context, id uint) (_ bool, err error) {
	defer s.observe("delete", time.Now(), &err)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("organisation deleted", zap.Uint("organisation_id", id))
		s.events.publishEvent(ctx, messaging.OrganisationDeleted, organisationKey(id), messaging.OrganisationEvent{
			OrganisationID: id,
			OccurredAt:     time.Now().UTC(),
		})
	}
	return deleted, nil
}

func (s *OrganisationService) publish(ctx context.Context, eventType string, o *orgDomain.Organisation) {
	s.events.publishEvent(ctx, eventType, organisationKey(o.ID()), messaging.OrganisationEvent{
		OrganisationID: o.ID(),
		Name:           o.Name(),
		Version:        o.Version(),
		OccurredAt:     time.Now().UTC(),
	})
}

func (s *OrganisationService) observe(operation string, started time.Time, err *error) {
	s.rec.Observe("organisation", operation, started, *err)
}

func organisationKey(id uint) string {
	return "organisation/" + strconv.FormatUint(uint64(id), 10)
}

func toOrganisationDTO(o *orgDomain.Organisation) OrganisationDTO {
	return OrganisationDTO{
		ID:        o.ID(),
		Name:      o.Name(),
		Version:   o.Version(),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
	}
}
