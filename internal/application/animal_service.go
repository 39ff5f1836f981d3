package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
	animalDomain "github.com/aidanjbailey/anidopt/internal/domain/animal"
	"github.com/aidanjbailey/anidopt/internal/domain/link"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"go.uber.org/zap"
)

// AnimalRequest is the request DTO for creating or updating an animal. ID
// and Version are only read on update.
type AnimalRequest struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	BreedID        uint   `json:"breed_id"`
	SexID          uint   `json:"sex_id"`
	OrganisationID uint   `json:"organisation_id"`
	Version        int64  `json:"version"`
}

func (r AnimalRequest) draft() animalDomain.Draft {
	return animalDomain.Draft{
		ID:             r.ID,
		Name:           r.Name,
		Age:            r.Age,
		BreedID:        r.BreedID,
		SexID:          r.SexID,
		OrganisationID: r.OrganisationID,
		Version:        r.Version,
	}
}

// PictureRequest is the request DTO for attaching a picture to an animal.
type PictureRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// RefDTO is an (id, name) pair of a related row.
type RefDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DescriptorDTO is a resolved descriptor link.
type DescriptorDTO struct {
	LinkID       uint   `json:"link_id"`
	DescriptorID uint   `json:"descriptor_id"`
	Name         string `json:"name"`
	Type         RefDTO `json:"type"`
}

// ColourDTO is a resolved colour link.
type ColourDTO struct {
	LinkID   uint   `json:"link_id"`
	ColourID uint   `json:"colour_id"`
	Colour   string `json:"colour"`
}

// PictureDTO is the API response representation of a picture.
type PictureDTO struct {
	ID        uint      `json:"id"`
	AnimalID  uint      `json:"animal_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// AnimalSummary is the list representation of an animal.
type AnimalSummary struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	BreedID        uint      `json:"breed_id"`
	SexID          uint      `json:"sex_id"`
	OrganisationID uint      `json:"organisation_id"`
	Version        int64     `json:"version"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AnimalDetails is an animal with its references resolved.
type AnimalDetails struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Age          int             `json:"age"`
	Version      int64           `json:"version"`
	Breed        RefDTO          `json:"breed"`
	Species      RefDTO          `json:"species"`
	Sex          RefDTO          `json:"sex"`
	Organisation RefDTO          `json:"organisation"`
	Descriptors  []DescriptorDTO `json:"descriptors"`
	Colours      []ColourDTO     `json:"colours"`
	Pictures     []PictureDTO    `json:"pictures"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ExistenceChecker reports whether an entity with id is stored.
type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// AnimalService implements use cases for catalogued animals.
type AnimalService struct {
	repo   animalDomain.AnimalRepository
	refs   *ReferenceService
	orgs   ExistenceChecker
	links  *LinkService
	events emitter
	logger *zap.Logger
	rec    *metrics.Recorder
}

// NewAnimalService creates a new AnimalService. publisher and rec may be nil.
func NewAnimalService(
	repo animalDomain.AnimalRepository,
	refs *ReferenceService,
	orgs ExistenceChecker,
	links *LinkService,
	publisher EventPublisher,
	rec *metrics.Recorder,
	logger *zap.Logger,
) *AnimalService {
	return &AnimalService{
		repo:   repo,
		refs:   refs,
		orgs:   orgs,
		links:  links,
		events: emitter{publisher: publisher, logger: logger, metrics: rec},
		logger: logger,
		rec:    rec,
	}
}

// GetByID returns the animal with breed, species, sex, organisation,
// descriptors, colours and pictures resolved.
func (s *AnimalService) GetByID(ctx context.Context, id uint) (*AnimalDetails, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, a)
}

// ListAll returns every animal ordered by id.
func (s *AnimalService) ListAll(ctx context.Context) ([]AnimalSummary, error) {
	animals, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	out := make([]AnimalSummary, len(animals))
	for i, a := range animals {
		out[i] = toAnimalSummary(a)
	}
	return out, nil
}

// ExistsByID reports whether the animal is stored.
func (s *AnimalService) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}

// Create validates and stores a new animal. Every failing field is
// reported in one ValidationError.
func (s *AnimalService) Create(ctx context.Context, req AnimalRequest) (_ *AnimalDetails, err error) {
	defer s.observe("create", time.Now(), &err)

	d := req.draft()
	if err := s.validate(ctx, d); err != nil {
		return nil, err
	}
	a, err := animalDomain.NewAnimal(d)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, a)
	if err != nil {
		return nil, err
	}

	s.logger.Info("animal created",
		zap.Uint("animal_id", saved.ID()),
		zap.Uint("organisation_id", saved.OrganisationID()),
	)
	s.publish(ctx, messaging.AnimalCreated, saved)
	return s.resolve(ctx, saved)
}

// Update writes a revision of animal id. The body must name the same id and
// carry the version the caller loaded; a stale version is a ConflictError
// and is never merged or retried.
func (s *AnimalService) Update(ctx context.Context, id uint, req AnimalRequest) (_ *AnimalDetails, err error) {
	defer s.observe("update", time.Now(), &err)

	if id != req.ID {
		return nil, domain.NewIdentityMismatchError(id, req.ID)
	}
	d := req.draft()
	if err := s.validate(ctx, d); err != nil {
		return nil, err
	}
	a, err := animalDomain.Revise(d)
	if err != nil {
		return nil, err
	}

	stored, outcome, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.outcomeError(ctx, outcome, id, req.Version); err != nil {
		return nil, err
	}

	s.logger.Info("animal updated",
		zap.Uint("animal_id", id),
		zap.Int64("version", stored.Version()),
	)
	s.publish(ctx, messaging.AnimalUpdated, stored)
	// Built from the committed revision: a delete racing in after the
	// commit must not turn this successful write into NotFound.
	return s.resolve(ctx, stored)
}

// Delete removes the animal with its links and pictures. It reports false
// when the animal was already absent.
func (s *AnimalService) Delete(ctx context.Context, id uint) (_ bool, err error) {
	defer s.observe("delete", time.Now(), &err)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("animal deleted", zap.Uint("animal_id", id))
		s.events.publishEvent(ctx, messaging.AnimalDeleted, animalKey(id), messaging.AnimalEvent{
			AnimalID:   id,
			OccurredAt: time.Now().UTC(),
		})
	}
	return deleted, nil
}

// AddPicture attaches a picture to the animal. Picture names are unique per
// animal.
func (s *AnimalService) AddPicture(ctx context.Context, animalID uint, req PictureRequest) (_ *PictureDTO, err error) {
	defer s.observe("add_picture", time.Now(), &err)

	p, err := animalDomain.NewPicture(animalID, req.Name, req.Path)
	if err != nil {
		return nil, err
	}
	if err := s.requireAnimal(ctx, animalID); err != nil {
		return nil, err
	}
	saved, err := s.repo.SavePicture(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("picture added",
		zap.Uint("animal_id", animalID),
		zap.Uint("picture_id", saved.ID()),
	)
	dto := toPictureDTO(saved)
	return &dto, nil
}

// RemovePicture detaches a picture. It reports false when the animal has no
// such picture.
func (s *AnimalService) RemovePicture(ctx context.Context, animalID, pictureID uint) (_ bool, err error) {
	defer s.observe("remove_picture", time.Now(), &err)

	removed, err := s.repo.DeletePicture(ctx, animalID, pictureID)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("picture removed",
			zap.Uint("animal_id", animalID),
			zap.Uint("picture_id", pictureID),
		)
	}
	return removed, nil
}

// Associate links the animal to a descriptor or colour.
func (s *AnimalService) Associate(ctx context.Context, animalID uint, kind link.Kind, targetID uint) error {
	if err := animalLinkKind(kind); err != nil {
		return err
	}
	if err := s.requireAnimal(ctx, animalID); err != nil {
		return err
	}
	return s.links.Link(ctx, kind, animalID, targetID)
}

// Dissociate unlinks the animal from a descriptor or colour. Removing an
// absent link is a no-op.
func (s *AnimalService) Dissociate(ctx context.Context, animalID uint, kind link.Kind, targetID uint) error {
	if err := animalLinkKind(kind); err != nil {
		return err
	}
	return s.links.Unlink(ctx, kind, animalID, targetID)
}

// validate runs the draft's own checks and then verifies that every
// referenced row exists, collecting all failures.
func (s *AnimalService) validate(ctx context.Context, d animalDomain.Draft) error {
	verr := d.Validate()
	if err := s.refs.requireExisting(ctx, verr, reference.KindBreed, "breed_id", d.BreedID); err != nil {
		return err
	}
	if err := s.refs.requireExisting(ctx, verr, reference.KindSex, "sex_id", d.SexID); err != nil {
		return err
	}
	if d.OrganisationID != 0 {
		ok, err := s.orgs.ExistsByID(ctx, d.OrganisationID)
		if err != nil {
			return fmt.Errorf("failed to check organisation %d: %w", d.OrganisationID, err)
		}
		if !ok {
			verr.Add("organisation_id", fmt.Sprintf("organisation %d does not exist", d.OrganisationID))
		}
	}
	return verr.Err()
}

// outcomeError turns a non-OK write outcome into the caller-facing error.
// A conflict on a row that has since been deleted is reported as not found.
func (s *AnimalService) outcomeError(ctx context.Context, outcome domain.WriteOutcome, id uint, version int64) error {
	switch outcome {
	case domain.WriteOK:
		return nil
	case domain.WriteNotFound:
		return domain.NewNotFoundError("animal", id)
	}
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check animal %d: %w", id, err)
	}
	if !ok {
		return domain.NewNotFoundError("animal", id)
	}
	s.logger.Warn("animal update rejected: stale version",
		zap.Uint("animal_id", id),
		zap.Int64("version", version),
	)
	return domain.NewConflictError(fmt.Sprintf("animal %d was modified since version %d", id, version))
}

func (s *AnimalService) requireAnimal(ctx context.Context, id uint) error {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check animal %d: %w", id, err)
	}
	if !ok {
		return domain.NewNotFoundError("animal", id)
	}
	return nil
}

func (s *AnimalService) resolve(ctx context.Context, a *animalDomain.Animal) (*AnimalDetails, error) {
	rel, err := s.repo.LoadRelations(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve animal %d: %w", a.ID(), err)
	}
	details := toAnimalDetails(a, rel)
	return &details, nil
}

func (s *AnimalService) publish(ctx context.Context, eventType string, a *animalDomain.Animal) {
	s.events.publishEvent(ctx, eventType, animalKey(a.ID()), messaging.AnimalEvent{
		AnimalID:       a.ID(),
		Name:           a.Name(),
		OrganisationID: a.OrganisationID(),
		Version:        a.Version(),
		OccurredAt:     time.Now().UTC(),
	})
}

func (s *AnimalService) observe(operation string, started time.Time, err *error) {
	s.rec.Observe("animal", operation, started, *err)
}

func animalLinkKind(kind link.Kind) error {
	if kind != link.KindDescriptor && kind != link.KindColour {
		return domain.NewValidationError("kind", fmt.Sprintf("animals cannot be linked by %q", kind))
	}
	return nil
}

func animalKey(id uint) string {
	return "animal/" + strconv.FormatUint(uint64(id), 10)
}

// --- Conversions ---

func toAnimalSummary(a *animalDomain.Animal) AnimalSummary {
	return AnimalSummary{
		ID:             a.ID(),
		Name:           a.Name(),
		Age:            a.Age(),
		BreedID:        a.BreedID(),
		SexID:          a.SexID(),
		OrganisationID: a.OrganisationID(),
		Version:        a.Version(),
		UpdatedAt:      a.UpdatedAt(),
	}
}

func toAnimalDetails(a *animalDomain.Animal, rel *animalDomain.Relations) AnimalDetails {
	d := AnimalDetails{
		ID:           a.ID(),
		Name:         a.Name(),
		Age:          a.Age(),
		Version:      a.Version(),
		Breed:        RefDTO(rel.Breed),
		Species:      RefDTO(rel.Species),
		Sex:          RefDTO(rel.Sex),
		Organisation: RefDTO(rel.Organisation),
		Descriptors:  make([]DescriptorDTO, len(rel.Descriptors)),
		Colours:      make([]ColourDTO, len(rel.Colours)),
		Pictures:     make([]PictureDTO, len(rel.Pictures)),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
	for i, r := range rel.Descriptors {
		d.Descriptors[i] = DescriptorDTO{
			LinkID:       r.LinkID,
			DescriptorID: r.DescriptorID,
			Name:         r.Name,
			Type:         RefDTO{ID: r.TypeID, Name: r.TypeName},
		}
	}
	for i, r := range rel.Colours {
		d.Colours[i] = ColourDTO(r)
	}
	for i, p := range rel.Pictures {
		d.Pictures[i] = toPictureDTO(p)
	}
	return d
}

func toPictureDTO(p *animalDomain.Picture) PictureDTO {
	return PictureDTO{
		ID:        p.ID(),
		AnimalID:  p.AnimalID(),
		Name:      p.Name(),
		Path:      p.Path(),
		CreatedAt: p.CreatedAt(),
	}
}
