package animal

import (
	"strings"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
)

// Picture is an opaque image reference owned by an animal. Name is unique
// per animal; Path is never interpreted.
type Picture struct {
	id        uint
	animalID  uint
	name      string
	path      string
	createdAt time.Time
}

// NewPicture creates a new picture for an animal.
func NewPicture(animalID uint, name, path string) (*Picture, error) {
	verr := &domain.ValidationError{}
	if animalID == 0 {
		verr.Add("animal_id", "animal is required")
	}
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "picture name is required")
	}
	if strings.TrimSpace(path) == "" {
		verr.Add("path", "picture path is required")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	return &Picture{
		animalID:  animalID,
		name:      strings.TrimSpace(name),
		path:      strings.TrimSpace(path),
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructPicture rebuilds a Picture from persistence.
func ReconstructPicture(id, animalID uint, name, path string, createdAt time.Time) *Picture {
	return &Picture{
		id:        id,
		animalID:  animalID,
		name:      name,
		path:      path,
		createdAt: createdAt,
	}
}

// Getters.
func (p *Picture) ID() uint             { return p.id }
func (p *Picture) AnimalID() uint       { return p.animalID }
func (p *Picture) Name() string         { return p.name }
func (p *Picture) Path() string         { return p.path }
func (p *Picture) CreatedAt() time.Time { return p.createdAt }
