// Package seed loads the controlled vocabularies from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Child is a vocabulary entry that belongs to a parent entry by name.
type Child struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

// Vocabulary is the seed file layout.
type Vocabulary struct {
	Species         []string `yaml:"species"`
	Breeds          []Child  `yaml:"breeds"`
	Sexes           []string `yaml:"sexes"`
	Sizes           []string `yaml:"sizes"`
	DescriptorTypes []string `yaml:"descriptor_types"`
	Descriptors     []Child  `yaml:"descriptors"`
	Colours         []string `yaml:"colours"`
}

// Parse decodes a vocabulary document. Unknown keys are rejected.
func Parse(r io.Reader) (*Vocabulary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var v Vocabulary
	if err := dec.Decode(&v); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	return &v, nil
}

// LoadFile parses the vocabulary at path.
func LoadFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// Seeder applies a Vocabulary through the reference service.
type Seeder struct {
	refs   *application.ReferenceService
	logger *zap.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(refs *application.ReferenceService, logger *zap.Logger) *Seeder {
	return &Seeder{refs: refs, logger: logger}
}

// Apply creates every entry that does not exist yet. Entries are matched
// by name (and parent, for breeds and descriptors), so running it twice
// creates nothing the second time.
func (s *Seeder) Apply(ctx context.Context, v *Vocabulary) (Result, error) {
	var res Result

	flat := []struct {
		kind  reference.Kind
		names []string
	}{
		{reference.KindSpecies, v.Species},
		{reference.KindSex, v.Sexes},
		{reference.KindSize, v.Sizes},
		{reference.KindDescriptorType, v.DescriptorTypes},
		{reference.KindAnimalColour, v.Colours},
	}
	for _, f := range flat {
		children := make([]Child, len(f.names))
		for i, n := range f.names {
			children[i] = Child{Name: n}
		}
		if err := s.applyKind(ctx, f.kind, children, nil, &res); err != nil {
			return res, err
		}
	}

	species, err := s.index(ctx, reference.KindSpecies)
	if err != nil {
		return res, err
	}
	if err := s.applyKind(ctx, reference.KindBreed, v.Breeds, species, &res); err != nil {
		return res, err
	}

	types, err := s.index(ctx, reference.KindDescriptorType)
	if err != nil {
		return res, err
	}
	if err := s.applyKind(ctx, reference.KindDescriptor, v.Descriptors, types, &res); err != nil {
		return res, err
	}

	s.logger.Info("vocabulary seeded",
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

type key struct {
	name   string
	parent uint
}

func (s *Seeder) applyKind(ctx context.Context, kind reference.Kind, entries []Child, parents map[string]uint, res *Result) error {
	existing, err := s.refs.List(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", kind, err)
	}
	seen := make(map[key]bool, len(existing))
	for _, item := range existing {
		seen[key{item.Name, item.ParentID}] = true
	}

	for _, e := range entries {
		var parentID uint
		if parents != nil {
			id, ok := parents[e.Parent]
			if !ok {
				return fmt.Errorf("%s %q: unknown parent %q", kind, e.Name, e.Parent)
			}
			parentID = id
		}
		k := key{e.Name, parentID}
		if seen[k] {
			res.Skipped++
			continue
		}
		if _, err := s.refs.Create(ctx, kind, application.ReferenceItemRequest{Name: e.Name, ParentID: parentID}); err != nil {
			return fmt.Errorf("failed to seed %s %q: %w", kind, e.Name, err)
		}
		seen[k] = true
		res.Created++
	}
	return nil
}

func (s *Seeder) index(ctx context.Context, kind reference.Kind) (map[string]uint, error) {
	items, err := s.refs.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	byName := make(map[string]uint, len(items))
	for _, item := range items {
		byName[item.Name] = item.ID
	}
	return byName, nil
}
