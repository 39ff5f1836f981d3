package reference

import "github.com/aidanjbailey/anidopt/internal/domain"

// Estimation is the expected adult size of an animal of a breed and sex.
type Estimation struct {
	ID      uint
	BreedID uint
	SexID   uint
	Height  float64
	Weight  float64
}

// NewEstimation validates and creates an Estimation. Height and weight must
// be at least 1.
func NewEstimation(breedID, sexID uint, height, weight float64) (*Estimation, error) {
	verr := &domain.ValidationError{}
	if breedID == 0 {
		verr.Add("breed_id", "breed is required")
	}
	if sexID == 0 {
		verr.Add("sex_id", "sex is required")
	}
	if height < 1 {
		verr.Add("height", "height must be at least 1")
	}
	if weight < 1 {
		verr.Add("weight", "weight must be at least 1")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &Estimation{BreedID: breedID, SexID: sexID, Height: height, Weight: weight}, nil
}
