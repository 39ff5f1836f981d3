package repository

import "time"

// Every relationship states its delete policy explicitly: rows owned by an
// animal cascade with it, everything that would orphan an animal or a
// membership restricts.

// SpeciesModel is the GORM model for the species table.
type SpeciesModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null;uniqueIndex"`
	Version int64  `gorm:"not null;default:1"`
}

func (SpeciesModel) TableName() string { return "species" }

// BreedModel is the GORM model for the breeds table.
type BreedModel struct {
	ID        uint          `gorm:"primaryKey"`
	Name      string        `gorm:"size:100;not null;uniqueIndex:idx_breed_name_species,priority:1"`
	SpeciesID uint          `gorm:"not null;uniqueIndex:idx_breed_name_species,priority:2;index"`
	Version   int64         `gorm:"not null;default:1"`
	Species   *SpeciesModel `gorm:"foreignKey:SpeciesID;constraint:OnDelete:RESTRICT"`
}

func (BreedModel) TableName() string { return "breeds" }

// SexModel is the GORM model for the sexes table.
type SexModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:50;not null;uniqueIndex"`
	Version int64  `gorm:"not null;default:1"`
}

func (SexModel) TableName() string { return "sexes" }

// SizeModel is the GORM model for the sizes table.
type SizeModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:50;not null;uniqueIndex"`
	Version int64  `gorm:"not null;default:1"`
}

func (SizeModel) TableName() string { return "sizes" }

// DescriptorTypeModel is the GORM model for the descriptor_types table.
type DescriptorTypeModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null;uniqueIndex"`
	Version int64  `gorm:"not null;default:1"`
}

func (DescriptorTypeModel) TableName() string { return "descriptor_types" }

// DescriptorModel is the GORM model for the descriptors table.
type DescriptorModel struct {
	ID               uint                 `gorm:"primaryKey"`
	Name             string               `gorm:"size:100;not null;uniqueIndex:idx_descriptor_name_type,priority:1"`
	DescriptorTypeID uint                 `gorm:"not null;uniqueIndex:idx_descriptor_name_type,priority:2;index"`
	Version          int64                `gorm:"not null;default:1"`
	DescriptorType   *DescriptorTypeModel `gorm:"foreignKey:DescriptorTypeID;constraint:OnDelete:RESTRICT"`
}

func (DescriptorModel) TableName() string { return "descriptors" }

// AnimalColourModel is the GORM model for the animal_colours table.
type AnimalColourModel struct {
	ID      uint   `gorm:"primaryKey"`
	Colour  string `gorm:"size:50;not null;uniqueIndex"`
	Version int64  `gorm:"not null;default:1"`
}

func (AnimalColourModel) TableName() string { return "animal_colours" }

// OrganisationModel is the GORM model for the organisations table.
type OrganisationModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:200;not null;uniqueIndex"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (OrganisationModel) TableName() string { return "organisations" }

// UserModel is the GORM model for the users table. Ids come from the
// identity subsystem.
type UserModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Username  string `gorm:"size:100;not null;uniqueIndex"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
}

func (UserModel) TableName() string { return "users" }

// AnimalModel is the GORM model for the animals table.
type AnimalModel struct {
	ID             uint               `gorm:"primaryKey"`
	Name           string             `gorm:"size:200;not null"`
	Age            int                `gorm:"not null"`
	BreedID        uint               `gorm:"not null;index"`
	SexID          uint               `gorm:"not null;index"`
	OrganisationID uint               `gorm:"not null;index"`
	Version        int64              `gorm:"not null;default:1"`
	CreatedAt      time.Time          `gorm:"not null"`
	UpdatedAt      time.Time          `gorm:"not null"`
	Breed          *BreedModel        `gorm:"foreignKey:BreedID;constraint:OnDelete:RESTRICT"`
	Sex            *SexModel          `gorm:"foreignKey:SexID;constraint:OnDelete:RESTRICT"`
	Organisation   *OrganisationModel `gorm:"foreignKey:OrganisationID;constraint:OnDelete:RESTRICT"`
}

func (AnimalModel) TableName() string { return "animals" }

// DescriptorLinkModel is the GORM model for the descriptor_links join table.
type DescriptorLinkModel struct {
	ID           uint             `gorm:"primaryKey"`
	AnimalID     uint             `gorm:"not null;uniqueIndex:idx_descriptor_link_pair,priority:1"`
	DescriptorID uint             `gorm:"not null;uniqueIndex:idx_descriptor_link_pair,priority:2;index"`
	Animal       *AnimalModel     `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
	Descriptor   *DescriptorModel `gorm:"foreignKey:DescriptorID;constraint:OnDelete:CASCADE"`
}

func (DescriptorLinkModel) TableName() string { return "descriptor_links" }

// AnimalColourLinkModel is the GORM model for the animal_colour_links join table.
type AnimalColourLinkModel struct {
	ID       uint               `gorm:"primaryKey"`
	AnimalID uint               `gorm:"not null;uniqueIndex:idx_colour_link_pair,priority:1"`
	ColourID uint               `gorm:"not null;uniqueIndex:idx_colour_link_pair,priority:2;index"`
	Animal   *AnimalModel       `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
	Colour   *AnimalColourModel `gorm:"foreignKey:ColourID;constraint:OnDelete:CASCADE"`
}

func (AnimalColourLinkModel) TableName() string { return "animal_colour_links" }

// UserOrganisationLinkModel is the GORM model for the user_organisation_links join table.
type UserOrganisationLinkModel struct {
	ID             uint               `gorm:"primaryKey"`
	UserID         uint               `gorm:"not null;uniqueIndex:idx_membership_pair,priority:1"`
	OrganisationID uint               `gorm:"not null;uniqueIndex:idx_membership_pair,priority:2;index"`
	User           *UserModel         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Organisation   *OrganisationModel `gorm:"foreignKey:OrganisationID;constraint:OnDelete:RESTRICT"`
}

func (UserOrganisationLinkModel) TableName() string { return "user_organisation_links" }

// PictureModel is the GORM model for the pictures table.
type PictureModel struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:200;not null;uniqueIndex:idx_picture_name_animal,priority:1"`
	AnimalID  uint         `gorm:"not null;uniqueIndex:idx_picture_name_animal,priority:2;index"`
	Path      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null"`
	Animal    *AnimalModel `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
}

func (PictureModel) TableName() string { return "pictures" }

// EstimationModel is the GORM model for the estimations table.
type EstimationModel struct {
	ID      uint        `gorm:"primaryKey"`
	Height  float64     `gorm:"not null"`
	Weight  float64     `gorm:"not null"`
	BreedID uint        `gorm:"not null;uniqueIndex:idx_estimation_breed_sex,priority:1"`
	SexID   uint        `gorm:"not null;uniqueIndex:idx_estimation_breed_sex,priority:2"`
	Breed   *BreedModel `gorm:"foreignKey:BreedID;constraint:OnDelete:CASCADE"`
	Sex     *SexModel   `gorm:"foreignKey:SexID;constraint:OnDelete:CASCADE"`
}

func (EstimationModel) TableName() string { return "estimations" }

// Models returns every model in dependency order, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&SpeciesModel{},
		&BreedModel{},
		&SexModel{},
		&SizeModel{},
		&DescriptorTypeModel{},
		&DescriptorModel{},
		&AnimalColourModel{},
		&OrganisationModel{},
		&UserModel{},
		&AnimalModel{},
		&DescriptorLinkModel{},
		&AnimalColourLinkModel{},
		&UserOrganisationLinkModel{},
		&PictureModel{},
		&EstimationModel{},
	}
}
