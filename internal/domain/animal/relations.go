package animal

// Ref is an (id, name) pair of a related row.
type Ref struct {
	ID   uint
	Name string
}

// DescriptorRef is one resolved descriptor link of an animal.
type DescriptorRef struct {
	LinkID       uint
	DescriptorID uint
	Name         string
	TypeID       uint
	TypeName     string
}

// ColourRef is one resolved colour link of an animal.
type ColourRef struct {
	LinkID   uint
	ColourID uint
	Colour   string
}

// Relations is the bounded set of rows resolved alongside an animal by
// AnimalRepository.LoadRelations. Nothing else is ever loaded implicitly.
type Relations struct {
	Breed        Ref
	Species      Ref
	Sex          Ref
	Organisation Ref
	Descriptors  []DescriptorRef
	Colours      []ColourRef
	Pictures     []*Picture
}
