package messaging

import "time"

// Source identifies this service in published events.
const Source = "anidopt-catalogue"

// Topics.
const (
	TopicCatalogueEvents  = "anidopt.catalogue.events"
	TopicMembershipEvents = "identity.membership.events"
)

// Catalogue lifecycle event types.
const (
	AnimalCreated       = "animal.created"
	AnimalUpdated       = "animal.updated"
	AnimalDeleted       = "animal.deleted"
	OrganisationCreated = "organisation.created"
	OrganisationUpdated = "organisation.updated"
	OrganisationDeleted = "organisation.deleted"
)

// Membership event types published by the identity subsystem.
const (
	MembershipGranted = "membership.granted"
	MembershipRevoked = "membership.revoked"
)

// AnimalEvent is the payload of the animal lifecycle events. Deleted events
// carry only the id.
type AnimalEvent struct {
	AnimalID       uint      `json:"animal_id"`
	Name           string    `json:"name,omitempty"`
	OrganisationID uint      `json:"organisation_id,omitempty"`
	Version        int64     `json:"version,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// OrganisationEvent is the payload of the organisation lifecycle events.
type OrganisationEvent struct {
	OrganisationID uint      `json:"organisation_id"`
	Name           string    `json:"name,omitempty"`
	Version        int64     `json:"version,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// MembershipEvent is the payload of membership.granted and
// membership.revoked. Revocations need only the two ids.
type MembershipEvent struct {
	UserID         uint   `json:"user_id"`
	OrganisationID uint   `json:"organisation_id"`
	Username       string `json:"username,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
}
