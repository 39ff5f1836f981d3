package application

import (
	"context"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain/link"
	userDomain "github.com/aidanjbailey/anidopt/internal/domain/user"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"go.uber.org/zap"
)

// MembershipGrant carries a user and the organisation they joined, as
// announced by the identity subsystem.
type MembershipGrant struct {
	UserID         uint
	OrganisationID uint
	Username       string
	FirstName      string
	LastName       string
}

// UserDTO is the API response representation of a user.
type UserDTO struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Organisations []uint `json:"organisation_ids"`
}

// MembershipService mirrors identity-subsystem memberships into the
// catalogue.
type MembershipService struct {
	users  userDomain.Repository
	links  *LinkService
	logger *zap.Logger
	rec    *metrics.Recorder
}

// NewMembershipService creates a new MembershipService. rec may be nil.
func NewMembershipService(users userDomain.Repository, links *LinkService, rec *metrics.Recorder, logger *zap.Logger) *MembershipService {
	return &MembershipService{users: users, links: links, logger: logger, rec: rec}
}

// Grant stores the user and links them to the organisation as one unit: a
// grant for an unknown organisation leaves no user behind. Replaying a
// grant is harmless: an existing link counts as applied.
func (s *MembershipService) Grant(ctx context.Context, g MembershipGrant) (err error) {
	defer s.observe("grant", time.Now(), &err)

	u, err := userDomain.NewUser(g.UserID, g.Username, g.FirstName, g.LastName)
	if err != nil {
		return err
	}
	if err := validatePair(link.KindMembership, g.UserID, g.OrganisationID); err != nil {
		return err
	}
	granted, err := s.users.GrantMembership(ctx, u, g.OrganisationID)
	if err != nil {
		return err
	}
	if !granted {
		s.logger.Debug("membership already granted",
			zap.Uint("user_id", g.UserID),
			zap.Uint("organisation_id", g.OrganisationID),
		)
		return nil
	}
	s.logger.Info("membership granted",
		zap.Uint("user_id", g.UserID),
		zap.Uint("organisation_id", g.OrganisationID),
	)
	return nil
}

// Revoke unlinks the user from the organisation. Revoking an absent
// membership is a no-op.
func (s *MembershipService) Revoke(ctx context.Context, userID, organisationID uint) (err error) {
	defer s.observe("revoke", time.Now(), &err)
	return s.links.Unlink(ctx, link.KindMembership, userID, organisationID)
}

// GetUser returns the user with the organisations they belong to.
func (s *MembershipService) GetUser(ctx context.Context, userID uint) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	orgs, err := s.links.Targets(ctx, link.KindMembership, userID)
	if err != nil {
		return nil, err
	}
	return &UserDTO{
		ID:            u.ID(),
		Username:      u.Username(),
		FirstName:     u.FirstName(),
		LastName:      u.LastName(),
		Organisations: orgs,
	}, nil
}

func (s *MembershipService) observe(operation string, started time.Time, err *error) {
	s.rec.Observe("membership", operation, started, *err)
}
