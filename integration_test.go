//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMembershipGranted_MirrorsUser verifies that a membership.granted event
// creates the user and the membership link in the catalogue.
func TestMembershipGranted_MirrorsUser(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupCatalogueStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	org, err := stack.Organisations.Create(ctx, application.OrganisationRequest{Name: "Second Chance"})
	require.NoError(t, err)

	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	evt := messaging.MembershipEvent{
		UserID:         42,
		OrganisationID: org.ID,
		Username:       "jdoe",
		FirstName:      "Jo",
		LastName:       "Doe",
	}
	publishTestEvent(t, infra.KafkaBrokers, messaging.TopicMembershipEvents,
		"identity", messaging.MembershipGranted, "user/42", evt)

	require.Eventually(t, func() bool {
		user, err := stack.Memberships.GetUser(context.Background(), 42)
		return err == nil && len(user.Organisations) == 1
	}, 15*time.Second, 200*time.Millisecond, "membership was not mirrored")

	user, err := stack.Memberships.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	assert.Equal(t, []uint{org.ID}, user.Organisations)
}

// TestAnimalCreated_PublishesEvent verifies that creating an animal emits
// animal.created on the catalogue topic.
func TestAnimalCreated_PublishesEvent(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupCatalogueStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	req := seedAnimalRequest(t, stack)
	created, err := stack.Animals.Create(context.Background(), req)
	require.NoError(t, err)

	ce := consumeOneEvent(t, infra.KafkaBrokers, messaging.TopicCatalogueEvents,
		messaging.AnimalCreated, 15*time.Second)

	var payload messaging.AnimalEvent
	require.NoError(t, ce.ParseData(&payload))
	assert.Equal(t, created.ID, payload.AnimalID)
	assert.Equal(t, "Rex", payload.Name)
	assert.Equal(t, req.OrganisationID, payload.OrganisationID)
}

// TestPostgres_ConstraintsAndConcurrency exercises the PostgreSQL error
// translation and optimistic locking without Kafka.
func TestPostgres_ConstraintsAndConcurrency(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()

	ctx := context.Background()
	stack := setupCatalogueStack(t, db, nil)
	req := seedAnimalRequest(t, stack)

	t.Run("duplicate organisation name", func(t *testing.T) {
		_, err := stack.Organisations.Create(ctx, application.OrganisationRequest{Name: "Shelter One"})
		require.NoError(t, err)
		_, err = stack.Organisations.Create(ctx, application.OrganisationRequest{Name: "Shelter One"})
		var cv *domain.ConstraintViolationError
		require.ErrorAs(t, err, &cv)
		assert.Equal(t, domain.ConstraintUnique, cv.Kind)
	})

	t.Run("concurrent updates admit one winner", func(t *testing.T) {
		created, err := stack.Animals.Create(ctx, req)
		require.NoError(t, err)

		const writers = 5
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			ok        int
			conflicts int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(age int) {
				defer wg.Done()
				update := req
				update.ID = created.ID
				update.Age = age
				update.Version = created.Version
				_, err := stack.Animals.Update(ctx, created.ID, update)
				mu.Lock()
				defer mu.Unlock()
				var conflict *domain.ConflictError
				switch {
				case err == nil:
					ok++
				case assert.ErrorAs(t, err, &conflict):
					conflicts++
				}
			}(10 + i)
		}
		wg.Wait()

		assert.Equal(t, 1, ok)
		assert.Equal(t, writers-1, conflicts)
	})

	t.Run("organisation with animals cannot be deleted", func(t *testing.T) {
		_, err := stack.Organisations.Delete(ctx, req.OrganisationID)
		var cv *domain.ConstraintViolationError
		require.ErrorAs(t, err, &cv)
		assert.Equal(t, domain.ConstraintDependents, cv.Kind)
	})
}
