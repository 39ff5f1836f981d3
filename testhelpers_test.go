//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/aidanjbailey/anidopt/internal/application"
	catalogueEvents "github.com/aidanjbailey/anidopt/internal/events"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"github.com/aidanjbailey/anidopt/internal/repository"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// catalogueStack holds wired-up catalogue components.
type catalogueStack struct {
	Animals         *application.AnimalService
	Organisations   *application.OrganisationService
	References      *application.ReferenceService
	Memberships     *application.MembershipService
	Consumer        *catalogueEvents.MembershipEventConsumer
	CleanupProducer func()
}

// setupPostgres starts a PostgreSQL container and returns a migrated GORM DB.
func setupPostgres(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_anidopt",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_anidopt sslmode=disable", pgHost, pgPort.Port())

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(repository.Models()...))

	return db, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
}

// setupContainers starts PostgreSQL and Kafka testcontainers.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	db, stopPostgres := setupPostgres(t)

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, messaging.TopicCatalogueEvents, messaging.TopicMembershipEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		stopPostgres()
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupCatalogueStack wires up the catalogue services against real infrastructure.
// A nil broker list disables publishing and consuming.
func setupCatalogueStack(t *testing.T, db *gorm.DB, brokers []string) *catalogueStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	rec := metrics.NewRecorder()

	var publisher application.EventPublisher = application.NopPublisher{}
	cleanupProducer := func() {}
	if len(brokers) > 0 {
		producer := messaging.NewProducer(brokers, logger)
		publisher = producer
		cleanupProducer = func() { _ = producer.Close() }
	}

	orgRepo := repository.NewGormOrganisationRepository(db)
	refs := application.NewReferenceService(repository.NewGormReferenceRepository(db), rec, logger)
	links := application.NewLinkService(repository.NewGormLinkRepository(db), rec, logger)
	memberships := application.NewMembershipService(repository.NewGormUserRepository(db), links, rec, logger)

	stack := &catalogueStack{
		Animals:         application.NewAnimalService(repository.NewGormAnimalRepository(db), refs, orgRepo, links, publisher, rec, logger),
		Organisations:   application.NewOrganisationService(orgRepo, publisher, rec, logger),
		References:      refs,
		Memberships:     memberships,
		CleanupProducer: cleanupProducer,
	}
	if len(brokers) > 0 {
		groupID := fmt.Sprintf("test-catalogue-%s", uuid.New().String()[:8])
		stack.Consumer = catalogueEvents.NewMembershipEventConsumer(brokers, groupID, memberships, rec, logger)
	}
	return stack
}

// seedAnimalRequest creates the vocabulary and organisation an animal needs.
func seedAnimalRequest(t *testing.T, stack *catalogueStack) application.AnimalRequest {
	t.Helper()
	ctx := context.Background()

	dog, err := stack.References.Create(ctx, "species", application.ReferenceItemRequest{Name: "Dog"})
	require.NoError(t, err)
	beagle, err := stack.References.Create(ctx, "breed", application.ReferenceItemRequest{Name: "Beagle", ParentID: dog.ID})
	require.NoError(t, err)
	female, err := stack.References.Create(ctx, "sex", application.ReferenceItemRequest{Name: "Female"})
	require.NoError(t, err)
	org, err := stack.Organisations.Create(ctx, application.OrganisationRequest{Name: "Happy Paws " + uuid.New().String()[:6]})
	require.NoError(t, err)

	return application.AnimalRequest{
		Name:           "Rex",
		Age:            3,
		BreedID:        beagle.ID,
		SexID:          female.ID,
		OrganisationID: org.ID,
	}
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType, key string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := messaging.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := messaging.NewCloudEvent(source, eventType, key, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, key, ce)
	require.NoError(t, err, "failed to publish event")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) messaging.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := messaging.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
