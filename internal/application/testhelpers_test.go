package application

import (
	"context"
	"sync"
	"testing"

	"github.com/aidanjbailey/anidopt/internal/config"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/aidanjbailey/anidopt/internal/platform/database"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"github.com/aidanjbailey/anidopt/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingPublisher keeps every published event type.
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
	keys  []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, key string, ce messaging.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, ce.Type)
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

// testEnv wires every service to one SQLite database.
type testEnv struct {
	db          *gorm.DB
	rec         *metrics.Recorder
	publisher   *recordingPublisher
	refs        *ReferenceService
	links       *LinkService
	animals     *AnimalService
	orgs        *OrganisationService
	memberships *MembershipService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := t.TempDir() + "/test.db?_busy_timeout=5000&_foreign_keys=ON"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repository.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return wireTestEnv(db)
}

// newProductionTestEnv opens the store the way the serve command does,
// including the single-connection SQLite pool.
func newProductionTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: t.TempDir() + "/anidopt.db"}
	db, err := database.Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	t.Cleanup(func() { _ = database.Close(db) })
	return wireTestEnv(db)
}

func wireTestEnv(db *gorm.DB) *testEnv {
	log := zap.NewNop()
	rec := metrics.NewRecorder()
	pub := &recordingPublisher{}
	orgRepo := repository.NewGormOrganisationRepository(db)

	env := &testEnv{db: db, rec: rec, publisher: pub}
	env.refs = NewReferenceService(repository.NewGormReferenceRepository(db), rec, log)
	env.links = NewLinkService(repository.NewGormLinkRepository(db), rec, log)
	env.orgs = NewOrganisationService(orgRepo, pub, rec, log)
	env.animals = NewAnimalService(repository.NewGormAnimalRepository(db), env.refs, orgRepo, env.links, pub, rec, log)
	env.memberships = NewMembershipService(repository.NewGormUserRepository(db), env.links, rec, log)
	return env
}

// fixture holds the ids of a small seeded catalogue: Dog/Beagle, Male,
// Temperament/Playful, Tan and one organisation.
type fixture struct {
	dogID        uint
	beagleID     uint
	maleID       uint
	descriptorID uint
	tanID        uint
	orgID        uint
}

func (env *testEnv) seed(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	create := func(kind reference.Kind, name string, parent uint) uint {
		item, err := env.refs.Create(ctx, kind, ReferenceItemRequest{Name: name, ParentID: parent})
		require.NoError(t, err)
		return item.ID
	}

	var f fixture
	f.dogID = create(reference.KindSpecies, "Dog", 0)
	f.beagleID = create(reference.KindBreed, "Beagle", f.dogID)
	f.maleID = create(reference.KindSex, "Male", 0)
	typeID := create(reference.KindDescriptorType, "Temperament", 0)
	f.descriptorID = create(reference.KindDescriptor, "Playful", typeID)
	f.tanID = create(reference.KindAnimalColour, "Tan", 0)

	org, err := env.orgs.Create(ctx, OrganisationRequest{Name: "Happy Paws"})
	require.NoError(t, err)
	f.orgID = org.ID
	return f
}

func (f fixture) rex() AnimalRequest {
	return AnimalRequest{Name: "Rex", Age: 3, BreedID: f.beagleID, SexID: f.maleID, OrganisationID: f.orgID}
}
