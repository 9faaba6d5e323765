package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-orders/config"
	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []kds.Message
}

func (p *recordingPublisher) Publish(msg kds.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) all() []kds.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kds.Message(nil), p.messages...)
}

// setupTestDB returns a seeded in-memory database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger("error", "text")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.Seed(db))
	return db
}

func setupOrderService(t *testing.T) (*OrderService, repository.Store, *recordingPublisher) {
	t.Helper()
	store := repository.NewGormStore(setupTestDB(t))
	pub := &recordingPublisher{}
	return NewOrderService(store, pub), store, pub
}

func tableID(id uint) *uint { return &id }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tableStatus(t *testing.T, store repository.Store, id uint) models.TableStatus {
	t.Helper()
	table, err := store.FindTable(context.Background(), id)
	require.NoError(t, err)
	return table.Status
}
