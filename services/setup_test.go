package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	"github.com/techagentng/complaintx/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *db.GormDB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return &db.GormDB{DB: gormDB}
}

func createTestUser(t *testing.T, gdb *db.GormDB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Fullname: "Test User",
		Username: email,
		Email:    email,
		Active:   true,
	}
	require.NoError(t, gdb.DB.Create(user).Error)
	return user
}

func testConfig() *config.Config {
	return &config.Config{Env: "test"}
}

type sentPush struct {
	Token string
	Title string
	Body  string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentPush
}

func (f *fakeDispatcher) SendPushNotification(deviceToken, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentPush{Token: deviceToken, Title: title, Body: body})
	return nil
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type publishedEvent struct {
	Channel string
	Event   string
	Payload interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(channel, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Channel: channel, Event: event, Payload: payload})
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *fakePublisher) last() (publishedEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return publishedEvent{}, false
	}
	return f.events[len(f.events)-1], true
}
