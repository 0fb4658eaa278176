package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Log(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcherDeliversEvents(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, nil)

	tenantID := uuid.New()
	d.Dispatch(Event{TenantID: tenantID, Action: "appointment_created"})
	d.Dispatch(Event{TenantID: tenantID, Action: "appointment_cancelled"})
	d.Close()

	require.Len(t, sink.events, 2)
	assert.Equal(t, "appointment_created", sink.events[0].Action)
	assert.Equal(t, tenantID, sink.events[1].TenantID)
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("db down")}
	d := NewDispatcher(sink, nil)

	d.Dispatch(Event{Action: "x"})
	d.Close()

	assert.Len(t, sink.events, 1)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

func TestLoggerInsertsRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "audit_logs"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entityID := uuid.New()
	err = New(db).Log(Event{
		TenantID: uuid.New(),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &entityID,
		Metadata: map[string]string{"source": "public_page"},
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
