package services

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-stock/internal/config"
	"github.com/diewo77/go-stock/internal/db"
	"github.com/diewo77/go-stock/internal/events"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Dispatch(e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type())
	}
	return out
}

// stepClock starts at start and moves one minute forward on every call.
func stepClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

type fixture struct {
	shop   *Service
	conn   *gorm.DB
	events *recorder
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := db.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, db.Migrate(conn))

	rec := &recorder{}
	shop := NewService(conn,
		WithLogger(log),
		WithDispatcher(rec),
		WithClock(stepClock(start)),
	)
	return &fixture{shop: shop, conn: conn, events: rec}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}
