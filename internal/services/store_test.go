package services

import (
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/database"
	"github.com/Cyvadra/farewatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := database.InitDatabase(path, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return db
}

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	db := openTestDB(t, filepath.Join(t.TempDir(), "history.db"))
	t.Cleanup(func() { database.Close(db) })
	return NewHistoryStore(db)
}

func TestHistoryStoreRoundTripAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	route := config.Route{Name: "NYC-BOS", Origin: "New York, NY", Destination: "Boston, MA", Date: "2026-12-20"}
	checkedAt := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	db := openTestDB(t, path)
	store := NewHistoryStore(db)
	require.NoError(t, store.RecordCheck(route, models.CheckResult{
		Available:     true,
		Price:         price(45.99),
		TrainNumber:   "A1",
		DepartureTime: "8:00 AM",
	}, checkedAt))
	require.NoError(t, store.RecordAlert("✓ Trains available for NYC-BOS", checkedAt))
	require.NoError(t, database.Close(db))

	// Reopening runs the migration again on the existing file
	db = openTestDB(t, path)
	defer database.Close(db)

	var rows []models.PriceHistory
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.NotZero(t, row.ID)
	assert.Equal(t, "NYC-BOS", row.RouteName)
	assert.Equal(t, "New York, NY", row.Origin)
	assert.Equal(t, "Boston, MA", row.Destination)
	assert.Equal(t, "2026-12-20", row.Date)
	assert.True(t, row.Available)
	require.NotNil(t, row.Price)
	assert.Equal(t, 45.99, *row.Price)
	assert.Equal(t, "A1", row.TrainNumber)
	assert.Equal(t, "8:00 AM", row.DepartureTime)
	assert.Equal(t, models.NotAvailable, row.ArrivalTime)
	assert.True(t, checkedAt.Equal(row.CheckedAt))

	var alerts []models.AlertRecord
	require.NoError(t, db.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertRouteMultiple, alerts[0].RouteName)
	assert.Equal(t, models.AlertTypeCombined, alerts[0].AlertType)
	assert.Equal(t, "✓ Trains available for NYC-BOS", alerts[0].Details)
}

func TestHistoryStoreNullPrice(t *testing.T) {
	store := newTestStore(t)
	route := config.Route{Name: "R"}

	require.NoError(t, store.RecordCheck(route, models.CheckResult{Available: true, TrainNumber: "9"}, time.Now()))

	checks, err := store.AllChecks()
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Nil(t, checks[0].Price)
}

func TestHistoryStoreReads(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordCheck(config.Route{Name: "A"},
			models.CheckResult{Available: true, Price: price(float64(10 + i))}, base.Add(time.Duration(i)*time.Hour)))
	}
	require.NoError(t, store.RecordCheck(config.Route{Name: "B"},
		models.CheckResult{Available: true, Price: price(99)}, base.Add(10*time.Hour)))

	recent, err := store.RecentChecks("A", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 12.0, *recent[0].Price)
	assert.Equal(t, 11.0, *recent[1].Price)

	all, err := store.RecentChecks("", 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "B", all[0].RouteName)

	latest, err := store.LatestCheck("A")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 12.0, *latest.Price)

	missing, err := store.LatestCheck("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	ordered, err := store.AllChecks()
	require.NoError(t, err)
	require.Len(t, ordered, 4)
	assert.Equal(t, 10.0, *ordered[0].Price)

	require.NoError(t, store.RecordAlert("first", base))
	require.NoError(t, store.RecordAlert("second", base.Add(time.Minute)))
	alerts, err := store.RecentAlerts(1)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "second", alerts[0].Details)
}
