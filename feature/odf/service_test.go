package odf

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"odf-core/feature/odf/models"
	"odf-core/feature/odf/parse"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type recordingNotifier struct {
	types []string
}

func (r *recordingNotifier) DataChanged(messageType string) {
	r.types = append(r.types, messageType)
}

func TestServiceIngest(t *testing.T) {
	raw := []byte(`<OdfBody DocumentType="DT_RESULT" DocumentCode="SWMM100MFR" ResultStatus="OFFICIAL">
		<Competition/>
	</OdfBody>`)

	t.Run("Applied", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &recordingNotifier{}
		registry := parse.NewRegistry(map[parse.RouteKey]parse.Handler{
			{Type: "DT_RESULT", Discipline: "SWM", Subtype: parse.Wildcard}: func(tx *gorm.DB, log *zap.Logger, msg *parse.Message) error {
				return tx.Create(&models.NOC{Code: "HUN", LongName: "HUN", ShortName: "HUN"}).Error
			},
		})
		service := NewService(db, zap.NewNop(), registry, notifier)

		report, err := service.Ingest(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, report.Outcome)
		assert.Equal(t, "DT_RESULT", report.Type)
		assert.Equal(t, "SWM", report.Discipline)
		assert.Equal(t, parse.Wildcard, report.Route.Subtype)

		var count int64
		require.NoError(t, db.Model(&models.NOC{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
		assert.Equal(t, []string{"DT_RESULT"}, notifier.types)
	})

	t.Run("HandlerErrorRollsBack", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &recordingNotifier{}
		registry := parse.NewRegistry(map[parse.RouteKey]parse.Handler{
			{Type: "DT_RESULT", Discipline: "SWM", Subtype: parse.Wildcard}: func(tx *gorm.DB, log *zap.Logger, msg *parse.Message) error {
				if err := tx.Create(&models.NOC{Code: "HUN", LongName: "HUN", ShortName: "HUN"}).Error; err != nil {
					return err
				}
				return errors.New("malformed competitor block")
			},
		})
		service := NewService(db, zap.NewNop(), registry, notifier)

		_, err := service.Ingest(context.Background(), raw)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&models.NOC{}).Count(&count).Error)
		assert.EqualValues(t, 0, count, "the partial write was rolled back")
		assert.Empty(t, notifier.types)
	})

	t.Run("Unhandled", func(t *testing.T) {
		db := newTestDB(t)
		notifier := &recordingNotifier{}
		service := NewService(db, zap.NewNop(), parse.NewRegistry(nil), notifier)

		report, err := service.Ingest(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnhandled, report.Outcome)
		assert.Empty(t, notifier.types)
	})

	t.Run("EnvelopeErrorsPassThrough", func(t *testing.T) {
		db := newTestDB(t)
		service := NewService(db, zap.NewNop(), parse.NewRegistry(nil), nil)

		_, err := service.Ingest(context.Background(), []byte(`<OdfBody DocumentType=`))
		assert.ErrorIs(t, err, parse.ErrBadXML)

		_, err = service.Ingest(context.Background(), []byte(`<Other/>`))
		assert.ErrorIs(t, err, parse.ErrNoEnvelope)
	})
}

func TestWebhookNotifier(t *testing.T) {
	received := make(chan map[string]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, zap.NewNop())
	notifier.DataChanged("DT_RESULT")

	select {
	case payload := <-received:
		assert.Equal(t, "data_changed", payload["event"])
		assert.Equal(t, "DT_RESULT", payload["type"])
	case <-time.After(2 * time.Second):
		t.Fatal("notification never arrived")
	}
}
