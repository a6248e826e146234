package odf

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"odf-core/feature/odf/parse"
)

func newTestApp(t *testing.T, registry *parse.Registry) *fiber.App {
	t.Helper()
	service := NewService(newTestDB(t), zap.NewNop(), registry, nil)
	app := fiber.New()
	NewHandler(service).RegisterRoutes(app)
	return app
}

func postIngest(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/ingest-odf", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/xml")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestHandleIngest(t *testing.T) {
	okHandler := func(tx *gorm.DB, log *zap.Logger, msg *parse.Message) error { return nil }
	message := `<OdfBody DocumentType="DT_RESULT" DocumentCode="SWMM100MFR" ResultStatus="OFFICIAL"><Competition/></OdfBody>`

	t.Run("Applied", func(t *testing.T) {
		app := newTestApp(t, parse.NewRegistry(map[parse.RouteKey]parse.Handler{
			{Type: "DT_RESULT", Discipline: "SWM", Subtype: parse.Wildcard}: okHandler,
		}))
		status, body := postIngest(t, app, message)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, string(OutcomeApplied), body["outcome"])
	})

	t.Run("UnhandledIsStillAccepted", func(t *testing.T) {
		app := newTestApp(t, parse.NewRegistry(nil))
		status, body := postIngest(t, app, message)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, string(OutcomeUnhandled), body["outcome"])
	})

	t.Run("EmptyBody", func(t *testing.T) {
		app := newTestApp(t, parse.NewRegistry(nil))
		status, body := postIngest(t, app, "")
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, "error")
	})

	t.Run("BrokenEnvelope", func(t *testing.T) {
		app := newTestApp(t, parse.NewRegistry(nil))
		status, _ := postIngest(t, app, `<NotAnEnvelope/>`)
		assert.Equal(t, fiber.StatusBadRequest, status)

		status, _ = postIngest(t, app, `<OdfBody DocumentCode="SWMM100MFR"/>`)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("UnreadableXML", func(t *testing.T) {
		app := newTestApp(t, parse.NewRegistry(nil))
		status, _ := postIngest(t, app, `<OdfBody DocumentType=`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	})

	t.Run("ReconciliationFailure", func(t *testing.T) {
		app := newTestApp(t, parse.NewRegistry(map[parse.RouteKey]parse.Handler{
			{Type: "DT_RESULT", Discipline: "SWM", Subtype: parse.Wildcard}: func(tx *gorm.DB, log *zap.Logger, msg *parse.Message) error {
				return errors.New("malformed competitor block")
			},
		}))
		status, body := postIngest(t, app, message)
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Contains(t, body, "error")
	})
}
