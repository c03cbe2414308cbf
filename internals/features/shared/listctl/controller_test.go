package listctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/features/messages/contacts/model"
	helper "schooladmin_backend/internals/helpers"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/record"
	"schooladmin_backend/internals/listing/screen"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination helper.Meta     `json:"pagination"`
	Errors     map[string]string
}

type view struct {
	Rows    []model.ContactMessage `json:"rows"`
	Page    int                    `json:"page"`
	MaxPage int                    `json:"max_page"`
	Total   int                    `json:"total"`
	Status  string                 `json:"status"`
	Search  string                 `json:"search"`
	Error   string                 `json:"error"`
	Session struct {
		Open   bool                  `json:"open"`
		Error  string                `json:"error"`
		Record *model.ContactMessage `json:"record"`
	} `json:"session"`
}

// seven messages, c7 newest; c1, c2 and c3 are Read.
func seed(store *docstore.MemoryStore) {
	for i := 1; i <= 7; i++ {
		status := record.StatusNew
		if i <= 3 {
			status = record.StatusRead
		}
		store.Seed(model.Collection, fmt.Sprintf("c%d", i), map[string]any{
			"firstName": fmt.Sprintf("First%d", i),
			"lastName":  "Parent",
			"email":     fmt.Sprintf("p%d@example.com", i),
			"status":    status,
			"createdAt": docstore.At(time.Date(2024, 1, i, 9, 0, 0, 0, time.UTC)),
		})
	}
}

func newApp(t *testing.T) (*fiber.App, *docstore.MemoryStore, *screen.Registry) {
	t.Helper()
	store := docstore.NewMemoryStore()
	seed(store)
	reg := screen.NewRegistry(time.Hour)
	ctl := New(loader.New(model.Kind, store), reg, screen.Options{PageSize: 5})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocAdminEmail, "ops@school.edu")
		return c.Next()
	})
	ctl.Register(app.Group("/contact-messages"))
	return app, store, reg
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func decodeView(t *testing.T, env envelope) view {
	t.Helper()
	var v view
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func ids(rows []model.ContactMessage) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestStatelessListPaginates(t *testing.T) {
	app, _, _ := newApp(t)

	code, env := do(t, app, http.MethodGet, "/contact-messages?page=2", "")
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Items []model.ContactMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"c2", "c1"}, ids(data.Items))
	assert.Equal(t, 2, env.Pagination.TotalPages)
	assert.Equal(t, 7, env.Pagination.Total)

	// past the end clamps to the last page
	_, env = do(t, app, http.MethodGet, "/contact-messages?page=9&status=read", "")
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, env.Pagination.Page)
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(data.Items))

	code, _ = do(t, app, http.MethodGet, "/contact-messages?status=Bogus", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestScreenRepairsCursorWhenFilterShrinks(t *testing.T) {
	app, _, _ := newApp(t)

	code, env := do(t, app, http.MethodGet, "/contact-messages/screen", "")
	require.Equal(t, http.StatusOK, code)
	v := decodeView(t, env)
	assert.Equal(t, []string{"c7", "c6", "c5", "c4", "c3"}, ids(v.Rows))
	assert.Equal(t, 2, v.MaxPage)

	_, env = do(t, app, http.MethodPost, "/contact-messages/screen/next", "")
	assert.Equal(t, 2, decodeView(t, env).Page)

	_, env = do(t, app, http.MethodPut, "/contact-messages/screen/status", `{"status":"Read"}`)
	v = decodeView(t, env)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 1, v.MaxPage)
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(v.Rows))

	_, env = do(t, app, http.MethodPut, "/contact-messages/screen/search?flush=true", `{"q":"p2@"}`)
	v = decodeView(t, env)
	assert.Equal(t, "p2@", v.Search)
	assert.Equal(t, []string{"c2"}, ids(v.Rows))
}

func TestScreenEditSaveAndCancel(t *testing.T) {
	app, store, _ := newApp(t)
	ctx := context.Background()

	code, _ := do(t, app, http.MethodPatch, "/contact-messages/screen/session", `{"status":"Read"}`)
	assert.Equal(t, http.StatusConflict, code)

	_, env := do(t, app, http.MethodPost, "/contact-messages/screen/view/c5", "")
	v := decodeView(t, env)
	require.True(t, v.Session.Open)
	assert.Equal(t, "c5", v.Session.Record.ID)

	code, _ = do(t, app, http.MethodPatch, "/contact-messages/screen/session", `{"status":"Archived","email":"x@y"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	_, _ = do(t, app, http.MethodPatch, "/contact-messages/screen/session", `{"status":"Archived"}`)

	store.FailOn("update", errors.New("permission denied"))
	code, env = do(t, app, http.MethodPost, "/contact-messages/screen/session/save", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, env.Message, "Failed to update message")

	_, env = do(t, app, http.MethodGet, "/contact-messages/screen", "")
	v = decodeView(t, env)
	assert.True(t, v.Session.Open)
	assert.Equal(t, record.StatusArchived, v.Session.Record.Status)

	store.FailOn("update", nil)
	code, env = do(t, app, http.MethodPost, "/contact-messages/screen/session/save", "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, decodeView(t, env).Session.Open)

	doc, err := store.Get(ctx, model.Collection, "c5")
	require.NoError(t, err)
	assert.Equal(t, record.StatusArchived, doc.Data["status"])

	_, _ = do(t, app, http.MethodPost, "/contact-messages/screen/view/c4", "")
	_, _ = do(t, app, http.MethodPatch, "/contact-messages/screen/session", `{"status":"Archived"}`)
	_, env = do(t, app, http.MethodDelete, "/contact-messages/screen/session", "")
	assert.False(t, decodeView(t, env).Session.Open)
	doc, _ = store.Get(ctx, model.Collection, "c4")
	assert.Equal(t, record.StatusNew, doc.Data["status"])
}

func TestUpdateValidatesBeforeWriting(t *testing.T) {
	app, store, _ := newApp(t)
	_, _ = do(t, app, http.MethodGet, "/contact-messages", "")
	before := store.Writes()

	code, _ := do(t, app, http.MethodPut, "/contact-messages/c1", `{"subject":"changed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, before, store.Writes())

	code, _ = do(t, app, http.MethodPut, "/contact-messages/missing", `{"status":"Read"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := do(t, app, http.MethodPut, "/contact-messages/c7", `{"status":"In Progress"}`)
	require.Equal(t, http.StatusOK, code)
	var rec model.ContactMessage
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, record.StatusInProgress, rec.Status)
}

func TestFailedRefreshKeepsRows(t *testing.T) {
	app, store, _ := newApp(t)
	_, _ = do(t, app, http.MethodGet, "/contact-messages", "")

	store.FailOn("list", errors.New("unavailable"))
	code, env := do(t, app, http.MethodPost, "/contact-messages/refresh", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Failed to load contact messages. Please check document store permissions.", env.Message)

	code, env = do(t, app, http.MethodGet, "/contact-messages", "")
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Items []model.ContactMessage `json:"items"`
		Error string                 `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Items, 5)
	assert.NotEmpty(t, data.Error)
}

func TestFirstLoadFailure(t *testing.T) {
	app, store, _ := newApp(t)
	store.FailOn("list", errors.New("unavailable"))

	code, _ := do(t, app, http.MethodGet, "/contact-messages", "")
	assert.Equal(t, http.StatusBadGateway, code)

	code, env := do(t, app, http.MethodGet, "/contact-messages/screen", "")
	require.Equal(t, http.StatusOK, code)
	v := decodeView(t, env)
	assert.Empty(t, v.Rows)
	assert.NotEmpty(t, v.Error)
}

func TestExportAndTeardown(t *testing.T) {
	app, _, reg := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/contact-messages/export.xlsx?status=Read", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "contact-messages.xlsx")

	_, _ = do(t, app, http.MethodGet, "/contact-messages/screen", "")
	assert.Equal(t, 1, reg.Len())
	code, _ := do(t, app, http.MethodDelete, "/contact-messages/screen", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, reg.Len())
}
