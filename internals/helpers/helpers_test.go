package helper

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/listing/record"
	"schooladmin_backend/internals/listing/session"
)

func TestParseListQuery(t *testing.T) {
	app := fiber.New()
	var got ListQuery
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseListQuery(c, DefaultOpts)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/?page=0&per_page=500&status=New&q=jane", nil))
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 1, PerPage: 100, Status: "New", Search: "jane"}, got)

	_, err = app.Test(httptest.NewRequest("GET", "/?limit=abc&search=x", nil))
	require.NoError(t, err)
	assert.Equal(t, 5, got.PerPage)
	assert.Equal(t, "x", got.Search)
}

func TestBuildMeta(t *testing.T) {
	m := BuildMeta(12, 2, 5)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)
	require.NotNil(t, m.NextPage)
	assert.Equal(t, 3, *m.NextPage)

	empty := BuildMeta(0, 1, 5)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func statusOf(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err, "Failed to load things.") })
	resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, e)
	body, _ := io.ReadAll(resp.Body)
	var out ErrorResponse
	require.NoError(t, sonic.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestFromError(t *testing.T) {
	code, body := statusOf(t, &record.ValidationError{Message: "Please fill in all required fields", Fields: map[string]string{"title": "required"}})
	assert.Equal(t, 422, code)
	assert.Equal(t, "required", body.Errors["title"])

	code, _ = statusOf(t, docstore.ErrNotFound)
	assert.Equal(t, 404, code)

	code, _ = statusOf(t, session.ErrNotOpen)
	assert.Equal(t, 409, code)

	code, body = statusOf(t, docstore.ErrPermissionDenied)
	assert.Equal(t, 502, code)
	assert.Equal(t, "Failed to load things.", body.Message)
	assert.Equal(t, "UPSTREAM_ERROR", body.ErrorCode)
}

func TestBuildWorkbook(t *testing.T) {
	buf, err := BuildWorkbook("Contact Messages", []string{"ID", "Email"}, [][]string{{"1", "a@x.com"}, {"2", "b@x.com"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Contact Messages")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Email"}, {"1", "a@x.com"}, {"2", "b@x.com"}}, rows)
}
