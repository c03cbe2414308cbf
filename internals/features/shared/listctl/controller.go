package listctl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "schooladmin_backend/internals/helpers"
	"schooladmin_backend/internals/listing/cursor"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/pipeline"
	"schooladmin_backend/internals/listing/record"
	"schooladmin_backend/internals/listing/screen"
	"schooladmin_backend/internals/listing/session"
)

// Controller serves one record kind over HTTP: a stateless list API and
// the per-operator screen API.
type Controller[T any] struct {
	Loader  *loader.Loader[T]
	Screens *screen.Registry
	Options screen.Options
}

func New[T any](l *loader.Loader[T], screens *screen.Registry, opts screen.Options) *Controller[T] {
	return &Controller[T]{Loader: l, Screens: screens, Options: opts}
}

func (ctl *Controller[T]) kind() *record.Kind[T] { return ctl.Loader.Kind() }

// Register mounts the list and screen routes under r.
func (ctl *Controller[T]) Register(r fiber.Router) {
	r.Get("/", ctl.List)
	r.Get("/export.xlsx", ctl.Export)
	r.Post("/refresh", ctl.Refresh)

	s := r.Group("/screen")
	s.Get("/", ctl.ScreenView)
	s.Delete("/", ctl.ScreenClose)
	s.Put("/search", ctl.ScreenSearch)
	s.Put("/status", ctl.ScreenStatus)
	s.Post("/next", ctl.ScreenNext)
	s.Post("/prev", ctl.ScreenPrev)
	s.Post("/jump", ctl.ScreenJump)
	s.Post("/refresh", ctl.ScreenRefresh)
	s.Post("/view/:id", ctl.ScreenOpen)
	s.Patch("/session", ctl.ScreenEdit)
	s.Post("/session/save", ctl.ScreenSave)
	s.Delete("/session", ctl.ScreenCancel)

	r.Get("/:id", ctl.Get)
	r.Put("/:id", ctl.Update)
}

func (ctl *Controller[T]) statusParam(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, pipeline.All) {
		return pipeline.All, nil
	}
	k := ctl.kind()
	for _, v := range k.FilterDomain {
		if strings.EqualFold(v, raw) {
			return v, nil
		}
	}
	if len(k.FilterDomain) == 0 {
		return raw, nil
	}
	return "", &record.ValidationError{
		Message: "Invalid filter",
		Fields:  map[string]string{k.FilterName(): "unknown value " + raw},
	}
}

// ensure loads the collection on first use. Stale data after a failed
// refresh is still served; only a collection that never loaded fails.
func (ctl *Controller[T]) ensure(c *fiber.Ctx) (loader.State[T], error) {
	err := ctl.Loader.Ensure(c.UserContext())
	st := ctl.Loader.State()
	if err != nil && !st.Loaded {
		return st, err
	}
	return st, nil
}

type listPayload[T any] struct {
	Items    []T      `json:"items"`
	Status   string   `json:"status"`
	Search   string   `json:"search"`
	Statuses []string `json:"statuses"`
	Error    string   `json:"error,omitempty"`
}

// GET /
func (ctl *Controller[T]) List(c *fiber.Ctx) error {
	q := helper.ParseListQuery(c, helper.Options{DefaultPerPage: ctl.pageSize(), MaxPerPage: 100})
	status, err := ctl.statusParam(q.Status)
	if err != nil {
		return helper.FromError(c, err, "")
	}
	st, err := ctl.ensure(c)
	if err != nil {
		return helper.FromError(c, err, ctl.Loader.ErrorMessage())
	}

	filtered := pipeline.Apply(st.Items, ctl.Loader.Spec(), status, q.Search)
	cur := cursor.New(q.PerPage)
	cur.SetCount(len(filtered))
	cur.Jump(q.Page)

	return helper.JsonList(c, "ok", listPayload[T]{
		Items:    cursor.Slice(cur, filtered),
		Status:   status,
		Search:   q.Search,
		Statuses: append([]string{pipeline.All}, ctl.kind().FilterDomain...),
		Error:    st.Error,
	}, helper.BuildMeta(len(filtered), cur.Page(), cur.PageSize()))
}

// GET /:id
func (ctl *Controller[T]) Get(c *fiber.Ctx) error {
	if _, err := ctl.ensure(c); err != nil {
		return helper.FromError(c, err, ctl.Loader.ErrorMessage())
	}
	rec, ok := ctl.Loader.Find(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Record not found")
	}
	return helper.JsonOK(c, "ok", rec)
}

// PUT /:id opens, edits and saves in one request.
func (ctl *Controller[T]) Update(c *fiber.Ctx) error {
	var patch map[string]string
	if err := c.BodyParser(&patch); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if _, err := ctl.ensure(c); err != nil {
		return helper.FromError(c, err, ctl.Loader.ErrorMessage())
	}

	s := session.New(ctl.Loader)
	if err := s.Open(c.Params("id")); err != nil {
		return helper.FromError(c, err, "")
	}
	if err := s.Edit(patch); err != nil {
		return helper.FromError(c, err, "")
	}
	if err := s.Save(c.UserContext()); err != nil {
		return helper.FromError(c, err, s.State().Error)
	}
	rec, _ := ctl.Loader.Find(c.Params("id"))
	return helper.JsonUpdated(c, fmt.Sprintf("%s updated", ctl.kind().Label), rec)
}

// POST /refresh
func (ctl *Controller[T]) Refresh(c *fiber.Ctx) error {
	started, err := ctl.Loader.Refresh(c.UserContext())
	if !started {
		return helper.JsonAccepted(c, "Refresh already in progress", fiber.Map{"coalesced": true})
	}
	if err != nil {
		return helper.FromError(c, err, ctl.Loader.ErrorMessage())
	}
	st := ctl.Loader.State()
	return helper.JsonOK(c, "Refreshed", fiber.Map{"count": len(st.Items), "loaded_at": st.LoadedAt})
}

// GET /export.xlsx exports the filtered list, all pages.
func (ctl *Controller[T]) Export(c *fiber.Ctx) error {
	q := helper.ParseListQuery(c, helper.ExportOpts)
	status, err := ctl.statusParam(q.Status)
	if err != nil {
		return helper.FromError(c, err, "")
	}
	st, err := ctl.ensure(c)
	if err != nil {
		return helper.FromError(c, err, ctl.Loader.ErrorMessage())
	}

	k := ctl.kind()
	filtered := pipeline.Apply(st.Items, ctl.Loader.Spec(), status, q.Search)
	rows := make([][]string, 0, len(filtered))
	for i := range filtered {
		rows = append(rows, k.Row(&filtered[i]))
	}
	buf, err := helper.BuildWorkbook(k.Label, k.Headers(), rows)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build export")
	}
	return helper.SendWorkbook(c, k.Name+".xlsx", buf)
}

func (ctl *Controller[T]) pageSize() int {
	if ctl.Options.PageSize > 0 {
		return ctl.Options.PageSize
	}
	return helper.DefaultOpts.DefaultPerPage
}

var errNoOwner = errors.New("no operator on request")
