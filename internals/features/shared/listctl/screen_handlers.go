package listctl

import (
	"github.com/gofiber/fiber/v2"

	helper "schooladmin_backend/internals/helpers"
	"schooladmin_backend/internals/listing/screen"
)

func (ctl *Controller[T]) screenFor(c *fiber.Ctx) (*screen.Screen[T], error) {
	owner := helper.AdminEmail(c)
	if owner == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, errNoOwner.Error())
	}
	s := screen.Get(ctl.Screens, owner, ctl.kind().Name, func() *screen.Screen[T] {
		return screen.New(ctl.Loader, ctl.Options)
	})
	return s, nil
}

// withScreen runs fn on the caller's screen and answers with the new view.
// A screen reaped mid-request is rebuilt once.
func (ctl *Controller[T]) withScreen(c *fiber.Ctx, fn func(*screen.Screen[T]) error) error {
	for attempt := 0; ; attempt++ {
		s, err := ctl.screenFor(c)
		if err != nil {
			return helper.FromError(c, err, "")
		}
		if err := fn(s); err != nil {
			if err == screen.ErrClosed && attempt == 0 {
				ctl.Screens.Drop(helper.AdminEmail(c), ctl.kind().Name)
				continue
			}
			return helper.FromError(c, err, s.Session().Error)
		}
		return helper.JsonOK(c, "ok", s.View())
	}
}

// GET /screen triggers the first load; a failed load is reported in the
// view's error field.
func (ctl *Controller[T]) ScreenView(c *fiber.Ctx) error {
	return ctl.withScreen(c, func(s *screen.Screen[T]) error {
		if err := s.Ensure(); err == screen.ErrClosed {
			return err
		}
		return nil
	})
}

// DELETE /screen
func (ctl *Controller[T]) ScreenClose(c *fiber.Ctx) error {
	closed := ctl.Screens.Drop(helper.AdminEmail(c), ctl.kind().Name)
	return helper.JsonOK(c, "Screen closed", fiber.Map{"closed": closed})
}

// PUT /screen/search {"q": "..."}; ?flush=true applies it without waiting.
func (ctl *Controller[T]) ScreenSearch(c *fiber.Ctx) error {
	var body struct {
		Q string `json:"q"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return ctl.withScreen(c, func(s *screen.Screen[T]) error {
		if err := s.SetSearch(body.Q); err != nil {
			return err
		}
		if c.QueryBool("flush") {
			s.FlushSearch()
		}
		return nil
	})
}

// PUT /screen/status {"status": "..."}
func (ctl *Controller[T]) ScreenStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	status, err := ctl.statusParam(body.Status)
	if err != nil {
		return helper.FromError(c, err, "")
	}
	return ctl.withScreen(c, func(s *screen.Screen[T]) error { return s.SetStatus(status) })
}

func (ctl *Controller[T]) ScreenNext(c *fiber.Ctx) error {
	return ctl.withScreen(c, func(s *screen.Screen[T]) error { return s.Next() })
}

func (ctl *Controller[T]) ScreenPrev(c *fiber.Ctx) error {
	return ctl.withScreen(c, func(s *screen.Screen[T]) error { return s.Prev() })
}

// POST /screen/jump {"page": n}
func (ctl *Controller[T]) ScreenJump(c *fiber.Ctx) error {
	var body struct {
		Page int `json:"page"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return ctl.withScreen(c, func(s *screen.Screen[T]) error { return s.Jump(body.Page) })
}

// POST /screen/refresh never fails the request on a load error; the
// view carries the message and the previous rows.
func (ctl *Controller[T]) ScreenRefresh(c *fiber.Ctx) error {
	return ctl.withScreen(c, func(s *screen.Screen[T]) error {
		if _, err := s.Refresh(); err == screen.ErrClosed {
			return err
		}
		return nil
	})
}

// POST /screen/view/:id
func (ctl *Controller[T]) ScreenOpen(c *fiber.Ctx) error {
	id := c.Params("id")
	return ctl.withScreen(c, func(s *screen.Screen[T]) error {
		if err := s.Ensure(); err == screen.ErrClosed {
			return err
		}
		return s.OpenRecord(id)
	})
}

// PATCH /screen/session {"field": "value", ...}
func (ctl *Controller[T]) ScreenEdit(c *fiber.Ctx) error {
	var patch map[string]string
	if err := c.BodyParser(&patch); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return ctl.withScreen(c, func(s *screen.Screen[T]) error { return s.Edit(patch) })
}

// POST /screen/session/save
func (ctl *Controller[T]) ScreenSave(c *fiber.Ctx) error {
	return ctl.withScreen(c, func(s *screen.Screen[T]) error { return s.Save() })
}

// DELETE /screen/session
func (ctl *Controller[T]) ScreenCancel(c *fiber.Ctx) error {
	return ctl.withScreen(c, func(s *screen.Screen[T]) error {
		s.CancelEdit()
		return nil
	})
}
