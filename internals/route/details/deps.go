package details

import (
	"time"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/docstore"
	authService "schooladmin_backend/internals/features/auth/service"
	authHelper "schooladmin_backend/internals/helpers/auth"
	ossHelper "schooladmin_backend/internals/helpers/oss"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/screen"
)

// Deps is everything the route builders share. Store clients are built
// once by the caller and injected here.
type Deps struct {
	Config    *configs.Config
	Docs      docstore.Store
	Objects   ossHelper.ObjectStore
	Disk      *ossHelper.DiskStore
	Blacklist authHelper.Blacklist
	Screens   *screen.Registry
	Auth      *authService.AuthService
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Deps) LoaderOptions() []loader.Option {
	opts := []loader.Option{loader.WithLayout(d.Config.DateLayout)}
	if d.Now != nil {
		opts = append(opts, loader.WithClock(d.Now))
	}
	return opts
}

func (d *Deps) ScreenOptions() screen.Options {
	return screen.Options{
		PageSize: d.Config.PageSize,
		Debounce: d.Config.SearchDebounce,
		Now:      d.Now,
	}
}
