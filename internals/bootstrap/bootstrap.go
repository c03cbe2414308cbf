package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/pkg/errors"

	"schooladmin_backend/internals/configs"
	database "schooladmin_backend/internals/databases"
	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/docstore/pgstore"
	"schooladmin_backend/internals/docstore/redisstore"
	"schooladmin_backend/internals/docstore/sqlitestore"
	authModel "schooladmin_backend/internals/features/auth/model"
	authHelper "schooladmin_backend/internals/helpers/auth"
	ossHelper "schooladmin_backend/internals/helpers/oss"
)

// Backends are the store clients built once at startup and injected into
// every feature.
type Backends struct {
	Docs      docstore.Store
	Objects   ossHelper.ObjectStore
	Blacklist authHelper.Blacklist
	// Disk is set when objects live on local disk; /media serves from it.
	Disk *ossHelper.DiskStore

	closers []func()
}

// Open connects the stores named by DOC_STORE and OBJECT_STORE.
func Open(ctx context.Context, cfg *configs.Config) (*Backends, error) {
	b := &Backends{}
	if err := b.openDocs(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openObjects(cfg); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// OpenDocs connects only the document store, for commands that never touch
// media.
func OpenDocs(ctx context.Context, cfg *configs.Config) (*Backends, error) {
	b := &Backends{}
	if err := b.openDocs(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backends) openDocs(ctx context.Context, cfg *configs.Config) error {
	switch cfg.DocStore {
	case "postgres":
		db, err := database.ConnectPostgres(cfg)
		if err != nil {
			return err
		}
		database.TunePool(db)
		database.WarmUp(db)
		b.closers = append(b.closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		if err := db.AutoMigrate(&authModel.TokenBlacklist{}); err != nil {
			return errors.Wrap(err, "migrate token_blacklist")
		}
		pg := pgstore.New(db)
		if err := pg.Migrate(); err != nil {
			return err
		}
		b.Docs = pg
		b.Blacklist = authHelper.NewGormBlacklist(db, cfg.JWTSecret)

	case "redis":
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.Docs = redisstore.New(client, "docs")
		b.Blacklist = authHelper.NewRedisBlacklist(client, cfg.JWTSecret)

	case "sqlite":
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() { _ = s.Close() })
		log.Printf("[INFO] sqlite document store at %s", cfg.SQLitePath)
		b.Docs = s
		b.Blacklist = authHelper.NewMemoryBlacklist(cfg.JWTSecret)

	case "memory":
		log.Println("[WARN] DOC_STORE=memory: documents are lost on restart")
		b.Docs = docstore.NewMemoryStore()
		b.Blacklist = authHelper.NewMemoryBlacklist(cfg.JWTSecret)

	default:
		return fmt.Errorf("unknown DOC_STORE %q (postgres, redis, sqlite, memory)", cfg.DocStore)
	}
	return nil
}

func (b *Backends) openObjects(cfg *configs.Config) error {
	switch cfg.ObjectStore {
	case "oss":
		svc, err := ossHelper.NewOSSService(ossHelper.OSSConfig{
			Endpoint:      cfg.OSS.Endpoint,
			AccessKey:     cfg.OSS.AccessKey,
			SecretKey:     cfg.OSS.SecretKey,
			SecurityToken: cfg.OSS.SecurityToken,
			Bucket:        cfg.OSS.Bucket,
			PublicBase:    cfg.OSS.PublicBase,
			SignSeconds:   cfg.OSS.SignSeconds,
		})
		if err != nil {
			return errors.Wrap(err, "object store")
		}
		b.Objects = svc

	case "disk":
		d := ossHelper.NewDiskStore(cfg.DiskStorePath, cfg.MediaBaseURL)
		log.Printf("[INFO] disk object store at %s", cfg.DiskStorePath)
		b.Objects = d
		b.Disk = d

	case "memory":
		b.Objects = ossHelper.NewMemoryStore("memory")

	default:
		return fmt.Errorf("unknown OBJECT_STORE %q (oss, disk, memory)", cfg.ObjectStore)
	}
	return nil
}

// Close releases every connection, newest first.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// WebP turns the image knobs into optimizer options.
func WebP(cfg *configs.Config) ossHelper.WebPOptions {
	opt := ossHelper.DefaultWebPOptions()
	opt.Enabled = cfg.WebPOptimize
	if cfg.WebPMaxW > 0 {
		opt.MaxW = cfg.WebPMaxW
	}
	if cfg.WebPMaxH > 0 {
		opt.MaxH = cfg.WebPMaxH
	}
	if cfg.WebPQuality > 0 {
		opt.Quality = float32(cfg.WebPQuality)
	}
	return opt
}
