package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
)

// ConnectPostgres opens the documents database. PreferSimpleProtocol keeps
// it usable behind PgBouncer transaction pooling.
func ConnectPostgres(cfg *configs.Config) (*gorm.DB, error) {
	log.Println("[INFO] connecting to PostgreSQL...")

	d := cfg.Database
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schooladmin&options=-c statement_timeout=5000",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: configs.NewGormLogger(cfg.SlowSQLDuration)})
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	log.Println("[INFO] DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("[WARN] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUp pings in the background so the first request finds a live pool.
func WarmUp(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			log.Printf("[WARN] warm-up ping err: %v", err)
		}
	}()
}

func ConnectRedis(ctx context.Context, cfg *configs.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "connect redis")
	}
	log.Printf("[INFO] redis connected (%s)", cfg.Redis.Addr)
	return client, nil
}
