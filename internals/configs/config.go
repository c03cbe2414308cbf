package configs

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port    string
	AppEnv  string
	Project string

	JWTSecret       string
	SessionTTL      time.Duration
	BlacklistTTL    time.Duration
	CorsOrigins     string
	RollbarToken    string
	ScreenIdle      time.Duration
	PageSize        int
	SearchDebounce  time.Duration
	DateLayout      string
	WebPOptimize    bool
	WebPMaxW        int
	WebPMaxH        int
	WebPQuality     float64
	DocStore        string
	ObjectStore     string
	SQLitePath      string
	DiskStorePath   string
	MediaBaseURL    string
	Database        DatabaseConfig
	Redis           RedisConfig
	OSS             OSSConfig
	SlowSQLDuration time.Duration
	RequestTimeout  time.Duration
	UploadMaxBytes  int
}

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type OSSConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	PublicBase    string
	SignSeconds   int64
}

// LoadEnv reads .env outside Railway.
func LoadEnv() {
	if GetEnv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] no .env file found, using system environment")
		} else {
			log.Println("[INFO] .env loaded")
		}
	} else {
		log.Println("[INFO] running on Railway, using system environment")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PROJECT_ID", "school-admin")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("TOKEN_BLACKLIST_TTL_DAYS", 7)
	v.SetDefault("SCREEN_IDLE_MINUTES", 30)
	v.SetDefault("PAGE_SIZE", 5)
	v.SetDefault("SEARCH_DEBOUNCE_MS", 300)
	v.SetDefault("DATE_LAYOUT", "01/02/2006")
	v.SetDefault("IMAGE_WEBP_OPTIMIZE", false)
	v.SetDefault("IMAGE_WEBP_MAX_W", 1600)
	v.SetDefault("IMAGE_WEBP_MAX_H", 1600)
	v.SetDefault("IMAGE_WEBP_QUALITY", 80)
	v.SetDefault("DOC_STORE", "sqlite")
	v.SetDefault("OBJECT_STORE", "disk")
	v.SetDefault("SQLITE_PATH", "~/.schooladmin/docs.db")
	v.SetDefault("DISK_STORE_PATH", "~/.schooladmin/media")
	v.SetDefault("MEDIA_BASE_URL", "http://localhost:3000/media")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ALI_OSS_SIGN_URL_SECONDS", 0)
	v.SetDefault("SLOW_SQL_MS", 200)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 15)
	v.SetDefault("UPLOAD_MAX_MB", 200)
}

func expand(p string) string {
	out, err := homedir.Expand(p)
	if err != nil {
		return p
	}
	return out
}

// Load builds the Config from the process environment.
func Load() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		Project:        v.GetString("PROJECT_ID"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		SessionTTL:     time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		BlacklistTTL:   time.Duration(v.GetInt("TOKEN_BLACKLIST_TTL_DAYS")) * 24 * time.Hour,
		CorsOrigins:    v.GetString("CORS_ORIGINS"),
		RollbarToken:   v.GetString("ROLLBAR_TOKEN"),
		ScreenIdle:     time.Duration(v.GetInt("SCREEN_IDLE_MINUTES")) * time.Minute,
		PageSize:       v.GetInt("PAGE_SIZE"),
		SearchDebounce: time.Duration(v.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,
		DateLayout:     v.GetString("DATE_LAYOUT"),
		WebPOptimize:   v.GetBool("IMAGE_WEBP_OPTIMIZE"),
		WebPMaxW:       v.GetInt("IMAGE_WEBP_MAX_W"),
		WebPMaxH:       v.GetInt("IMAGE_WEBP_MAX_H"),
		WebPQuality:    v.GetFloat64("IMAGE_WEBP_QUALITY"),
		DocStore:       strings.ToLower(v.GetString("DOC_STORE")),
		ObjectStore:    strings.ToLower(v.GetString("OBJECT_STORE")),
		SQLitePath:     expand(v.GetString("SQLITE_PATH")),
		DiskStorePath:  expand(v.GetString("DISK_STORE_PATH")),
		MediaBaseURL:   strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
		Database: DatabaseConfig{
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		OSS: OSSConfig{
			Endpoint:      v.GetString("ALI_OSS_ENDPOINT"),
			AccessKey:     v.GetString("ALI_OSS_ACCESS_KEY"),
			SecretKey:     v.GetString("ALI_OSS_SECRET_KEY"),
			SecurityToken: v.GetString("ALI_OSS_SECURITY_TOKEN"),
			Bucket:        v.GetString("ALI_OSS_BUCKET"),
			PublicBase:    v.GetString("ALI_OSS_PUBLIC_BASE"),
			SignSeconds:   v.GetInt64("ALI_OSS_SIGN_URL_SECONDS"),
		},
		SlowSQLDuration: time.Duration(v.GetInt("SLOW_SQL_MS")) * time.Millisecond,
		RequestTimeout:  time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		UploadMaxBytes:  v.GetInt("UPLOAD_MAX_MB") << 20,
	}

	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set")
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 5
	}
	return cfg
}

func (c *Config) Production() bool { return c.AppEnv == "production" }

type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(slow time.Duration) gormLogger.Interface {
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &GormLogger{SlowThreshold: slow, LogLevel: gormLogger.Warn}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	n := *l
	n.LogLevel = level
	return &n
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
