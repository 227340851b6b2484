package shared

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me"

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	JWTSecret   string
	JWTTTL      time.Duration
	AdminAPIKey string

	NominatimBase      string
	NominatimRPS       float64
	NominatimUserAgent string

	StorageDriver  string // fs|s3
	UploadDir      string
	MaxUploadBytes int64
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	KafkaBrokers []string
	KafkaTopic   string

	SeedWorkers int
}

// Load reads an optional .env, then configs/app.yaml, then the environment.
// Later sources win.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			log.Warn().Err(err).Msg("config file unreadable, ignoring")
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config out of an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	c := Config{
		AppEnv:      v.GetString("APP_ENV"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		MetricsAddr: v.GetString("METRICS_ADDR"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		RedisPass:   v.GetString("REDIS_PASSWORD"),
		RedisDB:     v.GetInt("REDIS_DB"),
		CacheTTL:    time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,

		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTTTL:      time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		AdminAPIKey: v.GetString("ADMIN_API_KEY"),

		NominatimBase:      strings.TrimRight(v.GetString("NOMINATIM_BASE_URL"), "/"),
		NominatimRPS:       v.GetFloat64("NOMINATIM_RPS"),
		NominatimUserAgent: v.GetString("NOMINATIM_USER_AGENT"),

		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_MB") << 20,
		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),

		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:   v.GetString("KAFKA_TOPIC"),

		SeedWorkers: v.GetInt("SEED_WORKERS"),
	}
	if c.JWTSecret == defaultJWTSecret {
		log.Warn().Msg("JWT_SECRET is the built-in default")
	}
	if c.SeedWorkers < 1 {
		c.SeedWorkers = 1
	}
	return c
}

func setDefaults(v *viper.Viper) {
	for k, def := range map[string]any{
		"APP_ENV":              "prod",
		"HTTP_ADDR":            ":8080",
		"METRICS_ADDR":         ":9100",
		"MYSQL_DSN":            "root:root@tcp(localhost:3306)/venue_booking?parseTime=true&charset=utf8mb4&loc=UTC",
		"REDIS_ADDR":           "localhost:6379",
		"REDIS_PASSWORD":       "",
		"REDIS_DB":             0,
		"CACHE_TTL_SECONDS":    300,
		"JWT_SECRET":           defaultJWTSecret,
		"JWT_TTL_HOURS":        24,
		"ADMIN_API_KEY":        "",
		"NOMINATIM_BASE_URL":   "https://nominatim.openstreetmap.org",
		"NOMINATIM_RPS":        1,
		"NOMINATIM_USER_AGENT": "venue-booking/1.0",
		"STORAGE_DRIVER":       "fs",
		"UPLOAD_DIR":           "public",
		"MAX_UPLOAD_MB":        5,
		"MINIO_ENDPOINT":       "localhost:9000",
		"MINIO_ACCESS_KEY":     "",
		"MINIO_SECRET_KEY":     "",
		"MINIO_USE_SSL":        false,
		"MINIO_BUCKET":         "venue-pictures",
		"KAFKA_BROKERS":        "",
		"KAFKA_TOPIC":          "booking-notifications",
		"SEED_WORKERS":         4,
	} {
		v.SetDefault(k, def)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
