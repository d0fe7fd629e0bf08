package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Settings struct {
	Port           string
	GinMode        string
	Production     bool
	LogLevel       string
	RequestTimeout time.Duration

	StoreDriver string
	MongoURI    string
	MongoDB     string

	JWTSecret string
	JWTTTL    time.Duration

	ShopTimezone *time.Location

	CORSAllowedOrigins []string
	MetricsAllowedIPs  []string
	GaugeInterval      time.Duration

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	CDNDomain   string

	UploadDir     string
	PublicBaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

const devJWTSecret = "quisine-dev-secret-change-me"

// Load reads .env (if present) and the process environment.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using process environment")
	}

	s := Settings{
		Port:           Getenv("PORT", "1414"),
		GinMode:        Getenv("GIN_MODE", "release"),
		Production:     Getenv("APP_ENV", "development") == "production",
		LogLevel:       Getenv("LOG_LEVEL", "info"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),

		StoreDriver: strings.ToLower(Getenv("STORE_DRIVER", "mongo")),
		MongoURI:    Getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     Getenv("MONGO_DB", "quisine"),

		JWTSecret: Getenv("JWT_SECRET", devJWTSecret),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		ShopTimezone: getLocation("SHOP_TIMEZONE", time.UTC),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MetricsAllowedIPs:  getList("METRICS_ALLOWED_IPS", nil),
		GaugeInterval:      getDuration("GAUGE_INTERVAL", time.Minute),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3UseSSL:    Getenv("S3_USE_SSL", "true") == "true",
		CDNDomain:   os.Getenv("CDN_DOMAIN"),

		UploadDir:     Getenv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(Getenv("PUBLIC_BASE_URL", ""), "/"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getInt("SMTP_PORT", 465),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     Getenv("MAIL_FROM", "no-reply@quisine.app"),
	}

	if s.Production && s.JWTSecret == devJWTSecret {
		log.Warn().Msg("JWT_SECRET is not set; tokens are signed with the development secret")
	}
	return s
}

// S3Enabled reports whether object storage credentials were provided.
func (s Settings) S3Enabled() bool {
	return s.S3Endpoint != "" && s.S3Bucket != ""
}

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getLocation(key string, fallback *time.Location) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("unknown time zone, using default")
		return fallback
	}
	// MongoDB's $dateToString needs an IANA name or offset, and time.Local only reports "Local".
	if loc == time.Local || loc.String() == "Local" {
		log.Warn().Str("key", key).Msg("time zone must be an IANA name such as Europe/Paris, using default")
		return fallback
	}
	return loc
}
