package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	Scoring    Scoring
	Redis      Redis
	SMTP       SMTP
	Assessment Assessment
	Log        Log
}

type Server struct {
	Port               string
	RateLimitPerMinute int
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Scoring selects and configures the prediction service used at apply time.
type Scoring struct {
	Provider     string // "http" or "gemini"
	Mode         string // "acceptance" or "similarity"
	BaseURL      string
	Timeout      time.Duration
	GeminiApiKey string
	GeminiModel  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Assessment struct {
	DefaultTestDuration time.Duration
	SweepInterval       time.Duration
}

type Log struct {
	Level  string
	Pretty bool
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("SCORING_PROVIDER", "http")
	viper.SetDefault("SCORING_MODE", "acceptance")
	viper.SetDefault("SCORING_BASE_URL", "http://localhost:5000")
	viper.SetDefault("SCORING_TIMEOUT", "10s")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("DEFAULT_TEST_DURATION_MINUTES", 10)
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL", "1m")
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.RateLimitPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Scoring.Provider = viper.GetString("SCORING_PROVIDER")
	config.Scoring.Mode = viper.GetString("SCORING_MODE")
	config.Scoring.BaseURL = viper.GetString("SCORING_BASE_URL")
	config.Scoring.Timeout = viper.GetDuration("SCORING_TIMEOUT")
	config.Scoring.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.Scoring.GeminiModel = viper.GetString("GEMINI_MODEL")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.SMTP.Host = viper.GetString("SMTP_HOST")
	config.SMTP.Port = viper.GetInt("SMTP_PORT")
	config.SMTP.Username = viper.GetString("SMTP_USERNAME")
	config.SMTP.Password = viper.GetString("SMTP_PASSWORD")
	config.SMTP.From = viper.GetString("SMTP_FROM")

	config.Assessment.DefaultTestDuration = time.Duration(viper.GetInt("DEFAULT_TEST_DURATION_MINUTES")) * time.Minute
	config.Assessment.SweepInterval = viper.GetDuration("EXPIRY_SWEEP_INTERVAL")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	log.Info().
		Str("port", config.Server.Port).
		Str("databaseHost", config.Database.Host).
		Str("scoringProvider", config.Scoring.Provider).
		Str("scoringBaseURL", config.Scoring.BaseURL).
		Bool("redisEnabled", config.Redis.Addr != "").
		Bool("smtpEnabled", config.SMTP.Host != "").
		Msg("Config loaded")
	return &config, nil
}
