package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool

		AppName    string
		CentreName string
		SecretKey  string

		Server   ServerConfig
		Database DatabaseConfig
		Telegram TelegramConfig
		Sheets   SheetsConfig

		RollbarToken string

		StaffSessionTTL time.Duration
		AdminTokenTTL   time.Duration
		LinkCodeTTL     time.Duration
	}

	ServerConfig struct {
		Host            string
		Addr            string
		DebugAddr       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	TelegramConfig struct {
		BotToken    string
		BotUsername string
	}

	SheetsConfig struct {
		APIKey        string
		SpreadsheetID string
		ReadRange     string
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the application configuration from the environment,
// with an optional config/.env.<env> file loaded first when present.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Attendancr")
	conf.SetDefault("centreName", "ABC Centre")
	conf.SetDefault("secretKey", "w3lc0me-t0-th3-c3ntr3!ch4ng3-m3-1n-pr0d")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverDebugAddr", ":9000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "attendancr")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseDisableTLS", true)
	conf.SetDefault("sheetsReadRange", "Sheet1")
	conf.SetDefault("telegramBotUsername", "attendancr_bot")
	conf.SetDefault("staffSessionTTL", 8*time.Hour)
	conf.SetDefault("adminTokenTTL", 24*time.Hour)
	conf.SetDefault("linkCodeTTL", 24*time.Hour)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:        env,
		Build:      conf.GetString("build"),
		Debug:      conf.GetBool("debug"),
		TestMode:   env == "TEST",
		AppName:    conf.GetString("appName"),
		CentreName: conf.GetString("centreName"),
		SecretKey:  conf.GetString("secretKey"),
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			Addr:            conf.GetString("serverAddr"),
			DebugAddr:       conf.GetString("serverDebugAddr"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		Telegram: TelegramConfig{
			BotToken:    conf.GetString("telegramBotToken"),
			BotUsername: conf.GetString("telegramBotUsername"),
		},
		Sheets: SheetsConfig{
			APIKey:        conf.GetString("sheetsAPIKey"),
			SpreadsheetID: conf.GetString("sheetsSpreadsheetID"),
			ReadRange:     conf.GetString("sheetsReadRange"),
		},
		RollbarToken:    conf.GetString("rollbarToken"),
		StaffSessionTTL: conf.GetDuration("staffSessionTTL"),
		AdminTokenTTL:   conf.GetDuration("adminTokenTTL"),
		LinkCodeTTL:     conf.GetDuration("linkCodeTTL"),
	}
}
