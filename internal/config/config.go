package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	JWTSecret                string `yaml:"jwt_secret"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`
}

type EmailConfig struct {
	// mode: "mock" пишет письма в лог, "real" шлёт через SMTP
	Mode                      string `yaml:"mode"`
	SMTPHost                  string `yaml:"smtp_host"`
	SMTPPort                  int    `yaml:"smtp_port"`
	SMTPUser                  string `yaml:"smtp_user"`
	SMTPPassword              string `yaml:"smtp_password"`
	FromEmail                 string `yaml:"from_email"`
	FromName                  string `yaml:"from_name"`
	VerificationExpireMinutes int    `yaml:"verification_expire_minutes"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth  AuthConfig  `yaml:"auth"`
	Email EmailConfig `yaml:"email"`
}

func LoadConfig() *Config {
	var cfg Config

	// config.yaml необязателен: окружение может задать всё само
	if f, err := os.Open("config/config.yaml"); err == nil {
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			panic("Failed to parse config.yaml: " + err.Error())
		}
		f.Close()
	}

	applyEnv(&cfg)

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Email.Mode == "" {
		cfg.Email.Mode = "mock"
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Cloud Service"
	}
	if cfg.Email.VerificationExpireMinutes <= 0 {
		cfg.Email.VerificationExpireMinutes = 30
	}
	if cfg.Auth.AccessTokenExpireMinutes <= 0 {
		cfg.Auth.AccessTokenExpireMinutes = 30
	}
	return &cfg
}

// applyEnv накладывает документированные переменные окружения поверх yaml.
func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setInt(&cfg.Auth.AccessTokenExpireMinutes, "ACCESS_TOKEN_EXPIRE_MINUTES")

	setString(&cfg.Email.Mode, "EMAIL_MODE")
	setString(&cfg.Email.SMTPHost, "SMTP_SERVER")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUser, "SMTP_USERNAME")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "EMAIL_FROM")
	setString(&cfg.Email.FromName, "EMAIL_FROM_NAME")
	setInt(&cfg.Email.VerificationExpireMinutes, "EMAIL_VERIFICATION_EXPIRE_MINUTES")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
