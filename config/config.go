package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                        bool   `envconfig:"debug"`
	Port                         int    `envconfig:"port" default:"8080"`
	Env                          string `envconfig:"env"`
	BaseUrl                      string `envconfig:"base_url"`
	PostgresHost                 string `envconfig:"postgres_host"`
	PostgresPort                 int    `envconfig:"postgres_port"`
	PostgresUser                 string `envconfig:"postgres_user"`
	PostgresPassword             string `envconfig:"postgres_password"`
	PostgresDB                   string `envconfig:"postgres_db"`
	JWTSecret                    string `envconfig:"jwt_secret"`
	MailgunApiKey                string `envconfig:"mg_public_api_key"`
	MgDomain                     string `envconfig:"mg_domain"`
	MgEmailFrom                  string `envconfig:"email_from"`
	GoogleApplicationCredentials string `envconfig:"google_application_credentials"`
	AwsRegion                    string `envconfig:"aws_region"`
	AwsAccessKeyID               string `envconfig:"aws_access_key_id"`
	AwsSecretAccessKey           string `envconfig:"aws_secret_access_key"`
	AwsBucket                    string `envconfig:"aws_bucket"`
	RedisAddr                    string `envconfig:"redis_addr"`
	RedisPassword                string `envconfig:"redis_password"`
	LogPath                      string `envconfig:"log_path"`
	LogLevel                     string `envconfig:"log_level" default:"info"`
	LogMaxSizeMB                 int    `envconfig:"log_max_size_mb"`
	LogMaxBackups                int    `envconfig:"log_max_backups"`
	LogMaxAgeDays                int    `envconfig:"log_max_age_days"`
	LogCompress                  bool   `envconfig:"log_compress"`
	AccessControlAllowOrigin     string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("complaintx", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
