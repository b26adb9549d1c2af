package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"wfm-connector" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"AUTH_JWT_SECRET"`
	}
	Wfm struct {
		TimeZone           string `default:"America/New_York" env:"WFM_TIME_ZONE"`
		SuperUsername      string `default:"" env:"WFM_SUPER_USERNAME"`
		SuperUserPassword  string `default:"" env:"WFM_SUPER_USER_PASSWORD"`
		TokenEndpoint      string `default:"" env:"WFM_TOKEN_ENDPOINT"`
		AuthorizationToken string `default:"" env:"WFM_AUTHORIZATION_TOKEN"`
		SessionTTLMinutes  int    `default:"55" env:"WFM_SESSION_TTL_MINUTES"`
	}
	Sync struct {
		FromPreviousDays int `default:"7" env:"SYNC_FROM_PREVIOUS_DAYS"`
		ToNextDays       int `default:"30" env:"SYNC_TO_NEXT_DAYS"`
		PollMinutes      int `default:"10" env:"SYNC_POLL_MINUTES"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"true" env:"S3_USE_SSL"`
		BucketName      string `default:"wfm-connector" env:"S3_BUCKET_NAME"`
		TemplatesPath   string `default:"templates" env:"S3_TEMPLATES_PATH"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		NotifyTo   string `default:"" env:"SMTP_NOTIFY_TO"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
