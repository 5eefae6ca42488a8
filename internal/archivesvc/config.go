package archivesvc

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	MongoURI  string
	Retention time.Duration // 0 keeps records forever
	Queue     string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ARCHIVE_RETENTION", 0)
	v.SetDefault("ARCHIVE_QUEUE", "archive")

	cfg := &Config{
		MongoURI:  v.GetString("MONGODB_URI"),
		Retention: v.GetDuration("ARCHIVE_RETENTION"),
		Queue:     v.GetString("ARCHIVE_QUEUE"),
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is not set")
	}
	return cfg, nil
}
