package bootstrap

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort       string `mapstructure:"SERVER_PORT"`
	GrpcPort         string `mapstructure:"GRPC_PORT"`
	RedisUrl         string `mapstructure:"REDIS_URL"`
	MongoUri         string `mapstructure:"MONGO_URI"`
	MongoDatabase    string `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool   `mapstructure:"LOCAL_CORS"`
	PageLimitRecords int    `mapstructure:"PAGE_LIMIT_RECORDS"`
	MaxBodyBytes     int64  `mapstructure:"MAX_BODY_BYTES"`
	MaxDepth         int    `mapstructure:"MAX_DEPTH"`
	SourceTTLHours   int    `mapstructure:"SOURCE_TTL_HOURS"`
}

var defaults = map[string]any{
	"SERVER_PORT":        ":8080",
	"GRPC_PORT":          ":8082",
	"REDIS_URL":          "localhost:6379",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DATABASE":     "sgf",
	"LOCAL_CORS":         false,
	"PAGE_LIMIT_RECORDS": 20,
	"MAX_BODY_BYTES":     1 << 20,
	"MAX_DEPTH":          10000,
	"SOURCE_TTL_HOURS":   0,
}

// Setup reads cfgPath (an .env file) on top of the defaults. Environment
// variables win over both. A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		err := v.ReadInConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Config) SourceTTL() time.Duration {
	return time.Duration(c.SourceTTLHours) * time.Hour
}
