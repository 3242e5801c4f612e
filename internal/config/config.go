package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type S3Conf struct {
	PublicRead bool `mapstructure:"public_read"`
	PresignTTL int  `mapstructure:"presign_ttl_seconds"`
}

type JWTConf struct {
	Secret         string `mapstructure:"secret"`
	AccessMinutes  int    `mapstructure:"access_ttl_minutes"`
	RefreshDays    int    `mapstructure:"refresh_ttl_days"`
	VerifyCodeTTL  int    `mapstructure:"verify_code_ttl_minutes"`
	AuthRatePerHr  int    `mapstructure:"auth_rate_per_hour"`
	IPRatePerMin   int    `mapstructure:"ip_rate_per_min"`
}

// VerifyCodeTTLDuration returns the email-verification code lifetime.
func (j JWTConf) VerifyCodeTTLDuration() time.Duration {
	return time.Duration(j.VerifyCodeTTL) * time.Minute
}

type EmailConf struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Sender  string `mapstructure:"sender"`
}

type Config struct {
	App   AppConf   `mapstructure:"app"`
	Mongo MongoConf `mapstructure:"mongodb"`
	Redis RedisConf `mapstructure:"redis"`
	Kafka KafkaConf `mapstructure:"kafka"`
	AWS   AWSConf   `mapstructure:"aws"`
	S3    S3Conf    `mapstructure:"s3"`
	JWT   JWTConf   `mapstructure:"jwt"`
	Email EmailConf `mapstructure:"email"`
	Log   struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	PresignTTL      time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("JOINT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.S3.PresignTTL == 0 {
		cfg.S3.PresignTTL = 600
	}
	if cfg.JWT.AccessMinutes == 0 {
		cfg.JWT.AccessMinutes = 15
	}
	if cfg.JWT.RefreshDays == 0 {
		cfg.JWT.RefreshDays = 30
	}
	if cfg.JWT.VerifyCodeTTL == 0 {
		cfg.JWT.VerifyCodeTTL = 30
	}
	if cfg.JWT.AuthRatePerHr == 0 {
		cfg.JWT.AuthRatePerHr = 20
	}
	if cfg.JWT.IPRatePerMin == 0 {
		cfg.JWT.IPRatePerMin = 300
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "joint-server"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "joint.events"
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.PresignTTL = time.Duration(cfg.S3.PresignTTL) * time.Second
}
