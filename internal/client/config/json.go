package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophprofile/internal/flagx"
	"github.com/dmitrijs2005/gophprofile/internal/timex"
)

// jsonConfig is the file representation of Config. Keys missing from the
// file keep the value they had before parsing.
type jsonConfig struct {
	IdentityAddr         string         `json:"identity_addr"`
	ConnectivityInterval timex.Duration `json:"connectivity_interval"`
	ProbeTimeout         timex.Duration `json:"probe_timeout"`
	Locale               string         `json:"locale"`
	LogLevel             string         `json:"log_level"`
	LogFormat            string         `json:"log_format"`
	SessionDBPath        string         `json:"session_db"`
	ProfileStore         string         `json:"profile_store"`
	PostgresDSN          string         `json:"postgres_dsn"`
	MongoURI             string         `json:"mongo_uri"`
	MongoDatabase        string         `json:"mongo_database"`
	RedisAddr            string         `json:"redis_addr"`
	RedisDB              int            `json:"redis_db"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3Endpoint           string         `json:"s3_endpoint"`
	S3AccessKey          string         `json:"s3_access_key"`
	S3SecretKey          string         `json:"s3_secret_key"`
	MetricsAddr          string         `json:"metrics_addr"`
	NameRule             string         `json:"name_rule"`
}

func toJSON(c *Config) jsonConfig {
	return jsonConfig{
		IdentityAddr:         c.IdentityAddr,
		ConnectivityInterval: timex.Duration{Duration: c.ConnectivityInterval},
		ProbeTimeout:         timex.Duration{Duration: c.ProbeTimeout},
		Locale:               c.Locale,
		LogLevel:             c.LogLevel,
		LogFormat:            c.LogFormat,
		SessionDBPath:        c.SessionDBPath,
		ProfileStore:         c.ProfileStore,
		PostgresDSN:          c.PostgresDSN,
		MongoURI:             c.MongoURI,
		MongoDatabase:        c.MongoDatabase,
		RedisAddr:            c.RedisAddr,
		RedisDB:              c.RedisDB,
		S3Bucket:             c.S3Bucket,
		S3Region:             c.S3Region,
		S3Endpoint:           c.S3Endpoint,
		S3AccessKey:          c.S3AccessKey,
		S3SecretKey:          c.S3SecretKey,
		MetricsAddr:          c.MetricsAddr,
		NameRule:             c.NameRule,
	}
}

func (jc jsonConfig) apply(c *Config) {
	c.IdentityAddr = jc.IdentityAddr
	c.ConnectivityInterval = jc.ConnectivityInterval.Duration
	c.ProbeTimeout = jc.ProbeTimeout.Duration
	c.Locale = jc.Locale
	c.LogLevel = jc.LogLevel
	c.LogFormat = jc.LogFormat
	c.SessionDBPath = jc.SessionDBPath
	c.ProfileStore = jc.ProfileStore
	c.PostgresDSN = jc.PostgresDSN
	c.MongoURI = jc.MongoURI
	c.MongoDatabase = jc.MongoDatabase
	c.RedisAddr = jc.RedisAddr
	c.RedisDB = jc.RedisDB
	c.S3Bucket = jc.S3Bucket
	c.S3Region = jc.S3Region
	c.S3Endpoint = jc.S3Endpoint
	c.S3AccessKey = jc.S3AccessKey
	c.S3SecretKey = jc.S3SecretKey
	c.MetricsAddr = jc.MetricsAddr
	c.NameRule = jc.NameRule
}

// parseJSON overlays cfg with the file named by -c or -config. Without
// either flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	jc := toJSON(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}
	jc.apply(cfg)
	return nil
}
