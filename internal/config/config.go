package config

import "os"

type Config interface {
	EnvConfig
	SecurityConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type SecurityConfig interface {
	GetJWTSecret() string
	// JWTSecretFromEnv reports whether the signing secret was supplied by
	// the environment. Running on the fallback is a deployment risk worth
	// logging at startup.
	JWTSecretFromEnv() bool
}

type StorageConfig interface {
	GetDatabaseURL() string
	GetRedisURL() string
	GetRedisHost() string
	GetRedisPort() int
	GetRedisPassword() string
	GetRedisDB() int
}

type mainConfig struct {
	EnvVars
	Security
	Storage
}

func New() Config {
	return mainConfig{}
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
