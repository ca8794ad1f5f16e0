package config

import "os"

const jwtSecretEnvVar = "JWT_SECRET"

// Non-production fallback. Shipping without JWT_SECRET set is a deployment
// misconfiguration, not a runtime error.
const fallbackJWTSecret = "carter-island-fallback-secret"

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetJWTSecret() string {
	return GetEnv(jwtSecretEnvVar, fallbackJWTSecret)
}

func (Security) JWTSecretFromEnv() bool {
	value, ok := os.LookupEnv(jwtSecretEnvVar)
	return ok && value != ""
}
