package common

// CacheConfig holds redis connection settings.
type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

const (
	// MasterKeyEnvVar names the environment variable carrying the
	// base64-encoded 32-byte master secret. It is provisioned out of band
	// and never generated or persisted by this service.
	MasterKeyEnvVar = "FORMVAULT_MASTER_KEY"
)
