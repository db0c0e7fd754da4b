package backend

// Config selects and parameterizes the backend behind the pipeline namespace.
type Config struct {
	// Backend is the backend kind (s3, database, memory).
	Backend string `mapstructure:"backend" default:"s3"`
	// RootPrefix scopes every key of the root namespace.
	RootPrefix string `mapstructure:"root_prefix" default:""`
	// Encoding is the default text encoding.
	Encoding string `mapstructure:"encoding" default:"utf-8"`
	// Container names the object partition used by the database backend.
	Container string `mapstructure:"container" default:"artifacts"`
}

const (
	KindS3       = "s3"
	KindDatabase = "database"
	KindMemory   = "memory"
)

// IsValidBackend checks if the configured backend kind is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case KindS3, KindDatabase, KindMemory:
		return true
	default:
		return false
	}
}
