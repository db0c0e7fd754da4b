package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"pipeline-storage/core/backend"
	"pipeline-storage/core/database"
	"pipeline-storage/core/logger"
	"pipeline-storage/core/pipeline"
	"pipeline-storage/core/server"
	"pipeline-storage/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Pipeline selects the backend and root namespace.
	Pipeline backend.Config `mapstructure:"pipeline"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database backend.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables and the .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := filepath.Join(path, ".env")

	// A missing .env is normal outside development
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. PIPELINE_ROOT_PREFIX -> pipeline.root_prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports settings that make the configured backend unusable.
func (c *Config) Validate() error {
	if !c.Pipeline.IsValidBackend() {
		return fmt.Errorf("%w: unknown backend %q", pipeline.ErrConfiguration, c.Pipeline.Backend)
	}
	switch c.Pipeline.Backend {
	case backend.KindS3:
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			return fmt.Errorf("%w: storage endpoint and bucket are required", pipeline.ErrConfiguration)
		}
	case backend.KindDatabase:
		if c.Pipeline.Container == "" {
			return fmt.Errorf("%w: pipeline container is required", pipeline.ErrConfiguration)
		}
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
