package backend

import (
	"fmt"

	"pipeline-storage/core/database"
	"pipeline-storage/core/pipeline"
	"pipeline-storage/core/storage"
)

// Open builds the backend selected by cfg. Missing connection parameters and
// unknown kinds are reported as pipeline.ErrConfiguration; an unreachable
// database as pipeline.ErrStorageUnavailable.
func Open(cfg Config, storageCfg storage.Config, dbCfg database.Config) (pipeline.Backend, error) {
	switch cfg.Backend {
	case KindS3:
		bucket, err := storage.Open(storageCfg)
		if err != nil {
			return nil, err
		}
		return bucket, nil
	case KindDatabase:
		store, err := database.Open(dbCfg, cfg.Container)
		if err != nil {
			return nil, err
		}
		return store, nil
	case KindMemory:
		return pipeline.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", pipeline.ErrConfiguration, cfg.Backend)
	}
}
