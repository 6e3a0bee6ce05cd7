package blob

import (
	"context"
	"fmt"

	"vagas-go/internal/config"
	"vagas-go/internal/vagas"
)

// NewBlobStoreFromConfig creates a BlobStore based on the blob config type.
// Type "none" returns a nil store: uploads then fall back to data URIs.
func NewBlobStoreFromConfig(ctx context.Context, cfg config.BlobConfig) (vagas.BlobStore, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "memory":
		return NewMemoryStore(cfg.PublicBaseURL), nil
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem blob store requires root to be set")
		}
		store, err := NewFileSystemStore(cfg.Root, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}
