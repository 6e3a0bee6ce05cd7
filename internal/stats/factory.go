package stats

import (
	"context"
	"fmt"

	"vagas-go/internal/config"
)

// NewMirrorFromConfig creates the remote mirror based on the mirror config
// type. Type "none" returns a nil Mirror.
func NewMirrorFromConfig(ctx context.Context, cfg config.MirrorConfig) (Mirror, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis mirror requires redis_url to be set")
		}
		m, err := NewRedisMirror(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres mirror requires postgres_url to be set")
		}
		m, err := NewPostgresMirror(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mirror type: %s", cfg.Type)
	}
}
