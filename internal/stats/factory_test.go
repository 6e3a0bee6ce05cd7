package stats

import (
	"context"
	"testing"

	"vagas-go/internal/config"
)

func TestNewMirrorFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MirrorConfig
		wantErr bool
		wantNil bool
	}{
		{name: "none", cfg: config.MirrorConfig{Type: "none"}, wantNil: true},
		{name: "empty type", cfg: config.MirrorConfig{}, wantNil: true},
		{name: "redis without url", cfg: config.MirrorConfig{Type: "redis"}, wantErr: true, wantNil: true},
		{name: "redis with bad url", cfg: config.MirrorConfig{Type: "redis", RedisURL: "http://localhost"}, wantErr: true, wantNil: true},
		{name: "postgres without url", cfg: config.MirrorConfig{Type: "postgres"}, wantErr: true, wantNil: true},
		{name: "postgres with bad dsn", cfg: config.MirrorConfig{Type: "postgres", PostgresURL: "postgres://u:p@host:notaport/db"}, wantErr: true, wantNil: true},
		{name: "unknown", cfg: config.MirrorConfig{Type: "etcd"}, wantErr: true, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMirrorFromConfig(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMirrorFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("NewMirrorFromConfig() = %v, wantNil %v", got, tt.wantNil)
			}
		})
	}
}
