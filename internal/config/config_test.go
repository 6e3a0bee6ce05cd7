package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := NewConfig("/home/user/.local/share/vagas")
	original.Blobs = BlobConfig{Type: "s3", S3Bucket: "vagas-images", S3Region: "sa-east-1"}
	original.Mirror = MirrorConfig{Type: "redis", Policy: "atomic", RedisURL: "redis://localhost:6379/0"}
	original.ATS.Timeout = Duration{15 * time.Second}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Blobs.Type != "s3" {
		t.Errorf("Blobs.Type = %q, want %q", got.Blobs.Type, "s3")
	}
	if got.Blobs.S3Bucket != "vagas-images" {
		t.Errorf("Blobs.S3Bucket = %q, want %q", got.Blobs.S3Bucket, "vagas-images")
	}
	if got.Mirror.Policy != "atomic" {
		t.Errorf("Mirror.Policy = %q, want %q", got.Mirror.Policy, "atomic")
	}
	if got.ATS.Timeout.Duration != 15*time.Second {
		t.Errorf("ATS.Timeout = %v, want %v", got.ATS.Timeout.Duration, 15*time.Second)
	}
	if got.Database.DataDir != original.Database.DataDir {
		t.Errorf("Database.DataDir = %q, want %q", got.Database.DataDir, original.Database.DataDir)
	}
}

func TestManager_Read_ExpandsEnv(t *testing.T) {
	t.Setenv("VAGAS_TEST_TOKEN", "tok-123")

	m := &Manager{}
	cfg, err := m.Read(strings.NewReader("[ats]\ntoken = \"${VAGAS_TEST_TOKEN}\"\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.ATS.Token != "tok-123" {
		t.Errorf("ATS.Token = %q, want %q", cfg.ATS.Token, "tok-123")
	}
}

func TestManager_Read_AppliesDefaults(t *testing.T) {
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ats base url", cfg.ATS.BaseURL, "https://api.selecty.app/v2"},
		{"footer url", cfg.Brand.FooterURL, "metarh.com.br/vagas-metarh"},
		{"campaign name", cfg.Brand.CampaignName, "Vagas da Semana"},
		{"database type", cfg.Database.Type, "none"},
		{"mirror policy", cfg.Mirror.Policy, "last_write_wins"},
		{"refresh spec", cfg.Server.RefreshSpec, "@every 30m"},
		{"cover asset", cfg.Assets.Cover, "https://metarh.com.br/wp-content/uploads/2025/11/1080x1350-frente-carrossel.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if cfg.ATS.MaxAttempts != 1 {
		t.Errorf("ATS.MaxAttempts = %d, want 1", cfg.ATS.MaxAttempts)
	}
}

func TestManager_Read_InvalidDuration(t *testing.T) {
	m := &Manager{}
	_, err := m.Read(strings.NewReader("[ats]\ntimeout = \"soon\"\n"))
	if err == nil {
		t.Fatal("Read() expected error for invalid duration")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/vagas")

	if cfg.BaseDir != "/data/vagas" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/vagas")
	}
	if cfg.LogDir != "/data/vagas/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/vagas/log")
	}
	if cfg.OutputDir != "/data/vagas/out" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/data/vagas/out")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, "sqlite")
	}
	if cfg.Blobs.Root != "/data/vagas/images" {
		t.Errorf("Blobs.Root = %q, want %q", cfg.Blobs.Root, "/data/vagas/images")
	}
	if cfg.Secrets.Path != "/data/vagas/secrets.age" {
		t.Errorf("Secrets.Path = %q, want %q", cfg.Secrets.Path, "/data/vagas/secrets.age")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "vagas.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "vagas.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "vagas.toml")
		cfg := NewConfig(dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/vagas.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
