package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the main configuration for vagas.
type Config struct {
	BaseDir   string `toml:"base_dir"`
	LogDir    string `toml:"log_dir"`
	OutputDir string `toml:"output_dir"`
	LogLevel  string `toml:"log_level"` // "debug", "info" (default), "warn" or "error"

	ATS      ATSConfig      `toml:"ats"`
	Brand    BrandConfig    `toml:"brand"`
	Assets   AssetsConfig   `toml:"assets"`
	Database DatabaseConfig `toml:"database"`
	Blobs    BlobConfig     `toml:"blobs"`
	Mirror   MirrorConfig   `toml:"mirror"`
	Renderer RendererConfig `toml:"renderer"`
	Server   ServerConfig   `toml:"server"`
	Assist   AssistConfig   `toml:"assist"`
	Secrets  SecretsConfig  `toml:"secrets"`
}

// ATSConfig configures the Selecty job directory client.
type ATSConfig struct {
	BaseURL        string   `toml:"base_url"`
	Token          string   `toml:"token"` // literal, ${ENV} or secret:<name>
	Timeout        Duration `toml:"timeout"`
	MaxAttempts    int      `toml:"max_attempts"`
	InitialBackoff Duration `toml:"initial_backoff"`
	MaxBackoff     Duration `toml:"max_backoff"`
}

// BrandConfig holds the fixed texts printed on every slide.
type BrandConfig struct {
	FooterURL      string `toml:"footer_url"`
	CampaignName   string `toml:"campaign_name"`
	CardFilePrefix string `toml:"card_file_prefix"`
}

// AssetsConfig points at the four shared slide assets. Values are URLs or
// local file paths.
type AssetsConfig struct {
	Background string `toml:"background"`
	Logo       string `toml:"logo"`
	Cover      string `toml:"cover"`
	Back       string `toml:"back"`
}

// DatabaseConfig represents configuration for the image library and usage
// counter database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type     string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir  string `toml:"data_dir,omitempty"` // only used for type=sqlite
	Fallback string `toml:"fallback,omitempty"` // JSON file used when the database is unavailable
}

// BlobConfig represents configuration for the image blob store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type BlobConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", "s3" or "none"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"`
	AccessKey  string `toml:"access_key,omitempty"`
	SecretKey  string `toml:"secret_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// PublicBaseURL overrides the URL prefix handed to slides.
	PublicBaseURL string `toml:"public_base_url,omitempty"`
}

// MirrorConfig represents the shared remote usage counter.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type MirrorConfig struct {
	Type   string `toml:"type"`   // "none", "redis" or "postgres"
	Policy string `toml:"policy"` // "last_write_wins" (default) or "atomic"

	RedisURL string `toml:"redis_url,omitempty"`
	RedisKey string `toml:"redis_key,omitempty"`

	PostgresURL string `toml:"postgres_url,omitempty"`
}

// RendererConfig configures headless Chrome.
type RendererConfig struct {
	Type       string   `toml:"type"` // "chrome"
	ChromePath string   `toml:"chrome_path,omitempty"`
	Timeout    Duration `toml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	RefreshSpec  string   `toml:"refresh_spec"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// AssistConfig configures the optional AI helper.
type AssistConfig struct {
	APIKey string `toml:"api_key,omitempty"` // literal, ${ENV} or secret:<name>
	Model  string `toml:"model,omitempty"`
}

// SecretsConfig locates the encrypted secrets file.
type SecretsConfig struct {
	Path string `toml:"path"`
}

// Duration is a time.Duration that reads and writes as a TOML string ("30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// NewConfig creates a new Config rooted at baseDir with default values.
func NewConfig(baseDir string) *Config {
	cfg := &Config{
		BaseDir:   baseDir,
		LogDir:    filepath.Join(baseDir, "log"),
		OutputDir: filepath.Join(baseDir, "out"),
		ATS: ATSConfig{
			Token: "${VAGAS_ATS_TOKEN}",
		},
		Database: DatabaseConfig{
			Type:     "sqlite",
			DataDir:  filepath.Join(baseDir, "db"),
			Fallback: filepath.Join(baseDir, "local.json"),
		},
		Blobs: BlobConfig{
			Type: "filesystem",
			Root: filepath.Join(baseDir, "images"),
		},
		Secrets: SecretsConfig{
			Path: filepath.Join(baseDir, "secrets.age"),
		},
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every unset field that has a sensible default.
func (c *Config) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ATS.BaseURL == "" {
		c.ATS.BaseURL = "https://api.selecty.app/v2"
	}
	if c.ATS.Timeout.Duration == 0 {
		c.ATS.Timeout.Duration = 30 * time.Second
	}
	if c.ATS.MaxAttempts == 0 {
		c.ATS.MaxAttempts = 1
	}
	if c.ATS.InitialBackoff.Duration == 0 {
		c.ATS.InitialBackoff.Duration = time.Second
	}
	if c.ATS.MaxBackoff.Duration == 0 {
		c.ATS.MaxBackoff.Duration = 30 * time.Second
	}
	if c.Brand.FooterURL == "" {
		c.Brand.FooterURL = "metarh.com.br/vagas-metarh"
	}
	if c.Brand.CampaignName == "" {
		c.Brand.CampaignName = "Vagas da Semana"
	}
	if c.Brand.CardFilePrefix == "" {
		c.Brand.CardFilePrefix = "vaga-metarh"
	}
	const uploads = "https://metarh.com.br/wp-content/uploads/2025/11/"
	if c.Assets.Background == "" {
		c.Assets.Background = uploads + "Fundo_Vagas.jpg"
	}
	if c.Assets.Logo == "" {
		c.Assets.Logo = uploads + "metarh-bola-branca.png"
	}
	if c.Assets.Cover == "" {
		c.Assets.Cover = uploads + "1080x1350-frente-carrossel.png"
	}
	if c.Assets.Back == "" {
		c.Assets.Back = uploads + "1080x1350-contra-carrossel.png"
	}
	if c.Database.Type == "" {
		c.Database.Type = "none"
	}
	if c.Blobs.Type == "" {
		c.Blobs.Type = "none"
	}
	if c.Mirror.Type == "" {
		c.Mirror.Type = "none"
	}
	if c.Mirror.Policy == "" {
		c.Mirror.Policy = "last_write_wins"
	}
	if c.Mirror.RedisKey == "" {
		c.Mirror.RedisKey = "vagas:usage_count"
	}
	if c.Renderer.Type == "" {
		c.Renderer.Type = "chrome"
	}
	if c.Renderer.Timeout.Duration == 0 {
		c.Renderer.Timeout.Duration = 60 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RefreshSpec == "" {
		c.Server.RefreshSpec = "@every 30m"
	}
	if len(c.Server.AllowedHosts) == 0 {
		c.Server.AllowedHosts = []string{"metarh.com.br", "supabase.co"}
	}
	if c.Assist.Model == "" {
		c.Assist.Model = "gemini-2.5-flash"
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. ${VAR} references are
// expanded from the environment before decoding.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if _, err := toml.NewDecoder(bytes.NewReader([]byte(expanded))).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path. A .env file in
// the working directory, when present, is loaded into the environment first.
func ReadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
