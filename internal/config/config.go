package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"accent-check-go/internal/taxonomy"
)

// Classifier backends.
const (
	BackendRemote  = "remote"
	BackendCommand = "command"
	BackendONNX    = "onnx"
	BackendStatic  = "static"
)

// Config holds all service configuration.
type Config struct {
	Port        string     `toml:"port"`
	Environment string     `toml:"environment"`
	LogLevel    string     `toml:"log_level"`
	Media       Media      `toml:"media"`
	Classifier  Classifier `toml:"classifier"`
	S3          S3         `toml:"s3"`
	Dataset     Dataset    `toml:"dataset"`
}

// Media configures acquisition and normalization.
type Media struct {
	TempDir             string `toml:"temp_dir"`
	CurlBinary          string `toml:"curl_binary"`
	FFmpegBinary        string `toml:"ffmpeg_binary"`
	FetchTimeoutSec     int    `toml:"fetch_timeout_sec"`
	NormalizeTimeoutSec int    `toml:"normalize_timeout_sec"`
	MaxDownloadBytes    int64  `toml:"max_download_bytes"`
}

// Classifier selects and configures the accent classification backend.
type Classifier struct {
	Backend      string   `toml:"backend"`
	ModelID      string   `toml:"model_id"`
	URL          string   `toml:"url"`
	Command      []string `toml:"command"`
	TimeoutSec   int      `toml:"timeout_sec"`
	ReadyWaitSec int      `toml:"ready_wait_sec"`
	ONNXModel    string   `toml:"onnx_model_path"`
	ONNXLibrary  string   `toml:"onnx_library_path"`
	StaticLabel  string   `toml:"static_label"`
}

// S3 configures s3:// media sources.
type S3 struct {
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	PathStyle       bool   `toml:"path_style"`
}

// Dataset configures the optional batch sheet used by /demo.
type Dataset struct {
	Path      string `toml:"path"`
	DemoLimit int    `toml:"demo_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:        "5000",
		Environment: "local",
		LogLevel:    "info",
		Media: Media{
			TempDir:             os.TempDir(),
			CurlBinary:          "curl",
			FFmpegBinary:        "ffmpeg",
			FetchTimeoutSec:     120,
			NormalizeTimeoutSec: 60,
			MaxDownloadBytes:    512 << 20,
		},
		Classifier: Classifier{
			Backend:      BackendRemote,
			ModelID:      "accent-id-commonaccent_ecapa",
			URL:          "http://127.0.0.1:8500",
			TimeoutSec:   90,
			ReadyWaitSec: 120,
			StaticLabel:  "us",
		},
		S3: S3{
			Region: "us-east-1",
		},
		Dataset: Dataset{
			DemoLimit: 5,
		},
	}
}

// FetchTimeout is the acquisition budget.
func (m Media) FetchTimeout() time.Duration {
	return time.Duration(m.FetchTimeoutSec) * time.Second
}

// NormalizeTimeout is the transcoding budget.
func (m Media) NormalizeTimeout() time.Duration {
	return time.Duration(m.NormalizeTimeoutSec) * time.Second
}

// Timeout bounds a single classifier HTTP call.
func (c Classifier) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// ReadyWait bounds the startup wait for a remote classifier.
func (c Classifier) ReadyWait() time.Duration {
	return time.Duration(c.ReadyWaitSec) * time.Second
}

// Load builds the configuration: defaults, then the TOML file at path (or
// $ACCENT_CONFIG) when it exists, then environment variables. A .env file in
// the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // loads .env

	cfg := Default()
	if path == "" {
		path = os.Getenv("ACCENT_CONFIG")
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables. A numeric or boolean variable that
// does not parse is an error naming the key, not a silent fallback.
func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Media.TempDir, "TMP_DIR")
	setString(&cfg.Media.CurlBinary, "CURL_BINARY")
	setString(&cfg.Media.FFmpegBinary, "FFMPEG_BINARY")

	setString(&cfg.Classifier.Backend, "CLASSIFIER_BACKEND")
	setString(&cfg.Classifier.ModelID, "MODEL_ID")
	setString(&cfg.Classifier.URL, "CLASSIFIER_URL")
	if v := os.Getenv("CLASSIFIER_COMMAND"); v != "" {
		cfg.Classifier.Command = strings.Fields(v)
	}
	setString(&cfg.Classifier.ONNXModel, "ONNX_MODEL_PATH")
	setString(&cfg.Classifier.ONNXLibrary, "ONNX_LIBRARY_PATH")
	setString(&cfg.Classifier.StaticLabel, "CLASSIFIER_STATIC_LABEL")

	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")

	setString(&cfg.Dataset.Path, "DATASET_PATH")

	return errors.Join(
		setInt(&cfg.Media.FetchTimeoutSec, "FETCH_TIMEOUT_SEC"),
		setInt(&cfg.Media.NormalizeTimeoutSec, "NORMALIZE_TIMEOUT_SEC"),
		setInt64(&cfg.Media.MaxDownloadBytes, "MAX_DOWNLOAD_BYTES"),
		setInt(&cfg.Classifier.TimeoutSec, "CLASSIFIER_TIMEOUT_SEC"),
		setInt(&cfg.Classifier.ReadyWaitSec, "CLASSIFIER_READY_WAIT_SEC"),
		setBool(&cfg.S3.PathStyle, "S3_PATH_STYLE"),
		setInt(&cfg.Dataset.DemoLimit, "DEMO_LIMIT"),
	)
}

func (c *Config) normalize() {
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Classifier.Backend = strings.ToLower(strings.TrimSpace(c.Classifier.Backend))
	c.Classifier.URL = strings.TrimRight(strings.TrimSpace(c.Classifier.URL), "/")
	if c.Media.TempDir == "" {
		c.Media.TempDir = os.TempDir()
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("port %q: must be numeric", c.Port)
	}
	if c.Media.FetchTimeoutSec <= 0 {
		return errors.New("media.fetch_timeout_sec must be positive")
	}
	if c.Media.NormalizeTimeoutSec <= 0 {
		return errors.New("media.normalize_timeout_sec must be positive")
	}
	if c.Media.CurlBinary == "" || c.Media.FFmpegBinary == "" {
		return errors.New("media.curl_binary and media.ffmpeg_binary are required")
	}
	if c.Classifier.ModelID == "" {
		return errors.New("classifier.model_id is required")
	}
	switch c.Classifier.Backend {
	case BackendRemote:
		if c.Classifier.URL == "" {
			return errors.New("classifier.url is required for the remote backend")
		}
	case BackendCommand:
		if len(c.Classifier.Command) == 0 {
			return errors.New("classifier.command is required for the command backend")
		}
	case BackendONNX:
		if c.Classifier.ONNXModel == "" {
			return errors.New("classifier.onnx_model_path is required for the onnx backend")
		}
	case BackendStatic:
		if _, ok := taxonomy.Parse(c.Classifier.StaticLabel); !ok {
			return fmt.Errorf("classifier.static_label %q: not a taxonomy label", c.Classifier.StaticLabel)
		}
	default:
		return fmt.Errorf("classifier.backend %q: unknown backend", c.Classifier.Backend)
	}
	if c.Dataset.DemoLimit < 0 {
		return errors.New("dataset.demo_limit must not be negative")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s=%q: must be an integer", key, v)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s=%q: must be an integer", key, v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s=%q: must be a boolean", key, v)
	}
	*dst = b
	return nil
}
