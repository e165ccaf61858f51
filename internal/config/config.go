// Package config resolves runtime settings from defaults, an optional YAML
// file, APO_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/apo/internal/llm"
	"github.com/alexanderramin/apo/internal/service"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "APO"

// Keys understood by Load.
const (
	KeyConfigFile            = "config"
	KeyDBPath                = "db.path"
	KeyServerAddr            = "server.addr"
	KeyServerBasePath        = "server.base_path"
	KeyJWTSecret             = "auth.jwt_secret"
	KeyAllowActorHeader      = "auth.allow_actor_header"
	KeyStorageRoot           = "storage.root"
	KeyStoragePublicBaseURL  = "storage.public_base_url"
	KeyExtractionMaxChars    = "extraction.max_chars"
	KeyDefaultEstimatedHours = "ledger.default_estimated_hours"
	KeyDefaultTimelineWeeks  = "simulation.default_timeline_weeks"
	KeySimulationSeed        = "simulation.seed"
	KeyLLMProvider           = "llm.provider"
	KeyLLMEndpoint           = "llm.endpoint"
	KeyLLMAPIKey             = "llm.api_key"
	KeyLLMModel              = "llm.model"
	KeyLLMTimeoutMs          = "llm.timeout_ms"
	KeyLLMMaxRetries         = "llm.max_retries"
	KeyLLMLogCalls           = "llm.log_calls"
	KeyLLMExtractTimeoutMs   = "llm.tasks.extract.timeout_ms"
	KeyLLMAllocateTimeoutMs  = "llm.tasks.allocate.timeout_ms"
)

// flagKeys maps flag names to configuration keys for BindFlags.
var flagKeys = map[string]string{
	"config":      KeyConfigFile,
	"db":          KeyDBPath,
	"addr":        KeyServerAddr,
	"base-path":   KeyServerBasePath,
	"storage-dir": KeyStorageRoot,
	"public-url":  KeyStoragePublicBaseURL,
	"seed":        KeySimulationSeed,
	"provider":    KeyLLMProvider,
	"model":       KeyLLMModel,
	"log-calls":   KeyLLMLogCalls,
}

type Server struct {
	Addr     string
	BasePath string
}

type Auth struct {
	JWTSecret        string
	AllowActorHeader bool
}

type Storage struct {
	Root          string
	PublicBaseURL string
}

// Config is the resolved application configuration.
type Config struct {
	DBPath                string
	Server                Server
	Auth                  Auth
	Storage               Storage
	ExtractionMaxChars    int
	DefaultEstimatedHours float64
	DefaultTimelineWeeks  int
	SimulationSeed        uint64
	LLM                   llm.LLMConfig
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	dataDir := filepath.Join(home, ".apo")
	defaults := llm.DefaultConfig()

	v.SetDefault(KeyConfigFile, "")
	v.SetDefault(KeyDBPath, filepath.Join(dataDir, "apo.db"))
	v.SetDefault(KeyServerAddr, "127.0.0.1:8080")
	v.SetDefault(KeyServerBasePath, "/v1")
	v.SetDefault(KeyJWTSecret, "")
	v.SetDefault(KeyAllowActorHeader, false)
	v.SetDefault(KeyStorageRoot, filepath.Join(dataDir, "files"))
	v.SetDefault(KeyStoragePublicBaseURL, "http://127.0.0.1:8080/files")
	v.SetDefault(KeyExtractionMaxChars, 25000)
	v.SetDefault(KeyDefaultEstimatedHours, 8)
	v.SetDefault(KeyDefaultTimelineWeeks, 12)
	v.SetDefault(KeySimulationSeed, 0)
	v.SetDefault(KeyLLMProvider, string(defaults.Provider))
	v.SetDefault(KeyLLMEndpoint, "")
	v.SetDefault(KeyLLMAPIKey, "")
	v.SetDefault(KeyLLMModel, "")
	v.SetDefault(KeyLLMTimeoutMs, defaults.TimeoutMs)
	v.SetDefault(KeyLLMMaxRetries, defaults.MaxRetries)
	v.SetDefault(KeyLLMLogCalls, false)
	v.SetDefault(KeyLLMExtractTimeoutMs, 0)
	v.SetDefault(KeyLLMAllocateTimeoutMs, 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// The provider's conventional variable is honoured as a fallback.
	_ = v.BindEnv(KeyLLMAPIKey, EnvPrefix+"_LLM_API_KEY", "GROQ_API_KEY")
	return v
}

// BindFlags binds the known flags present in fs. Flags not defined on fs are
// skipped so commands can declare only what they use.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional config file and resolves every key.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	llmCfg := llm.DefaultConfig()
	llmCfg.Provider = llm.Provider(strings.ToLower(strings.TrimSpace(v.GetString(KeyLLMProvider))))
	llmCfg.Endpoint = strings.TrimRight(v.GetString(KeyLLMEndpoint), "/")
	llmCfg.Model = v.GetString(KeyLLMModel)
	llmCfg.APIKey = strings.TrimSpace(v.GetString(KeyLLMAPIKey))
	llmCfg.TimeoutMs = v.GetInt(KeyLLMTimeoutMs)
	llmCfg.MaxRetries = v.GetInt(KeyLLMMaxRetries)
	llmCfg.LogCalls = v.GetBool(KeyLLMLogCalls)
	llmCfg.SetTaskTimeout(llm.TaskExtract, v.GetInt(KeyLLMExtractTimeoutMs))
	llmCfg.SetTaskTimeout(llm.TaskAllocate, v.GetInt(KeyLLMAllocateTimeoutMs))
	llmCfg = llmCfg.WithProviderDefaults()

	cfg := &Config{
		DBPath: expandHome(v.GetString(KeyDBPath)),
		Server: Server{
			Addr:     v.GetString(KeyServerAddr),
			BasePath: normalizeBasePath(v.GetString(KeyServerBasePath)),
		},
		Auth: Auth{
			JWTSecret:        v.GetString(KeyJWTSecret),
			AllowActorHeader: v.GetBool(KeyAllowActorHeader),
		},
		Storage: Storage{
			Root:          expandHome(v.GetString(KeyStorageRoot)),
			PublicBaseURL: strings.TrimRight(v.GetString(KeyStoragePublicBaseURL), "/"),
		},
		ExtractionMaxChars:    v.GetInt(KeyExtractionMaxChars),
		DefaultEstimatedHours: v.GetFloat64(KeyDefaultEstimatedHours),
		DefaultTimelineWeeks:  v.GetInt(KeyDefaultTimelineWeeks),
		SimulationSeed:        v.GetUint64(KeySimulationSeed),
		LLM:                   llmCfg,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if c.Storage.Root == "" {
		errs = append(errs, errors.New("storage.root is required"))
	}
	if c.ExtractionMaxChars <= 0 {
		errs = append(errs, errors.New("extraction.max_chars must be positive"))
	}
	if c.DefaultEstimatedHours <= 0 {
		errs = append(errs, errors.New("ledger.default_estimated_hours must be positive"))
	}
	if c.DefaultTimelineWeeks <= 0 {
		errs = append(errs, errors.New("simulation.default_timeline_weeks must be positive"))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("llm: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Settings converts the service tunables. Clock and id generation keep their
// defaults.
func (c *Config) Settings() service.Settings {
	return service.Settings{
		EstimatedHours: c.DefaultEstimatedHours,
		TimelineWeeks:  c.DefaultTimelineWeeks,
		Rand:           service.NewSeededRand(c.SimulationSeed),
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
