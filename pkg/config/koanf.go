package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/logging"
)

// EnvPrefix prefixes environment variables read as configuration.
const EnvPrefix = "FWMAKER_"

// ProjectFiles are the project file names tried, in order.
var ProjectFiles = []string{"fwmaker.toml", ".fwmaker.toml"}

// Options selects the layers Load reads.
type Options struct {
	// UserFile overrides the user file location. Empty means
	// UserConfigPath().
	UserFile string
	// ProjectDir is searched for ProjectFiles. Empty means the working
	// directory.
	ProjectDir string
	// File is an explicit configuration file that must exist.
	File string
	// Overrides are applied last, keyed "section.key".
	Overrides map[string]interface{}
}

// UserConfigPath returns the per-user configuration file path.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "fwmaker", "config.toml")
}

// Load merges every layer and returns the validated result.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")
	var sources []string

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}

	// 2. User file, if present
	userFile := opts.UserFile
	if userFile == "" {
		userFile = UserConfigPath()
	}
	if loaded, err := loadOptional(k, userFile); err != nil {
		return nil, err
	} else if loaded {
		sources = append(sources, userFile)
	}

	// 3. Project file, first match wins
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	for _, name := range ProjectFiles {
		path := filepath.Join(projectDir, name)
		loaded, err := loadOptional(k, path)
		if err != nil {
			return nil, err
		}
		if loaded {
			sources = append(sources, path)
			break
		}
	}

	// 4. Explicit file
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Newf(errors.ErrNotFound, "configuration file %s does not exist", opts.File).
					WithDetail("path", opts.File)
			}
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read configuration file %s", opts.File).
				WithDetail("path", opts.File)
		}
		if err := loadFile(k, opts.File); err != nil {
			return nil, err
		}
		sources = append(sources, opts.File)
	}

	// 5. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 6. Caller overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to unmarshal configuration")
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("sources", sources).
		Str("layout", cfg.Layout.Path).
		Str("output", cfg.Output.Path).
		Msg("Configuration loaded")

	return &cfg, nil
}

// envKey maps FWMAKER_LAYOUT__REGION_SIZE to layout.region_size.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// loadOptional loads path when it exists.
func loadOptional(k *koanf.Koanf, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, nil
	}
	return true, loadFile(k, path)
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}
