package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
)

// ErrUnknownKey is returned by Get and Set for a key Keys does not list.
var ErrUnknownKey = errors.New("unknown setting")

// Settings is the configuration of the command line tool
type Settings struct {
	Convention      string `yaml:"convention"`
	Backend         string `yaml:"backend"`
	SFTPHost        string `yaml:"sftp_host"`
	SFTPPort        int    `yaml:"sftp_port"`
	SFTPUser        string `yaml:"sftp_user"`
	IncludeHidden   bool   `yaml:"include_hidden"`
	MaxDepth        int    `yaml:"max_depth"`
	CopyJobs        int    `yaml:"copy_jobs"`
	CaseInsensitive bool   `yaml:"case_insensitive"`
	Verbose         bool   `yaml:"verbose"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Settings {
	return &Settings{
		Convention:    "auto",
		Backend:       "local",
		SFTPPort:      22,
		IncludeHidden: true,
		MaxDepth:      -1,
		CopyJobs:      1,
	}
}

// Load loads settings from multiple sources with precedence:
// 1. Environment variables (SHELLPATH_<KEY>)
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. the YAML file at Path
//
// A missing YAML file is fine, a broken one is an error.
func Load() (*Settings, error) {
	s := Defaults()

	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	if err := s.loadYAML(configPath); err != nil {
		return nil, err
	}

	for _, key := range Keys() {
		envVar := "SHELLPATH_" + strings.ToUpper(key)
		if value, ok := os.LookupEnv(envVar); ok && value != "" {
			if err := s.Set(key, value); err != nil {
				return nil, fmt.Errorf("%s: %w", envVar, err)
			}
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// LoadFile reads the settings file alone on top of the defaults, for
// changing the file without writing the environment into it.
func LoadFile() (*Settings, error) {
	s := Defaults()
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	if err := s.loadYAML(configPath); err != nil {
		return nil, err
	}
	return s, nil
}

// Path is the settings file, SHELLPATH_CONFIG when set and
// ~/.config/shellpath/config.yaml otherwise.
func Path() (string, error) {
	if p := os.Getenv("SHELLPATH_CONFIG"); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "shellpath", "config.yaml"), nil
}

func (s *Settings) loadYAML(configPath string) error {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse %s: %w", configPath, err)
	}
	return nil
}

// Save writes the settings to Path, creating its directory.
func (s *Settings) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0600)
}

// Validate checks the values a YAML file or the environment may have broken.
func (s *Settings) Validate() error {
	switch strings.ToLower(s.Convention) {
	case "auto", "posix", "unix", "windows", "win":
	default:
		return fmt.Errorf("convention %q is not auto, posix or windows", s.Convention)
	}
	if s.Backend == "" {
		return errors.New("backend cannot be empty")
	}
	if s.SFTPPort < 1 || s.SFTPPort > 65535 {
		return fmt.Errorf("sftp_port %d out of range", s.SFTPPort)
	}
	if s.CopyJobs < 1 {
		return fmt.Errorf("copy_jobs must be at least 1, got %d", s.CopyJobs)
	}
	return nil
}

// PathConvention resolves the convention setting.
func (s *Settings) PathConvention() path.Convention {
	return path.ConventionFor(s.Convention)
}

type field struct {
	get func(s *Settings) string
	set func(s *Settings, value string) error
}

func stringField(ptr func(s *Settings) *string) field {
	return field{
		get: func(s *Settings) string { return *ptr(s) },
		set: func(s *Settings, value string) error {
			*ptr(s) = value
			return nil
		},
	}
}

func intField(ptr func(s *Settings) *int) field {
	return field{
		get: func(s *Settings) string { return strconv.Itoa(*ptr(s)) },
		set: func(s *Settings, value string) error {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("not a number: %q", value)
			}
			*ptr(s) = n
			return nil
		},
	}
}

func boolField(ptr func(s *Settings) *bool) field {
	return field{
		get: func(s *Settings) string { return strconv.FormatBool(*ptr(s)) },
		set: func(s *Settings, value string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("not a boolean: %q", value)
			}
			*ptr(s) = b
			return nil
		},
	}
}

var fields = map[string]field{
	"convention":       stringField(func(s *Settings) *string { return &s.Convention }),
	"backend":          stringField(func(s *Settings) *string { return &s.Backend }),
	"sftp_host":        stringField(func(s *Settings) *string { return &s.SFTPHost }),
	"sftp_port":        intField(func(s *Settings) *int { return &s.SFTPPort }),
	"sftp_user":        stringField(func(s *Settings) *string { return &s.SFTPUser }),
	"include_hidden":   boolField(func(s *Settings) *bool { return &s.IncludeHidden }),
	"max_depth":        intField(func(s *Settings) *int { return &s.MaxDepth }),
	"copy_jobs":        intField(func(s *Settings) *int { return &s.CopyJobs }),
	"case_insensitive": boolField(func(s *Settings) *bool { return &s.CaseInsensitive }),
	"verbose":          boolField(func(s *Settings) *bool { return &s.Verbose }),
}

// Keys lists the setting names in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value of key as text.
func (s *Settings) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(s), nil
}

// Set parses value into key. It does not validate the result.
func (s *Settings) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.set(s, value)
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		if dir == homeDir {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
