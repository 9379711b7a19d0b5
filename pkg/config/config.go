package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrisonrobin/agenda/pkg/repeat"
	"github.com/harrisonrobin/agenda/pkg/timeline"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	yaml "go.yaml.in/yaml/v3"
)

const (
	xdgAppName = "agenda"
	configFile = "config.yaml"

	DefaultCalendar = "Tasks"
)

type Repeat struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Project  string `yaml:"project,omitempty"`
	Cron     string `yaml:"cron"`
	Duration string `yaml:"duration"`
}

type Config struct {
	Calendar      string           `yaml:"calendar"`
	WorkHours     *timeline.Window `yaml:"work_hours,omitempty"`
	LunchBreak    *timeline.Window `yaml:"lunch_break,omitempty"`
	CurrentOffset string           `yaml:"current_offset,omitempty"`
	LogLevel      string           `yaml:"log_level,omitempty"`
	Repeats       []Repeat         `yaml:"repeats,omitempty"`
}

func Default() *Config {
	return &Config{Calendar: DefaultCalendar, LogLevel: "info"}
}

// Dir is ~/.config/agenda.
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, configFile)
}

// Load reads the config at path. A missing file yields the defaults. JSON
// configs are accepted too, being valid YAML.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Calendar == "" {
		cfg.Calendar = DefaultCalendar
	}
	return cfg, nil
}

func Save(fs afero.Fs, path string, cfg *Config) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every field the timeline depends on, so bad clocks are
// reported here rather than when the timeline is built.
func (c *Config) Validate() error {
	var errs []error
	if c.WorkHours != nil {
		if err := c.WorkHours.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("work_hours: %w", err))
		}
	}
	if c.LunchBreak != nil {
		if err := c.LunchBreak.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("lunch_break: %w", err))
		}
	}
	if _, err := ParseDurationField("current_offset", c.CurrentOffset); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.RepeatRules(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Offset returns the current-task offset, defaulting to ten minutes.
func (c *Config) Offset() time.Duration {
	d, err := ParseDurationField("current_offset", c.CurrentOffset)
	if err != nil || d == 0 {
		return timeline.DefaultCurrentOffset
	}
	return d
}

// RepeatRules converts and validates the repeats section.
func (c *Config) RepeatRules() ([]repeat.Rule, error) {
	rules := make([]repeat.Rule, 0, len(c.Repeats))
	seen := make(map[string]bool, len(c.Repeats))
	for i, r := range c.Repeats {
		path := fmt.Sprintf("repeats[%d]", i)
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("%s: id required", path)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%s: duplicate id %q", path, r.ID)
		}
		seen[r.ID] = true
		d, err := ParseDurationField(path+".duration", r.Duration)
		if err != nil {
			return nil, err
		}
		rule := repeat.Rule{ID: r.ID, Title: r.Title, Project: r.Project, Cron: r.Cron, Duration: d}
		if rule.Title == "" {
			rule.Title = r.ID
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}
