// Package config handles tool configuration loading and precedence.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "90s" or
// "2m" instead of raw nanoseconds.
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds all conversion settings.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig holds per-run mesh derivation settings.
type PipelineConfig struct {
	OutputDir       string `yaml:"output_dir"`
	FileExtension   string `yaml:"file_extension"`
	NumSimplify     int    `yaml:"num_simplify"`
	NumCHull        int    `yaml:"num_chull"`
	UseGlobalOrigin bool   `yaml:"use_global_origin"`
}

// EngineConfig holds external mesh-transform engine settings.
type EngineConfig struct {
	Command        string   `yaml:"command"`
	OptArgs        string   `yaml:"opt_args"`
	Timeout        Duration `yaml:"timeout"`
	SimplifyScript string   `yaml:"simplify_script"`
	CHullScript    string   `yaml:"chull_script"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock pipeline behavior: ten decimation
// passes for both the full mesh and the hull, STL output under ./meshes.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			OutputDir:     "meshes",
			FileExtension: ".stl",
			NumSimplify:   10,
			NumCHull:      10,
		},
		Engine: EngineConfig{
			Command: "meshlabserver",
			OptArgs: "-om vn fn",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
