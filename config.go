package wfdl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFiles are probed in order in the working directory when no configuration file is given explicitly.
var ConfigFiles = []string{
	"wfdl.config.js",
	"wfdl.config.mjs",
	"wfdl.config.cjs",
	"wfdl.config.json",
	"wfdl.config.yaml",
	"wfdl.config.yml",
}

// LoadConfig loads the configuration file at explicitPath, or the first of ConfigFiles that exists in the working directory. A missing explicit file is a warning and yields an empty Config.
func LoadConfig(explicitPath string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	if explicitPath != "" {
		filename := explicitPath
		if !filepath.IsAbs(filename) {
			filename = filepath.Join(cwd, filename)
		}
		cfg, err := LoadConfigFile(filename, false)
		if err != nil || cfg == nil {
			return Config{}, err
		}
		return *cfg, nil
	}

	for _, name := range ConfigFiles {
		cfg, err := LoadConfigFile(filepath.Join(cwd, name), true)
		if err != nil {
			return Config{}, err
		} else if cfg != nil {
			return *cfg, nil
		}
	}
	return Config{}, nil
}

// LoadConfigFile loads a single configuration file by its extension: JSON, YAML, or otherwise a JavaScript module. It returns nil when the file does not exist or holds null.
func LoadConfigFile(filename string, silent bool) (*Config, error) {
	b, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		if !silent {
			Warning.Printf("Config file not found: %v", filename)
		}
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("config %v: %w", filename, err)
	}

	var v any
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		err = json.Unmarshal(b, &v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &v)
	default:
		v, err = evalConfigModule(filename, b)
	}
	if err != nil {
		return nil, fmt.Errorf("config %v: %w", filename, err)
	} else if v == nil {
		return nil, nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config %v: expected an object at the top level", filename)
	}
	cfg, err := configFromMap(m)
	if err != nil {
		return nil, fmt.Errorf("config %v: %w", filename, err)
	}
	return &cfg, nil
}

func configFromMap(m map[string]any) (Config, error) {
	cfg := Config{}

	var err error
	if cfg.Fonts, err = stringList(m, "fonts"); err != nil {
		return Config{}, err
	}
	if cfg.SubsetsAllowed, err = stringList(m, "subsetsAllowed"); err != nil {
		return Config{}, err
	}
	if v := m["outDir"]; v != nil {
		outDir, ok := v.(string)
		if !ok {
			return Config{}, fmt.Errorf("outDir: expected a string")
		}
		cfg.OutDir = &outDir
	}

	// non-boolean values are ignored
	if verbose, ok := m["verbose"].(bool); ok {
		cfg.Verbose = &verbose
	}
	if minifyCSS, ok := m["minifyCss"].(bool); ok {
		cfg.MinifyCSS = &minifyCSS
	}
	return cfg, nil
}

func stringList(m map[string]any, key string) ([]string, error) {
	v := m[key]
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%v: expected a list of strings", key)
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%v: expected a list of strings", key)
		}
		list = append(list, s)
	}
	return list, nil
}
