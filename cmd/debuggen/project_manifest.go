package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "debuggen.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
	meta   toml.MetaData
}

type projectConfig struct {
	Generate generateConfig `toml:"generate"`
}

type generateConfig struct {
	Input          string `toml:"input"`
	Output         string `toml:"output"`
	EscapeKeywords bool   `toml:"escape_keywords"`
	Jobs           int    `toml:"jobs"`
	Cache          bool   `toml:"cache"`
}

// isSet reports whether key was written in [generate].
func (m *projectManifest) isSet(key string) bool {
	return m != nil && m.meta.IsDefined("generate", key)
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("generate") {
		return nil, true, fmt.Errorf("%s: missing [generate]", path)
	}
	if meta.IsDefined("generate", "input") && strings.TrimSpace(cfg.Generate.Input) == "" {
		return nil, true, fmt.Errorf("%s: [generate].input is empty", path)
	}
	if cfg.Generate.Jobs < 0 {
		return nil, true, fmt.Errorf("%s: [generate].jobs must not be negative", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, true, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return &projectManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		meta:   meta,
	}, true, nil
}

// resolvePath makes a manifest-relative path absolute.
func (m *projectManifest) resolvePath(p string) string {
	if p == "" || p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}
