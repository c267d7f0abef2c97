package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	ProjectRoot string
	ConfigFile  string
	CachePath   string
	// WorkerDir holds materialized helper assets such as the formatter worker.
	WorkerDir string
}

// ResolvePaths anchors relative config paths. The project root is the
// directory of the config file when one was loaded, otherwise the nearest
// ancestor of cwd carrying a project marker.
func ResolvePaths(cfg *Config, configFile, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	var root string
	if strings.TrimSpace(configFile) != "" {
		abs, err := filepath.Abs(configFile)
		if err != nil {
			return ResolvedPaths{}, err
		}
		configFile = abs
		root = filepath.Dir(abs)
	} else {
		detected, err := DetectProjectRoot([]string{cwd})
		if err != nil {
			return ResolvedPaths{}, err
		}
		root = detected
	}

	cachePath := ResolveRelative(root, cfg.Cache.Path)
	return ResolvedPaths{
		ProjectRoot: filepath.Clean(root),
		ConfigFile:  configFile,
		CachePath:   cachePath,
		WorkerDir:   filepath.Join(filepath.Dir(cachePath), "worker"),
	}, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

func DetectProjectRoot(candidates []string) (string, error) {
	markers := append([]string{"package.json", ".git"}, CandidateFiles...)

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
