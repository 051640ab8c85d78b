package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Corpus   CorpusConfig   `toml:"corpus"`
	Index    IndexConfig    `toml:"index"`
	Engine   EngineConfig   `toml:"engine"`
	Observer ObserverConfig `toml:"observer"`
}

type CorpusConfig struct {
	Folder      string `toml:"folder"`
	BaseVersion string `toml:"base_version"`
}

type IndexConfig struct {
	Path string `toml:"path"`
}

type EngineConfig struct {
	Results    int `toml:"results"`
	Candidates int `toml:"candidates"`
	Hydrate    int `toml:"hydrate"`
	Keywords   int `toml:"keywords"`
	Strictness int `toml:"strictness"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Corpus: CorpusConfig{Folder: "swrn_pdfs", BaseVersion: "1.8.4"},
		Index:  IndexConfig{Path: "swrn_index.db"},
		Engine: EngineConfig{Results: 10, Candidates: 30, Hydrate: 10, Keywords: 10, Strictness: 1},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "swrn.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	if v := os.Getenv("SWRN_CORPUS_FOLDER"); v != "" {
		cfg.Corpus.Folder = v
	}
	if v := os.Getenv("SWRN_BASE_VERSION"); v != "" {
		cfg.Corpus.BaseVersion = v
	}
	if v := os.Getenv("SWRN_INDEX_PATH"); v != "" {
		cfg.Index.Path = v
	}
	if v := os.Getenv("SWRN_STRICTNESS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Strictness = n
		}
	}
	if os.Getenv("SWRN_OBSERVER_ENABLED") == "true" || os.Getenv("SWRN_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	return cfg
}
