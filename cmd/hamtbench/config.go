package main

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config drives a single benchmark run. It is optionally loaded from a YAML
// file and then overridden by flags, giving the priority order flag > config
// file > default. No field is bound to an environment variable, so the
// environment only ever supplies the env-default values.
type Config struct {
	Size    string `yaml:"size" env-default:"small"`
	Workers int    `yaml:"workers" env-default:"4"`
	Seed    uint32 `yaml:"seed" env-default:"1"`
}

// MustLoad resolves a Config from an optional config file plus flag
// overrides. It panics on a malformed or missing config file, matching the
// fail-fast posture a one-shot CLI tool should take over config errors.
func MustLoad() *Config {
	configPathFlag := flag.String("config", "", "path to a YAML config file")
	sizeFlag := flag.String("size", "", "workload size tier: small, medium, or large")
	workersFlag := flag.Int("workers", 0, "concurrent reader count for the read-scaling phase")
	seedFlag := flag.Uint64("seed", 0, "hash seed for the default hasher")
	flag.Parse()

	var cfg Config
	if *configPathFlag != "" {
		if _, err := os.Stat(*configPathFlag); err != nil {
			panic("hamtbench: config file does not exist: " + *configPathFlag)
		}
		if err := cleanenv.ReadConfig(*configPathFlag, &cfg); err != nil {
			panic("hamtbench: error loading config file: " + err.Error())
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("hamtbench: error loading config from environment: " + err.Error())
	}

	if cfg.Size == "" {
		cfg.Size = "small"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	if *sizeFlag != "" {
		cfg.Size = *sizeFlag
	}
	if *workersFlag != 0 {
		cfg.Workers = *workersFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = uint32(*seedFlag)
	}

	return &cfg
}
