package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverNeo4j  = "neo4j"
	DriverMemory = "memory"
)

// Config holds the application settings, loaded from the environment.
// The memory driver is preview mode: nothing outlives the process.
type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:"0.0.0.0:8080"`
	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"bolt"`
	BoltPath        string        `env:"BOLT_PATH" envDefault:"fiftytwo.db"`
	Neo4jURI        string        `env:"NEO4J_URI" envDefault:"neo4j://neo4j:7687"`
	Neo4jUser       string        `env:"NEO4J_USER" envDefault:"neo4j"`
	Neo4jPassword   string        `env:"NEO4J_PASSWORD" envDefault:"password"`
	CheckinCooldown time.Duration `env:"CHECKIN_COOLDOWN" envDefault:"72h"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
