// common/config.go
package common

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"liftdispatch/elevassigner"
)

type Config struct {
	Floors   int    `yaml:"floors"`
	Lifts    int    `yaml:"lifts"`
	Capacity int    `yaml:"capacity"`
	Policy   string `yaml:"policy"`

	// 0 disables the background tick thread.
	TickInterval time.Duration `yaml:"tickInterval"`

	// Empty disables the QUIC control server.
	ControlAddr string `yaml:"controlAddr"`

	LogLevel    string `yaml:"logLevel"`
	Interactive bool   `yaml:"interactive"`
}

// env keys read by ApplyEnvFile
const (
	ENV_FLOORS        = "LIFT_FLOORS"
	ENV_COUNT         = "LIFT_COUNT"
	ENV_CAPACITY      = "LIFT_CAPACITY"
	ENV_POLICY        = "LIFT_POLICY"
	ENV_TICK_INTERVAL = "LIFT_TICK_INTERVAL"
	ENV_CONTROL_ADDR  = "LIFT_CONTROL_ADDR"
	ENV_LOG_LEVEL     = "LIFT_LOG_LEVEL"
)

func DefaultConfig() Config {
	return Config{
		Floors:       10,
		Lifts:        3,
		Capacity:     10,
		Policy:       elevassigner.POLICY_NEAREST,
		TickInterval: time.Second,
		ControlAddr:  ":4242",
		LogLevel:     "info",
	}
}

// LoadConfig reads a YAML file on top of the defaults. A missing file is not
// an error; the defaults are returned as they are.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvFile overrides fields from a .env file. A missing file is ignored.
func (c *Config) ApplyEnvFile(path string) error {
	if path == "" {
		return nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env %s: %w", path, err)
	}
	return c.applyEnv(env)
}

func (c *Config) applyEnv(env map[string]string) error {
	ints := []struct {
		key  string
		dest *int
	}{
		{ENV_FLOORS, &c.Floors},
		{ENV_COUNT, &c.Lifts},
		{ENV_CAPACITY, &c.Capacity},
	}
	for _, iv := range ints {
		raw, ok := env[iv.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", iv.key, err)
		}
		*iv.dest = n
	}
	if raw, ok := env[ENV_TICK_INTERVAL]; ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", ENV_TICK_INTERVAL, err)
		}
		c.TickInterval = d
	}
	if v, ok := env[ENV_POLICY]; ok {
		c.Policy = v
	}
	if v, ok := env[ENV_CONTROL_ADDR]; ok {
		c.ControlAddr = v
	}
	if v, ok := env[ENV_LOG_LEVEL]; ok {
		c.LogLevel = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Floors < 1 {
		return fmt.Errorf("floors must be positive, got %d", c.Floors)
	}
	if c.Lifts < 1 {
		return fmt.Errorf("lifts must be positive, got %d", c.Lifts)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tickInterval must not be negative, got %v", c.TickInterval)
	}
	if _, err := elevassigner.ByName(c.Policy); err != nil {
		return err
	}
	return nil
}
