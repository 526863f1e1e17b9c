package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
)

// targetNameRegex validates target names.
// Names must start with a lowercase letter or digit, followed by lowercase
// letters, digits, underscores, or hyphens. Maximum length is 63 characters.
var targetNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ValidateTargetName checks if a target name is valid.
func ValidateTargetName(name string) error {
	if name == "" {
		return fmt.Errorf("target name cannot be empty")
	}

	if !targetNameRegex.MatchString(name) {
		return fmt.Errorf("invalid target name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

const (
	DefaultConfigDir = "/etc/firefly-outpost"
	DefaultStateDir  = "/var/lib/firefly-outpost"
	ConfigFileName   = "outpost.toml"

	// Address resolution retry budget.
	ResolveRounds       = 10
	ResolveDelaySeconds = 5

	// SSH readiness gate defaults.
	SSHMaxWaitSeconds    = 300
	SSHIntervalSeconds   = 10
	SSHConnectTimeoutSec = 5
)

// Target identifies the machine under deployment.
type Target struct {
	Name     string `toml:"name"`     // Logical hostname / provisioner resource name
	Host     string `toml:"host"`     // Resolved address; empty until resolution runs
	User     string `toml:"user"`     // SSH user
	Identity string `toml:"identity"` // SSH private key path
}

// Provisioner describes how to query the provisioner's state for the
// target's address.
type Provisioner struct {
	Dir    string `toml:"dir"`    // Terraform working directory
	Output string `toml:"output"` // Terraform output name holding the VM address
}

// DatabaseService holds the TimescaleDB probe configuration.
type DatabaseService struct {
	Port      int    `toml:"port"`
	Name      string `toml:"name"`      // Database name
	User      string `toml:"user"`      // Database user
	Container string `toml:"container"` // Container name on the target
}

// BrokerService holds the MQTT broker probe configuration.
type BrokerService struct {
	Port int `toml:"port"`
}

// DashboardService holds the Grafana probe configuration.
type DashboardService struct {
	Port       int    `toml:"port"`
	HealthPath string `toml:"health_path"`
	Marker     string `toml:"marker"` // Token expected in the health response body
}

// Services groups the per-service probe configuration.
type Services struct {
	Database  DatabaseService  `toml:"database"`
	Broker    BrokerService    `toml:"broker"`
	Dashboard DashboardService `toml:"dashboard"`
}

// Timeouts holds the convergence timing knobs, in seconds.
type Timeouts struct {
	SSHMaxWait     int `toml:"ssh_max_wait"`
	SSHInterval    int `toml:"ssh_interval"`
	ConnectTimeout int `toml:"connect_timeout"`
	ResolveRounds  int `toml:"resolve_rounds"`
	ResolveDelay   int `toml:"resolve_delay"`
}

// Config is the full deployment configuration.
type Config struct {
	Target      Target      `toml:"target"`
	Provisioner Provisioner `toml:"provisioner"`
	Services    Services    `toml:"services"`
	Timeouts    Timeouts    `toml:"timeouts"`
}

// Default returns a Config populated with the stack's defaults. The service
// ports and database identity mirror the deployed containers' own
// environment (TimescaleDB on 5432, Mosquitto on 1883, Grafana on 3000).
func Default() *Config {
	return &Config{
		Target: Target{
			Name: "iot-gateway",
			User: "ubuntu",
		},
		Provisioner: Provisioner{
			Dir:    ".",
			Output: "vm_ip",
		},
		Services: Services{
			Database: DatabaseService{
				Port:      5432,
				Name:      "iotdb",
				User:      "iotuser",
				Container: "timescaledb",
			},
			Broker: BrokerService{
				Port: 1883,
			},
			Dashboard: DashboardService{
				Port:       3000,
				HealthPath: "/api/health",
				Marker:     "database",
			},
		},
		Timeouts: Timeouts{
			SSHMaxWait:     SSHMaxWaitSeconds,
			SSHInterval:    SSHIntervalSeconds,
			ConnectTimeout: SSHConnectTimeoutSec,
			ResolveRounds:  ResolveRounds,
			ResolveDelay:   ResolveDelaySeconds,
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// Environment variables override file values for the database and service
// ports, matching the deployed stack's own environment contract.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays the environment variables the deployed services
// themselves are configured with, so one .env can drive both sides.
func (c *Config) applyEnv() {
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		c.Services.Database.Name = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		c.Services.Database.User = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Services.Database.Port = p
		}
	}
	if v := os.Getenv("MQTT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Services.Broker.Port = p
		}
	}
	if v := os.Getenv("GRAFANA_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Services.Dashboard.Port = p
		}
	}
}

// Validate checks that the Config is usable for a convergence run.
func (c *Config) Validate() error {
	if err := ValidateTargetName(c.Target.Name); err != nil {
		return err
	}
	if c.Target.User == "" {
		return fmt.Errorf("target user is required")
	}

	for _, port := range []struct {
		name string
		p    int
	}{
		{"database", c.Services.Database.Port},
		{"broker", c.Services.Broker.Port},
		{"dashboard", c.Services.Dashboard.Port},
	} {
		if port.p < 1 || port.p > 65535 {
			return fmt.Errorf("%s port must be between 1 and 65535 (got %d)", port.name, port.p)
		}
	}

	if c.Timeouts.SSHMaxWait <= 0 {
		return fmt.Errorf("ssh_max_wait must be positive (got %d)", c.Timeouts.SSHMaxWait)
	}
	if c.Timeouts.SSHInterval <= 0 {
		return fmt.Errorf("ssh_interval must be positive (got %d)", c.Timeouts.SSHInterval)
	}
	if c.Timeouts.ResolveRounds <= 0 {
		return fmt.Errorf("resolve_rounds must be positive (got %d)", c.Timeouts.ResolveRounds)
	}

	return nil
}

// Paths holds the configured paths
type Paths struct {
	ConfigDir  string
	StateDir   string
	TargetsDir string
}

// DefaultPaths returns the default path configuration
func DefaultPaths() *Paths {
	return &Paths{
		ConfigDir:  DefaultConfigDir,
		StateDir:   DefaultStateDir,
		TargetsDir: filepath.Join(DefaultStateDir, "targets"),
	}
}

// TargetPath joins the targets directory with a per-target file, refusing
// names that would escape the state directory.
func (p *Paths) TargetPath(name, suffix string) (string, error) {
	path, err := securejoin.SecureJoin(p.TargetsDir, name+suffix)
	if err != nil {
		return "", fmt.Errorf("invalid target name %q: %w", name, err)
	}
	return path, nil
}

// DefaultConfigPath returns the path of the config file, honoring the
// OUTPOST_CONFIG environment variable.
func DefaultConfigPath() string {
	if v := os.Getenv("OUTPOST_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(DefaultConfigDir, ConfigFileName)
}
