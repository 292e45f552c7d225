package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/splitbill/internal/identity"
	"github.com/cleared-dev/splitbill/internal/reconcile"
	"github.com/cleared-dev/splitbill/internal/statement"
)

// FileName is the conventional config file name.
const FileName = "splitbill.yaml"

// Config represents the top-level splitbill.yaml configuration.
type Config struct {
	Household HouseholdConfig `yaml:"household"`
	Layout    LayoutConfig    `yaml:"layout"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Export    ExportConfig    `yaml:"export"`
	Notify    NotifyConfig    `yaml:"notify"`
	Log       LogConfig       `yaml:"log"`
}

// HouseholdConfig is the identity table: who pays for which line.
type HouseholdConfig struct {
	Name       string       `yaml:"name"`
	Lines      []LineConfig `yaml:"lines"`
	Reclassify []string     `yaml:"reclassify,omitempty"` // line names billed as equipment
}

// LineConfig maps one phone number to an owner.
type LineConfig struct {
	Number string `yaml:"number"` // "(111) 222-3333"
	Name   string `yaml:"name,omitempty"`
	Owner  string `yaml:"owner"`
}

// LayoutConfig selects the statement parser and its anchor markers.
type LayoutConfig struct {
	Format      string `yaml:"format"`
	StartMarker string `yaml:"start_marker,omitempty"`
	EndMarker   string `yaml:"end_marker,omitempty"`
}

// ReconcileConfig controls the allocated-vs-billed check.
type ReconcileConfig struct {
	Tolerance string `yaml:"tolerance"` // decimal string, e.g. "0.05"
}

// ExportConfig controls report file output.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // csv or xlsx
}

// NotifyConfig controls the email sent to the household.
type NotifyConfig struct {
	Carrier    string   `yaml:"carrier"`
	SMTPHost   string   `yaml:"smtp_host"`
	SMTPPort   int      `yaml:"smtp_port"`
	From       string   `yaml:"from"`
	To         []string `yaml:"to"`
	DueDay     int      `yaml:"due_day"`
	SenderName string   `yaml:"sender_name"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Credentials are SMTP secrets. They come from the environment only.
type Credentials struct {
	Username string
	Password string
}

// Load reads a splitbill.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	cfg.Household = HouseholdConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults and an example household.
func Default(household string) *Config {
	return &Config{
		Household: HouseholdConfig{
			Name: household,
			Lines: []LineConfig{
				{Number: "(111) 222-3333", Owner: "Owner One"},
				{Number: "(444) 555-6666", Owner: "Owner Two"},
			},
		},
		Layout: LayoutConfig{
			Format: "tmobile",
		},
		Reconcile: ReconcileConfig{
			Tolerance: "0.05",
		},
		Export: ExportConfig{
			Dir:    "exports",
			Format: "csv",
		},
		Notify: NotifyConfig{
			Carrier:  "T-Mobile",
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 465,
			DueDay:   6,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Table builds the immutable identity table from the household section.
func (c *Config) Table() (*identity.Table, error) {
	entries := make([]identity.Entry, len(c.Household.Lines))
	for i, l := range c.Household.Lines {
		entries[i] = identity.Entry{Number: l.Number, Name: l.Name, Owner: l.Owner}
	}
	table, err := identity.NewTable(entries, c.Household.Reclassify)
	if err != nil {
		return nil, fmt.Errorf("household: %w", err)
	}
	return table, nil
}

// Markers returns the configured anchors, falling back to the parser's own.
func (c *Config) Markers(p statement.Parser) statement.Markers {
	m := p.Markers()
	if c.Layout.StartMarker != "" {
		m.Start = c.Layout.StartMarker
	}
	if c.Layout.EndMarker != "" {
		m.End = c.Layout.EndMarker
	}
	return m
}

// Tolerance parses the reconciliation tolerance.
func (c *Config) Tolerance() (decimal.Decimal, error) {
	if c.Reconcile.Tolerance == "" {
		return reconcile.DefaultTolerance(), nil
	}
	d, err := decimal.NewFromString(c.Reconcile.Tolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing reconcile.tolerance %q: %w", c.Reconcile.Tolerance, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("reconcile.tolerance %q is negative", c.Reconcile.Tolerance)
	}
	return d, nil
}

// LoadEnv loads a .env file if one exists and reads SMTP credentials from the
// environment. A missing .env file is not an error.
func LoadEnv(path string) (Credentials, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return Credentials{
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}, nil
}
