package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/splitbill/internal/config"
	"github.com/cleared-dev/splitbill/internal/logger"
	"github.com/cleared-dev/splitbill/internal/notify"
)

const configFileName = config.FileName

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	repo       string
	configPath string
	logLevel   string
}

// root returns the absolute project directory.
func (o *globalOptions) root() (string, error) {
	abs, err := filepath.Abs(o.repo)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// load reads the config file, defaulting to <repo>/splitbill.yaml.
func (o *globalOptions) load(root string) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = filepath.Join(root, configFileName)
	}
	return config.Load(path)
}

func (o *globalOptions) logger(cfg *config.Config) zerolog.Logger {
	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return logger.New(level)
}

// notifier wires an SMTP notifier from the config and <root>/.env.
func notifier(root string, cfg *config.Config) (*notify.Notifier, error) {
	creds, err := config.LoadEnv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	sender := notify.NewSMTPSender(cfg.Notify.SMTPHost, cfg.Notify.SMTPPort, creds)
	return notify.New(cfg.Notify, sender), nil
}

// exportDir resolves the configured export directory against root.
func exportDir(root string, cfg *config.Config) string {
	if filepath.IsAbs(cfg.Export.Dir) {
		return cfg.Export.Dir
	}
	return filepath.Join(root, cfg.Export.Dir)
}
