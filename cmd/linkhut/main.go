package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linkhut/internal/app"
	"linkhut/internal/config"
	"linkhut/internal/linkhut"
	"linkhut/internal/linkpreview"
	"linkhut/internal/logger"
	apperr "linkhut/internal/pkg/errors"
	"linkhut/internal/secret"
	"linkhut/internal/transport"
)

type cli struct {
	configPath string
	cfg        *config.Config
	log        logger.Logger
	app        *app.App
}

func main() {
	c := &cli{}
	if err := c.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 when nothing matched, 3 when a remote call failed and 1
// otherwise.
func exitCode(err error) int {
	switch {
	case apperr.IsNotFound(err):
		return 2
	case apperr.IsRequest(err):
		return 3
	default:
		return 1
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkhut",
		Short:         "Manage LinkHut bookmarks and tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "path to config.yaml")

	root.AddCommand(
		c.getCmd(),
		c.addCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.readingListCmd(),
		c.tagCmd(),
		c.encryptSecretCmd(),
	)
	return root
}

// setup loads configuration and wires the clients into the App.
func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	c.cfg = cfg

	log, err := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	c.log = log

	httpClient := transport.NewClient(cfg.HTTP.Timeout, log)

	linkhutClient, err := linkhut.NewClient(
		cfg.Linkhut.BaseURL,
		secret.Env(cfg.Linkhut.TokenEnv, cfg.SecretKeyEnv),
		httpClient,
		log,
	)
	if err != nil {
		return fmt.Errorf("error creating LinkHut client: %w", err)
	}

	previewClient, err := linkpreview.NewClient(
		cfg.LinkPreview.BaseURL,
		secret.Env(cfg.LinkPreview.KeyEnv, cfg.SecretKeyEnv),
		httpClient,
		log,
	)
	if err != nil {
		return fmt.Errorf("error creating LinkPreview client: %w", err)
	}

	c.app = app.NewApp(
		app.WithConfig(cfg),
		app.WithLinkhutClient(linkhutClient),
		app.WithPreviewClient(previewClient),
		app.WithLogger(log),
	)
	return nil
}
