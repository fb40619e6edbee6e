package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"studentForum/internal/config"
)

// Flags is shared by every subcommand. Config is populated in Before.
type Flags struct {
	EnvFile string
	Config  *config.Config
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "forumctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	flags := &Flags{}
	app := &cli.Command{
		Name:      "forumctl",
		Usage:     "Operate a student forum deployment",
		UsageText: "forumctl [global options] command [command options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "dotenv file to load before reading the environment",
				Sources:     cli.EnvVars("FORUMCTL_ENV_FILE"),
				Value:       ".env",
				Destination: &flags.EnvFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return ctx, fmt.Errorf("load %s: %w", flags.EnvFile, err)
			}
			cfg, err := config.Load()
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg
			return ctx, nil
		},
	}
	NewSeedCmd(flags).Register(app)
	NewTokenCmd(flags).Register(app)
	NewListingsCmd(flags).Register(app)
	return app
}
