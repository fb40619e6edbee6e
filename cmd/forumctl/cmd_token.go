package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"studentForum/internal/shared/auth"
)

type TokenCmd struct {
	flags *Flags
	user  string
	name  string
	roles []string
	ttl   time.Duration
}

func NewTokenCmd(flags *Flags) *TokenCmd {
	return &TokenCmd{flags: flags}
}

func (cmd *TokenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "token",
		Usage:       "Mint a JWT signed with the configured secret",
		UsageText:   "forumctl token --user mailer --role service",
		Description: "Service tokens authorize producers calling /api/realtime/notify.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "token subject",
				Required:    true,
				Destination: &cmd.user,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "display name claim",
				Destination: &cmd.name,
			},
			&cli.StringSliceFlag{
				Name:        "role",
				Aliases:     []string{"r"},
				Usage:       "role claim, repeatable",
				Value:       []string{auth.RoleService},
				Destination: &cmd.roles,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "token lifetime; zero uses JWT_TTL",
				Destination: &cmd.ttl,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *TokenCmd) run(_ context.Context, c *cli.Command) error {
	ttl := cmd.ttl
	if ttl <= 0 {
		ttl = cmd.flags.Config.Security.TokenTTL
	}
	token, err := auth.NewJWTManager(cmd.flags.Config.Security.JWTSecret, ttl).Issue(cmd.user, cmd.name, cmd.roles)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, token)
	return nil
}
