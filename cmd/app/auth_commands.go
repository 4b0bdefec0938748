package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/isolator/cmd/app/commands"
	"github.com/allisson/isolator/internal/app"
	"github.com/allisson/isolator/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "hash-control-password",
			Usage: "Generate the CONTROL_PASSWORD_HASH value protecting the control API",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password to hash; '-' reads it from stdin, omit to generate one",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunHashControlPassword(
					container.PasswordService(),
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("password"),
					cmd.String("format"),
				)
			},
		},
	}
}
