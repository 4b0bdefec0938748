package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/isolator/cmd/app/commands"
	"github.com/allisson/isolator/internal/app"
	"github.com/allisson/isolator/internal/config"
	"github.com/allisson/isolator/internal/isolation/client"
)

// controlFlags are shared by every command talking to a running server.
func controlFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "Control API base URL (defaults to SERVER_HOST:SERVER_PORT)",
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Control password",
			Sources: cli.EnvVars("CONTROL_PASSWORD"),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 10 * time.Second,
			Usage: "Control API request timeout",
		},
		formatFlag(),
	}
}

// withControlClient builds a control API client from flags and configuration and runs fn.
func withControlClient(
	fn func(ctx context.Context, cmd *cli.Command, c *client.Client, container *app.Container) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		container := app.NewContainer(cfg)
		defer func() { _ = container.Shutdown(ctx) }()

		baseURL := cmd.String("url")
		if baseURL == "" {
			baseURL = cfg.ControlURL()
		}

		c := client.New(baseURL, cmd.String("password"), cmd.Duration("timeout"))
		return fn(ctx, cmd, c, container)
	}
}

func getIsolationCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "status",
			Usage: "Show the isolation status of a running server",
			Flags: controlFlags(),
			Action: withControlClient(
				func(ctx context.Context, cmd *cli.Command, c *client.Client, container *app.Container) error {
					return commands.RunStatus(
						ctx, c, container.Logger(), commands.DefaultIO().Writer, cmd.String("format"),
					)
				},
			),
		},
		{
			Name:  "enable",
			Usage: "Turn domain isolation on",
			Flags: controlFlags(),
			Action: withControlClient(
				func(ctx context.Context, cmd *cli.Command, c *client.Client, container *app.Container) error {
					return commands.RunSetIsolation(
						ctx, c, container.Logger(), commands.DefaultIO().Writer, true, cmd.String("format"),
					)
				},
			),
		},
		{
			Name:  "disable",
			Usage: "Turn domain isolation off",
			Flags: controlFlags(),
			Action: withControlClient(
				func(ctx context.Context, cmd *cli.Command, c *client.Client, container *app.Container) error {
					return commands.RunSetIsolation(
						ctx, c, container.Logger(), commands.DefaultIO().Writer, false, cmd.String("format"),
					)
				},
			),
		},
		{
			Name:  "new-circuit",
			Usage: "Use a new circuit for a first-party domain or a container",
			Flags: append(controlFlags(),
				&cli.StringFlag{
					Name:    "domain",
					Aliases: []string{"d"},
					Usage:   "First-party domain (omit for the catch-all identity)",
				},
				&cli.StringFlag{
					Name:    "container",
					Aliases: []string{"c"},
					Usage:   "Container ID",
				},
			),
			Action: withControlClient(
				func(ctx context.Context, cmd *cli.Command, c *client.Client, container *app.Container) error {
					return commands.RunNewCircuit(
						ctx,
						c,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("domain"),
						cmd.String("container"),
						cmd.String("format"),
					)
				},
			),
		},
		{
			Name:  "new-identity",
			Usage: "Discard every isolation token so all later requests use new circuits",
			Flags: controlFlags(),
			Action: withControlClient(
				func(ctx context.Context, cmd *cli.Command, c *client.Client, container *app.Container) error {
					return commands.RunNewIdentity(
						ctx, c, container.Logger(), commands.DefaultIO().Writer, cmd.String("format"),
					)
				},
			),
		},
		{
			Name:  "credentials",
			Usage: "Show the SOCKS credentials currently used for a domain and container",
			Flags: append(controlFlags(),
				&cli.StringFlag{
					Name:    "domain",
					Aliases: []string{"d"},
					Usage:   "First-party domain (omit for the catch-all identity)",
				},
				&cli.StringFlag{
					Name:    "container",
					Aliases: []string{"c"},
					Value:   "0",
					Usage:   "Container ID",
				},
				&cli.BoolFlag{
					Name:  "show-password",
					Usage: "Print the SOCKS password instead of only its fingerprint",
				},
			),
			Action: withControlClient(
				func(ctx context.Context, cmd *cli.Command, c *client.Client, container *app.Container) error {
					return commands.RunCredentials(
						ctx,
						c,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("domain"),
						cmd.String("container"),
						cmd.Bool("show-password"),
						cmd.String("format"),
					)
				},
			),
		},
	}
}
