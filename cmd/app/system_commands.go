package main

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v3"

	"github.com/allisson/isolator/cmd/app/commands"
	"github.com/allisson/isolator/internal/app"
	"github.com/allisson/isolator/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the control API server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:      "fetch",
			Usage:     "GET a URL through the upstream SOCKS proxy with isolated credentials",
			ArgsUsage: "<url>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "domain",
					Aliases: []string{"d"},
					Usage:   "First-party domain (defaults to the URL host)",
				},
				&cli.StringFlag{
					Name:    "container",
					Aliases: []string{"c"},
					Value:   "0",
					Usage:   "Container ID",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Value: time.Minute,
					Usage: "Request timeout",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				d, err := container.Dialer()
				if err != nil {
					return err
				}
				control, err := container.ControlSurface()
				if err != nil {
					return err
				}

				httpClient := resty.New().
					SetTransport(d.Transport()).
					SetTimeout(cmd.Duration("timeout"))

				return commands.RunFetch(
					ctx,
					httpClient,
					control,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Args().First(),
					cmd.String("domain"),
					cmd.String("container"),
					cmd.String("format"),
				)
			},
		},
	}
}
