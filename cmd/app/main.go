// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ticketops/cardvault/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "cardvault",
		Usage:   "Payment card capture and storage service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-master-key",
				Usage: "Generate a new master key for card data encryption at rest",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateMasterKey()
				},
			},
			{
				Name:  "clean-expired-keys",
				Usage: "Delete expired ephemeral encryption keys",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "retention",
						Aliases: []string{"r"},
						Value:   24 * time.Hour,
						Usage:   "Keep expired keys younger than this duration",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanExpiredKeys(ctx, cmd.Duration("retention"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
