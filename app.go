package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"pianotiles/apiserver"
	"pianotiles/config"
	"pianotiles/midiparser"
	"pianotiles/tilerenderer"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file",
		Value:   "config.yaml",
		Sources: cli.EnvVars("PIANOTILES_CONFIG"),
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.NewDefault()
	path := cmd.String("config")
	if cmd.IsSet("config") {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	// Default path: fall back to built-in defaults when the file is absent.
	if err := config.LoadOrDefault(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	}))
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := initLogger(cfg)

	parsed, err := midiparser.ParseFile(cmd.String("input"))
	if err != nil {
		return err
	}

	r, err := tilerenderer.New(cfg, parsed, logger)
	if err != nil {
		return err
	}

	return r.Render(cmd.String("output"))
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := initLogger(cfg)

	if cmd.IsSet("port") {
		cfg.HTTP.Port = int(cmd.Int("port"))
	}

	return apiserver.New(cfg, logger).Run(cfg.HTTP.Address())
}

func main() {
	cmd := &cli.Command{
		Name:  "pianotiles",
		Usage: "Render MIDI files into Synthesia-style falling-tile videos",
		Commands: []*cli.Command{
			{
				Name:   "render",
				Usage:  "Render a MIDI file to an mp4",
				Action: runRender,
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to the MIDI file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the output video",
						Value:   "output.mp4",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the render HTTP API",
				Action: runServe,
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "port",
						Usage: "HTTP port override",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
