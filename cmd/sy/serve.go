package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/staffyard/staffyard/internal/config"
	"github.com/staffyard/staffyard/internal/notify"
	"github.com/staffyard/staffyard/internal/notify/discord"
	"github.com/staffyard/staffyard/internal/notify/slack"
	"github.com/staffyard/staffyard/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planning board API server",
		Long:  "Serves the board, directory, and transaction APIs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "staffyard.yaml", "path to Staffyard config file")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}
	if notifier != nil {
		defer notifier.Close()
		if cfg.Notify.DigestCron != "" {
			if !notify.ValidSchedule(cfg.Notify.DigestCron) {
				return fmt.Errorf("notify.digest_cron %q is not a valid 5-field cron expression", cfg.Notify.DigestCron)
			}
			go notify.RunDigestLoop(ctx, gormDB, notifier, cfg.Notify.DigestCron)
		}
	} else if cfg.Notify.DigestCron != "" {
		log.Printf("digest schedule set but no notifier configured, digest disabled")
	}

	return server.Start(ctx, server.StartOpts{
		DB:            gormDB,
		Port:          port,
		HistoryLimit:  cfg.Board.HistoryLimit,
		AutosaveDelay: time.Duration(cfg.Board.AutosaveDelaySeconds) * time.Second,
		Notifier:      notifier,
		Out:           cmd.OutOrStdout(),
	})
}

// buildNotifier assembles the configured chat adapters. Returns nil when
// none are configured.
func buildNotifier(cfg *config.Config) (notify.Notifier, error) {
	var multi notify.Multi
	if cfg.Notify.Slack.Token != "" {
		a, err := slack.New(slack.AdapterOpts{
			Token:     cfg.Notify.Slack.Token,
			ChannelID: cfg.Notify.Slack.Channel,
		})
		if err != nil {
			return nil, err
		}
		multi = append(multi, a)
	}
	if cfg.Notify.Discord.Token != "" {
		a, err := discord.New(discord.AdapterOpts{
			Token:     cfg.Notify.Discord.Token,
			ChannelID: cfg.Notify.Discord.Channel,
		})
		if err != nil {
			return nil, err
		}
		multi = append(multi, a)
	}
	if len(multi) == 0 {
		return nil, nil
	}
	return multi, nil
}
