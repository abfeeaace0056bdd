package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/sheettodo/internal/config"
	"github.com/teemow/sheettodo/internal/line"
	"github.com/teemow/sheettodo/internal/logging"
	"github.com/teemow/sheettodo/internal/reminder"
)

func newRemindCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Push today's and tomorrow's open tasks to LINE",
		Long: `Read the task spreadsheet, select the incomplete tasks due today or
tomorrow (Asia/Tokyo), and push them to the configured LINE user as one text
message. When nothing is due a short "no tasks" message is pushed instead.

Run it from cron or a scheduled job. With --dry-run the message is printed to
stdout and nothing is pushed; LINE credentials are then optional.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runRemind(cmd.Context(), cfg, dryRun, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the message instead of pushing it")

	return cmd
}

func runRemind(ctx context.Context, cfg *config.Config, dryRun bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !dryRun {
		if err := cfg.ValidateNotifier(); err != nil {
			return err
		}
	}

	logger := setupLogging(cfg)

	provider, err := newInstrumentation(ctx, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", slog.Any("error", err))
		}
	}()
	metrics := provider.Metrics()

	worksheet, err := openWorksheet(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}

	var pusher reminder.Pusher
	if cfg.LINE.ChannelAccessToken != "" {
		client, err := line.NewClient(cfg.LINE.ChannelAccessToken,
			line.WithEndpoint(cfg.LINE.Endpoint),
			line.WithMetrics(metrics),
		)
		if err != nil {
			return err
		}
		pusher = client
		logger.Debug("LINE client ready",
			slog.String("endpoint", client.Endpoint()),
			slog.String("token", logging.SanitizeToken(cfg.LINE.ChannelAccessToken)))
	}

	notifier := reminder.NewNotifier(worksheet, pusher, cfg.LINE.UserID,
		reminder.WithLogger(logger),
		reminder.WithMetrics(metrics),
	)

	res, err := notifier.Run(ctx, dryRun)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintln(out, res.Message)
	}
	return nil
}
