package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"promptcheck/internal/adapter/inbound/messaging"
	outmessaging "promptcheck/internal/adapter/outbound/messaging"
	"promptcheck/internal/adapter/outbound/sink"
	"promptcheck/internal/application/common/slogger"
	"promptcheck/internal/application/debounce"
	"promptcheck/internal/application/worker"
	"promptcheck/internal/config"
	"promptcheck/internal/port/outbound"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type workerOptions struct {
	// output publishes results to stdout in this format instead of NATS.
	output string
}

// newWorkerCmd creates and returns the worker command.
func newWorkerCmd() *cobra.Command {
	opts := &workerOptions{}

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start the edit worker",
		Long: `Start the worker that checks prompt edits received over NATS.

The worker:
- Subscribes to edit events in a queue group
- Waits until each field has been idle for the debounce delay
- Publishes the check result to <result_subject>.<field_id>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := GetConfig()
			if err != nil {
				return err
			}
			return runWorker(ctx, cfg, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.output, "stdout", "", "Write results to stdout as json or yaml instead of publishing them")

	return cmd
}

func runWorker(ctx context.Context, cfg *config.Config, opts *workerOptions, cmd *cobra.Command) error {
	logger := slogger.WithComponent("edit-worker")

	slogger.Info(ctx, "Starting edit worker", slogger.Fields{
		"edit_subject":   cfg.Worker.EditSubject,
		"result_subject": cfg.Worker.ResultSubject,
		"queue_group":    cfg.Worker.QueueGroup,
		"debounce_delay": cfg.Worker.DebounceDelay.String(),
	})

	conn, err := outmessaging.Connect(cfg.NATS)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slogger.ErrorWithErrorNoCtx(err, "Failed to drain NATS connection", slogger.Field("nats_url", cfg.NATS.URL))
		}
	}()

	var resultSink outbound.CheckResultSink
	if opts.output != "" {
		format, err := sink.ParseFormat(opts.output)
		if err != nil {
			return err
		}
		if resultSink, err = sink.NewWriterSink(cmd.OutOrStdout(), format); err != nil {
			return err
		}
	} else {
		if resultSink, err = outmessaging.NewResultPublisher(conn.Conn(), cfg.Worker.ResultSubject); err != nil {
			return err
		}
	}

	factory := NewServiceFactory(cfg, logger)
	defer func() {
		if err := factory.Shutdown(context.Background()); err != nil {
			slogger.ErrorWithErrorNoCtx(err, "Failed to shut down meter provider", nil)
		}
	}()

	checker, err := factory.CreatePromptCheckService()
	if err != nil {
		return err
	}

	notifier := debounce.NewNotifier(ctx)
	defer notifier.Close()

	processor, err := worker.NewEditProcessor(
		worker.EditProcessorConfig{DebounceDelay: cfg.Worker.DebounceDelay},
		notifier,
		checker,
		resultSink,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create edit processor: %w", err)
	}

	consumer, err := messaging.NewEditConsumer(
		messaging.ConsumerConfig{Subject: cfg.Worker.EditSubject, QueueGroup: cfg.Worker.QueueGroup},
		conn.Conn(),
		processor,
		logger,
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := consumer.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return consumer.Stop(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := processor.Stats()
	slogger.InfoNoCtx("Edit worker stopped", slogger.Fields{
		"edits_received": stats.EditsReceived,
		"checks_run":     stats.ChecksRun,
		"published":      stats.Published,
	})
	return nil
}
