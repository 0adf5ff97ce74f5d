package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

type workerOptions struct {
	queue       string
	group       string
	metricsAddr string
}

func newWorkerCmd() *cobra.Command {
	var opts workerOptions
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume storefront events from the configured broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWorker(ctx, bootConfig(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.queue, "queue", "storefront.events.log", "RabbitMQ queue to bind to every event type")
	cmd.Flags().StringVar(&opts.group, "group", "storefront-worker", "Kafka consumer group")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", ":9091", "address serving /metrics, empty to disable")
	return cmd
}

func runWorker(ctx context.Context, rt *runtime, opts workerOptions) error {
	if opts.metricsAddr != "" {
		srv := fiber.New(fiber.Config{DisableStartupMessage: true})
		srv.Get("/metrics", metrics.Handler())
		go func() {
			if err := srv.Listen(opts.metricsAddr); err != nil {
				rt.log.Error("metrics listener stopped", "error", err)
			}
		}()
		defer srv.Shutdown()
	}

	handle := events.LogHandler(rt.log)
	switch rt.cfg.EventsDriver {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      rt.cfg.RabbitMQURL,
			Exchange: rt.cfg.RabbitMQExchange,
			Logger:   rt.log,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		return client.Consume(ctx, opts.queue, []string{"#"}, func(msg amqp.Delivery) error {
			return handle(msg.Body)
		})
	case "kafka":
		consumer, err := kafka.NewConsumer(rt.cfg.KafkaBrokers, opts.group, events.Topics, rt.log)
		if err != nil {
			return err
		}
		defer consumer.Close()
		return consumer.Consume(ctx, func(_, value []byte) error {
			return handle(value)
		})
	}
	return fmt.Errorf("worker needs EVENTS_DRIVER=rabbitmq or kafka, got %q", rt.cfg.EventsDriver)
}
