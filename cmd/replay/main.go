// Command replay decodes an ITCH 5.0 feed file, runs it through a
// single-symbol Processor, and logs book events as they occur — the
// demonstration driver for the decode -> process -> handle pipeline.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"itch50/internal/application/service/decoder"
	"itch50/internal/application/service/processor"
	"itch50/internal/config"
	"itch50/internal/domain/entity/book"
	"itch50/internal/domain/interfaces"
	amqpsink "itch50/internal/infrastructure/sink/amqp"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	file, err := os.Open(cfg.InputPath)
	if err != nil {
		logger.Fatalf("open input file: %v", err)
	}
	defer file.Close()

	framing := decoder.LengthPrefixed
	if cfg.FramingMode == "fixed-by-type" {
		framing = decoder.FixedByType
	}
	dec := decoder.New(file, decoder.WithFraming(framing))

	symbol := book.Symbol(cfg.Symbol)
	proc := processor.New(symbol, logger)
	proc.SnapshotDepth = cfg.SnapshotDepth
	proc.OnError = func(err error) {
		logger.WithError(err).Debug("processor absorbed error")
	}

	proc.Register(&consoleHandler{symbol: symbol, logger: logger.WithField("handler", "console")})

	if cfg.RabbitMQ.Enabled {
		publisher, err := amqpsink.NewPublisher(ctx, amqpsink.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Batch: amqpsink.BatchConfig{
				Size:    cfg.RabbitMQ.BatchSize,
				Timeout: cfg.RabbitMQ.BatchDelay,
			},
		}, logger)
		if err != nil {
			logger.Fatalf("init amqp publisher: %v", err)
		}
		defer publisher.Close(ctx)
		proc.Register(publisher)
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("replay cancelled")
			return
		default:
		}

		msg, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Fatalf("decode error: %v", err)
		}
		if err := proc.Process(msg); err != nil {
			logger.Fatalf("processor error: %v", err)
		}
		count++
	}

	logger.WithFields(logrus.Fields{
		"messages": count,
		"status":   proc.Status().String(),
	}).Info("replay complete")
}

// consoleHandler logs a subset of events to give an operator a live feed
// without wiring a downstream sink.
type consoleHandler struct {
	interfaces.NopHandler
	symbol book.Symbol
	logger *logrus.Entry
}

func (h *consoleHandler) TradingStatusChanged(symbol book.Symbol, ts book.Timestamp, status interfaces.TradingStatus) {
	h.logger.WithFields(logrus.Fields{"ts": uint64(ts), "status": status.String()}).Info("trading status changed")
}

func (h *consoleHandler) ExecuteTrade(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference, match book.MatchNumber) {
	h.logger.WithFields(logrus.Fields{"ts": uint64(ts), "volume": int64(volume), "ref": uint64(ref)}).Debug("executed")
}
