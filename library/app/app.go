package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-lending/library/config"
	"github.com/Astemirdum/library-lending/library/internal/handler"
	"github.com/Astemirdum/library-lending/library/internal/server"
	"github.com/Astemirdum/library-lending/library/internal/service"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, err := NewCore(ctx, cfg, log)
	if err != nil {
		log.Fatal("init", zap.Error(err))
	}
	defer core.Close()

	gg, gctx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.MailConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		gg.Go(func() error {
			kafka.Consume(gctx, consumer, handler.NewMailConsumer(core.Sender.Send, log), log, kafka.MailTopic)
			return nil
		})
		gg.Go(func() error {
			<-gctx.Done()
			return consumer.Close()
		})
	}

	reminder := service.NewReminder(core.Service, cfg.Lending.ReminderInterval, cfg.Lending.DueSoonWindow, log)
	gg.Go(func() error {
		reminder.Run(gctx)
		return nil
	})

	h := handler.New(core.Service, core.Chat(cfg.LLM), cfg.Auth, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	gg.Go(func() error {
		return srv.Run()
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-gctx.Done():
		log.Error("background task stopped, shutting down")
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err := gg.Wait(); err != nil {
		log.Error("background", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
