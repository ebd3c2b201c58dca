package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/guestportal/config"
	"github.com/Domenick1991/guestportal/internal/email"
	"github.com/Domenick1991/guestportal/internal/kafka"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var generator email.ConfirmationGenerator
	gen, err := email.NewGenerator(ctx, cfg.AI)
	switch {
	case errors.Is(err, email.ErrNotConfigured):
		log.Printf("WARNING: GEMINI_API_KEY not set, confirmation emails are disabled")
	case err != nil:
		log.Fatalf("create email generator: %v", err)
	default:
		generator = gen
	}
	emailSender := email.NewSender(generator)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	log.Printf("worker consuming topic=%s group=%s", cfg.Kafka.NotificationsTopic, cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, kafka.BookingEventHandler(emailSender.Send)); err != nil {
		log.Printf("consumer stopped: %v", err)
	}
	log.Println("worker shut down")
}
