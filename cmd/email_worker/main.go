package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/config"
	"github.com/oksasatya/blog-api/pkg/helpers"
	"github.com/oksasatya/blog-api/pkg/mailer"
	mailtpl "github.com/oksasatya/blog-api/pkg/mailer/templates"
)

const sendTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	sender := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	base := mailtpl.NewBaseEmailData(cfg, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			requeue, err := handle(ctx, sender, base, msg.Body)
			if err != nil {
				logger.WithFields(logrus.Fields{"type": msg.Type, "requeue": requeue}).WithError(err).Warn("email not sent")
				_ = msg.Nack(false, requeue)
				continue
			}
			_ = msg.Ack(false)
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEventsQueue)
	<-stop
	logger.Info("shutting down")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle turns one user event into an email and sends it. Malformed or
// unmapped events are dropped; only send failures are worth a retry.
func handle(ctx context.Context, sender mailer.Sender, base mailtpl.EmailData, body []byte) (requeue bool, err error) {
	var ev mailer.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return false, fmt.Errorf("decode event: %w", err)
	}
	job, err := helpers.EmailJobForEvent(ev, base)
	if err != nil {
		return false, err
	}
	if err := helpers.RenderJob(&job); err != nil {
		return false, fmt.Errorf("render %s: %w", job.Template, err)
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := sender.Send(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		return true, fmt.Errorf("send: %w", err)
	}
	return false, nil
}
