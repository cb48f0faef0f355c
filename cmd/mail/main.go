package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/schichtwerk/schichtplaner/backend/internal/config"
	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/notification"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Konfiguration konnte nicht geladen werden", slog.String("error", err.Error()))
		return
	}

	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("Mail-Client konnte nicht erstellt werden", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("Mailserver nicht erreichbar", slog.String("error", err.Error()))
		return
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("RabbitMQ nicht erreichbar", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("RabbitMQ-Kanal konnte nicht geöffnet werden", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		notification.QueueName,
		true,  // durable
		false, // no auto delete, the queue must survive idle periods
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("Warteschlange konnte nicht deklariert werden", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack, failed deliveries get requeued
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("Nachrichten können nicht konsumiert werden", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				handleMessage(cfg, client, msg)
			}
		}
	}()

	logger.Info("warte auf Nachrichten... (CTRL+C zum Beenden)")
	<-sigChan

	slog.Info("Mail-Worker wird heruntergefahren...")
	cancel()
	wg.Wait()
	slog.Info("Mail-Worker beendet")
}

func handleMessage(cfg *config.Config, client *mail.Client, msg amqp.Delivery) {
	slog.Info("Nachricht empfangen", slog.String("message", string(msg.Body)))

	mailMessage := domain.MailMessage{}
	if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
		slog.Error("Nachricht konnte nicht deserialisiert werden", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		slog.Error("Absender konnte nicht gesetzt werden", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	to := mailMessage.To
	if mailMessage.Type == domain.NotificationTypeUnderstaffing && to == "" {
		// understaffing alerts go to the configured planner inbox
		to = cfg.Email.AlertRecipient
	}
	if err := m.To(to); err != nil {
		slog.Error("Empfänger konnte nicht gesetzt werden", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	var (
		templateFile string
		subject      string
	)
	switch mailMessage.Type {
	case "create_employee":
		templateFile = "./templates/new_account_email.html"
		subject = "Schichtplaner - Zugangsdaten"
	case "reset_password":
		templateFile = "./templates/reset_password_otp_email.html"
		subject = "Schichtplaner - Passwort zurücksetzen"
	case domain.NotificationTypeUnderstaffing:
		templateFile = "./templates/understaffing_alert_email.html"
		subject = "Schichtplaner - Unterbesetzung"
	default:
		slog.Error("unbekannter Nachrichtentyp", slog.String("type", mailMessage.Type))
		_ = msg.Nack(false, false)
		return
	}

	tmpl, err := template.ParseFiles(templateFile)
	if err != nil {
		slog.Error("Mail-Vorlage konnte nicht geladen werden", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
		slog.Error("Mail-Text konnte nicht gesetzt werden", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(subject)

	if err := client.DialAndSend(m); err != nil {
		slog.Error("Mail-Versand fehlgeschlagen", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // requeue
		return
	}

	_ = msg.Ack(false)
}
