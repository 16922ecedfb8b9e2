package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"formfitness/internal/logger"
	"formfitness/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "formfitness:emails"
	failedQueueKey = "formfitness:emails:failed"
	maxTries       = 3
	popTimeout     = 2 * time.Second
)

// Kinds label mails in logs and metrics.
const (
	KindGeneric              = "generic"
	KindBookingConfirmation  = "booking_confirmation"
	KindBookingCancellation  = "booking_cancellation"
	KindFreezeNotice         = "freeze_notice"
	KindSubscriptionAssigned = "subscription_assigned"
)

type Job struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

// Service queues mails in Redis and delivers them over SMTP from Start.
type Service struct {
	redis      *redis.Client
	smtp       SMTPConfig
	retryDelay time.Duration
	send       func(Job) error
}

func NewService(client *redis.Client, cfg SMTPConfig) *Service {
	s := &Service{
		redis:      client,
		smtp:       cfg,
		retryDelay: 5 * time.Second,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, Job{Kind: KindGeneric, To: to, Name: name, Subject: subject, Body: body})
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		logger.Error("Failed to marshal email job", "error", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("Failed to queue email", "to", job.To, "error", err)
		return err
	}

	logger.Info("Email queued", "kind", job.Kind, "to", job.To)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("Bad email data", "error", err)
		return
	}

	job.Tries++
	logger.Debug("Sending email", "to", job.To, "attempt", job.Tries)
	if err := s.send(job); err != nil {
		logger.Error("Failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			if s.retryDelay > 0 {
				time.Sleep(s.retryDelay)
			}
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
			return
		}

		metrics.RecordEmail(job.Kind, "failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordEmail(job.Kind, "success")
	logger.Info("Email sent", "kind", job.Kind, "to", job.To)
}

func (s *Service) sendSMTP(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.smtp.FromName, s.smtp.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtp.User != "" && s.smtp.Pass != "" {
		auth = smtp.PlainAuth("", s.smtp.User, s.smtp.Pass, s.smtp.Host)
	}

	addr := s.smtp.Host + ":" + s.smtp.Port
	return smtp.SendMail(addr, auth, s.smtp.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, string(data))
	logger.Error("Email moved to failed queue", "to", job.To, "kind", job.Kind)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

const signature = "\n\n- FormFitness"

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, className, day, startTime string) error {
	return s.enqueue(ctx, Job{
		Kind:    KindBookingConfirmation,
		To:      to,
		Name:    name,
		Subject: "Booking confirmed - " + className,
		Body: fmt.Sprintf("Hi %s,\n\nYou are booked for %s on %s at %s.\n\nSee you at the club!%s",
			name, className, day, startTime, signature),
	})
}

func (s *Service) SendCancellation(ctx context.Context, to, name, className, day string) error {
	return s.enqueue(ctx, Job{
		Kind:    KindBookingCancellation,
		To:      to,
		Name:    name,
		Subject: "Booking cancelled - " + className,
		Body:    fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s has been cancelled.%s", name, className, day, signature),
	})
}

func (s *Service) SendFreezeNotice(ctx context.Context, to, name, until string) error {
	return s.enqueue(ctx, Job{
		Kind:    KindFreezeNotice,
		To:      to,
		Name:    name,
		Subject: "Subscription frozen",
		Body:    fmt.Sprintf("Hi %s,\n\nYour subscription is frozen until %s.%s", name, until, signature),
	})
}

func (s *Service) SendSubscriptionAssigned(ctx context.Context, to, name, plan, endDate string) error {
	return s.enqueue(ctx, Job{
		Kind:    KindSubscriptionAssigned,
		To:      to,
		Name:    name,
		Subject: "Your subscription is active",
		Body:    fmt.Sprintf("Hi %s,\n\nYour %s subscription is active until %s.%s", name, plan, endDate, signature),
	})
}
