package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"featuresgym/internal/logger"
	"featuresgym/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey      = "notifications"
	failedKey     = "notifications:failed"
	seenKeyPrefix = "notifications:seen:"
	seenTTL       = 7 * 24 * time.Hour
	maxTries      = 3
)

// Dispatcher delivers notifications fire-and-forget. Callers log a dispatch
// error and carry on; a notification never rolls back the state change that
// produced it.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

type Notification struct {
	// Key identifies the event. A key is queued at most once.
	Key     string    `json:"key"`
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis      *redis.Client
	from       string
	fromName   string
	smtpHost   string
	smtpPort   string
	smtpUser   string
	smtpPass   string
	retryDelay time.Duration
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:       fromEmail,
		fromName:   fromName,
		smtpHost:   smtpHost,
		smtpPort:   smtpPort,
		smtpUser:   smtpUser,
		smtpPass:   smtpPass,
		retryDelay: 5 * time.Second,
	}
}

func (s *Service) Dispatch(ctx context.Context, n Notification) error {
	if n.To == "" {
		logger.Debug("Notification without recipient dropped", "key", n.Key, "kind", n.Kind)
		return nil
	}

	if n.Key != "" {
		fresh, err := s.redis.SetNX(ctx, seenKeyPrefix+n.Key, "1", seenTTL).Result()
		if err != nil {
			return fmt.Errorf("dedupe notification %s: %w", n.Key, err)
		}
		if !fresh {
			logger.Debug("Duplicate notification skipped", "key", n.Key)
			return nil
		}
	}

	n.Tries = 0
	n.Created = time.Now()

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Error("Failed to queue notification", "key", n.Key, "to", n.To, "error", err)
		if n.Key != "" {
			// Release the key so a retry of this event is not taken for a duplicate.
			if delErr := s.redis.Del(context.WithoutCancel(ctx), seenKeyPrefix+n.Key).Err(); delErr != nil {
				logger.Error("Failed to release notification key", "key", n.Key, "error", delErr)
			}
		}
		return err
	}

	metrics.RecordNotification(n.Kind, "queued")
	logger.Info("Notification queued", "key", n.Key, "kind", n.Kind, "to", n.To)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}
	metrics.NotificationQueueLength.Set(float64(s.QueueLength(ctx)))

	var n Notification
	if err := json.Unmarshal([]byte(result[1]), &n); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	n.Tries++
	if err := s.sendNow(n); err != nil {
		logger.Error("Failed to deliver notification", "key", n.Key, "to", n.To, "attempt", n.Tries, "error", err)

		if n.Tries < maxTries {
			select {
			case <-ctx.Done():
			case <-time.After(s.retryDelay):
			}
			data, _ := json.Marshal(n)
			s.redis.LPush(context.Background(), queueKey, data)
			return
		}

		metrics.RecordNotification(n.Kind, "failed")
		s.saveFailed(n, err)
		return
	}

	metrics.RecordNotification(n.Kind, "sent")
	logger.Info("Notification delivered", "key", n.Key, "to", n.To)
}

func (s *Service) sendNow(n Notification) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", n.To)
	message += fmt.Sprintf("Subject: %s\r\n", n.Subject)
	message += "\r\n" + n.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{n.To}, []byte(message))
}

func (s *Service) saveFailed(n Notification, err error) {
	failed := map[string]interface{}{
		"notification": n,
		"error":        err.Error(),
		"time":         time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, data)
	logger.Error("Notification moved to failed queue", "key", n.Key, "to", n.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
