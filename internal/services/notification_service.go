package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"project-system/pkg/config"
	apperrors "project-system/pkg/errors"
)

type NotificationServiceInterface interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type notificationService struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewNotificationService создаёт почтовый сервис. При пустом хосте SMTP
// письма не отправляются, а пишутся в лог: так поднимается локальное
// окружение без почтового сервера.
func NewNotificationService(cfg config.SMTPConfig, logger *zap.Logger) NotificationServiceInterface {
	return &notificationService{cfg: cfg, logger: logger}
}

func (s *notificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return nil
	}

	if s.cfg.Host == "" {
		s.logger.Info("Почта (mock): письмо не отправлено, SMTP не настроен",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", body),
		)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("Почта: ошибка отправки", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamFailure, err)
	}

	s.logger.Info("Почта: письмо отправлено", zap.String("to", to), zap.String("subject", subject))
	return nil
}
