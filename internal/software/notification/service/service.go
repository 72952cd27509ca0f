package service

import (
	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/general/rabbitmq"
	"taxi-trips/internal/ports"
)

// notificationService sends trip summaries for completed trips.
type notificationService struct {
	logger *logger.Logger
	mailer   ports.Mailer
	mq       *rabbitmq.Client
	prefetch int
}

// NewNotificationService creates a new instance of the NotificationService with the provided dependencies.
func NewNotificationService(
	logger *logger.Logger,
	mailer ports.Mailer,
	mq *rabbitmq.Client,
	prefetch int,
) ports.NotificationService {
	return &notificationService{
		logger:   logger,
		mailer:   mailer,
		mq:       mq,
		prefetch: prefetch,
	}
}
