package service

import (
	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/general/rabbitmq"
	"taxi-trips/internal/ports"
)

// paymentService settles completed trips delivered over RabbitMQ.
type paymentService struct {
	logger      *logger.Logger
	uow         ports.UnitOfWork
	paymentRepo ports.PaymentRepository
	gateway     ports.CaptureGateway
	pub         ports.MessagePublisher
	mq          *rabbitmq.Client
	prefetch    int
}

// NewPaymentService creates a new instance of the PaymentService with the provided dependencies.
func NewPaymentService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	paymentRepo ports.PaymentRepository,
	gateway ports.CaptureGateway,
	pub ports.MessagePublisher,
	mq *rabbitmq.Client,
	prefetch int,
) ports.PaymentService {
	return &paymentService{
		logger:      logger,
		uow:         uow,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		pub:         pub,
		mq:          mq,
		prefetch:    prefetch,
	}
}
