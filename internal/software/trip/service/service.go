package service

import (
	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/ports"
)

// tripService encapsulates the trip lifecycle logic and dependencies.
type tripService struct {
	logger    *logger.Logger
	uow       ports.UnitOfWork
	tripRepo  ports.TripRepository
	eventRepo ports.TripEventRepository
	mq        ports.MessagePublisher
}

// NewTripService creates a new instance of the TripService with the provided dependencies.
func NewTripService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	tripRepo ports.TripRepository,
	eventRepo ports.TripEventRepository,
	mq ports.MessagePublisher,
) ports.TripService {
	return &tripService{
		logger:    logger,
		uow:       uow,
		tripRepo:  tripRepo,
		eventRepo: eventRepo,
		mq:        mq,
	}
}
