package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-timeoff/internal/balance"
	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmployeeLifecycle provisions a default leave balance for every new
// hire announced on the lifecycle topic. Redelivered events are committed
// and skipped once the balance row exists.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	balanceService balance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = balanceService.CreateDefault(ctx, event.EmployeeID)
		if err != nil {
			if errors.Is(err, balanceerrors.ErrBalanceAlreadyExists) {
				log.Warn("leave balance already exists for event, skipping",
					zap.String("employee_id", event.EmployeeID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("create default leave balance failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave balance provisioned from employee_created event",
			zap.String("employee_id", event.EmployeeID),
		)
	}
}
