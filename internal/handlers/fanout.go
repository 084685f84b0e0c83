package handlers

import (
	"context"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/avdbp/bridgea-backend/pkg/logger"
	"github.com/sirupsen/logrus"
)

// notify creates a single notification as a side effect of a primary action.
// Delivery is synchronous, at-most-once and best-effort: a failed insert is
// logged and never fails or rolls back the action that triggered it.
func notify(ctx context.Context, repo repositories.NotificationRepository, n *models.Notification) {
	if n.Recipient == n.Sender {
		return
	}
	if err := repo.CreateNotification(ctx, n); err != nil {
		logger.WithFields(logrus.Fields{
			"type":      n.Type,
			"recipient": n.Recipient.Hex(),
		}).WithError(err).Warn("notification fan-out failed")
	}
}

// notifyMany fans a batch of notifications out in one write, best-effort
func notifyMany(ctx context.Context, repo repositories.NotificationRepository, notifications []models.Notification) {
	if len(notifications) == 0 {
		return
	}
	if err := repo.CreateNotifications(ctx, notifications); err != nil {
		logger.WithField("count", len(notifications)).WithError(err).Warn("notification fan-out failed")
	}
}
