package jobs

import (
	"context"
	"time"

	"squadhub-backend/internal/logger"
)

// ExpireSubscriptions deactivates paid subscriptions whose period has
// lapsed. Expired users keep their tier label but lose the paid
// entitlements until they renew.
func (jr *JobRunner) ExpireSubscriptions() {
	jr.runWithRecovery("ExpireSubscriptions", func() {
		ctx := context.Background()
		asOf := time.Now().UTC().Format("2006-01-02")

		expired, err := jr.store.UserRepository.ExpireSubscriptions(ctx, asOf)
		if err != nil {
			logger.Error("Failed to expire subscriptions", "error", err)
			return
		}
		logger.Info("Expired subscriptions", "count", expired, "as_of", asOf)
	})
}

// RefreshOrgStatuses reconciles every organization's FULL/ACTIVE status
// against its live member count. Normally the per-operation refreshes keep
// this converged; the sweep catches anything a crash left behind.
func (jr *JobRunner) RefreshOrgStatuses() {
	jr.runWithRecovery("RefreshOrgStatuses", func() {
		ctx := context.Background()

		updated, err := jr.store.OrganizationRepository.RefreshAllCapacityStatuses(ctx)
		if err != nil {
			logger.Error("Failed to refresh organization statuses", "error", err)
			return
		}
		logger.Info("Refreshed organization statuses", "count", updated)
	})
}
