package grcAuth

import (
	"context"
)

// StatusChangeResult reports the per-id outcome of a bulk status change.
// Failed ids stay in the map with the reason; processed ids are counted.
type StatusChangeResult struct {
	Updated int
	Failed  map[string]string
}

// ActivateUsers describes the activateusers operation and its observable behavior.
//
// ActivateUsers may return an error when input validation, dependency calls, or security checks fail.
// ActivateUsers does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ActivateUsers(ctx context.Context, actorID string, accountIDs []string) (*StatusChangeResult, error) {
	return e.bulkSetActive(ctx, actorID, accountIDs, true)
}

// DeactivateUsers describes the deactivateusers operation and its observable behavior.
//
// DeactivateUsers may return an error when input validation, dependency calls, or security checks fail.
// DeactivateUsers does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) DeactivateUsers(ctx context.Context, actorID string, accountIDs []string) (*StatusChangeResult, error) {
	return e.bulkSetActive(ctx, actorID, accountIDs, false)
}

// bulkSetActive applies the flag per id, collecting failures instead of
// aborting the batch. One audit entry per changed account, attributed to
// the acting administrator.
func (e *Engine) bulkSetActive(ctx context.Context, actorID string, accountIDs []string, active bool) (*StatusChangeResult, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	if err := e.requirePermissions(ctx, actorID, permManageUserStatus); err != nil {
		return nil, err
	}

	actorTier := e.actorTier(ctx, actorID)

	description := "user deactivated"
	if active {
		description = "user activated"
	}

	result := &StatusChangeResult{
		Failed: make(map[string]string),
	}

	for _, id := range accountIDs {
		if id == "" {
			continue
		}

		acct, err := e.directory.GetAccountByID(ctx, id)
		if err != nil {
			result.Failed[id] = "lookup failed"
			continue
		}
		if acct == nil {
			result.Failed[id] = "not found"
			continue
		}
		if acct.Active == active {
			result.Updated++
			continue
		}

		if err := e.directory.UpdateAccountActive(ctx, id, active); err != nil {
			result.Failed[id] = "update failed"
			continue
		}

		result.Updated++
		e.metricInc(MetricAccountStatusChanged)
		e.emitAudit(ctx, actorTier, actorID, id, auditActionUpdate, description)
	}

	return result, nil
}
