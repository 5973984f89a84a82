package goKeep

import (
	"context"
	"errors"
	"time"
)

// Audit event types emitted by the keeper.
const (
	auditEventAccountStore  = "account_store"
	auditEventAccountDelete = "account_delete"
	auditEventAccountActive = "account_active"
	auditEventValidatePass  = "session_validate"
	auditEventSessionEvict  = "session_evict"
)

// AuditErrorCode defines a public type used by goKeep APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrTokenExpired    AuditErrorCode = "token_expired"
	auditErrValidatorPanic  AuditErrorCode = "validator_panic"
	auditErrRoleMismatch    AuditErrorCode = "role_mismatch"
	auditErrIdentifier      AuditErrorCode = "identifier_invalid"
	auditErrStorageFailed   AuditErrorCode = "storage_failed"
	auditErrAccountNotFound AuditErrorCode = "account_not_found"
	auditErrInternal        AuditErrorCode = "internal_error"
)

func (k *Keeper) emitAudit(ctx context.Context, eventType, username string, success bool, err error) {
	if k == nil || k.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		Success:   success,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	k.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrValidatorPanic):
		return auditErrValidatorPanic
	case errors.Is(err, ErrRoleMismatch):
		return auditErrRoleMismatch
	case errors.Is(err, ErrIdentifierInvalid):
		return auditErrIdentifier
	case errors.Is(err, ErrAccountNotFound):
		return auditErrAccountNotFound
	case errors.Is(err, ErrTokenWriteFailed),
		errors.Is(err, ErrProfileWriteFailed),
		errors.Is(err, ErrRosterWriteFailed):
		return auditErrStorageFailed
	default:
		return auditErrInternal
	}
}
