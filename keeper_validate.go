package goKeep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ValidateAll re-checks every remembered session against the caller's
// remote authority and evicts the ones that fail. Accounts are processed
// strictly sequentially, and the whole pass holds the keeper's critical
// section: an eviction triggered by one account can never race a
// concurrent read or a later account addition.
//
// A false result or an error (including a panicking callback) evicts that
// account immediately, before the next one is checked; the pass itself
// continues. The returned slice covers every checked account, evicted ones
// included (with a nil Account and the triggering error), so callers can
// report outcomes without re-querying. No timeout is imposed on fn — bound
// it through ctx.
//
// With Config.Validation.LocalExpiryCheck set, tokens that parse as JWTs
// with an expiry in the past are evicted locally without calling fn.
func (k *Keeper) ValidateAll(ctx context.Context, fn RemoteValidator) ([]ValidationResult, error) {
	if fn == nil {
		return nil, errors.New("goKeep: ValidateAll requires a validator")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	usernames, err := k.listUsernamesLocked(ctx)
	if err != nil {
		return nil, err
	}

	var results []ValidationResult
	for _, username := range usernames {
		token, found, err := k.sub.Get(ctx, tokenKey(username))
		if err != nil {
			return results, err
		}
		if !found {
			continue
		}
		account, err := k.getAccountLocked(ctx, username)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrProfileCorrupt) {
				// Token without usable profile data: not a validatable
				// session, and not this pass's job to clean up.
				continue
			}
			return results, err
		}

		if k.config.Validation.LocalExpiryCheck && jwtExpired(token) {
			if err := k.deleteAccountLocked(ctx, username); err != nil {
				return results, err
			}
			k.metrics.Inc(MetricValidationFailed)
			k.emitAudit(ctx, auditEventSessionEvict, username, false, ErrTokenExpired)
			results = append(results, ValidationResult{Username: username, Err: ErrTokenExpired})
			continue
		}

		valid, verr := callValidator(ctx, fn, username, token)
		if valid && verr == nil {
			k.metrics.Inc(MetricValidationPassed)
			k.emitAudit(ctx, auditEventValidatePass, username, true, nil)
			results = append(results, ValidationResult{Username: username, Valid: true, Account: account})
			continue
		}

		if err := k.deleteAccountLocked(ctx, username); err != nil {
			return results, err
		}
		if verr != nil {
			k.metrics.Inc(MetricValidationErrored)
		} else {
			k.metrics.Inc(MetricValidationFailed)
		}
		k.emitAudit(ctx, auditEventSessionEvict, username, false, verr)
		results = append(results, ValidationResult{Username: username, Err: verr})
	}

	return results, nil
}

// callValidator invokes fn with panic recovery. A panicking callback is a
// validation failure via the error path, never a crashed pass.
func callValidator(ctx context.Context, fn RemoteValidator, username, token string) (valid bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
			err = fmt.Errorf("%w: %v", ErrValidatorPanic, r)
		}
	}()
	return fn(ctx, username, token)
}

// jwtExpired reports whether token is a JWT whose exp claim is in the
// past. The parse is unverified: this is a local screening step, not a
// trust decision, and tokens that are not JWTs are left to the remote
// authority.
func jwtExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
