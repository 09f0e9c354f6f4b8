package auth

import (
	"testing"
	"time"
)

func newTestLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
}

func TestRateLimiter_AllowsInitially(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	allowed, _ := rl.Allow("1.2.3.4", "user@example.com")
	if !allowed {
		t.Error("first attempt should be allowed")
	}
}

func TestRateLimiter_LocksAfterMaxFailures(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	ip, email := "1.2.3.4", "user@example.com"

	for i := 0; i < 2; i++ {
		locked, _ := rl.RecordFailure(ip, email)
		if locked {
			t.Fatalf("locked after %d failures, limit is 3", i+1)
		}
	}

	locked, retryAfter := rl.RecordFailure(ip, email)
	if !locked {
		t.Fatal("third failure should lock the pair out")
	}
	if retryAfter <= 0 {
		t.Errorf("retryAfter = %v, want positive", retryAfter)
	}

	allowed, retryAfter := rl.Allow(ip, email)
	if allowed {
		t.Error("locked pair should not be allowed")
	}
	if retryAfter <= 0 {
		t.Errorf("Allow() retryAfter = %v, want positive", retryAfter)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.RecordFailure("1.2.3.4", "user@example.com")
	}

	// Same email from a different IP is a different key
	if allowed, _ := rl.Allow("5.6.7.8", "user@example.com"); !allowed {
		t.Error("different IP should not be affected by lockout")
	}
	// Different email from the same IP too
	if allowed, _ := rl.Allow("1.2.3.4", "other@example.com"); !allowed {
		t.Error("different email should not be affected by lockout")
	}
}

func TestRateLimiter_SuccessClearsFailures(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	ip, email := "1.2.3.4", "user@example.com"

	rl.RecordFailure(ip, email)
	rl.RecordFailure(ip, email)
	rl.RecordSuccess(ip, email)

	// Counter reset: two more failures still permitted before lockout
	if locked, _ := rl.RecordFailure(ip, email); locked {
		t.Error("failure counter should have been cleared by success")
	}
	if locked, _ := rl.RecordFailure(ip, email); locked {
		t.Error("second failure after reset should not lock")
	}
}
