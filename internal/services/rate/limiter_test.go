package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/LocoMediaDK/MidjourneyMaster/internal/repo/redis"
)

func TestLimiterBlocksOnMinuteWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 3, 100)

	ctx := context.Background()
	email := "koeber@example.dk"

	for i := 0; i < 3; i++ {
		retryAfter, allowed, err := limiter.AllowLogin(ctx, email)
		if err != nil {
			t.Fatalf("allow login #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowLogin(ctx, email)
	if err != nil {
		t.Fatalf("allow login #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on fourth attempt in minute window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	currentRetry, err := limiter.RetryAfterLogin(ctx, email)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if currentRetry <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", currentRetry)
	}

	mr.FastForward(61 * time.Second)

	retryAfter, allowed, err = limiter.AllowLogin(ctx, email)
	if err != nil {
		t.Fatalf("allow login after minute window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterNormalizesEmailKey(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 2, 100)

	ctx := context.Background()

	if _, _, err := limiter.AllowLogin(ctx, "Koeber@Example.dk"); err != nil {
		t.Fatalf("allow login #1: %v", err)
	}
	if _, _, err := limiter.AllowLogin(ctx, "  koeber@example.dk "); err != nil {
		t.Fatalf("allow login #2: %v", err)
	}

	_, allowed, err := limiter.AllowLogin(ctx, "KOEBER@example.dk")
	if err != nil {
		t.Fatalf("allow login #3: %v", err)
	}
	if allowed {
		t.Fatal("expected case variants to share one window")
	}
}

func TestLimiterTracksEmailsIndependently(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 1, 100)

	ctx := context.Background()

	if _, allowed, err := limiter.AllowLogin(ctx, "a@example.dk"); err != nil || !allowed {
		t.Fatalf("first email should be allowed: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowLogin(ctx, "b@example.dk"); err != nil || !allowed {
		t.Fatalf("second email should be allowed: allowed=%v err=%v", allowed, err)
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
