package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCandidateIdentity(t *testing.T) {
	router := gin.New()
	router.GET("/me", CandidateIdentity(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"id": CandidateID(ctx)})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "42", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not a number", "abc", http.StatusUnauthorized},
		{"zero", "0", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(CandidateHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMemoryLimiterWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiter.clock = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "k", 2, time.Minute))
	assert.True(t, limiter.Allow(ctx, "k", 2, time.Minute))
	assert.False(t, limiter.Allow(ctx, "k", 2, time.Minute))
	assert.True(t, limiter.Allow(ctx, "other", 2, time.Minute))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, limiter.Allow(ctx, "k", 2, time.Minute))
}

func TestMemoryLimiterEvictsExpiredBuckets(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiter.clock = func() time.Time { return now }
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		assert.True(t, limiter.Allow(ctx, key, 1, time.Minute))
	}
	assert.Len(t, limiter.buckets, 3)

	now = now.Add(2 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "d", 1, time.Minute))

	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "d")
}

func TestRateLimitKeysByCandidate(t *testing.T) {
	router := gin.New()
	router.POST("/apply", CandidateIdentity(), RateLimit(NewMemoryLimiter(), "apply", 1, time.Minute), func(ctx *gin.Context) {
		ctx.Status(http.StatusCreated)
	})

	send := func(candidate string) int {
		req := httptest.NewRequest(http.MethodPost, "/apply", nil)
		req.Header.Set(CandidateHeader, candidate)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send("1"))
	assert.Equal(t, http.StatusTooManyRequests, send("1"))
	assert.Equal(t, http.StatusCreated, send("2"))
}

func TestRedisLimiterFailsOpenWithoutClient(t *testing.T) {
	var limiter *RedisLimiter
	assert.True(t, limiter.Allow(context.Background(), "k", 1, time.Minute))
}
