package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/dto"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/metrics"
)

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	// IdleTTL 동안 요청이 없던 IP 의 limiter 는 정리된다.
	IdleTTL time.Duration
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit 은 IP 별 token bucket 으로 모델 호출 비용이 드는 엔드포인트를 보호한다.
func RateLimit(cfg RateLimitConfig, m *metrics.Metrics) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	every := rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))

	var (
		mu        sync.Mutex
		clients   = make(map[string]*ipLimiter)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > cfg.IdleTTL {
			for k, v := range clients {
				if now.Sub(v.lastSeen) > cfg.IdleTTL {
					delete(clients, k)
				}
			}
			lastSweep = now
		}
		cl, ok := clients[ip]
		if !ok {
			cl = &ipLimiter{limiter: rate.NewLimiter(every, cfg.Burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			if m != nil {
				m.RateLimited.Inc()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponseDTO{Error: "rate_limited"})
			return
		}
		c.Next()
	}
}
