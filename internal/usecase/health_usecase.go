package usecase

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	db    Pinger
	redis func(ctx context.Context) error
}

// NewHealthUsecase reports database and cache status. redisCheck may be nil
// when no Redis is configured.
func NewHealthUsecase(db Pinger, redisCheck func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{db: db, redis: redisCheck}
}

// Check returns per-dependency status and whether the service is usable.
// Redis is optional and never marks the service unhealthy.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok", "redis": "disabled"}
	healthy := true

	if u.db == nil || u.db.Ping(ctx) != nil {
		status["database"] = "unavailable"
		status["status"] = "degraded"
		healthy = false
	}

	if u.redis != nil {
		if err := u.redis(ctx); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	return status, healthy
}
