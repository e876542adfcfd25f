package core

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// ServiceStats is the payload for the operational stats endpoint.
type ServiceStats struct {
	Users        int   `json:"users"`
	LiveSessions int64 `json:"live_sessions"`
}

// StatsService aggregates account and session counts from Postgres and
// Redis for the stats endpoint.
type StatsService struct {
	users UserRepository
	redis *redis.Client
}

func NewStatsService(users UserRepository, redisClient *redis.Client) *StatsService {
	return &StatsService{users: users, redis: redisClient}
}

// Collect returns the registered-user count and the number of live
// (unexpired) session keys. The session count walks SCAN, so it is a
// point-in-time approximation under concurrent expiry.
func (s *StatsService) Collect(ctx context.Context) (ServiceStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return ServiceStats{}, err
	}

	var sessions int64
	iter := s.redis.Scan(ctx, 0, SessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		sessions++
	}
	if err := iter.Err(); err != nil {
		return ServiceStats{}, err
	}

	return ServiceStats{Users: users, LiveSessions: sessions}, nil
}
