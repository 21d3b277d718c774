package service

import (
	"context"
	"fmt"
	"time"

	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	slotKeyPrefix = "session:slots:"

	// Startup sync processes sessions in batches; a fresh pipeline is created
	// per batch so memory stays bounded.
	slotSyncBatchSize = 500
)

// SlotCacheService mirrors each scheduled session's remaining slot count into
// Redis for cheap availability probes. The database row is the source of
// truth for admission; the mirror is read-side only and resynced after every
// booking-path mutation.
type SlotCacheService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotCacheService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *SlotCacheService {
	return &SlotCacheService{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

// SyncOnStartup rebuilds the mirror for every future scheduled session.
// Called before the server accepts traffic.
func (s *SlotCacheService) SyncOnStartup(ctx context.Context) error {
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	start := time.Now()
	offset := 0
	total := 0

	for {
		var sessions []entity.Session
		err := s.db.WithContext(ctx).
			Where("status = ? AND end_time > ?", entity.SessionStatusScheduled, time.Now().UTC()).
			Order("id").
			Limit(slotSyncBatchSize).
			Offset(offset).
			Find(&sessions).Error
		if err != nil {
			return fmt.Errorf("query sessions at offset %d: %w", offset, err)
		}
		if len(sessions) == 0 {
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, session := range sessions {
			pipe.Set(ctx, slotKey(session.ID), session.AvailableSlots(), slotTTL(session.EndTime))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		total += len(sessions)
		if len(sessions) < slotSyncBatchSize {
			break
		}
		offset += slotSyncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot cache synced: %d sessions in %v", total, time.Since(start))
	return nil
}

// Refresh re-reads one session and overwrites its mirror entry. Errors are
// logged, not returned: the mirror is advisory.
func (s *SlotCacheService) Refresh(ctx context.Context, sessionID uuid.UUID) {
	var session entity.Session
	err := s.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		s.log.Warnf("Failed to load session %s for slot refresh: %+v", sessionID, err)
		return
	}

	if !session.IsScheduled() || session.EndTime.Before(time.Now().UTC()) {
		s.Forget(ctx, sessionID)
		return
	}

	if err := s.redisClient.Set(ctx, slotKey(sessionID), session.AvailableSlots(), slotTTL(session.EndTime)).Err(); err != nil {
		s.log.Warnf("Failed to refresh slot cache for session %s: %+v", sessionID, err)
	}
}

// Forget drops the mirror entry for a cancelled or deleted session.
func (s *SlotCacheService) Forget(ctx context.Context, sessionID uuid.UUID) {
	if err := s.redisClient.Del(ctx, slotKey(sessionID)).Err(); err != nil {
		s.log.Warnf("Failed to drop slot cache for session %s: %+v", sessionID, err)
	}
}

// Remaining returns the mirrored slot count. ok is false on a miss or Redis
// error; callers fall back to the database.
func (s *SlotCacheService) Remaining(ctx context.Context, sessionID uuid.UUID) (int, bool) {
	remaining, err := s.redisClient.Get(ctx, slotKey(sessionID)).Int()
	if err != nil {
		if err != redis.Nil {
			s.log.Warnf("Failed to read slot cache for session %s: %+v", sessionID, err)
		}
		return 0, false
	}
	return remaining, true
}

func slotKey(sessionID uuid.UUID) string {
	return slotKeyPrefix + sessionID.String()
}

// slotTTL keeps the entry one day past the session end, then lets it expire.
func slotTTL(endTime time.Time) time.Duration {
	ttl := time.Until(endTime.AddDate(0, 0, 1))
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
