// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// KeyPrefix is the prefix for all per-user keys
	KeyPrefix = "users:"
	// ChannelPrefix is the prefix for daily document change notifications
	ChannelPrefix = "dailyStats:"
)

// mergeDailyScript upserts the given fields, stamps the server time into
// the date field, bumps the document revision and notifies listeners in
// one atomic step.
// KEYS[1] = document key, ARGV[1] = channel, ARGV[2..] = field/value pairs.
var mergeDailyScript = redis.NewScript(`
local now = redis.call('TIME')
if #ARGV > 1 then
	redis.call('HSET', KEYS[1], unpack(ARGV, 2))
end
redis.call('HSET', KEYS[1], 'date', now[1])
local rev = redis.call('HINCRBY', KEYS[1], 'rev', 1)
redis.call('PUBLISH', ARGV[1], rev)
return rev
`)

// RedisStore persists daily documents, progression and exams in Redis
// hashes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func makeUserKey(userID string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, userID)
}

func makeDailyKey(userID, date string) string {
	return fmt.Sprintf("%s%s:dailyStats:%s", KeyPrefix, userID, date)
}

func makeExamsKey(userID string) string {
	return fmt.Sprintf("%s%s:exams", KeyPrefix, userID)
}

func makeDailyChannel(userID, date string) string {
	return fmt.Sprintf("%s%s:%s", ChannelPrefix, userID, date)
}

// GetDailyMetrics loads the daily document for date.
// The bool result is false when no document exists yet.
func (r *RedisStore) GetDailyMetrics(ctx context.Context, userID, date string) (DailyMetrics, bool, error) {
	hash, err := r.client.HGetAll(ctx, makeDailyKey(userID, date)).Result()
	if err != nil {
		logrus.Errorf("failed to get daily metrics for user %s on %s: %v", userID, date, err)
		return DailyMetrics{Date: date}, false, fmt.Errorf("failed to get daily metrics: %w", err)
	}
	if len(hash) == 0 {
		return DailyMetrics{Date: date}, false, nil
	}

	return decodeDailyMetrics(date, hash), true, nil
}

// MergeDailyMetrics upserts only the patched fields of the daily document.
// Fields that are not in the patch are left untouched. Returns the document
// revision produced by this write.
func (r *RedisStore) MergeDailyMetrics(ctx context.Context, userID, date string, patch Patch) (int64, error) {
	args := append([]interface{}{makeDailyChannel(userID, date)}, encodePatch(patch)...)

	rev, err := mergeDailyScript.Run(ctx, r.client, []string{makeDailyKey(userID, date)}, args...).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to merge daily metrics: %w", err)
	}

	logrus.Debugf("merged %d fields into daily metrics for user %s on %s (rev %d)", len(patch), userID, date, rev)
	return rev, nil
}

// ListDailyMetrics loads the documents for the given dates in one round
// trip. Dates without a document are omitted.
func (r *RedisStore) ListDailyMetrics(ctx context.Context, userID string, dates []string) ([]DailyMetrics, error) {
	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(dates))
	for i, date := range dates {
		cmds[i] = pipe.HGetAll(ctx, makeDailyKey(userID, date))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to list daily metrics: %w", err)
	}

	history := make([]DailyMetrics, 0, len(dates))
	for i, cmd := range cmds {
		hash := cmd.Val()
		if len(hash) == 0 {
			continue
		}
		history = append(history, decodeDailyMetrics(dates[i], hash))
	}
	return history, nil
}

// Subscribe delivers the full daily document every time it changes.
// The channel is closed when ctx is cancelled.
func (r *RedisStore) Subscribe(ctx context.Context, userID, date string) (<-chan DailyMetrics, error) {
	pubsub := r.client.Subscribe(ctx, makeDailyChannel(userID, date))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to daily metrics: %w", err)
	}

	out := make(chan DailyMetrics, 1)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				metrics, found, err := r.GetDailyMetrics(ctx, userID, date)
				if err != nil || !found {
					continue
				}
				select {
				case out <- metrics:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	logrus.Debugf("subscribed to daily metrics for user %s on %s", userID, date)
	return out, nil
}

// GetProgression retrieves the progression state of a user.
// A user without a profile gets a zero state.
func (r *RedisStore) GetProgression(ctx context.Context, userID string) (*ProgressionState, error) {
	hash, err := r.client.HGetAll(ctx, makeUserKey(userID)).Result()
	if err != nil {
		logrus.Errorf("failed to get progression for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to get progression: %w", err)
	}

	p := &ProgressionState{LastActiveDate: hash[FieldLastActiveDate]}
	if raw, ok := hash[FieldStreak]; ok {
		if p.StreakDays, err = strconv.Atoi(raw); err != nil {
			logrus.Warnf("ignoring malformed streak %q for user %s", raw, userID)
		}
	}
	if raw, ok := hash[FieldLevel]; ok {
		if p.Level, err = strconv.Atoi(raw); err != nil {
			logrus.Warnf("ignoring malformed level %q for user %s", raw, userID)
		}
	}

	return p, nil
}

// SaveProgression merges the progression fields into the user profile.
func (r *RedisStore) SaveProgression(ctx context.Context, userID string, p *ProgressionState) error {
	err := r.client.HSet(ctx, makeUserKey(userID),
		FieldStreak, p.StreakDays,
		FieldLevel, p.Level,
		FieldLastActiveDate, p.LastActiveDate,
	).Err()
	if err != nil {
		logrus.Errorf("failed to save progression for user %s: %v", userID, err)
		return fmt.Errorf("failed to save progression: %w", err)
	}

	logrus.Infof("saved progression for user %s: streak=%d level=%d", userID, p.StreakDays, p.Level)
	return nil
}

// ListExams returns the exams of a user ordered by ID.
func (r *RedisStore) ListExams(ctx context.Context, userID string) ([]Exam, error) {
	hash, err := r.client.HGetAll(ctx, makeExamsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	exams := make([]Exam, 0, len(hash))
	for id, raw := range hash {
		var exam Exam
		if err := json.Unmarshal([]byte(raw), &exam); err != nil {
			logrus.Warnf("skipping malformed exam %s for user %s: %v", id, userID, err)
			continue
		}
		exam.ID = id
		exams = append(exams, exam)
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].ID < exams[j].ID })

	return exams, nil
}

// PutExam creates or replaces an exam record.
func (r *RedisStore) PutExam(ctx context.Context, userID string, exam Exam) error {
	data, err := json.Marshal(exam)
	if err != nil {
		return fmt.Errorf("failed to marshal exam: %w", err)
	}
	if err := r.client.HSet(ctx, makeExamsKey(userID), exam.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to put exam: %w", err)
	}
	return nil
}

// DeleteExam removes an exam record. Deleting a missing exam is not an error.
func (r *RedisStore) DeleteExam(ctx context.Context, userID, examID string) error {
	if err := r.client.HDel(ctx, makeExamsKey(userID), examID).Err(); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	return nil
}
