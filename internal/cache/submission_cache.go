package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recentTextsKeep   = 10
	recentTextsTTL    = 48 * time.Hour
	submissionWindow  = 10 * time.Minute
	recentTextsPrefix = "recent_texts:"
	windowPrefix      = "submission_window:"
)

// SubmissionCache keeps the short-lived per-user submission state the
// quality assessor consults: the last few raw texts for duplicate
// detection and a 10-minute submission counter for cadence flags.
type SubmissionCache interface {
	RecordSubmission(ctx context.Context, userID string, texts []string) error
	RecentTexts(ctx context.Context, userID string) ([]string, error)
	// WindowCount returns submissions recorded in the trailing window,
	// including the current one once recorded.
	WindowCount(ctx context.Context, userID string) (int, error)
}

type submissionCache struct {
	client *redis.Client
}

func NewSubmissionCache(client *redis.Client) SubmissionCache {
	return &submissionCache{
		client: client,
	}
}

func (c *submissionCache) RecordSubmission(ctx context.Context, userID string, texts []string) error {
	textsKey := recentTextsPrefix + userID
	windowKey := windowPrefix + userID

	pipe := c.client.Pipeline()
	for _, text := range texts {
		pipe.LPush(ctx, textsKey, text)
	}
	pipe.LTrim(ctx, textsKey, 0, recentTextsKeep-1)
	pipe.Expire(ctx, textsKey, recentTextsTTL)

	pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, submissionWindow)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *submissionCache) RecentTexts(ctx context.Context, userID string) ([]string, error) {
	texts, err := c.client.LRange(ctx, recentTextsPrefix+userID, 0, recentTextsKeep-1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return texts, err
}

func (c *submissionCache) WindowCount(ctx context.Context, userID string) (int, error) {
	count, err := c.client.Get(ctx, windowPrefix+userID).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}
