package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// QuestionCache remembers model-generated question banks per subject and
// topic so repeated interviews on the same topic skip the model call.
type QuestionCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewQuestionCache(client *redisv9.Client, ttl time.Duration) *QuestionCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &QuestionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *QuestionCache) GetQuestions(ctx context.Context, subject, topic string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(subject, topic)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get questions failed: %w", err)
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached questions failed: %w", err)
	}
	return questions, true, nil
}

func (c *QuestionCache) SetQuestions(ctx context.Context, subject, topic string, questions []string) error {
	payload, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal questions cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(subject, topic), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set questions failed: %w", err)
	}
	return nil
}

func (c *QuestionCache) key(subject, topic string) string {
	norm := func(s string) string { return strings.ToLower(strings.Join(strings.Fields(s), " ")) }
	return fmt.Sprintf("interview:questions:%s:%s", norm(subject), norm(topic))
}
