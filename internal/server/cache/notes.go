// Package cache provides a Redis cache-aside layer for note reads.
// Mutations invalidate aggressively; the source of truth stays in Postgres.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmorris/notedly/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	keyNote = "note:"
	keyList = "notes:list"
)

// NoteCache caches single notes and the note list in Redis.
type NoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNoteCache returns a new NoteCache.
func NewNoteCache(rdb *redis.Client, ttl time.Duration) *NoteCache {
	return &NoteCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached note or nil on a miss.
func (c *NoteCache) Get(ctx context.Context, id string) (*models.Note, error) {
	b, err := c.rdb.Get(ctx, keyNote+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	note := &models.Note{}
	if err := json.Unmarshal(b, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Set stores the note.
func (c *NoteCache) Set(ctx context.Context, note *models.Note) error {
	b, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyNote+note.ID, b, c.ttl).Err()
}

// GetList returns the cached note list or nil on a miss.
func (c *NoteCache) GetList(ctx context.Context) ([]*models.Note, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*models.Note
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the note list.
func (c *NoteCache) SetList(ctx context.Context, list []*models.Note) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate drops the cached note and the list.
func (c *NoteCache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, keyNote+id, keyList).Err()
}

// InvalidateList drops only the cached list.
func (c *NoteCache) InvalidateList(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}
