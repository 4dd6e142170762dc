package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/brewcart/pkg/db/models"
)

// Get reads a kv entry; a missing row reports found=false.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := c.conn.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set upserts a kv entry.
func (c *Client) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return c.conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Remove deletes a kv entry; deleting a missing key is not an error.
func (c *Client) Remove(ctx context.Context, key string) error {
	return c.conn.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error
}
