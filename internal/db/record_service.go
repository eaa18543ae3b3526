package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/grind/internal/models"
)

// Get reads a record. A missing key returns ok=false and no error.
func (d *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec models.Record
	err := d.gorm.WithContext(ctx).Where(&models.Record{Key: key}).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get record %q: %w", key, err)
	}
	return rec.Value, true, nil
}

// Put replaces a record wholesale
func (d *DB) Put(ctx context.Context, key string, value []byte) error {
	rec := models.Record{Key: key, Value: value}
	err := d.gorm.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}

// LoadTasks returns the persisted task collection, empty when none was saved yet
func (d *DB) LoadTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := d.loadJSON(ctx, models.RecordTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// LoadGoals returns the persisted goal collection, empty when none was saved yet
func (d *DB) LoadGoals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := d.loadJSON(ctx, models.RecordGoals, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// SaveTasks replaces the task record
func (d *DB) SaveTasks(ctx context.Context, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return d.saveJSON(ctx, models.RecordTasks, tasks)
}

// SaveGoals replaces the goal record
func (d *DB) SaveGoals(ctx context.Context, goals []models.Goal) error {
	if goals == nil {
		goals = []models.Goal{}
	}
	return d.saveJSON(ctx, models.RecordGoals, goals)
}

func (d *DB) loadJSON(ctx context.Context, key string, v any) error {
	data, ok, err := d.Get(ctx, key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record %q: %w", key, err)
	}
	return nil
}

func (d *DB) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", key, err)
	}
	return d.Put(ctx, key, data)
}
