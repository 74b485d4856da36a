package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// SolutionModel represents the solutions table
type SolutionModel struct {
	Key         string    `gorm:"column:cache_key;primaryKey"`
	BlueprintID int       `gorm:"column:blueprint_id;not null"`
	Horizon     int       `gorm:"column:horizon;not null"`
	MaxGeodes   int       `gorm:"column:max_geodes;not null"`
	Plan        string    `gorm:"column:plan;type:text"` // JSON array as text
	Expanded    int       `gorm:"column:expanded;not null;default:0"`
	Pruned      int       `gorm:"column:pruned;not null;default:0"`
	Pushed      int       `gorm:"column:pushed;not null;default:0"`
	RunID       string    `gorm:"column:run_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (SolutionModel) TableName() string {
	return "solutions"
}

type planStep struct {
	Minute int    `json:"minute"`
	Robot  string `json:"robot"`
}

// SQLStore implements Store on SQLite through GORM
type SQLStore struct {
	db    *gorm.DB
	runID string
}

// OpenSQLite opens (creating if needed) a cache database. ":memory:" gives a
// private in-memory cache.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite allows one writer; an in-memory database also only exists on its own connection
	sqlDB, err := db.DB()
	if err != nil {
		if c, ok := db.ConnPool.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("failed to get cache connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&SolutionModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &SQLStore{db: db, runID: uuid.New().String()}, nil
}

// RunID identifies the entries written by this store
func (s *SQLStore) RunID() string {
	return s.runID
}

// Close releases the database connection
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the entry for key; a miss is not an error
func (s *SQLStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var model SolutionModel

	err := s.db.WithContext(ctx).
		Where("cache_key = ?", key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("failed to get solution: %w", err)
	}

	entry, err := modelToEntry(model)
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Put stores an entry (upsert). Truncated results are not exact and are ignored.
func (s *SQLStore) Put(ctx context.Context, entry Entry) error {
	if entry.Result.Truncated {
		return nil
	}

	steps := make([]planStep, len(entry.Result.Plan))
	for i, b := range entry.Result.Plan {
		steps[i] = planStep{Minute: b.Minute, Robot: b.Robot.String()}
	}
	planJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	runID := entry.RunID
	if runID == "" {
		runID = s.runID
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	model := SolutionModel{
		Key:         entry.Key,
		BlueprintID: entry.Result.BlueprintID,
		Horizon:     entry.Result.Horizon,
		MaxGeodes:   entry.Result.MaxGeodes,
		Plan:        string(planJSON),
		Expanded:    entry.Result.Expanded,
		Pruned:      entry.Result.Pruned,
		Pushed:      entry.Result.Pushed,
		RunID:       runID,
		CreatedAt:   createdAt,
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"blueprint_id", "max_geodes", "plan", "expanded", "pruned", "pushed", "run_id", "created_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to store solution: %w", err)
	}

	return nil
}

func modelToEntry(model SolutionModel) (Entry, error) {
	var steps []planStep
	if model.Plan != "" {
		if err := json.Unmarshal([]byte(model.Plan), &steps); err != nil {
			return Entry{}, fmt.Errorf("failed to unmarshal plan: %w", err)
		}
	}

	plan := make([]geode.Build, len(steps))
	for i, st := range steps {
		robot, err := models.ParseResource(st.Robot)
		if err != nil {
			return Entry{}, fmt.Errorf("cached plan for %s: %w", model.Key, err)
		}
		plan[i] = geode.Build{Minute: st.Minute, Robot: robot}
	}

	return Entry{
		Key: model.Key,
		Result: geode.Result{
			BlueprintID: model.BlueprintID,
			Horizon:     model.Horizon,
			MaxGeodes:   model.MaxGeodes,
			Plan:        plan,
			Expanded:    model.Expanded,
			Pruned:      model.Pruned,
			Pushed:      model.Pushed,
		},
		RunID:     model.RunID,
		CreatedAt: model.CreatedAt,
	}, nil
}
