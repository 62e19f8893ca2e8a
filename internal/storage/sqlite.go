// Package storage keeps an optional history of transcription runs in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/himanishpuri/AcousticScore/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "acousticscore.sqlite3"

var (
	ErrRunNotFound = errors.New("run not found")
	errNilClient   = errors.New("db client is nil")
)

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Run is one finished transcription.
type Run struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	InputPath  string    `gorm:"index:idx_run_input" json:"input_path"`
	OutputPath string    `json:"output_path"`
	Format     string    `json:"format"`
	TempoBPM   int       `json:"tempo_bpm"`
	RawTempo   float64   `json:"raw_tempo"`
	Frames     int       `json:"frames"`
	Notes      int       `json:"notes"`
	Rests      int       `json:"rests"`
	Beats      int       `json:"beats"`
	DurationMs int       `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index:idx_run_created" json:"created_at"`
}

func NewDBClient(dbPath string) (*DBClient, error) {
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	if err := utils.EnsureParentDir(dbPath); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Run{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// RecordRun stores run and returns its ID. A missing ID or CreatedAt is
// filled in.
func (c *DBClient) RecordRun(run Run) (string, error) {
	if c == nil || c.DB == nil {
		return "", errNilClient
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if err := c.DB.Create(&run).Error; err != nil {
		return "", fmt.Errorf("creating run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the newest runs first. limit <= 0 returns all of them.
func (c *DBClient) ListRuns(limit int) ([]Run, error) {
	if c == nil || c.DB == nil {
		return nil, errNilClient
	}
	q := c.DB.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

func (c *DBClient) GetRun(id string) (*Run, error) {
	if c == nil || c.DB == nil {
		return nil, errNilClient
	}
	var run Run
	err := c.DB.Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return &run, nil
}

func (c *DBClient) DeleteRun(id string) error {
	if c == nil || c.DB == nil {
		return errNilClient
	}
	res := c.DB.Where("id = ?", id).Delete(&Run{})
	if res.Error != nil {
		return fmt.Errorf("deleting run: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
