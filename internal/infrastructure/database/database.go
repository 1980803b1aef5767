package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// SubmissionRecord is the journal row of one contract write
type SubmissionRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	SessionID string    `gorm:"index;type:varchar(36)"`
	Form      string    `gorm:"not null"`
	Contract  string    `gorm:"not null"`
	Function  string    `gorm:"not null"`
	Args      []string  `gorm:"serializer:json"`
	TxHash    string    `gorm:"index"`
	State     string    `gorm:"not null;default:submitting"`
	Message   string    `gorm:"type:text"`
	Error     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (SubmissionRecord) TableName() string {
	return "submissions"
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite journal at dbPath and migrates it
func NewDatabase(dbPath string, log *zap.Logger) (*Database, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// only log errors and slow queries
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dbPath == MemoryPath {
		// every new connection would see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	database := &Database{DB: db}
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

func (d *Database) migrate() error {
	return d.DB.AutoMigrate(&SubmissionRecord{})
}

// Close releases the underlying connection pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordSubmission inserts a new journal row
func (d *Database) RecordSubmission(ctx context.Context, s *entities.Submission) error {
	return d.DB.WithContext(ctx).Create(toRecord(s)).Error
}

// UpdateSubmission stores the outcome of a submission
func (d *Database) UpdateSubmission(ctx context.Context, s *entities.Submission) error {
	res := d.DB.WithContext(ctx).Model(&SubmissionRecord{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"tx_hash":    s.TxHash,
			"state":      string(s.State),
			"message":    s.Message,
			"error":      s.Error,
			"updated_at": s.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("submission %s: %w", s.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// ListSubmissions returns the most recent submissions, newest first
func (d *Database) ListSubmissions(ctx context.Context, limit int) ([]entities.Submission, error) {
	var records []SubmissionRecord
	err := d.DB.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make([]entities.Submission, len(records))
	for i := range records {
		out[i] = fromRecord(&records[i])
	}
	return out, nil
}

func toRecord(s *entities.Submission) *SubmissionRecord {
	return &SubmissionRecord{
		ID:        s.ID,
		SessionID: s.SessionID,
		Form:      string(s.Form),
		Contract:  string(s.Contract),
		Function:  string(s.Function),
		Args:      s.Args,
		TxHash:    s.TxHash,
		State:     string(s.State),
		Message:   s.Message,
		Error:     s.Error,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func fromRecord(r *SubmissionRecord) entities.Submission {
	return entities.Submission{
		ID:        r.ID,
		SessionID: r.SessionID,
		Form:      entities.FormKind(r.Form),
		Contract:  entities.ContractName(r.Contract),
		Function:  entities.FunctionName(r.Function),
		Args:      r.Args,
		TxHash:    r.TxHash,
		State:     entities.FormState(r.State),
		Message:   r.Message,
		Error:     r.Error,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
