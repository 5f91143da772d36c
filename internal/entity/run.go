package entity

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Run represents a cross-validation training run.
type Run struct {
	RunUID     string     `gorm:"type:VARBINARY(42);primary_key;auto_increment:false;" json:"UID"`
	Model      string     `gorm:"type:VARBINARY(32);" json:"Model"`
	Samples    int        `json:"Samples"`
	Epochs     int        `json:"Epochs"`
	BatchSize  int        `json:"BatchSize"`
	Replicas   int        `json:"Replicas"`
	Trial      bool       `json:"Trial"`
	StartedAt  time.Time  `json:"StartedAt"`
	FinishedAt *time.Time `json:"FinishedAt"`
	Folds      []Fold     `gorm:"foreignkey:RunUID;association_foreignkey:RunUID;association_autoupdate:false;association_autocreate:false" json:"Folds,omitempty"`
}

// TableName returns the entity database table name.
func (Run) TableName() string {
	return "runs"
}

// NewRun creates a new run entity.
func NewRun(model string, samples, epochs, batchSize, replicas int, trial bool) *Run {
	return &Run{
		RunUID:    NewUID(),
		Model:     model,
		Samples:   samples,
		Epochs:    epochs,
		BatchSize: batchSize,
		Replicas:  replicas,
		Trial:     trial,
		StartedAt: Now(),
	}
}

// Create inserts a new row to the database.
func (m *Run) Create(db *gorm.DB) error {
	return db.Create(m).Error
}

// Finish sets the finish timestamp.
func (m *Run) Finish(db *gorm.DB) error {
	now := Now()
	m.FinishedAt = &now

	return db.Model(m).Update("FinishedAt", m.FinishedAt).Error
}

// FindRun returns the run with the given uid including its folds.
func FindRun(db *gorm.DB, uid string) (*Run, error) {
	m := &Run{}

	if err := db.Preload("Folds").Where("run_uid = ?", uid).First(m).Error; err != nil {
		return nil, err
	}

	return m, nil
}
