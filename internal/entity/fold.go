package entity

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Fold represents the best checkpoint of one cross-validation fold.
type Fold struct {
	ID         uint      `gorm:"primary_key" json:"-"`
	RunUID     string    `gorm:"type:VARBINARY(42);index;" json:"RunUID"`
	Fold       int       `json:"Fold"`
	BestEpoch  int       `json:"BestEpoch"`
	ValLoss    float64   `json:"ValLoss"`
	ValGender  float64   `json:"ValGender"`
	ValAge     float64   `json:"ValAge"`
	Checkpoint string    `gorm:"type:VARCHAR(1024);" json:"Checkpoint"`
	Checksum   string    `gorm:"type:VARBINARY(64);" json:"Checksum"`
	TrainSize  int       `json:"TrainSize"`
	TestSize   int       `json:"TestSize"`
	CreatedAt  time.Time `json:"CreatedAt"`
}

// TableName returns the entity database table name.
func (Fold) TableName() string {
	return "folds"
}

// Create inserts a new row to the database.
func (m *Fold) Create(db *gorm.DB) error {
	return db.Create(m).Error
}
