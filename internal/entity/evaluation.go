package entity

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Evaluation represents a benchmark run of one checkpoint.
type Evaluation struct {
	EvalUID     string       `gorm:"type:VARBINARY(42);primary_key;auto_increment:false;" json:"UID"`
	Checkpoint  string       `gorm:"type:VARCHAR(1024);" json:"Checkpoint"`
	FileHash    string       `gorm:"type:VARBINARY(128);index;" json:"FileHash"`
	Model       string       `gorm:"type:VARBINARY(32);" json:"Model"`
	Samples     int          `json:"Samples"`
	Aligned     int          `json:"Aligned"`
	AgeMAE      float64      `json:"AgeMAE"`
	GenderAcc   float64      `json:"GenderAcc"`
	CreatedAt   time.Time    `json:"CreatedAt"`
	Predictions []Prediction `gorm:"foreignkey:EvalUID;association_foreignkey:EvalUID;association_autoupdate:false;association_autocreate:false" json:"-"`
}

// TableName returns the entity database table name.
func (Evaluation) TableName() string {
	return "evaluations"
}

// NewEvaluation creates a new evaluation entity.
func NewEvaluation(checkpoint, model string) *Evaluation {
	return &Evaluation{
		EvalUID:    NewUID(),
		Checkpoint: checkpoint,
		Model:      model,
		CreatedAt:  Now(),
	}
}

// Save stores the evaluation together with its predictions in a single transaction.
func (m *Evaluation) Save(db *gorm.DB, predictions []Prediction) error {
	tx := db.Begin()

	if err := tx.Create(m).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := range predictions {
		predictions[i].EvalUID = m.EvalUID

		if err := tx.Create(&predictions[i]).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// FindEvaluation returns the evaluation with the given uid including its predictions.
func FindEvaluation(db *gorm.DB, uid string) (*Evaluation, error) {
	m := &Evaluation{}

	if err := db.Preload("Predictions").Where("eval_uid = ?", uid).First(m).Error; err != nil {
		return nil, err
	}

	return m, nil
}
