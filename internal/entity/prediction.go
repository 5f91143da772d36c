package entity

import (
	"fmt"
)

// Prediction represents the model output for one benchmark image, with the
// face box in original image coordinates.
type Prediction struct {
	ID         uint   `gorm:"primary_key" json:"-"`
	EvalUID    string `gorm:"type:VARBINARY(42);index;" json:"EvalUID"`
	FileName   string `gorm:"type:VARCHAR(1024);" json:"FileName"`
	Age        int    `json:"Age"`
	Gender     int    `json:"Gender"`
	PredAge    int    `json:"PredAge"`
	PredGender int    `json:"PredGender"`
	Left       int    `json:"Left"`
	Top        int    `json:"Top"`
	Right      int    `json:"Right"`
	Bottom     int    `json:"Bottom"`
	Aligned    bool   `json:"Aligned"`
}

// TableName returns the entity database table name.
func (Prediction) TableName() string {
	return "predictions"
}

// AgeError returns the absolute age difference.
func (m Prediction) AgeError() int {
	if d := m.PredAge - m.Age; d < 0 {
		return -d
	} else {
		return d
	}
}

// String returns the box as string.
func (m Prediction) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", m.Left, m.Top, m.Right, m.Bottom)
}
