package entities

import "time"

// Evaluation is a physical assessment. Height may be recorded in metres or
// centimetres; see BMI.
type Evaluation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"index;not null" json:"student_id" validate:"required"`
	Student   Student   `gorm:"foreignKey:StudentID;references:PersonID" json:"-" validate:"-"`
	TeacherID *uint     `gorm:"index" json:"teacher_id,omitempty"`
	Teacher   *Teacher  `gorm:"foreignKey:TeacherID;references:EmployeeID" json:"-" validate:"-"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date" validate:"required"`
	Weight    *float64  `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Height    *float64  `json:"height,omitempty" validate:"omitempty,gt=0"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
