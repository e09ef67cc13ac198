package entities

import "time"

type FeeStatus string

const (
	FeeStatusPending FeeStatus = "Pending"
	FeeStatusPaid    FeeStatus = "Paid"
)

type MonthlyFee struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StudentID   *uint      `gorm:"index" json:"student_id,omitempty"`
	Student     *Student   `gorm:"foreignKey:StudentID;references:PersonID" json:"-" validate:"-"`
	PlanID      *uint      `gorm:"index" json:"plan_id,omitempty"`
	Plan        *Plan      `gorm:"foreignKey:PlanID" json:"-" validate:"-"`
	DueDate     time.Time  `gorm:"type:date;not null;index" json:"due_date" validate:"required"`
	PaymentDate *time.Time `gorm:"type:date;index" json:"payment_date,omitempty"`
	Amount      float64    `gorm:"not null" json:"amount" validate:"gte=0"`
	Status      FeeStatus  `gorm:"index;size:20;not null" json:"status" validate:"required,oneof=Pending Paid"`
}

func (MonthlyFee) TableName() string {
	return "monthly_fees"
}
