package entities

type Plan struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"uniqueIndex;size:100;not null" json:"name" validate:"required,max=100"`
	Description    string  `gorm:"type:text" json:"description,omitempty"`
	DurationMonths int     `gorm:"not null" json:"duration_months" validate:"gt=0"`
	MonthlyPrice   float64 `gorm:"not null" json:"monthly_price" validate:"gte=0"`
}

func (Plan) TableName() string {
	return "plans"
}

type Exercise struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	MuscleGroup string `gorm:"index;size:50" json:"muscle_group,omitempty" validate:"max=50"`
}

func (Exercise) TableName() string {
	return "exercises"
}
