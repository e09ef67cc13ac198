package entities

import "time"

// Person is the root of the member and staff hierarchy. Student and Employee
// rows share its identifier.
type Person struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:150;not null" json:"name" validate:"required,max=150"`
	BirthDate  time.Time `gorm:"type:date;not null" json:"birth_date" validate:"required"`
	NationalID string    `gorm:"uniqueIndex;size:14;not null" json:"national_id" validate:"required,nationalid"` // CPF, digits only
	Phone      string    `gorm:"size:20" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email      string    `gorm:"uniqueIndex;size:150;not null" json:"email" validate:"required,email,max=150"`
}

func (Person) TableName() string {
	return "persons"
}

type Student struct {
	PersonID       uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Person         Person     `gorm:"foreignKey:PersonID;references:ID" json:"person"`
	EnrollmentDate time.Time  `gorm:"type:date;not null" json:"enrollment_date" validate:"required"`
	SignatureDate  *time.Time `gorm:"type:date" json:"signature_date,omitempty"`
	PlanID         *uint      `gorm:"index" json:"plan_id,omitempty"`
	Plan           *Plan      `gorm:"foreignKey:PlanID" json:"plan,omitempty" validate:"-"`
}

func (Student) TableName() string {
	return "students"
}

type Employee struct {
	PersonID      uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Person        Person    `gorm:"foreignKey:PersonID;references:ID" json:"person"`
	Role          string    `gorm:"index;size:100;not null" json:"role" validate:"required,max=100"`
	AdmissionDate time.Time `gorm:"type:date;not null" json:"admission_date" validate:"required"`
	Salary        float64   `gorm:"not null;default:0" json:"salary" validate:"gte=0"`
}

func (Employee) TableName() string {
	return "employees"
}

// Teacher extends Employee; its key is the employee's person id.
type Teacher struct {
	EmployeeID uint     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Employee   Employee `gorm:"foreignKey:EmployeeID;references:PersonID" json:"employee"`
	Specialty  string   `gorm:"index;size:100" json:"specialty,omitempty" validate:"max=100"`
	License    string   `gorm:"uniqueIndex;size:20;not null" json:"license" validate:"required,max=20"` // CREF registration
}

func (Teacher) TableName() string {
	return "teachers"
}

// ID returns the shared person identifier.
func (t Teacher) ID() uint {
	return t.EmployeeID
}

// Name is a convenience accessor for listings.
func (t Teacher) Name() string {
	return t.Employee.Person.Name
}
