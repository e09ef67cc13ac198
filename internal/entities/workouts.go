package entities

import "time"

type Workout struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"uniqueIndex;size:100;not null" json:"name" validate:"required,max=100"`
	CreationDate time.Time         `gorm:"type:date;not null" json:"creation_date" validate:"required"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
	TeacherID    *uint             `gorm:"index" json:"teacher_id,omitempty"`
	Teacher      *Teacher          `gorm:"foreignKey:TeacherID;references:EmployeeID" json:"teacher,omitempty" validate:"-"`
	Exercises    []WorkoutExercise `gorm:"foreignKey:WorkoutID" json:"exercises,omitempty" validate:"-"`
}

func (Workout) TableName() string {
	return "workouts"
}

// WorkoutExercise links an exercise to a workout. Positions within a workout
// always form the sequence 1..N.
type WorkoutExercise struct {
	WorkoutID   uint     `gorm:"primaryKey;autoIncrement:false" json:"workout_id"`
	ExerciseID  uint     `gorm:"primaryKey;autoIncrement:false;index" json:"exercise_id"`
	Exercise    Exercise `gorm:"foreignKey:ExerciseID" json:"exercise" validate:"-"`
	Repetitions int      `gorm:"not null;default:0" json:"repetitions" validate:"gte=0"`
	Sets        int      `gorm:"not null;default:0" json:"sets" validate:"gte=0"`
	Load        float64  `gorm:"not null;default:0" json:"load" validate:"gte=0"`
	Position    int      `gorm:"not null;index" json:"position"`
	Notes       string   `gorm:"type:text" json:"notes,omitempty"`
}

func (WorkoutExercise) TableName() string {
	return "workout_exercises"
}

// StudentWorkout assigns a workout to a student for a period.
type StudentWorkout struct {
	StudentID uint       `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	Student   Student    `gorm:"foreignKey:StudentID;references:PersonID" json:"-" validate:"-"`
	WorkoutID uint       `gorm:"primaryKey;autoIncrement:false;index" json:"workout_id"`
	Workout   Workout    `gorm:"foreignKey:WorkoutID" json:"workout" validate:"-"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date" validate:"required"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`
}

func (StudentWorkout) TableName() string {
	return "student_workouts"
}
