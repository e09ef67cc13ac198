package config

const (
	// DefaultDatabasePath is the default location of the gym database file
	DefaultDatabasePath = "./gymflow.db"

	// Defaults for exercises attached to a workout without explicit values
	DefaultRepetitions = 12
	DefaultSets        = 3
)
