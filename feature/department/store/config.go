package store

import "fmt"

// Config describes the managed table.
type Config struct {
	// Name is the table name.
	Name string `mapstructure:"name" default:"DZ_COMPANY"`
	// CodeColumn holds the first key field.
	CodeColumn string `mapstructure:"code_column" default:"DEPCODE"`
	// JobColumn holds the second key field.
	JobColumn string `mapstructure:"job_column" default:"DEPJOB"`
	// DescriptionColumn holds the nullable value field.
	DescriptionColumn string `mapstructure:"description_column" default:"DESCRIPTION"`
	// BatchSize is the number of statements sent per flush during apply.
	BatchSize int `mapstructure:"batch_size" default:"5"`
}

// DefaultConfig returns the configuration matching the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		Name:              "DZ_COMPANY",
		CodeColumn:        "DEPCODE",
		JobColumn:         "DEPJOB",
		DescriptionColumn: "DESCRIPTION",
		BatchSize:         DefaultBatchSize,
	}
}

// Validate checks that every identifier is set and the batch size is usable.
func (c Config) Validate() error {
	if c.Name == "" || c.CodeColumn == "" || c.JobColumn == "" || c.DescriptionColumn == "" {
		return fmt.Errorf("table name and column names must not be empty")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("table.batch_size must be at least 1, got %d", c.BatchSize)
	}
	return nil
}
