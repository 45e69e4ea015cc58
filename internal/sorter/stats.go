package sorter

import "time"

// PassStats describes one merge pass.
type PassStats struct {
	Level  int   `yaml:"level"`
	Inputs int   `yaml:"inputs"`
	Groups []int `yaml:"groups"`
}

// Stats is what a finished sort reports about itself.
type Stats struct {
	Records         int           `yaml:"records"`
	Capacity        int           `yaml:"capacity"`
	InitialRuns     int           `yaml:"initial_runs"`
	InitialRunSizes []int         `yaml:"initial_run_sizes"`
	Passes          []PassStats   `yaml:"passes"`
	FinalLevel      int           `yaml:"final_level"`
	CleanupFailures int           `yaml:"cleanup_failures"`
	GenerateTime    time.Duration `yaml:"generate_time"`
	MergeTime       time.Duration `yaml:"merge_time"`
}
