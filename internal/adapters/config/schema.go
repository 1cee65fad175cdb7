package config

// PlanFile represents the structure of the cotfaith.yaml experiment plan.
type PlanFile struct {
	Version     string          `yaml:"version"`
	Experiments []ExperimentDTO `yaml:"experiments"`
}

// ExperimentDTO represents an experiment definition in the plan.
type ExperimentDTO struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Source    string   `yaml:"source"`
	Samples   int      `yaml:"samples"`
	Seed      *uint64  `yaml:"seed"`
	Depths    []int    `yaml:"depths"`
	Tolerance *float64 `yaml:"tolerance"`
}
