package drive

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/baldhumanity/neat-drive/drive/nn"
)

// Config stores every tunable of a training session.
type Config struct {
	Training TrainingConfig
	Network  NetworkConfig
	Vehicle  VehicleConfig
	Track    TrackConfig
	Store    StoreConfig
}

// TrainingConfig holds the parameters of the evolutionary search.
type TrainingConfig struct {
	PopulationSize int     `ini:"population_size"`
	Age            int     `ini:"age"` // ticks per generation
	MutationRate   float64 `ini:"mutation_rate"`
	SteeringGain   float64 `ini:"steering_gain"`
	Workers        int     `ini:"workers"`         // goroutines stepping drivers each tick
	Seed           int64   `ini:"seed"`            // 0 picks a time based seed
	MaxGenerations int     `ini:"max_generations"` // 0 means until goal or plateau
	ShowTraining   bool    `ini:"show_training"`
}

// NetworkConfig holds the shape of the steering network. Inputs also sets the
// vehicle's sensor count.
type NetworkConfig struct {
	Inputs    int `ini:"inputs"`
	Layers    int `ini:"layers"`
	LayerSize int `ini:"layer_size"`
}

// VehicleConfig describes the canonical start vehicle.
type VehicleConfig struct {
	StartX      float64 `ini:"start_x"`
	StartY      float64 `ini:"start_y"`
	Heading     float64 `ini:"heading"`
	Speed       float64 `ini:"speed"`
	Width       float64 `ini:"width"`
	SensorRange float64 `ini:"sensor_range"`
}

// TrackConfig describes the generated track.
type TrackConfig struct {
	Width       float64 `ini:"width"`
	Height      float64 `ini:"height"`
	GoalX       float64 `ini:"goal_x"`
	GoalY       float64 `ini:"goal_y"`
	GoalRadius  float64 `ini:"goal_radius"`
	RandomWalls int     `ini:"random_walls"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Kind string `ini:"kind"` // memory | sqlite
	Path string `ini:"path"`
}

// DefaultConfig returns the stock setup: an 800x800 track with the goal near
// the far corner and a two-sensor vehicle near the opposite one.
func DefaultConfig() *Config {
	return &Config{
		Training: TrainingConfig{
			PopulationSize: 2000,
			Age:            250,
			MutationRate:   0.1,
			SteeringGain:   DefaultSteeringGain,
			Workers:        1,
		},
		Network: NetworkConfig{Inputs: 2, Layers: 2, LayerSize: 4},
		Vehicle: VehicleConfig{
			StartX:      80,
			StartY:      80,
			Heading:     0,
			Speed:       5,
			Width:       DefaultVehicleWidth,
			SensorRange: DefaultSensorRange,
		},
		Track: TrackConfig{
			Width:      800,
			Height:     800,
			GoalX:      720,
			GoalY:      720,
			GoalRadius: defaultGoalRadius,
		},
		Store: StoreConfig{Kind: "memory", Path: "neat-drive.db"},
	}
}

// LoadConfig loads configuration parameters from an INI file. Keys that are
// absent keep their DefaultConfig value. Inline comments are only stripped
// from string values; numbers must stand alone.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return mapConfig(cfg)
}

// ParseConfig reads configuration from INI formatted bytes.
func ParseConfig(data []byte) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return mapConfig(cfg)
}

func mapConfig(cfg *ini.File) (*Config, error) {
	config := DefaultConfig()

	sections := []struct {
		name   string
		target any
	}{
		{"Training", &config.Training},
		{"Network", &config.Network},
		{"Vehicle", &config.Vehicle},
		{"Track", &config.Track},
		{"Store", &config.Store},
	}
	for _, s := range sections {
		if !cfg.HasSection(s.name) {
			continue
		}
		if err := cfg.Section(s.name).StrictMapTo(s.target); err != nil {
			return nil, fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}

	config.Store.Kind = strings.ToLower(cleanIniString(config.Store.Kind))
	config.Store.Path = cleanIniString(config.Store.Path)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	t := c.Training
	if t.PopulationSize <= 0 {
		return fmt.Errorf("config error: population_size must be positive")
	}
	if t.Age <= 0 {
		return fmt.Errorf("config error: age must be positive")
	}
	if t.MutationRate < 0 {
		return fmt.Errorf("config error: mutation_rate cannot be negative")
	}
	if t.Workers < 0 {
		return fmt.Errorf("config error: workers cannot be negative")
	}
	if t.MaxGenerations < 0 {
		return fmt.Errorf("config error: max_generations cannot be negative")
	}

	n := c.Network
	if n.Inputs <= 0 {
		return fmt.Errorf("config error: inputs must be positive")
	}
	if n.Layers < 0 {
		return fmt.Errorf("config error: layers cannot be negative")
	}
	if n.Layers > 0 && n.LayerSize <= 0 {
		return fmt.Errorf("config error: layer_size must be positive when layers > 0")
	}

	if c.Vehicle.Width <= 0 {
		return fmt.Errorf("config error: vehicle width must be positive")
	}

	tr := c.Track
	if tr.Width <= 0 || tr.Height <= 0 {
		return fmt.Errorf("config error: track width and height must be positive")
	}
	if tr.GoalRadius <= 0 {
		return fmt.Errorf("config error: goal_radius must be positive")
	}
	if tr.RandomWalls < 0 {
		return fmt.Errorf("config error: random_walls cannot be negative")
	}

	switch c.Store.Kind {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("config error: invalid store kind '%s', must be 'memory' or 'sqlite'", c.Store.Kind)
	}
	return nil
}

// NewTrack builds the configured track. Random walls are drawn from rng.
func (c *Config) NewTrack(rng nn.Source) *Track {
	t := NewTrack(c.Track.Width, c.Track.Height)
	t.SetGoal(Goal{Center: NewPoint(c.Track.GoalX, c.Track.GoalY), Radius: c.Track.GoalRadius})
	if c.Track.RandomWalls > 0 {
		t.AddRandomWalls(c.Track.RandomWalls, rng)
	}
	return t
}

// NewVehicle builds the canonical start vehicle with one sensor per network input.
func (c *Config) NewVehicle() *Vehicle {
	v := &Vehicle{
		Position:    NewPoint(c.Vehicle.StartX, c.Vehicle.StartY),
		Heading:     c.Vehicle.Heading,
		Speed:       c.Vehicle.Speed,
		Width:       c.Vehicle.Width,
		SensorRange: c.Vehicle.SensorRange,
	}
	v.SetSensorCount(c.Network.Inputs)
	return v
}

// TrainerOptions converts the training section into trainer options.
func (c *Config) TrainerOptions() TrainerOptions {
	return TrainerOptions{
		PopulationSize: c.Training.PopulationSize,
		Age:            c.Training.Age,
		MutationRate:   c.Training.MutationRate,
		SteeringGain:   c.Training.SteeringGain,
		Workers:        c.Training.Workers,
		Seed:           c.Training.Seed,
		MaxGenerations: c.Training.MaxGenerations,
		ShowTraining:   c.Training.ShowTraining,
	}
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
