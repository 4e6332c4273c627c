package drive

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2000, cfg.Training.PopulationSize)
	assert.Equal(t, 250, cfg.Training.Age)
	assert.Equal(t, 0.1, cfg.Training.MutationRate)

	tr := cfg.NewTrack(rand.New(rand.NewSource(1)))
	assert.Len(t, tr.Walls(), 4)
	assert.Equal(t, NewPoint(720, 720), tr.Goal().Center)

	v := cfg.NewVehicle()
	assert.Equal(t, NewPoint(80, 80), v.Position)
	assert.Len(t, v.Sensors, 2)
	assert.Equal(t, 5.0, v.Speed)
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[Training]
population_size = 50
mutation_rate   = 0.25
workers         = 4

[Network]
inputs = 5

[Track]
random_walls = 3

[Store]
kind = SQLite   # memory | sqlite
path = runs.db  ; local file
`))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Training.PopulationSize)
	assert.Equal(t, 250, cfg.Training.Age)
	assert.Equal(t, 0.25, cfg.Training.MutationRate)
	assert.Equal(t, 4, cfg.Training.Workers)
	assert.Equal(t, 5, cfg.Network.Inputs)
	assert.Equal(t, 2, cfg.Network.Layers)
	assert.Equal(t, "sqlite", cfg.Store.Kind)
	assert.Equal(t, "runs.db", cfg.Store.Path)

	assert.Len(t, cfg.NewVehicle().Sensors, 5)
	assert.Len(t, cfg.NewTrack(rand.New(rand.NewSource(1))).Walls(), 7)

	opts := cfg.TrainerOptions()
	assert.Equal(t, 50, opts.PopulationSize)
	assert.Equal(t, 4, opts.Workers)
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"population": "[Training]\npopulation_size = 0\n",
		"age":        "[Training]\nage = -1\n",
		"rate":       "[Training]\nmutation_rate = -0.5\n",
		"inputs":     "[Network]\ninputs = 0\n",
		"layer-size": "[Network]\nlayers = 2\nlayer_size = 0\n",
		"track":      "[Track]\nwidth = 0\n",
		"goal":       "[Track]\ngoal_radius = 0\n",
		"store":      "[Store]\nkind = postgres\n",
		"not-a-num":  "[Training]\nage = many\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track-config")
	require.NoError(t, os.WriteFile(path, []byte("[Training]\nage = 99\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Training.Age)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
