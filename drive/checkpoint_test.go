package drive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	trainer := plateauTrainer(t, nil)
	assert.Nil(t, trainer.Checkpoint())

	_, err := trainer.Run(context.Background())
	require.NoError(t, err)
	cp := trainer.Checkpoint()
	require.NotNil(t, cp)
	assert.Equal(t, 2, cp.Generation)
	assert.Equal(t, -390.0, cp.BestFitness)

	path := filepath.Join(t.TempDir(), "track_checkpoint.gz")
	require.NoError(t, SaveCheckpoint(cp, path))
	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, cp.Generation, loaded.Generation)
	assert.Equal(t, cp.BestFitness, loaded.BestFitness)
	assert.Equal(t, cp.History, loaded.History)
	assert.Equal(t, cp.Best.InputNeuronAmount, loaded.Best.InputNeuronAmount)
	assert.Equal(t, cp.Best.OutputNeuron, loaded.Best.OutputNeuron)
	assert.Empty(t, loaded.Best.Neurons)
}

func TestResumeFromCheckpoint(t *testing.T) {
	first := plateauTrainer(t, nil)
	_, err := first.Run(context.Background())
	require.NoError(t, err)

	resumed := plateauTrainer(t, nil)
	require.NoError(t, resumed.ResumeFrom(first.Checkpoint()))

	res, err := resumed.Run(context.Background())
	require.NoError(t, err)
	// the restored running best is matched again right away
	assert.Equal(t, OutcomePlateau, res.Outcome)
	assert.Equal(t, 3, res.Generation)
	assert.Equal(t, []float64{-390, -390, -390}, res.History)
}

func TestResumeFromRejectsWidthMismatch(t *testing.T) {
	first := plateauTrainer(t, nil)
	_, err := first.Run(context.Background())
	require.NoError(t, err)

	other, err := NewTrainer(NewTrack(800, 800), NewVehicle(NewPoint(100, 100), 0, 5, 3), NetworkShape{}, TrainerOptions{PopulationSize: 2, Age: 2})
	require.NoError(t, err)
	assert.Error(t, other.ResumeFrom(first.Checkpoint()))
}

func TestLoadCheckpointMissingFile(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "nope.gz"))
	assert.Error(t, err)
}
