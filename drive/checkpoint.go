package drive

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/baldhumanity/neat-drive/drive/nn"
)

// Checkpoint is the state of a training run at a generation boundary.
type Checkpoint struct {
	Generation  int
	BestFitness float64
	Best        nn.Record
	History     []float64
}

// saveCheckpoint snapshots the run after a generation boundary.
func (t *Trainer) saveCheckpoint() {
	cp := &Checkpoint{
		Generation:  t.generation,
		BestFitness: t.plateau.best,
		Best:        t.bestNet.Record(),
		History:     append([]float64(nil), t.plateau.history...),
	}
	t.mu.Lock()
	t.checkpoint = cp
	t.mu.Unlock()
}

// Checkpoint returns the snapshot of the last completed generation, or nil
// before the first boundary.
func (t *Trainer) Checkpoint() *Checkpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkpoint
}

// ResumeFrom restores the generation counter, running best and history of a
// checkpoint. The next Run breeds its first generation from the stored best
// network.
func (t *Trainer) ResumeFrom(cp *Checkpoint) error {
	net, err := nn.FromRecord(cp.Best)
	if err != nil {
		return fmt.Errorf("failed to restore best network: %w", err)
	}
	if net.InputWidth() != len(t.start.Sensors) {
		return configErrorf("sensors", "vehicle has %d sensors, checkpoint network expects %d inputs", len(t.start.Sensors), net.InputWidth())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Running {
		return ErrTrainingRunning
	}
	t.generation = cp.Generation
	t.bestNet = net
	t.plateau.restore(cp.BestFitness, cp.History)
	t.checkpoint = cp
	return nil
}

// SaveCheckpoint writes a checkpoint to a gzip compressed gob file.
func SaveCheckpoint(cp *Checkpoint, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(gzWriter).Encode(cp); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint written by SaveCheckpoint.
func LoadCheckpoint(filePath string) (*Checkpoint, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	cp := &Checkpoint{}
	if err := gob.NewDecoder(gzReader).Decode(cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint '%s': %w", filePath, err)
	}
	return cp, nil
}
