package drive

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/baldhumanity/neat-drive/drive/nn"
	"github.com/baldhumanity/neat-drive/drive/store"
)

// ManualSteerStep is the heading change of one manual steering action.
const ManualSteerStep = 5

// Session is the control surface around one track, one start vehicle and the
// current network. Training runs in the background; the session adopts the
// network a run promotes.
type Session struct {
	cfg      *Config
	reporter Reporter
	store    store.Store
	rng      *rand.Rand

	mu      sync.Mutex
	track   *Track
	vehicle *Vehicle
	network *nn.Network
	show    bool

	trainer   *Trainer
	runID     string
	startedAt time.Time
	done      chan struct{}
	result    *Result
	runErr    error
}

// NewSession builds the configured track, start vehicle and a random network.
// reporter and st may be nil.
func NewSession(cfg *Config, reporter Reporter, st store.Store) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	seed := cfg.Training.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Session{
		cfg:      cfg,
		reporter: reporter,
		store:    st,
		rng:      rand.New(rand.NewSource(seed)),
		show:     cfg.Training.ShowTraining,
	}
	s.track = cfg.NewTrack(s.rng)
	s.vehicle = cfg.NewVehicle()
	net, err := nn.New(cfg.Network.Inputs, cfg.Network.Layers, cfg.Network.LayerSize, s.rng)
	if err != nil {
		return nil, err
	}
	s.network = net
	return s, nil
}

// Track returns the session track. It must not be modified while training.
func (s *Session) Track() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track
}

// Vehicle returns a snapshot of the start vehicle.
func (s *Session) Vehicle() Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *s.vehicle
	v.Sensors = append([]Sensor(nil), s.vehicle.Sensors...)
	v.DistancePoints = append([]Point(nil), s.vehicle.DistancePoints...)
	return v
}

// Network returns a copy of the current network.
func (s *Session) Network() *nn.Network {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network.Clone()
}

// Training reports whether a training run is in progress.
func (s *Session) Training() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trainingLocked()
}

func (s *Session) trainingLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// StartTraining launches a training run from the current vehicle state and
// returns its run id.
func (s *Session) StartTraining(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return "", ErrTrainingRunning
	}

	opts := s.cfg.TrainerOptions()
	opts.Seed = s.rng.Int63()
	opts.ShowTraining = s.show
	opts.Reporter = s.reporter
	shape := NetworkShape{Layers: s.network.Layers(), LayerSize: s.network.LayerSize()}
	trainer, err := NewTrainer(s.track, s.vehicle, shape, opts)
	if err != nil {
		return "", err
	}

	s.trainer = trainer
	s.runID = store.NewRunID()
	s.startedAt = time.Now()
	s.done = make(chan struct{})
	s.result, s.runErr = nil, nil
	go s.train(ctx, trainer, s.runID, s.done)
	return s.runID, nil
}

func (s *Session) train(ctx context.Context, trainer *Trainer, runID string, done chan struct{}) {
	defer close(done)

	res, err := trainer.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err == nil && res != nil {
		err = s.recordRun(context.WithoutCancel(ctx), runID, res)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result, s.runErr = res, err
	if res != nil && res.Network != nil {
		s.network = res.Network
	}
}

// recordRun stores the run summary and its network when a store is attached.
// Runs stopped before any fitness was measured are not recorded.
func (s *Session) recordRun(ctx context.Context, runID string, res *Result) error {
	if s.store == nil || math.IsInf(res.BestFitness, -1) {
		return nil
	}
	summary := store.RunSummary{
		ID:          runID,
		Outcome:     res.Outcome.String(),
		Generations: res.Generation,
		BestFitness: res.BestFitness,
		History:     res.History,
		StartedAt:   s.startedAt,
		FinishedAt:  time.Now(),
	}
	if res.Network != nil {
		payload, err := nn.EncodeRecord(res.Network.Record())
		if err != nil {
			return fmt.Errorf("failed to encode network of run %s: %w", runID, err)
		}
		summary.Network = "run-" + runID
		if err := s.store.SaveNetwork(ctx, summary.Network, payload); err != nil {
			return fmt.Errorf("failed to save network of run %s: %w", runID, err)
		}
	}
	if err := s.store.SaveRun(ctx, summary); err != nil {
		return fmt.Errorf("failed to save run %s: %w", runID, err)
	}
	return nil
}

// StopTraining asks the running trainer to stop at the next tick.
func (s *Session) StopTraining() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainer != nil {
		s.trainer.Stop()
	}
}

// Wait blocks until the current run ends and returns its result.
func (s *Session) Wait(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil, errors.New("no training run started")
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.runErr
}

// ToggleShowTraining flips per-tick reporting, for the running trainer too.
func (s *Session) ToggleShowTraining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.show = !s.show
	if s.trainer != nil && s.trainer.ShowTraining() != s.show {
		s.trainer.ToggleShowTraining()
	}
	return s.show
}

// BestNetwork returns the network promoted by the last training run.
func (s *Session) BestNetwork() (*nn.Network, error) {
	s.mu.Lock()
	trainer := s.trainer
	s.mu.Unlock()
	if trainer == nil {
		return nil, ErrNoNetwork
	}
	net := trainer.BestNetwork()
	if net == nil {
		return nil, ErrNoNetwork
	}
	return net, nil
}

// SetNetworkShape replaces the network with a random one of the given shape
// and rebuilds the vehicle sensors to match the input width.
func (s *Session) SetNetworkShape(inputs, layers, layerSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	net, err := nn.New(inputs, layers, layerSize, s.rng)
	if err != nil {
		return err
	}
	s.network = net
	s.vehicle.SetSensorCount(inputs)
	return nil
}

// SetSensorCount rebuilds the vehicle sensors and replaces the network with a
// random one of matching input width.
func (s *Session) SetSensorCount(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	net, err := nn.New(n, s.network.Layers(), s.network.LayerSize(), s.rng)
	if err != nil {
		return err
	}
	s.network = net
	s.vehicle.SetSensorCount(n)
	return nil
}

// Randomize replaces the network with a random one of the same shape.
func (s *Session) Randomize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	net, err := nn.New(s.network.InputWidth(), s.network.Layers(), s.network.LayerSize(), s.rng)
	if err != nil {
		return err
	}
	s.network = net
	return nil
}

// Steer turns the vehicle by delta degrees and refreshes its sensors.
func (s *Session) Steer(delta float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicle.Steer(delta)
	return s.vehicle.ReadSensors(s.track)
}

// Forward moves the vehicle one step and refreshes its sensors.
func (s *Session) Forward() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicle.Step()
	return s.vehicle.ReadSensors(s.track)
}

// Back moves the vehicle one step backwards and refreshes its sensors.
func (s *Session) Back() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicle.StepBack()
	return s.vehicle.ReadSensors(s.track)
}

// ResetVehicle puts the vehicle back to the configured start, keeping its
// sensor count.
func (s *Session) ResetVehicle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.vehicle.Sensors)
	s.vehicle = s.cfg.NewVehicle()
	s.vehicle.SetSensorCount(n)
}

// DriveResult describes how a manual drive ended.
type DriveResult struct {
	Ticks   int
	InGoal  bool
	Crashed bool
}

// Drive lets the current network steer the vehicle until it crashes, reaches
// the goal or ctx is done. interval paces the ticks; onTick, when set, sees
// the vehicle after every tick.
func (s *Session) Drive(ctx context.Context, interval time.Duration, onTick func(tick int, v *Vehicle)) (DriveResult, error) {
	s.mu.Lock()
	if s.trainingLocked() {
		s.mu.Unlock()
		return DriveResult{}, ErrTrainingRunning
	}
	driver, err := NewDriver(s.vehicle, s.network.Clone(), s.track)
	s.mu.Unlock()
	if err != nil {
		return DriveResult{}, err
	}
	if gain := s.cfg.Training.SteeringGain; gain != 0 {
		driver.Gain = gain
	}

	var pace <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		pace = ticker.C
	}

	res := DriveResult{}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s.mu.Lock()
		moving, err := driver.Step()
		if err == nil && moving && onTick != nil {
			onTick(res.Ticks+1, driver.Vehicle)
		}
		res.InGoal, res.Crashed = driver.Vehicle.InGoal, driver.Vehicle.Crashed
		s.mu.Unlock()
		if err != nil {
			return res, err
		}
		if !moving {
			return res, nil
		}
		res.Ticks++

		if pace != nil {
			select {
			case <-pace:
			case <-ctx.Done():
				return res, ctx.Err()
			}
		}
	}
}

// ResetTrack clears the track to its boundary walls and default goal.
func (s *Session) ResetTrack() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	s.track.Reset()
	return nil
}

// AddWall adds a wall to the track.
func (s *Session) AddWall(x1, y1, x2, y2 float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	s.track.AddWall(NewWall(x1, y1, x2, y2))
	return nil
}

// AddRandomWalls adds amount random walls to the track.
func (s *Session) AddRandomWalls(amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	s.track.AddRandomWalls(amount, s.rng)
	return nil
}

// SaveTrackFile writes the track record as JSON.
func (s *Session) SaveTrackFile(path string) error {
	s.mu.Lock()
	data, err := EncodeTrack(s.track)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write track file '%s': %w", path, err)
	}
	return nil
}

// LoadTrackFile replaces the track with one read from a JSON record.
func (s *Session) LoadTrackFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read track file '%s': %w", path, err)
	}
	return s.loadTrack(data)
}

func (s *Session) loadTrack(data []byte) error {
	t, err := DecodeTrack(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	s.track = t
	return nil
}

// SaveNetworkFile writes the current network record as JSON.
func (s *Session) SaveNetworkFile(path string) error {
	s.mu.Lock()
	data, err := nn.EncodeRecord(s.network.Record())
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode network: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write network file '%s': %w", path, err)
	}
	return nil
}

// LoadNetworkFile replaces the network with one read from a JSON record. The
// vehicle sensors follow the loaded input width.
func (s *Session) LoadNetworkFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read network file '%s': %w", path, err)
	}
	return s.loadNetwork(data)
}

func (s *Session) loadNetwork(data []byte) error {
	net, err := nn.Decode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trainingLocked() {
		return ErrTrainingRunning
	}
	s.network = net
	if len(s.vehicle.Sensors) != net.InputWidth() {
		s.vehicle.SetSensorCount(net.InputWidth())
	}
	return nil
}

// SaveTrack stores the track under name in the attached store.
func (s *Session) SaveTrack(ctx context.Context, name string) error {
	if s.store == nil {
		return errors.New("no store attached")
	}
	s.mu.Lock()
	data, err := EncodeTrack(s.track)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}
	return s.store.SaveTrack(ctx, name, data)
}

// LoadTrack replaces the track with the one stored under name.
func (s *Session) LoadTrack(ctx context.Context, name string) error {
	if s.store == nil {
		return errors.New("no store attached")
	}
	data, ok, err := s.store.GetTrack(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("track '%s' not found", name)
	}
	return s.loadTrack(data)
}

// SaveNetwork stores the current network under name in the attached store.
func (s *Session) SaveNetwork(ctx context.Context, name string) error {
	if s.store == nil {
		return errors.New("no store attached")
	}
	s.mu.Lock()
	data, err := nn.EncodeRecord(s.network.Record())
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode network: %w", err)
	}
	return s.store.SaveNetwork(ctx, name, data)
}

// LoadNetwork replaces the network with the one stored under name.
func (s *Session) LoadNetwork(ctx context.Context, name string) error {
	if s.store == nil {
		return errors.New("no store attached")
	}
	data, ok, err := s.store.GetNetwork(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("network '%s' not found", name)
	}
	return s.loadNetwork(data)
}
