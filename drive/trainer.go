package drive

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/baldhumanity/neat-drive/drive/nn"
)

// Defaults of the evolutionary search.
const (
	DefaultPopulationSize = 2000
	DefaultAge            = 250
	DefaultMutationRate   = 0.1
)

// NetworkShape is the hidden layout of the networks a trainer evolves. The
// input width always equals the start vehicle's sensor count.
type NetworkShape struct {
	Layers    int
	LayerSize int
}

// TrainerOptions holds the parameters of a training run.
type TrainerOptions struct {
	PopulationSize int
	Age            int // ticks per generation
	MutationRate   float64
	SteeringGain   float64 // 0 means DefaultSteeringGain
	Workers        int     // goroutines stepping drivers; 0 or 1 steps serially
	Seed           int64   // 0 picks a time based seed
	MaxGenerations int     // 0 runs until the goal is reached or fitness plateaus
	ShowTraining   bool

	// SeedNetwork, when set, replaces the random first generation with
	// mutated clones of it.
	SeedNetwork *nn.Network
	Reporter    Reporter
}

// DefaultTrainerOptions returns the stock population size, age and mutation rate.
func DefaultTrainerOptions() TrainerOptions {
	return TrainerOptions{
		PopulationSize: DefaultPopulationSize,
		Age:            DefaultAge,
		MutationRate:   DefaultMutationRate,
		SteeringGain:   DefaultSteeringGain,
		Workers:        1,
	}
}

// State of a trainer.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Outcome tells why a training run ended.
type Outcome int

const (
	OutcomeStopped Outcome = iota
	OutcomeGoal
	OutcomePlateau
	OutcomeGenerationLimit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGoal:
		return "goal reached"
	case OutcomePlateau:
		return "plateau"
	case OutcomeGenerationLimit:
		return "generation limit"
	default:
		return "stopped"
	}
}

// Result of a training run. Network is nil when the run was stopped.
type Result struct {
	Outcome     Outcome
	Network     *nn.Network
	Generation  int
	Ticks       int // ticks into the final generation
	BestFitness float64
	History     []float64 // running best at every generation boundary
}

// Trainer evolves steering networks for one track and start vehicle.
type Trainer struct {
	opts     TrainerOptions
	track    *Track
	start    *Vehicle
	shape    NetworkShape
	rng      *rand.Rand
	reporter Reporter

	// run state, touched only by the goroutine inside Run
	generation int
	bestNet    *nn.Network
	plateau    *plateau

	stopRequested atomic.Bool
	showTraining  atomic.Bool

	mu         sync.Mutex
	state      State
	promoted   *nn.Network
	checkpoint *Checkpoint
}

// NewTrainer validates the options and prepares a trainer. The start vehicle
// is copied; its sensor count fixes the network input width.
func NewTrainer(track *Track, start *Vehicle, shape NetworkShape, opts TrainerOptions) (*Trainer, error) {
	switch {
	case opts.PopulationSize <= 0:
		return nil, configErrorf("population_size", "must be positive, got %d", opts.PopulationSize)
	case opts.Age <= 0:
		return nil, configErrorf("age", "must be positive, got %d", opts.Age)
	case opts.MutationRate < 0:
		return nil, configErrorf("mutation_rate", "cannot be negative, got %g", opts.MutationRate)
	case len(start.Sensors) == 0:
		return nil, configErrorf("sensors", "start vehicle has no sensors")
	case shape.Layers < 0:
		return nil, configErrorf("layers", "cannot be negative, got %d", shape.Layers)
	case shape.Layers > 0 && shape.LayerSize <= 0:
		return nil, configErrorf("layerSize", "must be positive, got %d", shape.LayerSize)
	}
	if opts.SeedNetwork != nil && opts.SeedNetwork.InputWidth() != len(start.Sensors) {
		return nil, configErrorf("sensors", "vehicle has %d sensors, seed network expects %d inputs", len(start.Sensors), opts.SeedNetwork.InputWidth())
	}
	if opts.SteeringGain == 0 {
		opts.SteeringGain = DefaultSteeringGain
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}

	t := &Trainer{
		opts:     opts,
		track:    track,
		start:    start.Copy(),
		shape:    shape,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		reporter: opts.Reporter,
		plateau:  newPlateau(),
	}
	t.showTraining.Store(opts.ShowTraining)
	return t, nil
}

// State reports whether a run is in progress.
func (t *Trainer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop asks a running Run to return at the next tick boundary.
func (t *Trainer) Stop() {
	t.stopRequested.Store(true)
}

// ToggleShowTraining flips per-tick reporting and returns the new setting.
func (t *Trainer) ToggleShowTraining() bool {
	for {
		old := t.showTraining.Load()
		if t.showTraining.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// ShowTraining reports whether per-tick reporting is on.
func (t *Trainer) ShowTraining() bool {
	return t.showTraining.Load()
}

// BestNetwork returns a copy of the promoted network, or nil when no run has
// promoted one yet. Only the trainer writes the promoted network, at goal
// success or at the generation boundary that ends a run.
func (t *Trainer) BestNetwork() *nn.Network {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.promoted == nil {
		return nil
	}
	return t.promoted.Clone()
}

func (t *Trainer) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Running {
		return false
	}
	t.state = Running
	t.stopRequested.Store(false)
	return true
}

func (t *Trainer) end() {
	t.mu.Lock()
	t.state = Idle
	t.mu.Unlock()
}

// Run trains until a vehicle reaches the goal, the running best fitness
// plateaus, the generation limit is hit, Stop is called or ctx is done.
// Cancellation is checked once per tick. A second Run continues from the goal
// network or, failing that, from the best network of the last generation
// boundary.
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	if !t.begin() {
		return nil, ErrTrainingRunning
	}
	defer t.end()

	var (
		drivers []*Driver
		err     error
	)
	if t.bestNet != nil {
		drivers, err = t.offspring(t.bestNet)
	} else {
		drivers, err = t.initialPopulation()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to seed population: %w", err)
	}

	generation := t.generation + 1
	tracked := drivers
	tick, moving := 0, len(tracked)
	started := time.Now()
	t.reporter.StartGeneration(generation)

	for {
		if err := ctx.Err(); err != nil {
			return t.stopped(generation, tick), err
		}
		if t.stopRequested.Load() {
			return t.stopped(generation, tick), nil
		}

		alive, err := t.stepAll(tracked)
		if err != nil {
			return nil, fmt.Errorf("generation %d tick %d: %w", generation, tick, err)
		}
		survivors := make([]*Driver, 0, len(tracked))
		for i, d := range tracked {
			if alive[i] {
				survivors = append(survivors, d)
				continue
			}
			if d.Vehicle.InGoal {
				t.bestNet = d.Network
				return t.finish(&Result{
					Outcome:     OutcomeGoal,
					Network:     d.Network,
					Generation:  generation,
					Ticks:       tick + 1,
					BestFitness: d.Fitness(),
				}), nil
			}
		}
		moving = len(survivors)
		tracked = keepTracked(tracked, survivors)
		tick++

		if t.showTraining.Load() {
			t.reporter.Tick(generation, tick, tracked)
		}
		if tick < t.opts.Age {
			continue
		}

		fitness := make([]float64, len(tracked))
		for i, d := range tracked {
			fitness[i] = d.Fitness()
		}
		genBest, idx := MaxFloat(fitness)
		improved, flat := t.plateau.update(genBest)
		if improved || t.bestNet == nil {
			// nothing beat -Inf yet; breed from the first candidate
			if idx < 0 {
				idx = 0
			}
			t.bestNet = tracked[idx].Network
		}
		t.generation = generation
		t.saveCheckpoint()
		t.reporter.EndGeneration(GenerationStats{
			Generation:     generation,
			BestFitness:    t.plateau.best,
			GenerationBest: genBest,
			MeanFitness:    Mean(fitness),
			Tracked:        len(tracked),
			Survivors:      moving,
			Elapsed:        time.Since(started).Seconds(),
		})

		if flat {
			return t.finish(&Result{Outcome: OutcomePlateau, Network: t.bestNet, Generation: generation, Ticks: tick, BestFitness: t.plateau.best}), nil
		}
		if t.opts.MaxGenerations > 0 && generation >= t.opts.MaxGenerations {
			return t.finish(&Result{Outcome: OutcomeGenerationLimit, Network: t.bestNet, Generation: generation, Ticks: tick, BestFitness: t.plateau.best}), nil
		}

		tracked, err = t.offspring(t.bestNet)
		if err != nil {
			return nil, fmt.Errorf("reproduction failed in generation %d: %w", generation, err)
		}
		generation++
		tick, moving = 0, len(tracked)
		started = time.Now()
		t.reporter.StartGeneration(generation)
	}
}

// keepTracked implements the never-empty rule: the tracked set shrinks to
// the survivors only while at least one driver survives, so the age boundary
// always has candidates.
func keepTracked(tracked, survivors []*Driver) []*Driver {
	if len(survivors) == 0 {
		return tracked
	}
	return survivors
}

// stepAll advances every driver by one tick and returns which ones are still
// moving. With more than one worker the steps fan out and are joined before
// returning; drivers share only the read-only track.
func (t *Trainer) stepAll(drivers []*Driver) ([]bool, error) {
	alive := make([]bool, len(drivers))
	workerCount := t.opts.Workers
	if workerCount > len(drivers) {
		workerCount = len(drivers)
	}
	if workerCount <= 1 {
		for i, d := range drivers {
			ok, err := d.Step()
			if err != nil {
				return nil, fmt.Errorf("driver %d: %w", i, err)
			}
			alive[i] = ok
		}
		return alive, nil
	}

	errs := make([]error, len(drivers))
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				alive[i], errs[i] = drivers[i].Step()
			}
		}()
	}
	for i := range drivers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("driver %d: %w", i, err)
		}
	}
	return alive, nil
}

// finish promotes the result network and hands the caller its own copy.
func (t *Trainer) finish(res *Result) *Result {
	t.mu.Lock()
	t.promoted = res.Network.Clone()
	t.mu.Unlock()

	res.Network = res.Network.Clone()
	res.History = append([]float64(nil), t.plateau.history...)
	t.reporter.Found(res)
	return res
}

func (t *Trainer) stopped(generation, tick int) *Result {
	res := &Result{
		Outcome:     OutcomeStopped,
		Generation:  generation,
		Ticks:       tick,
		BestFitness: t.plateau.best,
		History:     append([]float64(nil), t.plateau.history...),
	}
	t.reporter.Found(res)
	return res
}
