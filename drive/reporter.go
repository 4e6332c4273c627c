package drive

import (
	"fmt"
	"io"
	"os"

	"github.com/ttacon/chalk"
)

// GenerationStats summarizes one generation at its age boundary.
type GenerationStats struct {
	Generation     int
	BestFitness    float64 // running best across generations
	GenerationBest float64
	MeanFitness    float64
	Tracked        int     // drivers evaluated at the boundary
	Survivors      int     // tracked drivers still moving at the boundary
	Elapsed        float64 // seconds
}

// Reporter receives progress events from a training run. Calls are made from
// the training goroutine.
type Reporter interface {
	StartGeneration(generation int)
	EndGeneration(stats GenerationStats)
	// Tick is only called while training visualization is switched on.
	Tick(generation, tick int, drivers []*Driver)
	Found(result *Result)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) StartGeneration(int)           {}
func (NopReporter) EndGeneration(GenerationStats) {}
func (NopReporter) Tick(int, int, []*Driver)      {}
func (NopReporter) Found(*Result)                 {}

// StdOutReporter prints progress to a writer, stdout by default.
type StdOutReporter struct {
	Out io.Writer
}

// NewStdOutReporter creates a reporter printing to os.Stdout.
func NewStdOutReporter() *StdOutReporter {
	return &StdOutReporter{Out: os.Stdout}
}

func (r *StdOutReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *StdOutReporter) StartGeneration(generation int) {
	fmt.Fprint(r.out(), chalk.Blue)
	fmt.Fprintf(r.out(), "****** Generation %d ******", generation)
	fmt.Fprintln(r.out(), chalk.Reset)
}

func (r *StdOutReporter) EndGeneration(s GenerationStats) {
	fmt.Fprintf(r.out(), " Tracked drivers: %d (%d still moving)\n", s.Tracked, s.Survivors)
	fmt.Fprintf(r.out(), " Best of generation %d: %.4f, mean: %.4f\n", s.Generation, s.GenerationBest, s.MeanFitness)
	fmt.Fprintf(r.out(), " Current best fitness: %.4f\n", s.BestFitness)
	fmt.Fprintf(r.out(), "Generation %d finished in %.3fs\n\n", s.Generation, s.Elapsed)
}

func (r *StdOutReporter) Tick(generation, tick int, drivers []*Driver) {
	fmt.Fprintf(r.out(), " [%d:%d] cars:", generation, tick)
	for _, d := range drivers {
		v := d.Vehicle
		fmt.Fprintf(r.out(), " %.0f:%.0f:%.0f", v.Position.X, v.Position.Y, v.Heading)
	}
	fmt.Fprintln(r.out())
}

func (r *StdOutReporter) Found(result *Result) {
	color := chalk.Green
	if result.Outcome != OutcomeGoal {
		color = chalk.Yellow
	}
	fmt.Fprint(r.out(), color)
	fmt.Fprintf(r.out(), "Training done: %s after %d generation(s), best fitness %.4f", result.Outcome, result.Generation, result.BestFitness)
	fmt.Fprintln(r.out(), chalk.Reset)
}
