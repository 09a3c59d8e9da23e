package opt

import (
	"testing"

	"github.com/cwbudde/diffevo/internal/de"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDEAdapterOnSphere(t *testing.T) {
	cfg := de.Config{PopulationSize: 20, Generations: 200, NumberOfMutagens: 3, F: 0.5, CR: 0.9}
	optimizer := NewDifferentialEvolution(cfg, 42)

	lower, upper := uniformBounds(3, -5, 5)
	result, err := optimizer.Run(sphere, lower, upper, 3)
	require.NoError(t, err)

	require.Len(t, result.Best, 3)
	assert.Len(t, result.History, 200)
	assert.LessOrEqual(t, result.Cost, result.InitialCost)
	assert.Less(t, result.Cost, 0.5)
	assert.Equal(t, sphere(result.Best), result.Cost)

	// initial population plus one trial per target per generation
	assert.Equal(t, 20+20*200, result.Evaluations)
}

func TestDEAdapterReportsProgress(t *testing.T) {
	cfg := de.Config{PopulationSize: 8, Generations: 10, NumberOfMutagens: 2, F: 0.8, CR: 0.5}
	optimizer := NewDifferentialEvolution(cfg, 1)

	var iterations []int
	var costs []float64
	optimizer.SetProgress(func(iteration int, bestCost float64) {
		iterations = append(iterations, iteration)
		costs = append(costs, bestCost)
	})

	lower, upper := uniformBounds(2, -1, 1)
	result, err := optimizer.Run(sphere, lower, upper, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, iterations)
	assert.Equal(t, []float64(result.History), costs)
}

func TestDEAdapterDeterministic(t *testing.T) {
	cfg := de.Config{PopulationSize: 10, Generations: 30, NumberOfMutagens: 3, F: 0.6, CR: 0.5}
	lower, upper := uniformBounds(4, -3, 3)

	r1, err := NewDifferentialEvolution(cfg, 99).Run(sphere, lower, upper, 4)
	require.NoError(t, err)
	r2, err := NewDifferentialEvolution(cfg, 99).Run(sphere, lower, upper, 4)
	require.NoError(t, err)

	assert.Equal(t, r1.Best, r2.Best)
	assert.Equal(t, r1.History, r2.History)
}

func TestDEAdapterErrors(t *testing.T) {
	cfg := de.Config{PopulationSize: 0, Generations: 1, NumberOfMutagens: 2, F: 1, CR: 0.5}
	_, err := NewDifferentialEvolution(cfg, 1).Run(sphere, []float64{-1}, []float64{1}, 1)
	assert.ErrorIs(t, err, de.ErrInvalidConfig)

	cfg.PopulationSize = 4
	_, err = NewDifferentialEvolution(cfg, 1).Run(sphere, []float64{-1}, []float64{1}, 2)
	assert.Error(t, err)
}

func TestOptimizersImplementInterface(t *testing.T) {
	var _ Optimizer = NewDifferentialEvolution(de.DefaultConfig(), 0)
	var _ Optimizer = NewMayfly(10, 20, 0)
	var _ ProgressReporter = NewDifferentialEvolution(de.DefaultConfig(), 0)
}

func TestNewByName(t *testing.T) {
	cfg := de.DefaultConfig()

	o, err := New("", cfg, 1)
	require.NoError(t, err)
	assert.Equal(t, "de", o.Name())

	o, err = New("mayfly", cfg, 1)
	require.NoError(t, err)
	assert.Equal(t, "mayfly", o.Name())

	_, err = New("pso", cfg, 1)
	assert.Error(t, err)
}

func TestDEAdapterInitialGenotypes(t *testing.T) {
	cfg := de.Config{PopulationSize: 6, Generations: 0, NumberOfMutagens: 2, F: 1, CR: 0.5}
	optimizer := NewDifferentialEvolution(cfg, 3)
	optimizer.SetInitialGenotypes([]float64{0, 0})

	lower, upper := uniformBounds(2, 1, 2)
	result, err := optimizer.Run(sphere, lower, upper, 2)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0}, result.Best)
	assert.Equal(t, 0.0, result.Cost)
	assert.Equal(t, 0.0, result.InitialCost)
	assert.Empty(t, result.History)
}
