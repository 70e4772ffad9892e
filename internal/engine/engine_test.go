package engine_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/transitionsim/internal/collector"
	"github.com/vk/transitionsim/internal/component"
	"github.com/vk/transitionsim/internal/component/mocks"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/engine"
	"github.com/vk/transitionsim/internal/metrics"
	"github.com/vk/transitionsim/internal/registry"
	"github.com/vk/transitionsim/internal/testutil"
	"go.uber.org/mock/gomock"
)

func TestRun_SixRowsPerComponent(t *testing.T) {
	// Arrange
	ctx, logs := testutil.NewContext(t)
	e, err := engine.New(engine.WithComponents(
		testutil.NewLinear("renewable"),
		testutil.NewLinear("grid"),
	))
	require.NoError(t, err)
	require.NoError(t, e.Configure(ctx, config.Config{"renewable": map[string]any{"growth": 1.0}}))

	// Act
	err = e.Run(ctx, 2025, 2030)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, engine.Complete, e.Status())
	res, err := e.Results()
	require.NoError(t, err)
	assert.Equal(t, e.RunID(), res.RunID)
	assert.Equal(t, []string{"renewable", "grid"}, res.Components)
	for _, name := range []string{"renewable", "grid"} {
		table, ok := res.Table(name)
		require.True(t, ok)
		assert.Equal(t, []int{2025, 2026, 2027, 2028, 2029, 2030}, table.Years())
		assert.True(t, table.Sealed())
	}
	assert.Equal(t, 6, res.KPI.Len())
	assert.Equal(t, 5.0, res.KPI.Cell(2030, "renewable.value").Value)
	testutil.AssertComponentStepped(t, logs.String(), "grid", 2030)
}

func TestRun_SingleYear(t *testing.T) {
	res, err := engine.Simulate(context.Background(), nil, 2025, 2025,
		engine.WithComponents(testutil.NewLinear("a")))

	require.NoError(t, err)
	assert.Equal(t, []int{2025}, res.KPI.Years())
}

func TestLifecycle_InvalidStateTransitions(t *testing.T) {
	ctx := context.Background()
	e, err := engine.New(engine.WithComponents(testutil.NewLinear("a")))
	require.NoError(t, err)
	assert.Equal(t, engine.Unconfigured, e.Status())

	require.ErrorIs(t, e.Run(ctx, 2025, 2026), engine.ErrInvalidState)
	_, err = e.Results()
	require.ErrorIs(t, err, engine.ErrInvalidState)

	require.NoError(t, e.Configure(ctx, nil))
	assert.Equal(t, engine.Configured, e.Status())
	require.ErrorIs(t, e.Configure(ctx, nil), engine.ErrInvalidState)

	_, err = e.Results()
	require.ErrorIs(t, err, engine.ErrInvalidState)

	require.NoError(t, e.Run(ctx, 2025, 2026))
	require.ErrorIs(t, e.Run(ctx, 2025, 2026), engine.ErrInvalidState)
	require.ErrorIs(t, e.Configure(ctx, nil), engine.ErrInvalidState)
}

func TestRun_InvalidYearRange(t *testing.T) {
	ctx := context.Background()
	e, err := engine.New(engine.WithComponents(testutil.NewLinear("a")))
	require.NoError(t, err)
	require.NoError(t, e.Configure(ctx, nil))

	err = e.Run(ctx, 2030, 2025)

	require.ErrorIs(t, err, engine.ErrInvalidYearRange)
	assert.Equal(t, engine.Configured, e.Status())
}

func TestConfigure_RejectionLeavesEngineUnconfigured(t *testing.T) {
	// Arrange
	ctx := context.Background()
	strict := &testutil.FailingComponent{ID: "finance", RequiredKey: "discount_rate"}
	e, err := engine.New(engine.WithComponents(testutil.NewLinear("renewable"), strict))
	require.NoError(t, err)

	// Act
	err = e.Configure(ctx, config.Config{"finance": map[string]any{"other": 1}})

	// Assert
	var cerr *component.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "finance", cerr.Component)
	assert.Equal(t, "discount_rate", cerr.Path)
	require.ErrorIs(t, err, component.ErrConfiguration)
	assert.Equal(t, engine.Unconfigured, e.Status())

	require.NoError(t, e.Configure(ctx, config.Config{"finance": map[string]any{"discount_rate": 0.05}}))
	assert.Equal(t, engine.Configured, e.Status())
}

func TestConfigure_PlainErrorBecomesConfigurationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockComponent(ctrl)
	m.EXPECT().Name().Return("m").AnyTimes()
	m.EXPECT().Initialize(gomock.Any()).Return(errors.New("boom"))

	e, err := engine.New(engine.WithComponents(m))
	require.NoError(t, err)

	err = e.Configure(context.Background(), nil)

	require.ErrorIs(t, err, component.ErrConfiguration)
	require.ErrorContains(t, err, "boom")
}

func TestConfigure_ComponentsSeeOnlyTheirNamespace(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockComponent(ctrl)
	m.EXPECT().Name().Return("grid").AnyTimes()
	m.EXPECT().Initialize(config.Config{"capacity": 100}).Return(nil)

	e, err := engine.New(engine.WithComponents(m))
	require.NoError(t, err)

	err = e.Configure(context.Background(), config.Config{
		"grid":      map[string]any{"capacity": 100},
		"renewable": map[string]any{"initial": 5},
	})
	require.NoError(t, err)
}

func TestRun_StepFailureAbortsRun(t *testing.T) {
	// Arrange
	ctx := context.Background()
	after := testutil.NewLinear("after")
	e, err := engine.New(engine.WithComponents(
		testutil.NewLinear("before"),
		&testutil.FailingComponent{ID: "grid", FailYear: 2027},
		after,
	))
	require.NoError(t, err)
	require.NoError(t, e.Configure(ctx, nil))

	// Act
	err = e.Run(ctx, 2025, 2030)

	// Assert
	var serr *engine.StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "grid", serr.Component)
	assert.Equal(t, 2027, serr.Year)
	require.ErrorIs(t, err, engine.ErrComponentStep)
	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.Contains(t, err.Error(), `"grid"`)
	assert.Contains(t, err.Error(), "2027")

	assert.Equal(t, engine.Failed, e.Status())
	require.ErrorIs(t, e.Err(), testutil.ErrInjected)
	_, err = e.Results()
	require.ErrorIs(t, err, engine.ErrInvalidState)
}

func TestRun_SameYearVisibilityFollowsRegistrationOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	early := &testutil.ProbeComponent{ID: "early", Source: "renewable", Column: "value"}
	late := &testutil.ProbeComponent{ID: "late", Source: "renewable", Column: "value"}
	e, err := engine.New(engine.WithComponents(early, testutil.NewLinear("renewable"), late))
	require.NoError(t, err)
	require.NoError(t, e.Configure(ctx, config.Config{"renewable": map[string]any{"growth": 10.0}}))

	// Act
	require.NoError(t, e.Run(ctx, 2025, 2027))

	// Assert
	assert.True(t, math.IsNaN(early.SeenAt(2025)), "nothing published before the first step")
	assert.Equal(t, 0.0, early.SeenAt(2026))
	assert.Equal(t, 10.0, early.SeenAt(2027))

	assert.Equal(t, 0.0, late.SeenAt(2025))
	assert.Equal(t, 10.0, late.SeenAt(2026))
	assert.Equal(t, 20.0, late.SeenAt(2027))
}

func TestRun_LateStartIsAbsentNotZero(t *testing.T) {
	res, err := engine.Simulate(context.Background(), nil, 2025, 2030, engine.WithComponents(
		testutil.NewLinear("renewable"),
		&testutil.LateStartComponent{ID: "storage", StartYear: 2028},
	))
	require.NoError(t, err)

	assert.Equal(t, 6, res.KPI.Len())
	for _, y := range []int{2025, 2026, 2027} {
		assert.Equal(t, collector.Absent, res.KPI.Cell(y, "storage.value"), "year %d", y)
	}
	assert.Equal(t, collector.Cell{Value: 1, Present: true}, res.KPI.Cell(2028, "storage.value"))
	table, _ := res.Table("storage")
	assert.Equal(t, []int{2028, 2029, 2030}, table.Years())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e, err := engine.New(engine.WithComponents(testutil.NewLinear("a")))
	require.NoError(t, err)
	require.NoError(t, e.Configure(ctx, nil))

	cancel()
	err = e.Run(ctx, 2025, 2030)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, engine.Failed, e.Status())
}

func TestRun_CancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := gomock.NewController(t)
	m := mocks.NewMockComponent(ctrl)
	m.EXPECT().Name().Return("m").AnyTimes()
	m.EXPECT().Initialize(gomock.Any()).Return(nil)
	m.EXPECT().Step(2025, gomock.Any()).DoAndReturn(func(year int, _ component.View) (component.Record, error) {
		cancel()
		return component.Record{Year: year, Values: map[string]float64{"v": 1}}, nil
	})

	e, err := engine.New(engine.WithComponents(m))
	require.NoError(t, err)
	require.NoError(t, e.Configure(ctx, nil))

	err = e.Run(ctx, 2025, 2030)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, engine.Failed, e.Status())
}

func TestRun_RecordYearMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockComponent(ctrl)
	m.EXPECT().Name().Return("m").AnyTimes()
	m.EXPECT().Initialize(gomock.Any()).Return(nil)
	m.EXPECT().Step(2025, gomock.Any()).Return(component.Record{Year: 2024}, nil)

	_, err := engine.Simulate(context.Background(), nil, 2025, 2026, engine.WithComponents(m))

	require.ErrorIs(t, err, engine.ErrYearMismatch)
	require.ErrorIs(t, err, engine.ErrComponentStep)
}

func TestRun_CallOrder(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	a := mocks.NewMockComponent(ctrl)
	b := mocks.NewMockComponent(ctrl)
	a.EXPECT().Name().Return("a").AnyTimes()
	b.EXPECT().Name().Return("b").AnyTimes()

	rec := func(y int) component.Record { return component.Record{Year: y, Values: map[string]float64{"v": 1}} }
	table := func(name string) *component.ResultTable { return component.NewResultTable(name, "v") }

	gomock.InOrder(
		a.EXPECT().Initialize(gomock.Any()).Return(nil),
		b.EXPECT().Initialize(gomock.Any()).Return(nil),
		a.EXPECT().Step(2025, gomock.Any()).Return(rec(2025), nil),
		b.EXPECT().Step(2025, gomock.Any()).Return(rec(2025), nil),
		a.EXPECT().Step(2026, gomock.Any()).Return(rec(2026), nil),
		b.EXPECT().Step(2026, gomock.Any()).Return(rec(2026), nil),
		a.EXPECT().Finalize().Return(table("a"), nil),
		b.EXPECT().Finalize().Return(table("b"), nil),
	)

	// Act
	_, err := engine.Simulate(context.Background(), nil, 2025, 2026, engine.WithComponents(a, b))

	// Assert
	require.NoError(t, err)
}

func TestRun_FinalizeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockComponent(ctrl)
	m.EXPECT().Name().Return("m").AnyTimes()
	m.EXPECT().Initialize(gomock.Any()).Return(nil)
	m.EXPECT().Step(gomock.Any(), gomock.Any()).Return(component.Record{}, component.ErrSkipYear)
	m.EXPECT().Finalize().Return(nil, nil)

	e, err := engine.New(engine.WithComponents(m))
	require.NoError(t, err)
	require.NoError(t, e.Configure(context.Background(), nil))

	err = e.Run(context.Background(), 2025, 2025)

	require.ErrorIs(t, err, engine.ErrComponentStep)
	assert.Contains(t, err.Error(), "finalize")
	assert.Equal(t, engine.Failed, e.Status())
}

func TestNew_DuplicateNames(t *testing.T) {
	_, err := engine.New(engine.WithComponents(testutil.NewLinear("a"), testutil.NewLinear("a")))
	require.ErrorIs(t, err, engine.ErrDuplicateComponent)
}

func TestNewFromRegistry(t *testing.T) {
	reg := registry.New()
	reg.Register(testutil.Linear("grid", 20), testutil.Linear("renewable", 10))

	e, err := engine.NewFromRegistry(reg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"renewable", "grid"}, e.Components())

	_, err = engine.NewFromRegistry(reg, []string{"nuclear"})
	require.ErrorIs(t, err, registry.ErrUnknownComponent)
}

func TestSeededComponentsAreReproducible(t *testing.T) {
	draws := func(seed uint64) []float64 {
		res, err := engine.Simulate(context.Background(), nil, 2025, 2029,
			engine.WithSeed(seed),
			engine.WithComponents(&testutil.NoisyComponent{ID: "noise"}))
		require.NoError(t, err)
		var out []float64
		for _, c := range res.KPI.Column("noise.draw") {
			out = append(out, c.Value)
		}
		return out
	}

	assert.Equal(t, draws(7), draws(7))
	assert.NotEqual(t, draws(7), draws(8))
}

func TestSeeded_ReceivesSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockSeeded(ctrl)
	s.EXPECT().SetSource(gomock.Any()).Times(1)

	seededLinear := struct {
		*testutil.LinearComponent
		*mocks.MockSeeded
	}{testutil.NewLinear("a"), s}

	_, err := engine.Simulate(context.Background(), nil, 2025, 2025, engine.WithComponents(seededLinear))
	require.NoError(t, err)
}

func TestRun_RecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	_, err := engine.Simulate(context.Background(), nil, 2025, 2030,
		engine.WithMetrics(m), engine.WithComponents(testutil.NewLinear("a")))
	require.NoError(t, err)
	_, err = engine.Simulate(context.Background(), nil, 2025, 2030,
		engine.WithMetrics(m), engine.WithComponents(&testutil.FailingComponent{ID: "f", FailYear: 2026}))
	require.Error(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.EngineRuns.WithLabelValues(metrics.OutcomeComplete)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.EngineRuns.WithLabelValues(metrics.OutcomeFailed)))
	assert.Equal(t, 6.0, promtest.ToFloat64(m.YearsSimulated))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ComponentStepErrors.WithLabelValues("f")))
}
