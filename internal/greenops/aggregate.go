package greenops

import (
	"context"
	"runtime"

	"github.com/rshade/carbonwise/internal/batch"
	"github.com/rshade/carbonwise/internal/logging"
)

// groupSum holds running sums for one run name.
type groupSum struct {
	energyKWh float64
	co2Kg     float64
	latencyMs float64
	sci       float64
	costEUR   float64
	count     int
}

func (s *groupSum) add(r RunRecord) {
	s.energyKWh += NormalizeEnergyKWh(r)
	s.co2Kg += NormalizeCO2Kg(r)
	s.latencyMs += valueOr(r.LatencyMs)
	s.sci += valueOr(r.SCIWhPerRequest)
	s.costEUR += valueOr(r.CostEUR)
	s.count++
}

func (s *groupSum) merge(o *groupSum) {
	s.energyKWh += o.energyKWh
	s.co2Kg += o.co2Kg
	s.latencyMs += o.latencyMs
	s.sci += o.sci
	s.costEUR += o.costEUR
	s.count += o.count
}

// accumulator groups sums by run name in first-seen order.
type accumulator struct {
	order []string
	sums  map[string]*groupSum
}

func newAccumulator() *accumulator {
	return &accumulator{sums: make(map[string]*groupSum)}
}

func (a *accumulator) slot(name string) *groupSum {
	s, ok := a.sums[name]
	if !ok {
		s = &groupSum{}
		a.sums[name] = s
		a.order = append(a.order, name)
	}
	return s
}

func (a *accumulator) add(r RunRecord) {
	a.slot(r.RunName).add(r)
}

// merge folds o into a. Merging partials in input order keeps first-seen order.
func (a *accumulator) merge(o *accumulator) {
	for _, name := range o.order {
		a.slot(name).merge(o.sums[name])
	}
}

func (a *accumulator) groups() []AggregateGroup {
	out := make([]AggregateGroup, 0, len(a.order))
	for _, name := range a.order {
		s := a.sums[name]
		n := float64(s.count)
		out = append(out, AggregateGroup{
			Name:          name,
			MeanEnergyKWh: s.energyKWh / n,
			MeanCO2Kg:     s.co2Kg / n,
			MeanLatencyMs: s.latencyMs / n,
			MeanSCI:       s.sci / n,
			MeanCostEUR:   s.costEUR / n,
			SampleCount:   s.count,
		})
	}
	return out
}

// Aggregate groups records by run name and returns per-group means, in the
// order each name first appears in records. An empty input yields an empty,
// non-nil slice.
//
// Every metric is divided by the same per-group record count. A record that
// lacks a metric adds 0 to that metric's sum but is still counted, so means of
// sparsely reported metrics are understated. This matches the dashboard and
// report figures produced from the same run logs.
func Aggregate(records []RunRecord) []AggregateGroup {
	acc := newAccumulator()
	for _, r := range records {
		acc.add(r)
	}
	return acc.groups()
}

// AggregateOptions tunes AggregateConcurrent.
type AggregateOptions struct {
	// ChunkSize is the number of records reduced per task. Defaults to batch.DefaultBatchSize.
	ChunkSize int
	// Workers bounds the number of concurrent tasks. Defaults to GOMAXPROCS.
	Workers int
}

// AggregateConcurrent is Aggregate with the per-group sums reduced in
// parallel chunks. Partial sums are merged in chunk order, so group order and
// sample counts are identical to Aggregate. Means may differ from Aggregate in
// the last bits because the summation is re-associated.
//
// records must not be mutated while the call is in flight.
func AggregateConcurrent(ctx context.Context, records []RunRecord, opts AggregateOptions) ([]AggregateGroup, error) {
	if len(records) == 0 {
		return []AggregateGroup{}, nil
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = batch.DefaultBatchSize
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p, err := batch.NewProcessor[RunRecord](chunkSize)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	p.WithProgressCallback(func(progress *batch.Progress) {
		snap := progress.Snapshot()
		log.Debug().
			Str("component", "greenops").
			Int("chunks_done", snap.ProcessedBatches).
			Int("chunks_total", snap.TotalBatches).
			Msg("aggregated chunk")
	})

	partials := make([]*accumulator, len(p.CalculateBatches(len(records))))
	err = p.ProcessConcurrent(ctx, records, func(_ context.Context, chunk []RunRecord, index int) error {
		acc := newAccumulator()
		for _, r := range chunk {
			acc.add(r)
		}
		partials[index] = acc
		return nil
	}, workers)
	if err != nil {
		return nil, err
	}

	merged := newAccumulator()
	for _, part := range partials {
		merged.merge(part)
	}

	groups := merged.groups()
	log.Debug().
		Str("component", "greenops").
		Int("records", len(records)).
		Int("groups", len(groups)).
		Int("chunks", len(partials)).
		Msg("concurrent aggregation complete")
	return groups, nil
}
