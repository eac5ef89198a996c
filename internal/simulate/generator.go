package simulate

import (
	"math"
	"math/rand"
	"time"

	"github.com/wesleyorama2/pulse/perf/config"
)

// generator draws sample latencies from a configured distribution.
type generator struct {
	dist config.DistributionConfig
	rng  *rand.Rand
}

func newGenerator(dist config.DistributionConfig, rng *rand.Rand) *generator {
	return &generator{dist: dist, rng: rng}
}

func (g *generator) next() time.Duration {
	d := g.dist
	switch d.Kind {
	case config.DistributionConstant:
		return time.Duration(d.Value)
	case config.DistributionUniform:
		span := int64(d.Max - d.Min)
		if span <= 0 {
			return time.Duration(d.Min)
		}
		if span == math.MaxInt64 {
			// span+1 overflows; min is 0 here
			return time.Duration(int64(d.Min) + g.rng.Int63())
		}
		return time.Duration(int64(d.Min) + g.rng.Int63n(span+1))
	case config.DistributionNormal:
		v := g.rng.NormFloat64()*float64(d.StdDev) + float64(d.Mean)
		if v < 0 {
			return 0
		}
		return time.Duration(v)
	default:
		return time.Duration(g.rng.ExpFloat64() * float64(d.Mean))
	}
}
