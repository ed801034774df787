package valueline

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/metrics"
	"github.com/yourusername/value-lines/internal/models"
)

// Engine defaults
const (
	DefaultTargetProbability = 0.60
	DefaultMinProbability    = 0.58
	DefaultMaxProbability    = 0.62
	DefaultDecayFactor       = 0.9
	DefaultWeightedShare     = 0.6
	DefaultMinSampleSize     = 3
)

// Skip reasons reported to logs and metrics
const (
	SkipInsufficientSample = "insufficient_sample"
	SkipNoCandidate        = "no_candidate_in_band"
)

// DefaultFields returns the fields ranked when none are given
func DefaultFields() []models.FieldName {
	return []models.FieldName{
		models.FieldCorners,
		models.FieldYellowCards,
		models.FieldShotsTotal,
		models.FieldShotsOnTarget,
	}
}

// Band is the acceptance interval and the probability aimed for inside it
type Band struct {
	Target float64
	Min    float64
	Max    float64
}

// Contains reports whether p lies in [Min, Max]
func (b Band) Contains(p float64) bool {
	return p >= b.Min && p <= b.Max
}

// Options tunes the engine. Zero values fall back to the defaults, so a
// zero band bound or decay factor cannot be requested. WeightedShare is a
// pointer because zero is meaningful there: Share(0) uses the simple mean only.
type Options struct {
	TargetProbability float64
	MinProbability    float64
	MaxProbability    float64
	Fields            []models.FieldName
	DecayFactor       float64
	// WeightedShare is the weight of the recency-weighted mean; nil means 0.6
	WeightedShare *float64
	MinSampleSize int
	Confidence    ConfidencePolicy
}

// Share returns a WeightedShare option value
func Share(v float64) *float64 {
	return &v
}

func (o Options) weightedShare() float64 {
	if o.WeightedShare == nil {
		return DefaultWeightedShare
	}
	return *o.WeightedShare
}

// DefaultOptions returns the stock engine settings
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.TargetProbability == 0 {
		o.TargetProbability = DefaultTargetProbability
	}
	if o.MinProbability == 0 {
		o.MinProbability = DefaultMinProbability
	}
	if o.MaxProbability == 0 {
		o.MaxProbability = DefaultMaxProbability
	}
	if len(o.Fields) == 0 {
		o.Fields = DefaultFields()
	}
	if o.DecayFactor == 0 {
		o.DecayFactor = DefaultDecayFactor
	}
	if o.WeightedShare == nil {
		o.WeightedShare = Share(DefaultWeightedShare)
	}
	if o.MinSampleSize == 0 {
		o.MinSampleSize = DefaultMinSampleSize
	}
	if o.Confidence.isZero() {
		o.Confidence = DefaultConfidencePolicy()
	}
	return o
}

// Band returns the acceptance band described by the options
func (o Options) Band() Band {
	return Band{Target: o.TargetProbability, Min: o.MinProbability, Max: o.MaxProbability}
}

// Engine ranks value lines and reports its decisions through logs and metrics
type Engine struct {
	opts Options
	log  *logger.LineLogger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(opts Options, log *logrus.Logger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{opts: opts.withDefaults(), log: logger.NewLineLogger(log)}
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.opts
}

// FindValueLines runs a silent engine with the given options
func FindValueLines(home, away []models.NormalizedMatchRecord, opts Options) []models.LineRecommendation {
	return NewEngine(opts, nil).FindValueLines(home, away)
}

// Recommend evaluates a single field and returns at most one line
func (e *Engine) Recommend(home, away []models.NormalizedMatchRecord, field models.FieldName) (models.LineRecommendation, bool) {
	dist := Combine(home, away, field, e.opts)
	if dist.SampleSize < e.opts.MinSampleSize {
		e.skip(field, SkipInsufficientSample, dist.SampleSize)
		return models.LineRecommendation{}, false
	}

	best, ok := FindBestLine(dist.PredictedMean, dist.PredictedStdDev, e.opts.Band())
	if !ok {
		e.skip(field, SkipNoCandidate, dist.SampleSize)
		return models.LineRecommendation{}, false
	}

	rec := models.LineRecommendation{
		Field:           field,
		Line:            best.Line,
		Side:            best.Side,
		Probability:     best.Probability,
		FairDecimalOdds: 1 / best.Probability,
		PredictedTotal:  dist.PredictedMean,
		PredictedStdDev: dist.PredictedStdDev,
		HomeMean:        dist.HomeMean,
		AwayMean:        dist.AwayMean,
		SampleSize:      dist.SampleSize,
		Confidence:      e.opts.Confidence.Classify(dist.SampleSize, dist.PredictedStdDev),
	}

	metrics.RecordRecommendation(string(field), string(rec.Confidence), rec.Probability)
	e.log.LogLineSelected(string(field), rec.Line, string(rec.Side), rec.Probability, rec.FairDecimalOdds, rec.SampleSize, string(rec.Confidence))
	return rec, true
}

// FindValueLines evaluates every configured field and sorts the surviving
// recommendations by distance from the target probability.
func (e *Engine) FindValueLines(home, away []models.NormalizedMatchRecord) []models.LineRecommendation {
	start := time.Now()
	out := make([]models.LineRecommendation, 0, len(e.opts.Fields))
	for _, field := range e.opts.Fields {
		if rec, ok := e.Recommend(home, away, field); ok {
			out = append(out, rec)
		}
	}

	target := e.opts.TargetProbability
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Probability-target) < math.Abs(out[j].Probability-target)
	})

	elapsed := time.Since(start)
	metrics.RecordEngineRun(elapsed.Seconds())
	e.log.LogRanking(len(e.opts.Fields), len(out), float64(elapsed.Microseconds())/1000)
	return out
}

func (e *Engine) skip(field models.FieldName, reason string, sampleSize int) {
	metrics.RecordFieldSkipped(string(field), reason)
	e.log.LogFieldSkipped(string(field), reason, sampleSize)
}
