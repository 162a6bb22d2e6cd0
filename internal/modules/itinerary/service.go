// README: Itinerary generation service: quota math, concurrent backfill, completion and parsing.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"wayfarer/internal/ai"
	"wayfarer/internal/types"
)

// Completer is the completion capability generation needs.
type Completer interface {
	Complete(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error)
}

// Backfiller tops up one candidate pool.
type Backfiller interface {
	EnsureSufficient(ctx context.Context, current []PlaceCandidate, center types.Point, preferences []string, category Category, needed int) []PlaceCandidate
}

type Step string

const (
	StepValidate   Step = "validate"
	StepBackfill   Step = "backfill"
	StepCompletion Step = "completion"
	StepParse      Step = "parse"
	StepEncode     Step = "encode"
)

// GenerationError is the single failure a generation surfaces.
type GenerationError struct {
	Step Step
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate itinerary: %s: %v", e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type Service struct {
	backfill Backfiller
	llm      Completer
	model    string
	timeout  time.Duration
	log      *slog.Logger
}

// NewService wires generation. model may be empty to use the provider default;
// timeout <= 0 leaves deadlines to the caller.
func NewService(backfill Backfiller, llm Completer, model string, timeout time.Duration, log *slog.Logger) *Service {
	metricsOnce.Do(initMetrics)
	return &Service{backfill: backfill, llm: llm, model: model, timeout: timeout, log: log}
}

// Generate builds an itinerary for params from the given candidate pools and
// returns it as canonical JSON text. No step is retried.
func (s *Service) Generate(ctx context.Context, params TripParameters, attractions, restaurants, cafes []PlaceCandidate) (string, error) {
	start := time.Now()
	genID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "itinerary.generate", trace.WithAttributes(
		attribute.String("generation_id", genID),
		attribute.String("city", params.City),
	))
	defer span.End()
	log := s.log.With("generation_id", genID, "city", params.City, "trace_id", span.SpanContext().TraceID().String())

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.generate(ctx, log, params, Pools{
		Attractions: withCategory(attractions, CategoryAttraction),
		Restaurants: withCategory(restaurants, CategoryRestaurant),
		Cafes:       withCategory(cafes, CategoryCafe),
	})

	outcome := "success"
	if err != nil {
		outcome = "error"
		var ge *GenerationError
		if errors.As(err, &ge) {
			outcome = string(ge.Step)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		log.Error("itinerary generation failed", "err", err)
	}
	generations.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	generationDuration.Record(ctx, time.Since(start).Seconds())
	return out, err
}

func (s *Service) generate(ctx context.Context, log *slog.Logger, params TripParameters, pools Pools) (string, error) {
	if err := params.Validate(); err != nil {
		return "", &GenerationError{Step: StepValidate, Err: err}
	}
	days := params.DayCount()

	pools, err := s.fill(ctx, log, params, days, pools)
	if err != nil {
		return "", &GenerationError{Step: StepBackfill, Err: err}
	}

	prompt := BuildPrompt(params, pools)
	resp, err := s.llm.Complete(ctx, ai.ChatRequest{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: SystemPrompt},
			{Role: ai.RoleUser, Content: prompt},
		},
		Model:  s.model,
		Stream: false,
	})
	if err != nil {
		return "", &GenerationError{Step: StepCompletion, Err: err}
	}

	parsed, err := ParseResponse(resp.Content)
	if err != nil {
		return "", &GenerationError{Step: StepParse, Err: err}
	}

	if flat, err := Flatten(parsed); err != nil {
		log.Warn("itinerary not auditable", "err", err)
	} else if report := Audit(flat, pools); !report.OK() {
		log.Warn("itinerary breaks scheduling rules",
			"reused", report.Reused, "unknown", report.Unknown, "missing", report.Missing,
			"tight_transitions", len(report.TightTransitions))
	}

	out, err := Canonical(parsed)
	if err != nil {
		return "", &GenerationError{Step: StepEncode, Err: err}
	}
	log.Info("itinerary generated", "days", days, "candidates", pools.Total())
	return out, nil
}

// fill backfills every short pool concurrently. Pools share no state, so
// each goroutine writes only its own slot of added.
func (s *Service) fill(ctx context.Context, log *slog.Logger, params TripParameters, days int, pools Pools) (Pools, error) {
	added := make([][]PlaceCandidate, len(Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range Categories {
		q := QuotaFor(c, days, len(pools.Of(c)))
		if q.Shortfall == 0 {
			continue
		}
		current := pools.Of(c)
		g.Go(func() error {
			added[i] = s.backfill.EnsureSufficient(gctx, current, params.Center, params.Preferences(c), c, q.Shortfall)
			if len(added[i]) < q.Shortfall {
				log.Info("pool still short after backfill",
					"category", c, "required", q.Required, "have", q.Existing+len(added[i]))
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return Pools{}, err
	}

	for i, c := range Categories {
		if len(added[i]) > 0 {
			pools.set(c, append(pools.Of(c), added[i]...))
		}
	}
	return pools, nil
}

// withCategory copies a caller pool, stamping every entry with its pool's category.
func withCategory(in []PlaceCandidate, c Category) []PlaceCandidate {
	out := make([]PlaceCandidate, len(in))
	for i, p := range in {
		p.Category = c
		out[i] = p
	}
	return out
}
