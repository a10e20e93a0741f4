// Package router runs one dialogue turn: safety gate, intent extraction,
// dispatch to the intent's handler, and the session update.
package router

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/pkg/ai/intent"
	"ai-shopping-agent-be/pkg/ai/prompt"
	"ai-shopping-agent-be/pkg/ai/safety"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/llm"
	"ai-shopping-agent-be/pkg/ranking"
	"ai-shopping-agent-be/pkg/session"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultGenerationTimeout = 20 * time.Second
	MaxCompared              = 3
)

var ErrEmptyMessage = errors.New("message must not be empty")

// TurnResult is everything one turn produced.
type TurnResult struct {
	ResponseText        string
	Intent              intent.Label
	SessionID           string
	Candidates          []catalog.Product
	Comparison          *catalog.Comparison
	IsRefusal           bool
	ReferencedEntityIDs []string
	Safety              safety.Verdict
	Confidence          float64
	IntentSource        intent.Source
	Stage               ranking.Stage
	Generated           bool
}

// Observer is told about every completed turn. Implementations must not block.
type Observer interface {
	ObserveTurn(ctx context.Context, res *TurnResult, elapsed time.Duration)
}

type Deps struct {
	Catalog   *catalog.Store
	Searcher  *catalog.Searcher
	Safety    *safety.Classifier
	Intents   *intent.Extractor
	Sessions  *session.Store
	Generator llm.LLMProvider
	Logger    logger.ILogger
}

type Option func(*Router)

func WithGenerationTimeout(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.genTimeout = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Router) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Router) { r.tracer = t }
}

type Router struct {
	catalog    *catalog.Store
	searcher   *catalog.Searcher
	safety     *safety.Classifier
	intents    *intent.Extractor
	sessions   *session.Store
	generator  llm.LLMProvider
	genTimeout time.Duration
	observers  []Observer
	tracer     trace.Tracer
	logger     logger.ILogger
	handlers   map[intent.Label]handler
}

func NewRouter(deps Deps, opts ...Option) *Router {
	r := &Router{
		catalog:    deps.Catalog,
		searcher:   deps.Searcher,
		safety:     deps.Safety,
		intents:    deps.Intents,
		sessions:   deps.Sessions,
		generator:  deps.Generator,
		genTimeout: DefaultGenerationTimeout,
		tracer:     otel.Tracer("ai-shopping-agent-be/router"),
		logger:     deps.Logger,
	}
	if r.logger == nil {
		r.logger = logger.NewNopLogger()
	}
	for _, opt := range opts {
		opt(r)
	}
	r.handlers = r.dispatchTable()
	return r
}

// HandleTurn processes one user message in the given session. An empty
// sessionID starts a new session. The only errors are ErrEmptyMessage and
// context cancellation; collaborator failures degrade to fallback text.
func (r *Router) HandleTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "router.HandleTurn")
	defer span.End()
	start := time.Now()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	unlock := r.sessions.Lock(sessionID)
	defer unlock()
	sess := r.sessions.GetOrCreate(sessionID)
	span.SetAttributes(attribute.String("session.id", sess.ID))

	history := sess.UserMessages()
	res := &TurnResult{SessionID: sess.ID}

	verdict := r.safety.Classify(ctx, message, history)
	res.Safety = verdict
	if !verdict.Safe() {
		r.refuse(res, verdict)
	} else {
		extracted := r.intents.Extract(ctx, message, history)
		res.Intent = extracted.Label
		res.Confidence = extracted.Confidence
		res.IntentSource = extracted.Source

		t := &turn{message: message, session: sess, intent: extracted}
		out := r.handlers[extracted.Label](ctx, t)
		res.ResponseText = out.text
		res.Candidates = out.candidates
		res.Comparison = out.comparison
		res.ReferencedEntityIDs = out.entityIDs
		res.Stage = out.stage
		res.Generated = out.generated
	}

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res.ResponseText = safety.Sanitize(res.ResponseText)
	r.sessions.RecordTurn(sess, session.Turn{
		UserMessage: message,
		Response:    res.ResponseText,
		Intent:      string(res.Intent),
		EntityIDs:   res.ReferencedEntityIDs,
	})

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.String("turn.intent", string(res.Intent)),
		attribute.Bool("turn.refusal", res.IsRefusal),
		attribute.Int("turn.candidates", len(res.Candidates)),
	)
	r.logger.Info("ROUTER", "Turn handled", map[string]interface{}{
		"session_id": res.SessionID,
		"intent":     res.Intent,
		"refusal":    res.IsRefusal,
		"candidates": len(res.Candidates),
		"generated":  res.Generated,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	for _, o := range r.observers {
		o.ObserveTurn(ctx, res, elapsed)
	}
	return res, nil
}

func (r *Router) refuse(res *TurnResult, v safety.Verdict) {
	res.IsRefusal = true
	res.Confidence = v.Confidence
	res.IntentSource = intent.SourceHeuristic
	switch v.Label {
	case safety.LabelOffTopic:
		res.Intent = intent.LabelOffTopic
		res.ResponseText = prompt.OffTopic
	default:
		res.Intent = intent.LabelAdversarial
		res.ResponseText = prompt.Adversarial
	}
	r.logger.Warn("ROUTER", "Message refused", map[string]interface{}{
		"session_id": res.SessionID,
		"label":      v.Label,
		"category":   v.Category,
		"reason":     v.Reason,
		"tier":       v.Tier,
	})
}
