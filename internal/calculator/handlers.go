package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints on top of a session store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers — session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	sess := h.store.Create()

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID, Snapshot: sess.Snapshot()})
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.get")
	defer span.End()

	sess, ok := h.lookup(ctx, span, w, r, "get")
	if !ok {
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: sess.ID, Snapshot: sess.Snapshot()})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		logger := observability.LoggerWithTrace(ctx)
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	observability.LoggerWithTrace(ctx).Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	span.SetStatus(codes.Ok, "")
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers — input adapters
// ---------------------------------------------------------------------------

// SendCommand handles POST /calculator/sessions/{id}/commands
func (h *Handler) SendCommand(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.command")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := h.lookup(ctx, span, w, r, "command")
	if !ok {
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "command", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	cmd, err := ParseCommand(req.Command, req.Value)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "command", "invalid command", err, http.StatusBadRequest, w)
		return
	}

	snap := dispatch(ctx, sess, cmd)
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: sess.ID, Snapshot: snap})
}

// SendKey handles POST /calculator/sessions/{id}/keys, the keyboard
// adapter. Unrecognised keys leave the session untouched.
func (h *Handler) SendKey(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.key")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	sess, ok := h.lookup(ctx, span, w, r, "key")
	if !ok {
		return
	}

	var req KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "key", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.key", req.Key))

	resp := KeyResponse{
		SessionResponse: SessionResponse{ID: sess.ID},
		PreventDefault:  SuppressesDefault(req.Key),
	}

	cmd, handled := KeyCommand(req.Key)
	if handled {
		resp.Snapshot = dispatch(ctx, sess, cmd)
	} else {
		resp.Snapshot = sess.Snapshot()
	}
	resp.Handled = handled

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Handler — one-shot key sequence (demonstrates nested spans)
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It runs a key sequence on a
// fresh engine, creating a child span for every key. The first fault
// aborts the sequence.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the entire sequence
	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("evaluate.keys_count", len(req.Keys)))

	engine := NewEngine(WithFormatter(h.store.formatter))
	steps := make([]EvaluateStep, 0, len(req.Keys))

	for i, key := range req.Keys {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.evaluate.key.%d", i),
			trace.WithAttributes(
				attribute.Int("evaluate.key.index", i),
				attribute.String("evaluate.key", key),
			),
		)

		step := EvaluateStep{Key: key}

		cmd, ok := KeyCommand(key)
		if !ok {
			stepSpan.AddEvent("key.ignored")
			stepSpan.End()
			step.Display = engine.Display()
			steps = append(steps, step)
			continue
		}
		step.Command = cmd.String()

		if err := engine.Apply(cmd); err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			span.AddEvent("evaluate.fault", trace.WithAttributes(attribute.Int("evaluate.key.index", i)))
			observability.RecordError(ctx, span, logger, errorCounter, FaultCode(err), err.Error(), err, http.StatusUnprocessableEntity, w)
			return
		}

		step.Display = engine.Display()
		stepSpan.SetAttributes(attribute.String("evaluate.display", step.Current))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		commandCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("command", cmd.Kind.String())))
		steps = append(steps, step)
	}

	recordResult(ctx, engine.State())

	final := engine.Display()
	span.SetAttributes(attribute.String("evaluate.display", final.Current))
	span.SetStatus(codes.Ok, "")

	logger.Info("key sequence evaluated",
		zap.Int("keys", len(req.Keys)),
		zap.String("display", final.Current),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{Steps: steps, Display: final})
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func (h *Handler) lookup(ctx context.Context, span trace.Span, w http.ResponseWriter, r *http.Request, opName string) (*Session, bool) {
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session_id", id))

	sess, err := h.store.Get(id)
	if err != nil {
		logger := observability.LoggerWithTrace(ctx)
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return nil, false
	}
	return sess, true
}

// dispatch runs one command against a session inside its own span,
// recording metrics and a trace-correlated log line. Faults are part of
// the snapshot rather than an HTTP failure: the client is the render sink.
func dispatch(ctx context.Context, sess *Session, cmd Command) Snapshot {
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator."+cmd.Kind.String(),
		trace.WithAttributes(
			attribute.String("calculator.command", cmd.String()),
			attribute.String("calculator.session_id", sess.ID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	start := time.Now()
	snap, err := sess.Dispatch(cmd)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("command", cmd.Kind.String()))
	commandCounter.Add(ctx, 1, attrs)
	commandHistogram.Record(ctx, elapsed, attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", FaultCode(err))))

		logger.Warn("calculator fault",
			zap.String("session_id", sess.ID),
			zap.String("command", cmd.String()),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		return snap
	}

	if cmd.Kind == CommandEquals {
		recordResult(ctx, sess.State())
	}

	span.SetAttributes(
		attribute.String("calculator.phase", snap.Phase),
		attribute.String("calculator.display", snap.Current),
	)
	span.SetStatus(codes.Ok, "")

	logger.Debug("calculator command applied",
		zap.String("session_id", sess.ID),
		zap.String("command", cmd.String()),
		zap.String("phase", snap.Phase),
		zap.String("display", snap.Current),
		zap.Float64("duration_ms", elapsed),
	)

	return snap
}

// recordResult publishes the value on screen after a computation.
func recordResult(ctx context.Context, s State) {
	if s.Phase() != PhaseResult {
		return
	}
	v, err := strconv.ParseFloat(s.CurrentOperand, 64)
	if err != nil {
		return
	}
	resultGauge.Record(ctx, v)
}
