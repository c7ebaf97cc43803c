package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
)

type recording struct {
	inner  Provider
	vendor string
	events store.EventRepo
	logger *slog.Logger
	now    func() time.Time
}

// WithEvents stores one LLMRequestEvent per call to p, successful or not.
// A failed append is logged and never fails the call.
func WithEvents(p Provider, vendor string, events store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &recording{inner: p, vendor: vendor, events: events, logger: logger, now: time.Now}
}

func (r *recording) ModelID() string { return r.inner.ModelID() }

func (r *recording) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    r.vendor,
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   r.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: req.Transcript(),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		var e *Error
		if errors.As(err, &e) && len(e.Content) > 0 {
			ev.ResponseBody = string(e.Content)
		}
	}

	if aerr := r.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); aerr != nil {
		r.logger.Warn("record llm request", "purpose", ev.Purpose, "err", aerr)
	}
	r.logger.Debug("llm request", "vendor", r.vendor, "model", ev.Model,
		"purpose", ev.Purpose, "latency_ms", ev.LatencyMs, "ok", ev.Success)
	return resp, err
}
