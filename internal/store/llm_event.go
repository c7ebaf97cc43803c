package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo implements EventRepo with raw SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO llm_request_events
		(sequence, timestamp, provider, model, purpose, input_tokens, output_tokens,
		 latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
		data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	where, args := opts.where()
	rows, err := r.db.QueryContext(ctx, `SELECT sequence, timestamp, provider, model, purpose,
		input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
		FROM llm_request_events`+where+` ORDER BY sequence DESC`+opts.limit(), args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var ev LLMRequestEvent
		var ts int64
		if err := rows.Scan(&ev.Sequence, &ts, &ev.Provider, &ev.Model, &ev.Purpose,
			&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success,
			&ev.ErrorMessage, &ev.RequestBody, &ev.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan LLM request event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(ts)
		out = append(out, ev)
	}
	return out, rows.Err()
}
