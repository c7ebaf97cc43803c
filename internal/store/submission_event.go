package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendSubmission(ctx context.Context, data SubmissionEventData) error {
	if data.Kind != KindAnswer && data.Kind != KindCompletion {
		return fmt.Errorf("unknown submission kind %q", data.Kind)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO submission_events
		(sequence, timestamp, kind, user_id, lesson_id, question_id, selected_index,
		 score, language_code, success, correct, xp, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.Kind, data.UserID, data.LessonID,
		data.QuestionID, data.SelectedIndex, data.Score, data.LanguageCode,
		data.Success, data.Correct, data.XP, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save submission event: %w", err)
	}
	return nil
}

func (r *eventRepo) Submissions(ctx context.Context, opts QueryOpts) ([]SubmissionEvent, error) {
	where, args := opts.where()
	rows, err := r.db.QueryContext(ctx, `SELECT sequence, timestamp, kind, user_id, lesson_id,
		question_id, selected_index, score, language_code, success, correct, xp, error_message
		FROM submission_events`+where+` ORDER BY sequence DESC`+opts.limit(), args...)
	if err != nil {
		return nil, fmt.Errorf("query submission events: %w", err)
	}
	defer rows.Close()

	var out []SubmissionEvent
	for rows.Next() {
		var ev SubmissionEvent
		var ts int64
		if err := rows.Scan(&ev.Sequence, &ts, &ev.Kind, &ev.UserID, &ev.LessonID,
			&ev.QuestionID, &ev.SelectedIndex, &ev.Score, &ev.LanguageCode,
			&ev.Success, &ev.Correct, &ev.XP, &ev.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan submission event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(ts)
		out = append(out, ev)
	}
	return out, rows.Err()
}
