package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Submission kinds.
const (
	KindAnswer     = "answer"
	KindCompletion = "completion"
)

// SubmissionEventData records the outcome of one answer check or lesson
// completion call. The correct option and explanation are deliberately
// absent: only what the learner chose and whether it counted is kept.
type SubmissionEventData struct {
	Kind          string
	UserID        string
	LessonID      string
	QuestionID    string
	SelectedIndex int
	Score         int
	LanguageCode  string
	Success       bool
	Correct       bool
	XP            int
	ErrorMessage  string
}

// SubmissionEvent is a stored SubmissionEventData.
type SubmissionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SubmissionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to local events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSubmission records one submission outcome.
	AppendSubmission(ctx context.Context, data SubmissionEventData) error

	// Submissions returns stored submissions, newest first.
	Submissions(ctx context.Context, opts QueryOpts) ([]SubmissionEvent, error)

	// LLMRequests returns stored LLM request events, newest first.
	LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}

// SessionRecord is the persisted form of a signed-in session.
type SessionRecord struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	UserID       string
	Email        string
}

// SessionRepo persists at most one signed-in session between runs.
type SessionRepo interface {
	// Save replaces the stored session.
	Save(ctx context.Context, rec SessionRecord) error

	// Load returns the stored session, or nil if none exists.
	Load(ctx context.Context) (*SessionRecord, error)

	// Clear removes the stored session. Clearing an empty repo is not an error.
	Clear(ctx context.Context) error
}
