// Package llm voices the conversation partner through a chat model. A
// Provider turns a Request into structured JSON; decorators add retries
// and record every call in the local event log.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider generates one model reply.
type Provider interface {
	// Generate sends req and returns the reply. When req.Schema is set the
	// Content is JSON that satisfies it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider sends requests to.
	ModelID() string
}

// Role is who said a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the replayed transcript.
type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema the reply must satisfy. Name doubles as the
// structured-output name on vendors that need one, so it is kebab-case.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is one generation call.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the vendor default
}

// Transcript renders req the way it is stored in the event log.
func (r Request) Transcript() string {
	var b strings.Builder
	if r.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", r.System)
	}
	for _, m := range r.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if r.Schema != nil {
		if def, err := json.Marshal(r.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", r.Schema.Name, def)
		}
	}
	return b.String()
}

// StopReason says why the model stopped.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage is the token count of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// Response is a model reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// finish checks a vendor reply against the request: a truncated reply or
// one that breaks the schema is an error.
func finish(vendor string, req Request, resp *Response) (*Response, error) {
	if req.Schema == nil {
		return resp, nil
	}
	if resp.StopReason == StopMaxTokens {
		return nil, &Error{Kind: KindTruncated, Vendor: vendor, Content: resp.Content}
	}
	if err := Validate(req.Schema, resp.Content); err != nil {
		return nil, withVendor(err, vendor)
	}
	return resp, nil
}

// resolveModel expands a short alias; anything else is taken as a model id.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
