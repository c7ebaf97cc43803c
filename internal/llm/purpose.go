package llm

import "context"

// PurposeConversation labels partner replies in a practice conversation.
const PurposeConversation = "conversation-turn"

type purposeKey struct{}

// WithPurpose tags ctx with what the call is for. The tag is stored with
// the request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unspecified".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unspecified"
}
