package ports

import "context"

// CompletionEngine is the outbound port for the text-completion service that
// turns an utterance into a candidate action/entity structure. The returned
// text is untrusted: it may arrive wrapped in prose or markdown fences, or
// truncated mid-object. Callers run it through the recovery pipeline.
// The context should carry a timeout; adapters do not retry.
type CompletionEngine interface {
	Complete(ctx context.Context, utterance string) (string, error)
}
