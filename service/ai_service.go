package service

import "context"

// AIService is the external completion backend. Implementations classify
// their failures: a backend that answered badly or emptily is
// KindUpstreamFailure, one that could not be reached is
// KindUpstreamUnavailable. A single attempt is made per call.
type AIService interface {
	Chat(ctx context.Context, systemPrompt, message string) (string, error)
}
