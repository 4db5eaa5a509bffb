package domain

import "errors"

var (
	// ErrInvalidURL means the input could not be parsed even after
	// scheme normalization. Terminal, surfaced to the user.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNetwork means the primary fetch of the chosen strategy chain
	// failed outright for every fallback. Surfaced as retryable.
	ErrNetwork = errors.New("network failure")

	// ErrDuplicateArticle is returned by the store when the url or id
	// already exists.
	ErrDuplicateArticle = errors.New("article already saved")

	// ErrArticleNotFound is returned by lookups and updates against a
	// missing id. The enrichment apply path treats it as a no-op.
	ErrArticleNotFound = errors.New("article not found")

	// ErrLLMParse means the model response carried no parseable JSON.
	// Never propagates past an LLM call site; callers degrade to a
	// programmatic fallback.
	ErrLLMParse = errors.New("malformed llm response")
)
