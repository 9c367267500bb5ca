package llm

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Category is what the fallback policy needs to know about a failed invocation.
type Category int

const (
	CategoryOther Category = iota
	CategoryNotFound
	CategoryQuota
)

func (c Category) String() string {
	switch c {
	case CategoryNotFound:
		return "not_found"
	case CategoryQuota:
		return "quota"
	default:
		return "other"
	}
}

// Sentinels for clients that do not expose structured errors.
var (
	ErrModelNotFound  = errors.New("model not found")
	ErrQuotaExhausted = errors.New("quota exhausted")
)

// Classify prefers structured information (sentinels, genai.APIError) and only then
// falls back to the text signals the vendors put in their messages.
func Classify(err error) Category {
	if err == nil {
		return CategoryOther
	}

	switch {
	case errors.Is(err, ErrModelNotFound):
		return CategoryNotFound
	case errors.Is(err, ErrQuotaExhausted):
		return CategoryQuota
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if c := classifyAPIError(apiErr.Code, apiErr.Status); c != CategoryOther {
			return c
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		if c := classifyAPIError(apiErrPtr.Code, apiErrPtr.Status); c != CategoryOther {
			return c
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "404") || strings.Contains(msg, "NOT_FOUND"):
		return CategoryNotFound
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return CategoryQuota
	}
	return CategoryOther
}

func classifyAPIError(code int, status string) Category {
	switch {
	case code == http.StatusNotFound || status == "NOT_FOUND":
		return CategoryNotFound
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return CategoryQuota
	}
	return CategoryOther
}
