package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw oracle output into T.
// Code fences, surrounding prose and // comments are tolerated. If validator
// is non-nil, the decoded value is validated before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := locateJSON(raw, "{")
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// ExtractJSONValue returns the first JSON object or array in raw oracle
// output, whichever opens first, with the same clean-up as ExtractJSON.
// Interpreting its shape is left to the caller.
func ExtractJSONValue(raw string) (json.RawMessage, error) {
	block := locateJSON(raw, "{[")
	if block == "" {
		return nil, fmt.Errorf("%w: no JSON value found in response", ErrInvalidOutput)
	}
	if !json.Valid([]byte(block)) {
		return nil, fmt.Errorf("%w: malformed JSON in response", ErrInvalidOutput)
	}
	return json.RawMessage(block), nil
}

// locateJSON drops code fence lines, then returns the balanced block that
// starts at the first byte of opens, without line comments. It returns ""
// when no block closes.
func locateJSON(raw, opens string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	s := strings.Join(kept, "\n")

	start := strings.IndexAny(s, opens)
	if start == -1 {
		return ""
	}

	var b strings.Builder
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				b.WriteByte(c)
				return b.String()
			}
		}
		b.WriteByte(c)
	}
	return ""
}
