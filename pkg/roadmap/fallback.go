package roadmap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Recover salvages a roadmap from output that failed strict parsing. It takes
// the first balanced [...] span in raw and decodes it as the stage array
// without the contract checks Validate applies.
func Recover(raw string) (Roadmap, error) {
	span, ok := firstBracketedSpan(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no array found in output", ErrFallbackParseFailure)
	}

	var r Roadmap
	if err := json.Unmarshal([]byte(span), &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFallbackParseFailure, err)
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("%w: array holds no stages", ErrFallbackParseFailure)
	}
	return r, nil
}

// firstBracketedSpan returns the smallest span starting at the first '[' that
// closes its own bracket. Brackets inside JSON string literals are ignored.
func firstBracketedSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
