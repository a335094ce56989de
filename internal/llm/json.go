// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/content-engine/pkg/types"
)

// ExtractJSON returns the first balanced JSON object in a model reply. Text
// before and after the object (prose, code fences) is ignored. A reply
// without '{' or with an unterminated object wraps types.ErrParse.
func ExtractJSON(output string) (json.RawMessage, error) {
	start := strings.IndexByte(output, '{')
	if start == -1 {
		return nil, fmt.Errorf("%w: no JSON object in reply", types.ErrParse)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(output); i++ {
		if escaped {
			escaped = false
			continue
		}
		c := output[i]
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return json.RawMessage(output[start : i+1]), nil
			}
		}
	}

	return nil, fmt.Errorf("%w: unterminated JSON object in reply", types.ErrParse)
}
