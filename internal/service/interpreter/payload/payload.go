// Package payload recovers structured actions from an assistant reply.
//
// The reply is free text that may embed a JSON array or object. Extract
// locates the widest bracketed span, parses it strictly as JSON, and on
// failure retries with a permissive parser that accepts Python-style
// literals (True/False/None), single-quoted strings, trailing commas and
// unquoted keys.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

var (
	// ErrNoPayload means the reply holds no bracketed span at all.
	// The reply should be shown to the user as plain text.
	ErrNoPayload = errors.New("no action payload")

	// ErrMalformedPayload means a span was found but neither parser could
	// read it as an object or a list of objects.
	ErrMalformedPayload = errors.New("malformed action payload")
)

// spanRe matches the first "[" or "{" that has a closer of the same type
// later in the text, through the last such closer.
var spanRe = regexp.MustCompile(`(?s)\[.*\]|\{.*\}`)

// Action is one recovered instruction.
type Action struct {
	// Kind is the action tag, read from "kind" or, failing that, "action".
	Kind string
	// Fields is the whole decoded object, tag included.
	Fields map[string]any
	// Invalid marks a list element that was not an object.
	Invalid bool
}

// Extract returns the actions embedded in reply, in order.
func Extract(reply string) ([]Action, error) {
	span := spanRe.FindString(reply)
	if span == "" {
		return nil, ErrNoPayload
	}

	v, err := decode(span)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch t := v.(type) {
	case map[string]any:
		return []Action{newAction(t)}, nil
	case []any:
		actions := make([]Action, 0, len(t))
		for _, el := range t {
			obj, ok := el.(map[string]any)
			if !ok {
				actions = append(actions, Action{Invalid: true})
				continue
			}
			actions = append(actions, newAction(obj))
		}
		return actions, nil
	default:
		return nil, fmt.Errorf("%w: top-level value is %T", ErrMalformedPayload, v)
	}
}

func newAction(obj map[string]any) Action {
	a := Action{Fields: obj}
	for _, key := range []string{"kind", "action"} {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			a.Kind = strings.TrimSpace(s)
			break
		}
	}
	return a
}

func decode(span string) (any, error) {
	v, strictErr := decodeStrict(span)
	if strictErr == nil {
		return v, nil
	}

	var relaxed any
	if err := json5.Unmarshal([]byte(normalizeLiterals(span)), &relaxed); err != nil {
		return nil, fmt.Errorf("strict: %v; permissive: %v", strictErr, err)
	}
	return relaxed, nil
}

// decodeStrict parses span as exactly one JSON value. Numbers stay json.Number.
func decodeStrict(span string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

var pythonLiterals = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

// normalizeLiterals turns Python-flavoured near-JSON into something the JSON5
// parser accepts: bare True/False/None become true/false/null and
// single-quoted strings become double-quoted ones. Text inside strings is
// left alone apart from the quoting escapes.
func normalizeLiterals(s string) string {
	var out bytes.Buffer
	out.Grow(len(s) + 8)

	var quote byte
	for i := 0; i < len(s); {
		c := s[i]

		if quote != 0 {
			switch {
			case c == '\\' && i+1 < len(s):
				next := s[i+1]
				if next == '\'' {
					// \' is not a JSON escape; the quote needs none inside "...".
					out.WriteByte('\'')
				} else {
					out.WriteByte(c)
					out.WriteByte(next)
				}
				i += 2
				continue
			case c == quote:
				out.WriteByte('"')
				quote = 0
			case c == '"' && quote == '\'':
				out.WriteString(`\"`)
			default:
				out.WriteByte(c)
			}
			i++
			continue
		}

		if c == '"' || c == '\'' {
			quote = c
			out.WriteByte('"')
			i++
			continue
		}

		if isIdentStart(c) {
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			word := s[i:j]
			if repl, ok := pythonLiterals[word]; ok {
				word = repl
			}
			out.WriteString(word)
			i = j
			continue
		}

		out.WriteByte(c)
		i++
	}

	return out.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
