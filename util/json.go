// util/json.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DuplicateJSONKey records a repeated object key found while scanning
// raw JSON, before encoding/json's silent last-value-wins takes effect.
type DuplicateJSONKey struct {
	Path string
	Key  string
}

// FindDuplicateJSONKeys walks data with the token-based decoder API,
// tracking seen keys per nesting level, ported from the teacher's
// util/json.go (itself domain-agnostic: nothing in it is ATC-specific).
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	dec := json.NewDecoder(bytes.NewReader(data))
	var duplicates []DuplicateJSONKey

	type stackEntry struct {
		isObject  bool
		seenKeys  map[string]bool
		expectKey bool
		popPath   bool
	}
	var stack []stackEntry
	var path []string

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				popPath := len(stack) > 0 && stack[len(stack)-1].isObject && !stack[len(stack)-1].expectKey
				stack = append(stack, stackEntry{isObject: true, seenKeys: make(map[string]bool), expectKey: true, popPath: popPath})
			case '}':
				if len(stack) > 0 {
					if stack[len(stack)-1].popPath && len(path) > 0 {
						path = path[:len(path)-1]
					}
					stack = stack[:len(stack)-1]
				}
				if len(stack) > 0 && stack[len(stack)-1].isObject {
					stack[len(stack)-1].expectKey = true
				}
			case '[':
				popPath := len(stack) > 0 && stack[len(stack)-1].isObject && !stack[len(stack)-1].expectKey
				stack = append(stack, stackEntry{isObject: false, popPath: popPath})
			case ']':
				if len(stack) > 0 {
					if stack[len(stack)-1].popPath && len(path) > 0 {
						path = path[:len(path)-1]
					}
					stack = stack[:len(stack)-1]
				}
				if len(stack) > 0 && stack[len(stack)-1].isObject {
					stack[len(stack)-1].expectKey = true
				}
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.isObject && top.expectKey {
					if top.seenKeys[v] {
						duplicates = append(duplicates, DuplicateJSONKey{Path: strings.Join(path, "."), Key: v})
					}
					top.seenKeys[v] = true
					top.expectKey = false
					path = append(path, v)
				} else if top.isObject {
					top.expectKey = true
					if len(path) > 0 {
						path = path[:len(path)-1]
					}
				}
			}
		default:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.isObject {
					top.expectKey = true
					if len(path) > 0 {
						path = path[:len(path)-1]
					}
				}
			}
		}
	}

	return duplicates
}

// DecodeStrict unmarshals b into *T, reporting repeated object keys and
// translating json errors into line/character-located messages.
func DecodeStrict[T any](b []byte, out *T) error {
	if dups := FindDuplicateJSONKeys(b); len(dups) > 0 {
		d := dups[0]
		if d.Path != "" {
			return fmt.Errorf("duplicate JSON key %q at %s", d.Key, d.Path)
		}
		return fmt.Errorf("duplicate JSON key %q", d.Key)
	}

	if err := json.Unmarshal(b, out); err != nil {
		return locateJSONError(b, err)
	}
	return nil
}

func locateJSONError(b []byte, err error) error {
	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("error at line %d, character %d: %w", line, char, err)
	case *json.UnmarshalTypeError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("error at line %d, character %d: %s value for %s.%s invalid for type %s",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String())
	default:
		return err
	}
}
