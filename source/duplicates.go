package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// DuplicateKeyError reports a repeated object key. Path is a JSON Pointer to
// the object holding the key. Line and Col locate the repeated key in YAML
// input, FirstLine and FirstCol its first occurrence; all are zero for JSON.
type DuplicateKeyError struct {
	Path string
	Key  string

	Line      int
	Col       int
	FirstLine int
	FirstCol  int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("source: duplicate key %q at %s (line %d:%d, first at %d:%d)", e.Key, e.Path, e.Line, e.Col, e.FirstLine, e.FirstCol)
	}
	return fmt.Sprintf("source: duplicate key %q at %s", e.Key, e.Path)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	pendingKey   string
	index        int
}

// CheckDuplicateKeys walks the tokens of a JSON document and returns a
// *DuplicateKeyError for the first repeated key.
func CheckDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []frame

	// childPath returns the pointer of the value about to start and advances
	// the parent past it.
	childPath := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindObject {
			p := top.path + "/" + escapePointer(top.pendingKey)
			top.expectingKey = true
			return p
		}
		p := top.path + "/" + strconv.Itoa(top.index)
		top.index++
		return p
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("source: invalid JSON: %w", err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true, path: childPath()})
			case '[':
				stack = append(stack, frame{kind: kindArray, path: childPath()})
			case '}', ']':
				if len(stack) == 0 {
					return fmt.Errorf("source: invalid JSON: unexpected %q", rune(v))
				}
				stack = stack[:len(stack)-1]
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					if _, dup := top.keys[v]; dup {
						path := top.path
						if path == "" {
							path = "/"
						}
						return &DuplicateKeyError{Path: path, Key: v}
					}
					top.keys[v] = struct{}{}
					top.pendingKey = v
					top.expectingKey = false
					continue
				}
			}
			childPath()
		default:
			childPath()
		}
	}
}

func escapePointer(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '~':
			b.WriteString("~0")
		case '/':
			b.WriteString("~1")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
