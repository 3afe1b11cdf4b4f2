// Package menu implements the navigation state machine behind the report
// flow: opaque path tokens threaded through callback data, and the pure
// resolver functions that compute each level's option set from a catalog
// snapshot.
package menu

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedToken is returned when callback data does not parse as a path
// token. Malformed tokens fail fast here instead of surfacing as an index
// panic somewhere inside menu rendering.
var ErrMalformedToken = errors.New("malformed path token")

// Token is the parsed form of the positional path embedded in callback data:
// a model fingerprint, a group (or operation) fingerprint at the current
// depth, and the depth to resolve next.
//
// Wire form is underscore-joined: "{model}", "{model}_{group}" or
// "{model}_{group}_{depth}". Absent fields default: Group to Model, Depth
// to 1.
type Token struct {
	Model string
	Group string
	Depth int
}

// ParseToken validates and parses wire-form callback data into a Token.
func ParseToken(s string) (Token, error) {
	if s == "" {
		return Token{}, ErrMalformedToken
	}
	fields := strings.Split(s, "_")
	if len(fields) > 3 {
		return Token{}, ErrMalformedToken
	}
	t := Token{Model: fields[0], Group: fields[0], Depth: 1}
	if t.Model == "" {
		return Token{}, ErrMalformedToken
	}
	if len(fields) > 1 {
		if fields[1] == "" {
			return Token{}, ErrMalformedToken
		}
		t.Group = fields[1]
	}
	if len(fields) > 2 {
		d, err := strconv.Atoi(fields[2])
		if err != nil || d < 1 {
			return Token{}, ErrMalformedToken
		}
		t.Depth = d
	}
	return t, nil
}

// String renders the token back to its wire form.
func (t Token) String() string {
	return t.Model + "_" + t.Group + "_" + strconv.Itoa(t.Depth)
}
