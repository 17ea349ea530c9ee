package nav

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a page index has no known token
var ErrOutOfRange = errors.New("page index out of range")

// Cursor keeps the continuation tokens of one paginated listing.
// tokens[i] is the token that requests page i; page 0 uses "".
type Cursor struct {
	tokens []string
	index  int
}

// NewCursor returns a cursor positioned on page 0
func NewCursor() *Cursor {
	return &Cursor{tokens: []string{""}}
}

// Token returns the token that requests page index
func (c *Cursor) Token(index int) (string, error) {
	if index < 0 || index >= len(c.tokens) {
		return "", fmt.Errorf("%w: %d (known pages: %d)", ErrOutOfRange, index, len(c.tokens))
	}
	return c.tokens[index], nil
}

// RecordNext stores the token returned with page index.
// It only extends the chain by one; anything else is dropped.
func (c *Cursor) RecordNext(index int, next string) bool {
	if next == "" || index+1 != len(c.tokens) {
		return false
	}
	c.tokens = append(c.tokens, next)
	return true
}

// Reset drops every known token
func (c *Cursor) Reset() {
	c.tokens = []string{""}
	c.index = 0
}

// Index is the current page
func (c *Cursor) Index() int {
	return c.index
}

// Len is the number of pages with a known token
func (c *Cursor) Len() int {
	return len(c.tokens)
}

// Current is the token of the current page
func (c *Cursor) Current() string {
	return c.tokens[c.index]
}

// HasNext reports whether the page after the current one can be requested
func (c *Cursor) HasNext() bool {
	return c.index+1 < len(c.tokens)
}

// Seek moves to page index once its token is known
func (c *Cursor) Seek(index int) error {
	if _, err := c.Token(index); err != nil {
		return err
	}
	c.index = index
	return nil
}
