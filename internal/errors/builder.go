package errors

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// safeDetailPrefix tags the marshaled detail payload so the HTTP error
// handler can recognize and decode it among other safe details.
const safeDetailPrefix = "__json__:%s"

// Builder assembles an error chain. It is not itself an error; the chain is
// terminated by Mark, which stamps the sentinel and returns the final error.
type Builder struct {
	err error
}

// NewError starts a chain from a fresh message.
func NewError(msg string) *Builder {
	return &Builder{err: errors.New(msg)}
}

// WithError starts a chain from an underlying error, typically one returned
// by a driver or SDK.
func WithError(err error) *Builder {
	return &Builder{err: err}
}

// WithMessage prefixes internal context onto the chain. Not shown to
// clients.
func (b *Builder) WithMessage(msg string) *Builder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint attaches the client-facing message for this error.
func (b *Builder) WithHint(hint string) *Builder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

// WithHintf attaches a formatted client-facing message.
func (b *Builder) WithHintf(format string, args ...any) *Builder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches structured, client-safe key/value details.
// Values that fail to marshal are silently dropped.
func (b *Builder) WithReportableDetails(details map[string]any) *Builder {
	payload, err := json.Marshal(details)
	if err != nil {
		return b
	}
	b.err = errors.WithSafeDetails(b.err, safeDetailPrefix, errors.Safe(string(payload)))
	return b
}

// Mark stamps the chain with a sentinel and returns the finished error. It
// must be the last call in the chain.
func (b *Builder) Mark(sentinel error) error {
	b.err = errors.Mark(b.err, sentinel)
	return b.err
}
