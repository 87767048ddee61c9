package domain

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category, one per pipeline stage.
type Kind string

const (
	// KindDecoding marks console bytes that are not valid text.
	KindDecoding Kind = "decoding"
	// KindTokenize marks input that shell-style splitting rejected.
	KindTokenize Kind = "tokenize"
	// KindParse marks a command grammar violation.
	KindParse Kind = "parse"
	// KindQueryPrepare marks a statement the store refused to prepare.
	KindQueryPrepare Kind = "query_prepare"
	// KindQueryExec marks a failure starting statement execution.
	KindQueryExec Kind = "query_exec"
	// KindQueryIter marks a failure while walking the result cursor.
	KindQueryIter Kind = "query_iter"
	// KindNoData marks a statement that produced no columns.
	KindNoData Kind = "no_data"
	// KindOutputEncoding marks a console chunk that cannot become a C string.
	KindOutputEncoding Kind = "output_encoding"
	// KindInitialization marks a startup failure (config, store, hook).
	KindInitialization Kind = "initialization"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *E) Unwrap() error { return e.Err }

// Is matches another *E by kind so callers can test errors.Is(err, &E{Kind: KindNoData}).
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	return ok && t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf reports the kind of the outermost *E in err's chain, or "".
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
