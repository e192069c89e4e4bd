// Package errors re-exports github.com/cockroachdb/errors so the rest of the
// module wraps and inspects errors one way.
//
//	if err := store.Save(ctx, set); err != nil {
//	    return errors.Wrap(err, "save seen set")
//	}
//
// Mark attaches a sentinel to an error without losing its message, so callers
// can branch on the category:
//
//	return errors.Mark(errors.Wrap(err, "parse state"), ErrCorruptState)
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithStack     = crdb.WithStack
	WithMessage   = crdb.WithMessage
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	CombineErrors = crdb.CombineErrors
)

// Inspection
var (
	Is           = crdb.Is
	As           = crdb.As
	Mark         = crdb.Mark
	Unwrap       = crdb.Unwrap
	FlattenHints = crdb.FlattenHints
)
