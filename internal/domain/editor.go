package domain

import (
	"context"
)

// Field is a commit-on-blur editor over one scalar value. The committed
// value shown outside an edit session always equals the last value the
// backing store confirmed; a failed save reverts the draft rather than
// displaying an optimistic value.
type Field[T comparable] struct {
	committed T
	draft     T
	editing   bool

	validate func(T) error
	save     func(context.Context, T) error
}

func NewField[T comparable](
	initial T,
	validate func(T) error,
	save func(context.Context, T) error,
) *Field[T] {
	return &Field[T]{
		committed: initial,
		draft:     initial,
		validate:  validate,
		save:      save,
	}
}

// Begin enters editing with a draft copy of the committed value.
func (f *Field[T]) Begin() {
	if f.editing {
		return
	}
	f.editing = true
	f.draft = f.committed
}

// Set updates the draft. Outside an edit session it is ignored.
func (f *Field[T]) Set(v T) {
	if !f.editing {
		return
	}
	f.draft = v
}

// Cancel discards the draft without calling save.
func (f *Field[T]) Cancel() {
	f.editing = false
	f.draft = f.committed
}

// Commit leaves editing and persists the draft if it is valid and different
// from the committed value. On validation or save failure the draft reverts
// to the last committed value and the error is returned to the caller's
// error channel.
func (f *Field[T]) Commit(ctx context.Context) error {
	if !f.editing {
		return nil
	}
	f.editing = false

	if f.draft == f.committed {
		return nil
	}

	if f.validate != nil {
		if err := f.validate(f.draft); err != nil {
			f.draft = f.committed
			return err
		}
	}

	if f.save != nil {
		if err := f.save(ctx, f.draft); err != nil {
			f.draft = f.committed
			return err
		}
	}

	f.committed = f.draft
	return nil
}

// Reset moves the committed baseline, for when a refresh reports a new
// authoritative value. An open edit session keeps its draft.
func (f *Field[T]) Reset(v T) {
	f.committed = v
	if !f.editing {
		f.draft = v
	}
}

// Value is the committed value, the one displayed when not editing.
func (f *Field[T]) Value() T {
	return f.committed
}

func (f *Field[T]) Draft() T {
	return f.draft
}

func (f *Field[T]) Editing() bool {
	return f.editing
}
