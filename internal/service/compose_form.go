package service

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"comment-gateway/internal/domain"
)

// ErrSubmitInProgress is returned when Submit is called while a previous submit is running
var ErrSubmitInProgress = errors.New("submit already in progress")

// FormMode selects what a compose form does after a successful submit
type FormMode int

const (
	FormCreate FormMode = iota
	FormReply
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormReply:
		return "reply"
	case FormEdit:
		return "edit"
	default:
		return "create"
	}
}

// SubmitFunc receives validated, trimmed content
type SubmitFunc func(ctx context.Context, content string) error

// ComposeForm is the draft state behind a create, reply or edit form
type ComposeForm struct {
	mode   FormMode
	submit SubmitFunc

	mu         sync.Mutex
	draft      string
	submitting bool
	closed     bool
	err        error
}

// NewComposeForm creates a form with an initial draft (the current content for edit forms)
func NewComposeForm(mode FormMode, initial string, submit SubmitFunc) *ComposeForm {
	return &ComposeForm{mode: mode, submit: submit, draft: initial}
}

// NewCreateForm returns the top-level compose form of a post
func NewCreateForm(m CommentMutator) *ComposeForm {
	return NewComposeForm(FormCreate, "", func(ctx context.Context, content string) error {
		_, err := m.Create(ctx, content, nil)
		return err
	})
}

func (f *ComposeForm) Mode() FormMode {
	return f.mode
}

// SetDraft replaces the draft; ignored while submitting
func (f *ComposeForm) SetDraft(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return
	}
	f.draft = s
}

func (f *ComposeForm) Draft() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// CharCount returns the draft length in characters
func (f *ComposeForm) CharCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return utf8.RuneCountInString(f.draft)
}

// Remaining returns how many characters may still be typed; negative when over
func (f *ComposeForm) Remaining() int {
	return domain.MaxContentLength - f.CharCount()
}

func (f *ComposeForm) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Closed reports whether an edit form finished successfully
func (f *ComposeForm) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Err returns the message of the last failed submit or validation
func (f *ComposeForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Submit validates the draft and hands the trimmed content to the submit
// handler. Invalid drafts never reach the handler. On success create and
// reply forms clear the draft and edit forms close; on failure the draft is
// kept and the error is stored.
func (f *ComposeForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	content, err := ValidateContent(f.draft)
	if err != nil {
		f.err = err
		f.mu.Unlock()
		return err
	}
	f.submitting = true
	f.err = nil
	f.mu.Unlock()

	err = f.submit(ctx, content)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.err = err
		return err
	}
	if f.mode == FormEdit {
		f.closed = true
	} else {
		f.draft = ""
	}
	return nil
}
