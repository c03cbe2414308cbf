package upload

import (
	"errors"
	"sync"
	"time"
)

type Phase string

const (
	Idle      Phase = "idle"
	Uploading Phase = "uploading"
	Succeeded Phase = "succeeded"
	Failed    Phase = "failed"
)

var ErrBusy = errors.New("An upload is already in progress")

type FileProgress struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Done    bool    `json:"done"`
}

// Status is what GET .../upload returns.
type Status struct {
	Phase      Phase          `json:"phase"`
	Files      []FileProgress `json:"files"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// Tracker holds the state of one upload slot. Succeeded and Failed are
// kept until the next Begin, which starts over from Idle.
type Tracker struct {
	mu  sync.Mutex
	st  Status
	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{st: Status{Phase: Idle}, now: time.Now}
}

// Begin enters Uploading for names. It fails with ErrBusy while an upload
// is running.
func (t *Tracker) Begin(names []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.Phase == Uploading {
		return ErrBusy
	}
	files := make([]FileProgress, len(names))
	for i, n := range names {
		files[i] = FileProgress{Name: n}
	}
	started := t.now()
	t.st = Status{Phase: Uploading, Files: files, StartedAt: &started}
	return nil
}

// Progress records pct for file i. Values outside 0..100 are clamped and
// progress never goes backwards.
func (t *Tracker) Progress(i int, pct float64) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.Phase != Uploading || i < 0 || i >= len(t.st.Files) {
		return
	}
	if pct > t.st.Files[i].Percent {
		t.st.Files[i].Percent = pct
	}
}

// FileDone marks file i as fully written, document included.
func (t *Tracker) FileDone(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.Phase != Uploading || i < 0 || i >= len(t.st.Files) {
		return
	}
	t.st.Files[i].Percent = 100
	t.st.Files[i].Done = true
}

func (t *Tracker) Succeed(message string) {
	t.finish(Succeeded, message, "")
}

func (t *Tracker) Fail(message string) {
	t.finish(Failed, "", message)
}

func (t *Tracker) finish(p Phase, message, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.Phase != Uploading {
		return
	}
	done := t.now()
	t.st.Phase = p
	t.st.Message = message
	t.st.Error = errMsg
	t.st.FinishedAt = &done
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.st
	out.Files = append([]FileProgress(nil), t.st.Files...)
	return out
}

func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st.Phase == Uploading
}
