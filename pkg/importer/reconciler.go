package importer

import (
	"context"
	"log"
	"sync"

	"github.com/japaniel/vocanote/pkg/wordset"
)

// Inbox holds the latest batch published by each source. Sources may publish
// from any goroutine; the owning view consumes it through a Reconciler.
type Inbox struct {
	mu    sync.Mutex
	seq   uint64
	slots [2]slot
}

type slot struct {
	batch ImportBatch
	seq   uint64
}

// Publish replaces the pending batch of src.
func (in *Inbox) Publish(src Source, b ImportBatch) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.seq++
	in.slots[src] = slot{batch: b, seq: in.seq}
}

// snapshot returns both slots and the generation they were read at.
func (in *Inbox) snapshot() (ocr, sheet ImportBatch, gen uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.slots[OCR].batch, in.slots[Spreadsheet].batch, in.seq
}

// clearThrough empties every slot published at or before gen. A batch
// published after the snapshot stays pending for the next cycle.
func (in *Inbox) clearThrough(gen uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.slots {
		if in.slots[i].seq <= gen {
			in.slots[i] = slot{}
		}
	}
}

// Pending reports whether any source currently holds data.
func (in *Inbox) Pending() bool {
	ocr, sheet, _ := in.snapshot()
	return ocr.Present() || sheet.Present()
}

// State is a step of the import cycle.
type State int

const (
	Idle State = iota
	Staged
	Applied
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Staged:
		return "staged"
	case Applied:
		return "applied"
	}
	return "unknown"
}

// Reconciler moves batches from an Inbox into a buffer.
//
// Detect stages normalized data (Idle -> Staged). Apply merges it into the
// buffer and only then clears the inbox (Staged -> Applied -> Idle). A staged
// batch is applied at most once.
type Reconciler struct {
	Inbox *Inbox
	// Logger reports merges. nil means no logging.
	Logger *log.Logger
	// OnApplied, when set, is called after each merge with the source used
	// and the resulting row count.
	OnApplied func(src Source, rows int)

	state   State
	pending wordset.Columns
	src     Source
	gen     uint64
}

// NewReconciler creates a reconciler reading from in.
func NewReconciler(in *Inbox) *Reconciler {
	return &Reconciler{Inbox: in}
}

// State returns the current step.
func (r *Reconciler) State() State { return r.state }

// Detect stages the next batch if the reconciler is idle and a source holds
// data. It reports whether a batch was staged.
func (r *Reconciler) Detect() bool {
	if r.state != Idle {
		return false
	}
	ocr, sheet, gen := r.Inbox.snapshot()
	cols, src, ok := Normalize(ocr, sheet)
	if !ok {
		return false
	}
	r.pending, r.src, r.gen = cols, src, gen
	r.state = Staged
	return true
}

// Apply merges the staged batch into buf, then clears the sources that fed
// this cycle. It reports whether a merge happened.
func (r *Reconciler) Apply(buf *wordset.Buffer) bool {
	if r.state != Staged {
		return false
	}
	buf.MergeExternal(r.pending)
	r.state = Applied

	r.Inbox.clearThrough(r.gen)
	if r.Logger != nil {
		r.Logger.Printf("merged %d %s rows, buffer now has %d rows", r.pending.Len(), r.src, buf.Len())
	}
	if r.OnApplied != nil {
		r.OnApplied(r.src, buf.Len())
	}
	r.pending = wordset.Columns{}
	r.state = Idle
	return true
}

// Step runs one full detection cycle.
func (r *Reconciler) Step(buf *wordset.Buffer) bool {
	if !r.Detect() {
		return false
	}
	return r.Apply(buf)
}

// Watch runs a cycle each time notify fires until ctx is done or notify is
// closed. It must run on the goroutine that owns buf.
func (r *Reconciler) Watch(ctx context.Context, buf *wordset.Buffer, notify <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-notify:
			if !ok {
				return nil
			}
			r.Step(buf)
		}
	}
}
