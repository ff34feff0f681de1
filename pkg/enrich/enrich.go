// Package enrich fills blank phonetic and meaning cells of a word set from a
// morphological analyzer and a JMdict index.
package enrich

import (
	"context"
	"log"

	"github.com/japaniel/vocanote/pkg/dictionary"
	"github.com/japaniel/vocanote/pkg/wordset"
)

// Reader produces a hiragana reading for a script form.
type Reader interface {
	Reading(text string) string
}

// Enricher looks up missing cells in parallel and writes them back on the
// caller's goroutine.
type Enricher struct {
	Reader Reader
	Dict   *dictionary.Index
	// Workers is the lookup concurrency. Values below 1 mean 1.
	Workers int
	// Logger is used for summary messages. nil means no logging.
	Logger *log.Logger
	// PoolFactory allows tests to inject a custom pool.
	PoolFactory func(workers, queue int) Pool
}

// Pool abstracts the worker pool so tests can inject failing implementations.
type Pool interface {
	Start(ctx context.Context)
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// NewEnricher creates an enricher. Either source may be nil.
func NewEnricher(r Reader, dict *dictionary.Index) *Enricher {
	return &Enricher{Reader: r, Dict: dict, Workers: 4}
}

type fill struct {
	index    int
	phonetic string
	meaning  string
}

// Fill completes rows that have a script form but lack a phonetic form or a
// meaning. Cells the user already filled are never overwritten. It returns the
// number of cells written. On error the buffer is left unchanged.
func (e *Enricher) Fill(ctx context.Context, buf *wordset.Buffer) (int, error) {
	rows := buf.Rows()
	var todo []int
	for i, r := range rows {
		if r.Script != "" && (r.Phonetic == "" || r.Meaning == "") {
			todo = append(todo, i)
		}
	}
	if len(todo) == 0 {
		return 0, nil
	}

	var pool Pool
	if e.PoolFactory != nil {
		pool = e.PoolFactory(e.Workers, e.Workers*2)
	} else {
		pool = NewWorkerPool(e.Workers, e.Workers*2)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.Start(ctx)

	results := make(chan fill, len(todo))
	for _, idx := range todo {
		row := rows[idx]
		idx := idx
		job := func(ctx context.Context) error {
			results <- e.lookup(idx, row)
			return nil
		}
		if err := pool.SubmitCtx(ctx, job); err != nil {
			cancel()
			pool.Close()
			return 0, err
		}
	}
	pool.Close()
	close(results)
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	written := 0
	for f := range results {
		row := rows[f.index]
		if row.Phonetic == "" && f.phonetic != "" {
			if err := buf.UpdateCell(f.index, wordset.Phonetic, f.phonetic); err != nil {
				return written, err
			}
			written++
		}
		if row.Meaning == "" && f.meaning != "" {
			if err := buf.UpdateCell(f.index, wordset.Meaning, f.meaning); err != nil {
				return written, err
			}
			written++
		}
	}
	if e.Logger != nil {
		e.Logger.Printf("enriched %d cells across %d rows", written, len(todo))
	}
	return written, nil
}

func (e *Enricher) lookup(idx int, row wordset.WordRow) fill {
	f := fill{index: idx}
	reading := row.Phonetic
	if reading == "" {
		if r, ok := e.Dict.PrimaryReading(row.Script); ok {
			reading = r
		} else if e.Reader != nil {
			if r := e.Reader.Reading(row.Script); r != row.Script {
				reading = r
			}
		}
		f.phonetic = reading
	}
	if row.Meaning == "" {
		if g, ok := e.Dict.PrimaryGloss(row.Script, reading); ok {
			f.meaning = g
		} else if g, ok := e.Dict.PrimaryGloss(row.Script, ""); ok {
			f.meaning = g
		}
	}
	return f
}
