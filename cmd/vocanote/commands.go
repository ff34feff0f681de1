package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/japaniel/vocanote/pkg/db"
	"github.com/japaniel/vocanote/pkg/dictionary"
	"github.com/japaniel/vocanote/pkg/enrich"
	"github.com/japaniel/vocanote/pkg/gateway"
	"github.com/japaniel/vocanote/pkg/importer"
	"github.com/japaniel/vocanote/pkg/reading"
	"github.com/japaniel/vocanote/pkg/setlist"
	"github.com/japaniel/vocanote/pkg/wordset"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "store the bearer token for later requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			return db.PutSession(a.conn, db.TokenKey, token)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "access token issued by the server")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return db.DeleteSession(a.conn, db.TokenKey)
		},
	}
}

type createOptions struct {
	title    string
	ocrPath  string
	sheet    string
	draftID  string
	enrich   bool
	saveOnly bool
}

func (a *app) createCmd() *cobra.Command {
	var opt createOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "build a word set from OCR/spreadsheet output and submit it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.create(cmd.Context(), opt)
		},
	}
	cmd.Flags().StringVar(&opt.title, "title", "", "set title")
	cmd.Flags().StringVar(&opt.ocrPath, "ocr", "", "OCR output (JSON with kanji/meaning/gana arrays)")
	cmd.Flags().StringVar(&opt.sheet, "sheet", "", "parsed spreadsheet output (same JSON shape)")
	cmd.Flags().StringVar(&opt.draftID, "draft", "", "continue from a saved draft")
	cmd.Flags().BoolVar(&opt.enrich, "enrich", false, "fill blank readings and meanings from the dictionary")
	cmd.Flags().BoolVar(&opt.saveOnly, "save-draft", false, "save locally instead of submitting")
	return cmd
}

func (a *app) create(ctx context.Context, opt createOptions) error {
	buf := wordset.NewDefault()
	if opt.draftID != "" {
		var err error
		if buf, err = db.LoadDraft(a.conn, opt.draftID); err != nil {
			return err
		}
	}
	if opt.title != "" {
		buf.SetTitle(opt.title)
	}

	if opt.ocrPath != "" && opt.sheet != "" {
		a.logger.Printf("both --ocr and --sheet given: OCR input takes priority, spreadsheet input is ignored")
	}
	inbox := &importer.Inbox{}
	for _, src := range []struct {
		path   string
		source importer.Source
	}{{opt.ocrPath, importer.OCR}, {opt.sheet, importer.Spreadsheet}} {
		if src.path == "" {
			continue
		}
		b, err := readBatch(src.path)
		if err != nil {
			return err
		}
		inbox.Publish(src.source, b)
	}
	rec := importer.NewReconciler(inbox)
	rec.Logger = a.logger
	rec.Step(buf)

	if opt.enrich {
		if err := a.enrichBuffer(ctx, buf); err != nil {
			return err
		}
	}
	printBuffer(a, buf)

	if opt.saveOnly {
		id, err := db.SaveDraft(a.conn, opt.draftID, buf)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "draft saved: %s\n", id)
		return nil
	}

	tok, err := a.token()
	if err != nil {
		return err
	}
	ack, err := a.client().Submit(ctx, buf, tok)
	var verr *gateway.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("cannot save set: enter a title and at least one word (%s)", verr.Reason)
	case err != nil:
		id, saveErr := db.SaveDraft(a.conn, opt.draftID, buf)
		if saveErr != nil {
			a.logger.Printf("save draft after failed submit: %v", saveErr)
			return err
		}
		return fmt.Errorf("%w (kept as draft %s)", err, id)
	}

	if opt.draftID != "" {
		if err := db.DeleteDraft(a.conn, opt.draftID); err != nil {
			a.logger.Printf("delete submitted draft %s: %v", opt.draftID, err)
		}
	}
	fmt.Fprintf(a.out, "set %q saved (%d words, status %d)\n", buf.Title(), buf.Len(), ack.StatusCode)
	return nil
}

func readBatch(path string) (importer.ImportBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.ImportBatch{}, err
	}
	defer f.Close()
	b, err := importer.DecodeBatch(f)
	if err != nil {
		return importer.ImportBatch{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func (a *app) enrichBuffer(ctx context.Context, buf *wordset.Buffer) error {
	var idx *dictionary.Index
	if _, err := os.Stat(a.cfg.Dictionary); err == nil {
		start := time.Now()
		entries, err := dictionary.LoadJMdictSimplified(a.cfg.Dictionary)
		if err != nil {
			a.logger.Printf("Warning: Failed to load dictionary: %v", err)
		} else {
			idx = dictionary.NewIndex(entries)
			a.logger.Printf("dictionary loaded (%d entries) in %v", len(entries), time.Since(start))
		}
	} else {
		a.logger.Printf("dictionary missing at %s, run 'vocanote fetch-dict'; using readings only", a.cfg.Dictionary)
	}

	analyzer, err := reading.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}
	e := enrich.NewEnricher(analyzer, idx)
	e.Workers = a.cfg.Workers
	e.Logger = a.logger
	_, err = e.Fill(ctx, buf)
	return err
}

func printBuffer(a *app, buf *wordset.Buffer) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "# %s\n", buf.Title())
	for i, r := range buf.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wordset.RowLabel(i), r.Script, r.Meaning, r.Phonetic)
	}
	w.Flush()
}

func (a *app) manager() (*setlist.Manager, error) {
	tok, err := a.token()
	if err != nil {
		return nil, err
	}
	m := setlist.NewManager(gateway.Backend{Client: a.client(), Token: tok}, setlist.ConfirmFunc(a.confirm))
	m.Logger = a.logger
	return m, nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list administrator and user sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			printSets(a, m.List())
			return nil
		},
	}
}

func printSets(a *app, list []setlist.SetSummary) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tUPDATED\tORIGIN")
	for _, s := range list {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(w, "#%d\t%s\t%s\t%s\n", s.ID, s.Title, updated, s.Origin)
	}
	w.Flush()
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "delete a set after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid set id %q", args[0])
			}
			m, err := a.manager()
			if err != nil {
				return err
			}
			if yes {
				m.Confirmer = setlist.ConfirmFunc(func(string) bool { return true })
			}
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			deleted, err := m.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(a.out, "cancelled")
				return nil
			}
			printSets(a, m.List())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) draftsCmd() *cobra.Command {
	var remove string
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "list or remove locally saved drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove != "" {
				return db.DeleteDraft(a.conn, remove)
			}
			drafts, err := db.ListDrafts(a.conn)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tROWS\tUPDATED")
			for _, d := range drafts {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.Title, d.RowCount, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&remove, "rm", "", "delete the draft with this id")
	return cmd
}

func (a *app) fetchDictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-dict",
		Short: "download the JMdict dictionary used by --enrich",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dictionary.NewDownloader()
			d.Logger = a.logger
			if err := d.EnsureDictionary(cmd.Context(), a.cfg.Dictionary); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "dictionary ready at %s\n", a.cfg.Dictionary)
			return nil
		},
	}
}
