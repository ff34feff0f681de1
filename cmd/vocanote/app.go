package main

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/japaniel/vocanote/pkg/config"
	"github.com/japaniel/vocanote/pkg/db"
	"github.com/japaniel/vocanote/pkg/gateway"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries what every command needs once the config is loaded.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	fs     afero.Fs

	configPath string
	cfg        config.Config
	conn       *sql.DB
	logger     *log.Logger
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		fs:     afero.NewOsFs(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocanote",
		Short:         "Build and manage vocabulary sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", fmt.Sprintf("config file (default is %s)", config.DefaultPath()))

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.createCmd(),
		a.listCmd(),
		a.deleteCmd(),
		a.draftsCmd(),
		a.fetchDictCmd(),
	)
	return root
}

func (a *app) init() error {
	var err error
	a.cfg, err = config.Load(a.fs, a.configPath)
	if err != nil {
		return err
	}
	a.logger = log.New(a.errOut, "vocanote: ", log.LstdFlags)

	if err := os.MkdirAll(filepath.Dir(a.cfg.Database), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	a.conn, err = db.Open(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("open database %s: %w", a.cfg.Database, err)
	}
	return nil
}

func (a *app) close() error {
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

func (a *app) client() *gateway.Client {
	c := gateway.NewClient(a.cfg.BaseURL, a.cfg.Timeout)
	c.Logger = a.logger
	return c
}

// token reads the bearer token from session storage.
func (a *app) token() (string, error) {
	tok, err := db.GetSession(a.conn, db.TokenKey)
	if errors.Is(err, db.ErrNotFound) {
		return "", fmt.Errorf("not logged in: run 'vocanote login --token <token>' first")
	}
	return tok, err
}

// confirm asks a yes/no question on the command's input.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
