package dictionary

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDictionary_LocalCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jmdict.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDownloader()
	d.ReleaseURL = "http://127.0.0.1:0/unreachable"
	if err := d.EnsureDictionary(context.Background(), path); err != nil {
		t.Fatalf("EnsureDictionary failed with local file: %v", err)
	}
}

func tgz(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gz.Close()
	return buf.Bytes()
}

func TestEnsureDictionary_Download(t *testing.T) {
	archive := tgz(t, "jmdict-eng-common-3.5.0.json", sampleDict)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest":
			if r.Header.Get("User-Agent") == "" {
				t.Errorf("missing User-Agent")
			}
			fmt.Fprintf(w, `{"assets":[{"name":"jmdict-eng-3.5.0.json.tgz","browser_download_url":"%[1]s/wrong"},
				{"name":"jmdict-eng-common-3.5.0.json.tgz","browser_download_url":"%[1]s/asset"}]}`, srv.URL)
		case "/asset":
			w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := NewDownloader()
	d.ReleaseURL = srv.URL + "/latest"
	path := filepath.Join(t.TempDir(), "sub", "jmdict.json")
	if err := d.EnsureDictionary(context.Background(), path); err != nil {
		t.Fatalf("EnsureDictionary: %v", err)
	}

	entries, err := LoadJMdictSimplified(path)
	if err != nil {
		t.Fatalf("load downloaded dictionary: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("expected 4 entries, got %d", len(entries))
	}
}

func TestEnsureDictionary_NoAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"assets":[]}`))
	}))
	defer srv.Close()

	d := NewDownloader()
	d.ReleaseURL = srv.URL
	path := filepath.Join(t.TempDir(), "jmdict.json")
	if err := d.EnsureDictionary(context.Background(), path); err == nil {
		t.Fatal("expected error when release has no matching asset")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written, stat err=%v", err)
	}
}
