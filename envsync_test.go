package envsync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loykin/envsync/internal/common"
)

type fakeClient struct {
	app        App
	resolveErr error
	remaining  int
	rateErr    error

	config Vars
	getErr error

	updateResult Vars
	updateErr    error
	updateGot    Vars

	getCalls    int
	updateCalls int
}

func (f *fakeClient) ResolveApp(_ context.Context, name string) (App, error) {
	if f.resolveErr != nil {
		return App{}, f.resolveErr
	}
	if f.app.ID == "" {
		f.app = App{ID: "id-" + name, Name: name}
	}
	return f.app, nil
}

func (f *fakeClient) RateLimitRemaining(context.Context) (int, error) {
	return f.remaining, f.rateErr
}

func (f *fakeClient) GetConfig(context.Context, App) (Vars, error) {
	f.getCalls++
	return f.config, f.getErr
}

func (f *fakeClient) UpdateConfig(_ context.Context, _ App, vars Vars) (Vars, error) {
	f.updateCalls++
	f.updateGot = vars
	return f.updateResult, f.updateErr
}

func newTestSyncer(c Client) (*Syncer, *bytes.Buffer) {
	var out bytes.Buffer
	return &Syncer{Client: c, Printer: common.NewPrinterWithWriter(&out)}, &out
}

func strptr(s string) *string { return &s }

func TestDump_WritesFileAndReportsSuccess(t *testing.T) {
	c := &fakeClient{remaining: 100, config: Vars{"FOO": strptr("bar"), "PORT": strptr("8080")}}
	s, out := newTestSyncer(c)
	path := filepath.Join(t.TempDir(), "app.env")

	if err := s.Dump(context.Background(), "myapp", path); err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if string(b) != "FOO=bar\nPORT=8080" {
		t.Fatalf("unexpected dump content: %q", b)
	}
	if !strings.Contains(out.String(), "dumped successfully") {
		t.Fatalf("expected success summary, got %q", out.String())
	}
}

func TestDump_WriteFailureIsNonFatal(t *testing.T) {
	c := &fakeClient{remaining: 100, config: Vars{"FOO": strptr("bar")}}
	s, out := newTestSyncer(c)
	path := filepath.Join(t.TempDir(), "missing", "dir", "app.env")

	if err := s.Dump(context.Background(), "myapp", path); err != nil {
		t.Fatalf("write failure must not propagate, got %v", err)
	}
	if !strings.Contains(out.String(), "dump failed") {
		t.Fatalf("expected failure summary, got %q", out.String())
	}
}

func TestDump_RateLimitExhausted(t *testing.T) {
	c := &fakeClient{remaining: 0, config: Vars{"FOO": strptr("bar")}}
	s, _ := newTestSyncer(c)

	err := s.Dump(context.Background(), "myapp", filepath.Join(t.TempDir(), "app.env"))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if c.getCalls != 0 {
		t.Fatalf("fetch must not be attempted at zero quota, got %d calls", c.getCalls)
	}
}

func TestDump_ResolveErrorsPropagate(t *testing.T) {
	c := &fakeClient{remaining: 100, resolveErr: ErrAppNotFound}
	s, _ := newTestSyncer(c)

	err := s.Dump(context.Background(), "ghost", filepath.Join(t.TempDir(), "app.env"))
	if !errors.Is(err, ErrAppNotFound) {
		t.Fatalf("expected ErrAppNotFound, got %v", err)
	}
}

func TestUpload_PushesParsedMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("FOO=bar\nEMPTY=\n"), 0o600); err != nil {
		t.Fatalf("seed env file: %v", err)
	}
	c := &fakeClient{remaining: 100, updateResult: Vars{"FOO": strptr("bar")}}
	s, out := newTestSyncer(c)

	if err := s.Upload(context.Background(), "myapp", path, false); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if c.updateCalls != 1 {
		t.Fatalf("expected one update call, got %d", c.updateCalls)
	}
	if len(c.updateGot) != 2 || c.updateGot["FOO"] == nil || *c.updateGot["FOO"] != "bar" {
		t.Fatalf("unexpected pushed mapping: %#v", c.updateGot)
	}
	if v, ok := c.updateGot["EMPTY"]; !ok || v == nil || *v != "" {
		t.Fatalf("empty value must be pushed as empty string, got %#v", c.updateGot)
	}
	if !strings.Contains(out.String(), "✓ FOO") {
		t.Fatalf("expected per-key confirmation, got %q", out.String())
	}
	if !strings.Contains(out.String(), "updated successfully") {
		t.Fatalf("expected success summary, got %q", out.String())
	}
}

func TestUpload_AltModeDeletionMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("# alt_value=-\nFOO=bar\n"), 0o600); err != nil {
		t.Fatalf("seed env file: %v", err)
	}
	c := &fakeClient{remaining: 100, updateResult: Vars{"OTHER": strptr("x")}}
	s, _ := newTestSyncer(c)

	if err := s.Upload(context.Background(), "myapp", path, true); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if v, ok := c.updateGot["FOO"]; !ok || v != nil {
		t.Fatalf("expected FOO pushed as null, got %#v", c.updateGot)
	}
}

func TestUpload_EmptyResultFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("FOO=bar\n"), 0o600); err != nil {
		t.Fatalf("seed env file: %v", err)
	}
	c := &fakeClient{remaining: 100, updateResult: Vars{}}
	s, _ := newTestSyncer(c)

	err := s.Upload(context.Background(), "myapp", path, false)
	if !errors.Is(err, ErrUpdateFailed) {
		t.Fatalf("expected ErrUpdateFailed, got %v", err)
	}
}

func TestUpload_RateLimitExhausted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("FOO=bar\n"), 0o600); err != nil {
		t.Fatalf("seed env file: %v", err)
	}
	c := &fakeClient{remaining: 0}
	s, _ := newTestSyncer(c)

	err := s.Upload(context.Background(), "myapp", path, false)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if c.updateCalls != 0 {
		t.Fatalf("update must not be attempted at zero quota, got %d calls", c.updateCalls)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	c := &fakeClient{remaining: 100}
	s, _ := newTestSyncer(c)

	err := s.Upload(context.Background(), "myapp", filepath.Join(t.TempDir(), "nope.env"), false)
	if err == nil {
		t.Fatalf("expected error for missing env file")
	}
	if c.updateCalls != 0 {
		t.Fatalf("update must not be attempted, got %d calls", c.updateCalls)
	}
}

func TestUpload_MalformedLineNotice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("notakeyvalue\nBAR=baz\n"), 0o600); err != nil {
		t.Fatalf("seed env file: %v", err)
	}
	c := &fakeClient{remaining: 100, updateResult: Vars{"BAR": strptr("baz")}}
	s, out := newTestSyncer(c)

	if err := s.Upload(context.Background(), "myapp", path, false); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if !strings.Contains(out.String(), "Skipping line") {
		t.Fatalf("expected malformed notice, got %q", out.String())
	}
}

func TestSyncer_RecordsHistory(t *testing.T) {
	st, err := (&StoreConfig{Driver: DriverSqlite, DriverConfig: &SqliteConfig{}}).Open()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer func() { _ = st.Close() }()

	c := &fakeClient{remaining: 100, config: Vars{"FOO": strptr("bar")}}
	s, _ := newTestSyncer(c)
	s.History = st

	if err := s.Dump(context.Background(), "myapp", filepath.Join(t.TempDir(), "app.env")); err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.App != "myapp" || r.Operation != "dump" || r.Keys != 1 || !r.Succeeded {
		t.Fatalf("unexpected run record: %#v", r)
	}
}
