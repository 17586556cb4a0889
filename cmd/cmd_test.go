package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/sbc/scrapbox"
)

// fakeScrapbox serves a tiny project named demo and records the session
// cookie of the last request.
type fakeScrapbox struct {
	*httptest.Server
	lastCookie string
}

func newFakeScrapbox(t *testing.T) *fakeScrapbox {
	t.Helper()

	pages := []scrapbox.PageSummary{
		{ID: "p1", Title: "Hello", Views: 120, Pin: 1, Updated: 1700000000},
		{ID: "p2", Title: "World", Views: 3},
		{ID: "p3", Title: "Go notes", Views: 40},
	}

	fs := &fakeScrapbox{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pages/demo", func(w http.ResponseWriter, r *http.Request) {
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		start, end := min(skip, len(pages)), min(skip+limit, len(pages))
		_ = json.NewEncoder(w).Encode(scrapbox.PageList{
			ProjectName: "demo",
			Skip:        skip,
			Limit:       limit,
			Count:       len(pages),
			Pages:       pages[start:end],
		})
	})
	mux.HandleFunc("/api/pages/demo/Hello", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p1","title":"Hello","linesCount":2,"charsCount":10,"views":120,
			"created":1600000000,"updated":1700000000,"lines":[{"text":"Hello"},{"text":"first line"}]}`))
	})
	mux.HandleFunc("/api/pages/demo/Hello/text", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Hello\nfirst line"))
	})
	mux.HandleFunc("/api/pages/demo/Hello/icon", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/images/hello.png", http.StatusFound)
	})
	mux.HandleFunc("/images/hello.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png"))
	})
	mux.HandleFunc("/files/abc.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.lastCookie = ""
		if c, err := r.Cookie("connect.sid"); err == nil {
			fs.lastCookie = c.Value
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

// resetFlags restores every flag to its default between runs
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupCLI isolates HOME and the working directory and points the CLI at server
func setupCLI(t *testing.T, serverURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("SBC_SCRAPBOX_BASE_URL", serverURL)
	t.Setenv("SBC_CONNECT_SID", "")
	require.NoError(t, os.Unsetenv("SBC_CONNECT_SID"))
	return home
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestHelp(t *testing.T) {
	code, stdout, stderr := execute(t, "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Scrapbox API client CLI")
	assert.Contains(t, stdout, "usage:")
	assert.Empty(t, stderr)
}

func TestNoCommand(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	code, stdout, stderr := execute(t)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "usage:")
	assert.Empty(t, stderr)
}

func TestSubcommandHelp(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"pages", "--help"}, []string{"pages", "--skip", "--limit", "Project name"}},
		{[]string{"page", "--help"}, []string{"page", "Project name", "Page title"}},
		{[]string{"text", "--help"}, []string{"text", "--output", "Project name"}},
		{[]string{"bulk-pages", "--help"}, []string{"bulk-pages", "--batch-size", "Project name"}},
		{[]string{"file", "--help"}, []string{"file", "--output"}},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			code, stdout, _ := execute(t, tt.args...)
			assert.Equal(t, 0, code)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestPagesCommand(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "pages", "demo")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Project: demo")
	assert.Contains(t, stdout, "Total pages: 3")
	assert.Contains(t, stdout, "• Hello [PINNED]")
	assert.Empty(t, stderr)

	code, stdout, stderr = execute(t, "pages", "demo", "--skip", "1", "--limit", "2")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Skip: 1, Limit: 2")
	assert.NotContains(t, stdout, "Hello")
	assert.Contains(t, stdout, "World")
}

func TestPagesCommandFilter(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "pages", "demo", "--filter", `Views > 10 and not Pinned`)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Matched: 1 of 3")
	assert.Contains(t, stdout, "Go notes")
	assert.NotContains(t, stdout, "World")

	code, _, stderr = execute(t, "pages", "demo", "--filter", `Views >`)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: invalid filter expression")
}

func TestBulkPagesCommand(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "bulk-pages", "demo", "--batch-size", "2")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Project: demo")
	assert.Contains(t, stdout, "Total pages: 3")
	assert.Contains(t, stdout, "Skip: 0, Limit: 2")
	assert.Contains(t, stderr, "Fetching all pages...")
	assert.Contains(t, stderr, "Fetched 2/3 pages")
	assert.Contains(t, stderr, "Fetched 3/3 pages")
}

func TestBulkPagesBatchSizeFromConfig(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)
	t.Setenv("SBC_BULK_BATCH_SIZE", "1")

	code, stdout, stderr := execute(t, "bulk-pages", "demo")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Skip: 0, Limit: 1")
	assert.Contains(t, stderr, "Fetched 1/3 pages")
}

func TestPageCommand(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "page", "demo", "Hello")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "Title: Hello")
	assert.Contains(t, stdout, "Lines: 2")
	assert.Contains(t, stdout, "Characters: 10")
	assert.Contains(t, stdout, "Views: 120")
	assert.True(t, strings.HasSuffix(stdout, "\n\nHello\nfirst line\n"), stdout)
	assert.Empty(t, stderr)
}

func TestTextCommand(t *testing.T) {
	server := newFakeScrapbox(t)
	home := setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "text", "demo", "Hello")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Hello\nfirst line\n", stdout)
	assert.Empty(t, stderr)

	path := filepath.Join(home, "hello.txt")
	code, stdout, stderr = execute(t, "text", "demo", "Hello", "--output", path)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Saved to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello\nfirst line", string(data))
}

func TestTextCommandInvalidOutput(t *testing.T) {
	server := newFakeScrapbox(t)
	home := setupCLI(t, server.URL)

	code, _, stderr := execute(t, "text", "demo", "Hello", "--output", filepath.Join(home, "missing", "x.txt"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: output directory")
}

func TestIconCommand(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "icon", "demo", "Hello")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, server.URL+"/images/hello.png\n", stdout)
}

func TestFileCommand(t *testing.T) {
	server := newFakeScrapbox(t)
	home := setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "file", server.URL+"/files/abc.png")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "\x89PNG", stdout)

	path := filepath.Join(home, "abc.png")
	code, _, stderr = execute(t, "file", "abc.png", "-o", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "Saved to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestErrorsExitNonZero(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	tests := []struct {
		name string
		args []string
	}{
		{"invalid project", []string{"pages", "no-such-project"}},
		{"invalid page", []string{"page", "demo", "no-such-page"}},
		{"missing file", []string{"file", "nope.png"}},
		{"missing argument", []string{"page", "demo"}},
		{"unknown command", []string{"frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestLogLevelFlag(t *testing.T) {
	server := newFakeScrapbox(t)
	setupCLI(t, server.URL)

	code, stdout, stderr := execute(t, "--log-level", "verbose", "pages", "demo")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: invalid --log-level: invalid logging level: verbose")

	code, _, stderr = execute(t, "--log-level", "WARN", "pages", "demo")
	assert.Equal(t, 0, code, stderr)
}

func TestConnectSID(t *testing.T) {
	server := newFakeScrapbox(t)

	t.Run("from argument", func(t *testing.T) {
		setupCLI(t, server.URL)
		code, _, stderr := execute(t, "--connect-sid", "arg-sid-value", "pages", "demo")
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, "arg-sid-value", server.lastCookie)
	})

	t.Run("from file", func(t *testing.T) {
		home := setupCLI(t, server.URL)
		path := filepath.Join(home, "sid")
		require.NoError(t, os.WriteFile(path, []byte("file-sid-value\n"), 0o600))

		code, _, stderr := execute(t, "--connect-sid-file", path, "pages", "demo")
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, "file-sid-value", server.lastCookie)
	})

	t.Run("from default file", func(t *testing.T) {
		home := setupCLI(t, server.URL)
		dir := filepath.Join(home, ".config", "sbc")
		require.NoError(t, os.MkdirAll(dir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "connect.sid"), []byte("default-sid-value"), 0o600))

		code, _, stderr := execute(t, "pages", "demo")
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, "default-sid-value", server.lastCookie)
	})

	t.Run("from environment", func(t *testing.T) {
		setupCLI(t, server.URL)
		t.Setenv("SBC_CONNECT_SID", "env-sid-value")

		code, _, stderr := execute(t, "pages", "demo")
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, "env-sid-value", server.lastCookie)
	})

	t.Run("none when no file", func(t *testing.T) {
		setupCLI(t, server.URL)
		code, _, stderr := execute(t, "pages", "demo")
		require.Equal(t, 0, code, stderr)
		assert.Empty(t, server.lastCookie)
	})

	t.Run("missing file", func(t *testing.T) {
		home := setupCLI(t, server.URL)
		code, _, stderr := execute(t, "--connect-sid-file", filepath.Join(home, "nope"), "pages", "demo")
		require.Equal(t, 0, code, stderr)
		assert.Empty(t, server.lastCookie)
	})

	t.Run("flags are mutually exclusive", func(t *testing.T) {
		home := setupCLI(t, server.URL)
		code, _, stderr := execute(t, "--connect-sid", "a", "--connect-sid-file", filepath.Join(home, "sid"), "pages", "demo")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Error:")
	})
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t, "https://scrapbox.io")

	code, stdout, stderr := execute(t, "version")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "sbc "+version)
}

func TestCurrentVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	version = "v1.2.3"
	v, err := currentVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())

	version = "dev"
	_, err = currentVersion()
	assert.ErrorContains(t, err, "development build")
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.NoError(t, validateOutputPath(""))
	assert.NoError(t, validateOutputPath(filepath.Join(dir, "new.txt")))
	assert.NoError(t, validateOutputPath(file), "existing files are overwritten")
	assert.ErrorContains(t, validateOutputPath(dir), "is a directory")
	assert.ErrorContains(t, validateOutputPath(filepath.Join(dir, "missing", "x")), "does not exist")
	assert.ErrorContains(t, validateOutputPath(filepath.Join(file, "x")), "not a directory")
}
