package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/fatura-gateway/internal/core/capability"
)

func writeUpload(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "fatura.pdf")
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o644))
	return p
}

// engineServer answers /analyze, rejecting the gorsellestir field when strict.
func engineServer(t *testing.T, strict bool, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.URL.Path != "/analyze" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)

		vis, hasVis := r.MultipartForm.Value["gorsellestir"]
		if strict && hasVis {
			http.Error(w, "unexpected field gorsellestir", http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"structured": map[string]any{"fatura_no": "123"},
			"filename":   hdr.Filename,
			"size":       len(data),
			"vis":        vis,
			"auth":       r.Header.Get("Authorization"),
		})
	}))
}

func TestRemoteEngine_ResolveAndInvoke(t *testing.T) {
	var calls int
	srv := engineServer(t, false, &calls)
	defer srv.Close()

	reg := capability.NewRegistry()
	require.NoError(t, Register(reg, srv.URL, zerolog.Nop()))
	c, err := capability.NewResolver(reg, zerolog.Nop(), capability.DefaultCandidates("")...).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "class app.FaturaAnalizMotoru", c.Source())

	out, err := c.Invoke(context.Background(), writeUpload(t))
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, "fatura.pdf", m["filename"])
	assert.Equal(t, json.Number("8"), m["size"])
	assert.Equal(t, []any{"false"}, m["vis"])
	assert.Equal(t, 1, calls)
}

func TestRemoteEngine_422RetriesWithoutKeyword(t *testing.T) {
	var calls int
	srv := engineServer(t, true, &calls)
	defer srv.Close()

	cl, err := NewClient(srv.URL, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = cl.Analyze(context.Background(), writeUpload(t), capability.Kwargs{capability.KwVisualize: false})
	assert.ErrorIs(t, err, capability.ErrSignatureMismatch)

	out, err := capability.New("remote", cl.Analyze).Invoke(context.Background(), writeUpload(t))
	require.NoError(t, err)
	assert.Nil(t, out.(map[string]any)["vis"])
	assert.Equal(t, 3, calls)
}

func TestRemoteEngine_ServerErrorIsNotMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cl, err := NewClient(srv.URL, nil, zerolog.Nop())
	require.NoError(t, err)
	_, err = cl.Analyze(context.Background(), writeUpload(t), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, capability.ErrSignatureMismatch)
	assert.Contains(t, err.Error(), "model crashed")
}

func TestNewClient_ConfigFile(t *testing.T) {
	var calls int
	srv := engineServer(t, false, &calls)
	defer srv.Close()

	cfg := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("base_url: "+srv.URL+"\ntimeout: 5s\nheaders:\n  Authorization: Bearer abc\n"), 0o644))

	cl, err := NewClient("http://unused.invalid", capability.Kwargs{capability.KwConfigPath: cfg}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cl.http.Timeout)

	out, err := cl.Analyze(context.Background(), writeUpload(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", out.(map[string]any)["auth"])
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient("not a url", nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewClient("http://x", capability.Kwargs{"model": "v2"}, zerolog.Nop())
	assert.ErrorIs(t, err, capability.ErrSignatureMismatch)

	_, err = NewClient("http://x", capability.Kwargs{capability.KwConfigPath: filepath.Join(t.TempDir(), "missing.json")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadFileConfig_JSONIgnoresUnknownKeys(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"ocr_dili":"tur","timeout":"30"}`), 0o644))

	fc, err := LoadFileConfig(p)
	require.NoError(t, err)
	assert.Empty(t, fc.BaseURL)
	d, err := fc.timeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	_, err = FileConfig{Timeout: "soon"}.timeout()
	assert.Error(t, err)
}

func TestRegister_EmptyURLIsNoop(t *testing.T) {
	reg := capability.NewRegistry()
	require.NoError(t, Register(reg, "", zerolog.Nop()))
	assert.Empty(t, reg.Modules())
}
