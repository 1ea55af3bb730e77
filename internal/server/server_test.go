package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageflow/ptbrecover/internal/archive"
	"github.com/sageflow/ptbrecover/internal/config"
	"github.com/sageflow/ptbrecover/internal/extract"
	"github.com/sageflow/ptbrecover/internal/importer"
	"github.com/sageflow/ptbrecover/internal/ledger"
	"github.com/sageflow/ptbrecover/internal/model"
	"github.com/sageflow/ptbrecover/internal/reconcile"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeImporter struct {
	res     model.ImportResult
	err     error
	company string
	name    string
	size    int
}

func (f *fakeImporter) ImportBytes(_ context.Context, company, name string, data []byte) (model.ImportResult, error) {
	f.company, f.name, f.size = company, name, len(data)
	return f.res, f.err
}

func uploadRequest(t *testing.T, company, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "acme.ptb")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/companies/"+company+"/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) model.ImportResult {
	t.Helper()
	var res model.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func TestStatus(t *testing.T) {
	s := New(&fakeImporter{}, 0, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestImport_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		imp  *fakeImporter
		want int
	}{
		{"success", &fakeImporter{res: model.ImportResult{Success: true, Counts: model.Counts{Accounts: 2}}}, http.StatusOK},
		{"rolled back", &fakeImporter{res: model.ImportResult{Errors: []string{"disk full"}}}, http.StatusUnprocessableEntity},
		{"malformed", &fakeImporter{err: fmt.Errorf("%w: zip: not a valid zip file", archive.ErrMalformedArchive)}, http.StatusBadRequest},
		{"missing member", &fakeImporter{err: &archive.MissingEntryError{Role: "chart", Fragment: "CHART"}}, http.StatusBadRequest},
		{"too large", &fakeImporter{err: archive.ErrArchiveTooLarge}, http.StatusRequestEntityTooLarge},
		{"timeout", &fakeImporter{err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.imp, 1<<20, nil)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, uploadRequest(t, "acme", "file", []byte("PK")))

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, "acme", tt.imp.company)
			assert.Equal(t, "acme.ptb", tt.imp.name)
			res := decode(t, w)
			assert.Equal(t, tt.want == http.StatusOK, res.Success)
		})
	}
}

func TestImport_BadRequests(t *testing.T) {
	imp := &fakeImporter{}
	s := New(imp, 16, nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "acme", "archive", []byte("PK")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "acme", "file", bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/companies/acme/import", bytes.NewBufferString("plain"))
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, imp.size, "importer is never reached")
}

func TestImport_EndToEnd(t *testing.T) {
	db, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer db.Close()

	cfg := config.Default("acme", "")
	svc := importer.New(extract.New(cfg.Heuristics, nil), reconcile.New(db, nil), cfg.ArchiveOptions(), "", nil)
	s := New(svc, cfg.Server.MaxUploadBytes, nil)

	data, err := os.ReadFile("../../testdata/acme.ptb")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "acme", "file", data))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	assert.Equal(t, model.Counts{Customers: 2, Vendors: 2, Accounts: 3}, res.Counts)
	assert.NotEmpty(t, res.RunID)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "acme", "file", data))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode(t, w).Counts.Total())
}
