// Package server exposes archive import over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sageflow/ptbrecover/internal/archive"
	"github.com/sageflow/ptbrecover/internal/buildinfo"
	"github.com/sageflow/ptbrecover/internal/model"
)

// Importer runs one archive import for a company.
type Importer interface {
	ImportBytes(ctx context.Context, company, name string, data []byte) (model.ImportResult, error)
}

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 1 << 20

// Server routes HTTP requests to an Importer.
type Server struct {
	router    *gin.Engine
	importer  Importer
	maxUpload int64
	logger    *zap.Logger
	started   time.Time
}

// New creates a Server. maxUpload bounds the archive size in bytes.
func New(importer Importer, maxUpload int64, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:    gin.New(),
		importer:  importer,
		maxUpload: maxUpload,
		logger:    logger,
		started:   time.Now(),
	}
	s.router.Use(gin.Recovery(), s.accessLog())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/status", s.status)
		api.POST("/companies/:company/import", s.importArchive)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		<-errCh
		return nil
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// GET /api/status
func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": buildinfo.Version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

// POST /api/companies/:company/import
//
// The archive is sent as multipart field "file". The response body is the
// ImportResult: 200 when reconciliation succeeded, 422 when it rolled back.
func (s *Server) importArchive(c *gin.Context) {
	company := c.Param("company")

	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+multipartOverhead)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, failure("archive exceeds upload limit"))
			return
		}
		c.JSON(http.StatusBadRequest, failure("invalid multipart form"))
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, failure(`missing "file" field`))
		return
	}
	fh := files[0]
	if s.maxUpload > 0 && fh.Size > s.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, failure("archive exceeds upload limit"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, failure("could not read upload"))
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, failure("could not read upload"))
		return
	}

	res, err := s.importer.ImportBytes(c.Request.Context(), company, fh.Filename, data)
	if err != nil {
		s.logger.Warn("import failed", zap.String("company", company), zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(statusFor(err), failure(err.Error()))
		return
	}
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, archive.ErrArchiveTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, archive.ErrMalformedArchive), errors.Is(err, archive.ErrMissingEntry):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func failure(msg string) model.ImportResult {
	return model.ImportResult{Errors: []string{msg}}
}
