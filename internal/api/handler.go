package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/splitbill/internal/allocate"
	"github.com/cleared-dev/splitbill/internal/billing"
	"github.com/cleared-dev/splitbill/internal/extract"
	"github.com/cleared-dev/splitbill/internal/statement"
)

var (
	// errBadInput marks request problems that map to 400.
	errBadInput = errors.New("bad input")
	// errTooLarge maps to 413.
	errTooLarge = errors.New("statement too large")
)

// StatementHandler runs uploaded statements through the pipeline.
type StatementHandler struct {
	svc *billing.Service
	log zerolog.Logger
}

// NewStatementHandler creates a StatementHandler.
func NewStatementHandler(svc *billing.Service, log zerolog.Logger) *StatementHandler {
	return &StatementHandler{svc: svc, log: log}
}

// Process accepts a multipart "file" field (.pdf or .txt) or a text/plain
// body holding the statement text.
func (h *StatementHandler) Process(c *gin.Context) {
	source, text, err := h.readStatement(c)
	if err != nil {
		h.sendError(c, err)
		return
	}

	report, err := h.svc.Run(source, text)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, newStatementResponse(report))
}

func (h *StatementHandler) readStatement(c *gin.Context) (source, text string, err error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return readUpload(c)
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if tooLarge(err) {
			return "", "", fmt.Errorf("%w: limit is %d bytes", errTooLarge, maxUpload)
		}
		return "", "", fmt.Errorf("%w: reading body: %v", errBadInput, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", "", fmt.Errorf("%w: empty statement body", errBadInput)
	}
	return "request", string(data), nil
}

func readUpload(c *gin.Context) (source, text string, err error) {
	header, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			return "", "", fmt.Errorf("%w: limit is %d bytes", errTooLarge, maxUpload)
		}
		return "", "", fmt.Errorf("%w: file missing", errBadInput)
	}
	if !extract.Supported(header.Filename) {
		return "", "", fmt.Errorf("%w: unsupported file %q: want .pdf or .txt", errBadInput, header.Filename)
	}

	tmp, err := os.CreateTemp("", "statement-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		return "", "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", "", fmt.Errorf("saving upload: %w", err)
	}
	text, err = extract.File(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errBadInput, err)
	}
	return filepath.Base(header.Filename), text, nil
}

func (h *StatementHandler) sendError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("statement processing failed")
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadInput):
		return http.StatusBadRequest
	case errors.Is(err, statement.ErrSegmentNotFound), errors.Is(err, allocate.ErrEmptyEligibleSet):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
