package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"

	"shortid/internal/domain/idgen"
	"shortid/internal/infrastructure/http/v1/dto"
	"shortid/pkg/logger"
)

// IDHandler serves identifier generation, decoding and conversion.
type IDHandler struct {
	*BaseHandler
	service *idgen.Service
}

// NewIDHandler creates a new identifier handler.
func NewIDHandler(service *idgen.Service) *IDHandler {
	return &IDHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Generate issues a batch of identifiers.
// POST /api/v1/ids
func (h *IDHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	format, err := idgen.ParseFormat(req.Format)
	if err != nil {
		h.Error(c, err)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	ids, err := h.service.Generate(c.Request.Context(), format, req.Count)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenerateResponse{Format: format, IDs: ids})
}

// Stream writes identifiers as raw fixed-width binary, zstd-compressed when
// the client accepts it.
// GET /api/v1/ids/:format/stream?count=N
func (h *IDHandler) Stream(c *gin.Context) {
	format, err := idgen.ParseFormat(c.Param("format"))
	if err != nil {
		h.Error(c, err)
		return
	}
	count, ok := h.ParseIntQuery(c, "count", 1)
	if !ok {
		return
	}

	w := &streamWriter{
		c:        c,
		width:    format.Size(),
		compress: AcceptsZstd(c.GetHeader("Accept-Encoding")),
	}
	err = h.service.Stream(c.Request.Context(), format, count, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		return
	}
	if !w.started {
		h.Error(c, err)
		return
	}
	// Status is already sent; the truncated body is the only signal left.
	logger.Error(c.Request.Context(), "identifier stream interrupted", "format", format, "error", err)
	c.Abort()
}

// Decode returns the fields of one identifier.
// GET /api/v1/ids/:format/:id
func (h *IDHandler) Decode(c *gin.Context) {
	format, err := idgen.ParseFormat(c.Param("format"))
	if err != nil {
		h.Error(c, err)
		return
	}
	decoded, err := h.service.Decode(c.Request.Context(), format, c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, decoded)
}

// Convert re-encodes an identifier in another width.
// POST /api/v1/ids/convert
func (h *IDHandler) Convert(c *gin.Context) {
	var req dto.ConvertRequest
	if !h.BindJSON(c, &req) {
		return
	}
	from, err := idgen.ParseFormat(req.From)
	if err != nil {
		h.Error(c, err)
		return
	}
	to, err := idgen.ParseFormat(req.To)
	if err != nil {
		h.Error(c, err)
		return
	}

	out, err := h.service.Convert(c.Request.Context(), idgen.ConvertRequest{
		From:        from,
		To:          to,
		ID:          req.ID,
		MachineHigh: req.MachineHigh,
		Machine:     req.Machine,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ConvertResponse{From: from, To: to, ID: out})
}

// streamWriter sends headers on the first write so that errors raised
// before any identifier is produced still reach the error middleware.
type streamWriter struct {
	c        *gin.Context
	width    int
	compress bool
	started  bool
	enc      *zstd.Encoder
}

func (w *streamWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.started = true
		h := w.c.Writer.Header()
		h.Set("Content-Type", "application/octet-stream")
		h.Set("X-ID-Width", strconv.Itoa(w.width))
		if w.compress {
			h.Set("Content-Encoding", "zstd")
			h.Set("Vary", "Accept-Encoding")
			enc, err := zstd.NewWriter(w.c.Writer, zstd.WithEncoderLevel(zstd.SpeedFastest))
			if err != nil {
				return 0, err
			}
			w.enc = enc
		}
		w.c.Status(http.StatusOK)
	}
	if w.enc != nil {
		return w.enc.Write(b)
	}
	return w.c.Writer.Write(b)
}

func (w *streamWriter) Close() error {
	if w.enc == nil {
		return nil
	}
	return w.enc.Close()
}

// AcceptsZstd reports whether an Accept-Encoding value lists zstd with a
// non-zero quality.
func AcceptsZstd(header string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), "zstd") {
			continue
		}
		q, ok := strings.CutPrefix(strings.ReplaceAll(params, " ", ""), "q=")
		if !ok {
			return true
		}
		return strings.Trim(q, "0.") != ""
	}
	return false
}
