package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reviewsense/internal/model"
	"reviewsense/internal/pipeline"
	"reviewsense/internal/render"
	"reviewsense/internal/repository"
	"reviewsense/pkg/llm"

	"github.com/gin-gonic/gin"
)

const actionSummarize = "summarize"

type Summarizer interface {
	Run(ctx context.Context, reviews []model.Review, progress pipeline.ProgressFunc) *pipeline.Result
}

type SummaryHandler struct {
	summarizer     Summarizer
	renderer       *render.Renderer
	maxUploadBytes int64
}

func NewSummaryHandler(summarizer Summarizer, renderer *render.Renderer, maxUploadBytes int64) *SummaryHandler {
	return &SummaryHandler{
		summarizer:     summarizer,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *SummaryHandler) GetIndex(c *gin.Context) {
	h.writePage(c, http.StatusOK, "", nil)
}

// PostUpload renders the uploaded reviews and, when the summarize button was
// pressed, runs the pipeline first. Each stage is flushed to the client as it
// finishes. The run ignores client disconnects once started.
func (h *SummaryHandler) PostUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, err := c.FormFile("reviews")
	if tooLarge, ok := uploadTooLarge(err); ok {
		slog.Warn("upload exceeds size limit", "limit", tooLarge.Limit)
		h.writePage(c, http.StatusRequestEntityTooLarge, "", uploadLimitError(tooLarge))
		return
	}
	if err != nil {
		slog.Warn("upload without reviews file", "error", err)
		h.writePage(c, http.StatusBadRequest, "", errors.New("please upload a reviews JSON file"))
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("error opening uploaded file", "error", err)
		h.writePage(c, http.StatusBadRequest, file.Filename, err)
		return
	}
	defer f.Close()

	reviews, err := repository.LoadReviews(f)
	if tooLarge, ok := uploadTooLarge(err); ok {
		slog.Warn("upload exceeds size limit", "limit", tooLarge.Limit)
		h.writePage(c, http.StatusRequestEntityTooLarge, file.Filename, uploadLimitError(tooLarge))
		return
	}
	if err != nil {
		slog.Warn("invalid reviews upload", "filename", file.Filename, "error", err)
		h.writePage(c, http.StatusBadRequest, file.Filename, err)
		return
	}

	w := c.Writer
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := h.renderer.Header(w, file.Filename); err != nil {
		slog.Error("error rendering page header", "error", err)
		return
	}
	w.Flush()

	if c.PostForm("action") == actionSummarize {
		ctx := context.WithoutCancel(c.Request.Context())
		h.summarizer.Run(ctx, reviews, func(e pipeline.Event) {
			if err := h.renderer.Event(w, e); err != nil {
				slog.Error("error rendering stage", "run_id", e.RunID, "stage", e.Stage.String(), "error", err)
			}
			w.Flush()
		})
	}

	if err := h.renderer.Reviews(w, reviews); err != nil {
		slog.Warn("review rendering stopped", "error", err)
	}
	if err := h.renderer.Footer(w); err != nil {
		slog.Error("error rendering page footer", "error", err)
	}
}

// PostSummary runs the pipeline over a JSON array of reviews and returns every
// stage output that was produced. Failed runs answer 502 with partial outputs.
func (h *SummaryHandler) PostSummary(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	reviews, err := repository.LoadReviews(body)
	if tooLarge, ok := uploadTooLarge(err); ok {
		slog.Warn("payload exceeds size limit", "limit", tooLarge.Limit)
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: uploadLimitError(tooLarge).Error()})
		return
	}
	if err != nil {
		slog.Warn("invalid reviews payload", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res := h.summarizer.Run(context.WithoutCancel(c.Request.Context()), reviews, nil)

	status := http.StatusOK
	if res.State.Failed() {
		status = http.StatusBadGateway
	}

	c.JSON(status, toSummaryResponse(res))
}

func (h *SummaryHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *SummaryHandler) writePage(c *gin.Context, status int, filename string, pageErr error) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)

	if err := h.renderer.Header(c.Writer, filename); err != nil {
		slog.Error("error rendering page header", "error", err)
		return
	}
	if pageErr != nil {
		if err := h.renderer.Error(c.Writer, pageErr); err != nil {
			slog.Error("error rendering page error", "error", err)
		}
	}
	if err := h.renderer.Footer(c.Writer); err != nil {
		slog.Error("error rendering page footer", "error", err)
	}
}

func uploadTooLarge(err error) (*http.MaxBytesError, bool) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return tooLarge, true
	}
	return nil, false
}

func uploadLimitError(err *http.MaxBytesError) error {
	return fmt.Errorf("reviews file is larger than the %d byte upload limit", err.Limit)
}

func toSummaryResponse(res *pipeline.Result) SummaryResponse {
	out := SummaryResponse{
		RunID:      res.RunID,
		State:      string(res.State),
		Extraction: res.Extraction,
		Grouping:   res.Grouping,
		Summary:    res.Summary,
		Durations:  make(map[string]int64, len(res.Durations)),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	for stage, d := range res.Durations {
		out.Durations[stage.String()] = d.Milliseconds()
	}

	var structured StructuredResponse
	if items, ok := llm.ParseExtraction(res.Extraction); ok {
		structured.Extraction = items
	}
	if themes, ok := llm.ParseThemes(res.Grouping); ok {
		structured.Grouping = themes
	}
	if structured.Extraction != nil || structured.Grouping != nil {
		out.Structured = &structured
	}

	return out
}
