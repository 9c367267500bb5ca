package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
	"github.com/josinaldojr/multiscrapper/internal/assistant"
	"github.com/josinaldojr/multiscrapper/internal/llm"
	"github.com/josinaldojr/multiscrapper/internal/rag"
)

const (
	googleKeyHeader = "X-Google-Api-Key"
	groqKeyHeader   = "X-Groq-Api-Key"

	llmTimeout    = 2 * time.Minute
	scrapeTimeout = 90 * time.Second
	maxUpload     = 32 << 20
)

type Handler struct {
	ragService     *rag.Service
	tasks          *assistant.Service
	screenshotPath string
}

func NewHandler(ragService *rag.Service, tasks *assistant.Service, screenshotPath string) *Handler {
	return &Handler{ragService: ragService, tasks: tasks, screenshotPath: screenshotPath}
}

type videoBody struct {
	URL      string `json:"url"`
	Provider string `json:"provider"`
}

type scrapeBody struct {
	URL      string `json:"url"`
	Provider string `json:"provider"`
	Mode     string `json:"mode"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) SummarizeVideo(w http.ResponseWriter, r *http.Request) {
	var body videoBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, apperr.New(apperr.ErrInvalidInput, "invalid json body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	resp, err := h.tasks.SummarizeVideo(ctx, assistant.VideoRequest{
		URL:         body.URL,
		Provider:    llm.ParseProvider(body.Provider),
		Credentials: credentials(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) VectorizePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Wrap(apperr.ErrInvalidInput, err, "file upload is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, apperr.Wrap(apperr.ErrInvalidInput, err, "could not read upload: %v", err))
		return
	}

	resp, err := h.tasks.VectorizePDF(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	resp, err := h.ragService.Answer(ctx, rag.AskRequest{
		Text:        r.FormValue("text"),
		Question:    r.FormValue("question"),
		Provider:    llm.ParseProvider(r.FormValue("provider")),
		Credentials: credentials(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) ScrapeWeb(w http.ResponseWriter, r *http.Request) {
	var body scrapeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, apperr.New(apperr.ErrInvalidInput, "invalid json body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scrapeTimeout)
	defer cancel()

	resp, err := h.tasks.ScrapePage(ctx, assistant.ScrapeRequest{URL: body.URL, Mode: body.Mode})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) AnalyzeVision(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	resp, err := h.tasks.AnalyzeImage(ctx, assistant.VisionRequest{
		ImagePath: r.FormValue("image_path"),
		Prompt:    r.FormValue("prompt"),
		APIKey:    strings.TrimSpace(r.Header.Get(googleKeyHeader)),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) ExtractTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()

	resp, err := h.tasks.ExtractTable(ctx, assistant.TableRequest{
		Text:        r.FormValue("text"),
		Provider:    llm.ParseProvider(r.FormValue("provider")),
		Credentials: credentials(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) Screenshot(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(h.screenshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, r, apperr.New(apperr.ErrNotFound, "No screenshot available"))
			return
		}
		writeError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func credentials(r *http.Request) llm.Credentials {
	return llm.Credentials{
		Primary:   strings.TrimSpace(r.Header.Get(googleKeyHeader)),
		Secondary: strings.TrimSpace(r.Header.Get(groqKeyHeader)),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	ev := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Detail: err.Error()})
}
