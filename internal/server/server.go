// Package server exposes gallery views over HTTP as JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lensgallery/internal/service"
)

// Handler serves the gallery API.
type Handler struct {
	views  *service.Registry
	images *service.ImageService
	// baseCtx bounds rotation timers of views created over HTTP; request
	// contexts end with the request, views must outlive it.
	baseCtx context.Context
	fileDir string
}

// New creates a Handler. fileDir, when set, is served under the catalog folder prefix.
func New(ctx context.Context, views *service.Registry, images *service.ImageService, fileDir string) *Handler {
	return &Handler{views: views, images: images, baseCtx: ctx, fileDir: fileDir}
}

// Routes returns the API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/views", h.HandleCreateView)
	mux.HandleFunc("GET /api/views/{id}", h.HandleGetView)
	mux.HandleFunc("DELETE /api/views/{id}", h.HandleDeleteView)
	mux.HandleFunc("POST /api/views/{id}/expand", h.HandleExpand)
	mux.HandleFunc("POST /api/views/{id}/scroll", h.HandleScroll)
	mux.HandleFunc("POST /api/views/{id}/lightbox", h.HandleOpenLightbox)
	mux.HandleFunc("DELETE /api/views/{id}/lightbox", h.HandleCloseLightbox)
	mux.HandleFunc("POST /api/views/{id}/lightbox/next", h.HandleLightboxNext)
	mux.HandleFunc("POST /api/views/{id}/lightbox/previous", h.HandleLightboxPrevious)
	mux.HandleFunc("GET /api/catalog", h.HandleCatalog)
	mux.HandleFunc("GET /api/images/{name}/info", h.HandleImageInfo)
	mux.HandleFunc("GET /api/images/{name}/thumbnail", h.HandleThumbnail)
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	if h.fileDir != "" {
		prefix := strings.TrimSuffix(h.views.Catalog().Folder(), "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(h.fileDir))))
	}
	return mux
}

// viewResponse pairs a view ID with its render state.
type viewResponse struct {
	ID string `json:"id"`
	service.Snapshot
}

// HandleCreateView mounts a new view for a visitor.
func (h *Handler) HandleCreateView(w http.ResponseWriter, r *http.Request) {
	id, v, err := h.views.Create(h.baseCtx)
	if errors.Is(err, service.ErrTooManyViews) {
		h.writeError(w, "Too many open views", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		slog.Error("Failed to create view", "err", err)
		h.writeError(w, "Unable to create view", http.StatusInternalServerError)
		return
	}
	h.writeJSONStatus(w, http.StatusCreated, viewResponse{ID: id, Snapshot: v.Snapshot()})
}

// HandleGetView returns the current render state.
func (h *Handler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	id, v, ok := h.viewOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, viewResponse{ID: id, Snapshot: v.Snapshot()})
}

// HandleDeleteView tears the view down.
func (h *Handler) HandleDeleteView(w http.ResponseWriter, r *http.Request) {
	if err := h.views.Delete(r.PathValue("id")); err != nil {
		h.writeError(w, "View not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExpand is the load-more action.
func (h *Handler) HandleExpand(w http.ResponseWriter, r *http.Request) {
	id, v, ok := h.viewOrError(w, r)
	if !ok {
		return
	}
	v.RequestExpand()
	h.writeJSON(w, viewResponse{ID: id, Snapshot: v.Snapshot()})
}

// HandleScroll reports the reader's distance from the bottom of the page.
func (h *Handler) HandleScroll(w http.ResponseWriter, r *http.Request) {
	id, v, ok := h.viewOrError(w, r)
	if !ok {
		return
	}
	distance, err := strconv.ParseFloat(r.URL.Query().Get("distance"), 64)
	if err != nil {
		h.writeError(w, "distance must be a number", http.StatusBadRequest)
		return
	}
	v.MaybeLoadMore(distance)
	h.writeJSON(w, viewResponse{ID: id, Snapshot: v.Snapshot()})
}

// HandleOpenLightbox opens the viewer at ?index=.
func (h *Handler) HandleOpenLightbox(w http.ResponseWriter, r *http.Request) {
	id, v, ok := h.viewOrError(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		h.writeError(w, "index must be an integer", http.StatusBadRequest)
		return
	}
	if !v.OpenLightboxAt(index) {
		h.writeError(w, "index out of range", http.StatusUnprocessableEntity)
		return
	}
	h.writeJSON(w, viewResponse{ID: id, Snapshot: v.Snapshot()})
}

// HandleCloseLightbox closes the viewer.
func (h *Handler) HandleCloseLightbox(w http.ResponseWriter, r *http.Request) {
	id, v, ok := h.viewOrError(w, r)
	if !ok {
		return
	}
	v.CloseLightbox()
	h.writeJSON(w, viewResponse{ID: id, Snapshot: v.Snapshot()})
}

// HandleLightboxNext moves the viewer forward.
func (h *Handler) HandleLightboxNext(w http.ResponseWriter, r *http.Request) {
	h.stepLightbox(w, r, (*service.View).LightboxNext)
}

// HandleLightboxPrevious moves the viewer back.
func (h *Handler) HandleLightboxPrevious(w http.ResponseWriter, r *http.Request) {
	h.stepLightbox(w, r, (*service.View).LightboxPrevious)
}

func (h *Handler) stepLightbox(w http.ResponseWriter, r *http.Request, step func(*service.View) (int, bool)) {
	id, v, ok := h.viewOrError(w, r)
	if !ok {
		return
	}
	if _, moved := step(v); !moved {
		h.writeError(w, "lightbox is closed", http.StatusConflict)
		return
	}
	h.writeJSON(w, viewResponse{ID: id, Snapshot: v.Snapshot()})
}

// HandleCatalog lists the whole catalog in catalog order.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.views.Catalog().Images())
}

// HandleImageInfo returns size and EXIF metadata for a catalog image.
func (h *Handler) HandleImageInfo(w http.ResponseWriter, r *http.Request) {
	img, ok := h.views.Catalog().Lookup(r.PathValue("name"))
	if !ok {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}
	if h.images == nil {
		h.writeError(w, "Image metadata unavailable", http.StatusNotFound)
		return
	}
	info, err := h.images.GetImageInfo(img)
	if err != nil {
		slog.Error("Failed to read image info", "image", img.Path, "err", err)
		h.writeError(w, "Image metadata unavailable", http.StatusNotFound)
		return
	}
	h.writeJSON(w, info)
}

// maxThumbnailSize caps the size query parameter of the thumbnail endpoint.
const maxThumbnailSize = 1024

// HandleThumbnail returns a PNG scaled to fit a size x size box (default 200).
func (h *Handler) HandleThumbnail(w http.ResponseWriter, r *http.Request) {
	img, ok := h.views.Catalog().Lookup(r.PathValue("name"))
	if !ok || h.images == nil {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}
	size := 200
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxThumbnailSize {
			h.writeError(w, "Invalid size", http.StatusBadRequest)
			return
		}
		size = n
	}
	thumb, err := h.images.Thumbnail(img, uint(size), uint(size))
	if err != nil {
		slog.Error("Failed to build thumbnail", "image", img.Path, "err", err)
		h.writeError(w, "Image unavailable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, thumb); err != nil {
		slog.Error("Unable to write thumbnail", "image", img.Path, "err", err)
	}
}

func (h *Handler) viewOrError(w http.ResponseWriter, r *http.Request) (string, *service.View, bool) {
	id := r.PathValue("id")
	v, err := h.views.Get(id)
	if err != nil {
		h.writeError(w, "View not found", http.StatusNotFound)
		return "", nil, false
	}
	return id, v, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Warn(message, "code", code)
	http.Error(w, message, code)
}

// ListenAndServe runs srv until ctx is done, then shuts it down gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Gallery available", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
