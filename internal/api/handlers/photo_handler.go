package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/markdave123-py/PhotoAlbum/internal/apperrors"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
	"github.com/markdave123-py/PhotoAlbum/internal/render"
	"github.com/markdave123-py/PhotoAlbum/internal/services"
)

// Form fields posted by templates/index.html.
const (
	FieldPhotoFile    = "photoFile"
	FieldCustomLabels = "customLabels"
	FieldSearchQuery  = "searchQuery"
	FieldShown        = "shown"
	FieldNoResults    = "noResults"
)

const maxUploadMemory = 52 << 20

// PhotoHandler keeps no gallery between requests. Each page posts back the
// images it shows, and the response is rendered from that alone.
type PhotoHandler struct {
	photos *services.PhotoService
	page   *render.Page
	logger *slog.Logger
}

func NewPhotoHandler(photos *services.PhotoService, page *render.Page, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{photos: photos, page: page, logger: logger}
}

// Index shows the forms and an empty gallery.
func (h *PhotoHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, h.newGallery(), render.PageData{})
}

// UploadPhoto stores the posted file and prepends its thumbnail on success.
// A failed upload leaves the gallery as it was.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	req := &services.UploadRequest{}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Warn("could not parse upload form", slog.String("error", err.Error()))
	}
	req.Labels = r.FormValue(FieldCustomLabels)
	gallery := h.restoreGallery(r)

	file, header, err := r.FormFile(FieldPhotoFile)
	switch {
	case err == nil:
		defer file.Close()
		req.Filename = filepath.Base(header.Filename)
		req.ContentType = header.Header.Get("Content-Type")
		req.Body = fileBody(file, header)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		log.Warn("could not read upload file", slog.String("error", err.Error()))
	}

	photo, err := h.photos.Upload(r.Context(), req)
	if err != nil {
		h.respond(w, r, apperrors.HTTPStatus(err), gallery, render.PageData{
			Flash:     failureText("Upload failed", err),
			FlashKind: render.FlashError,
			Labels:    req.Labels,
		})
		return
	}

	gallery.Prepend(gallery.PreviewFor(photo.ObjectKey, photo.Labels))
	h.respond(w, r, http.StatusOK, gallery, render.PageData{
		Flash:     "Upload successful: " + photo.ObjectKey,
		FlashKind: render.FlashInfo,
	})
}

// SearchPhotos replaces the gallery with the results for ?searchQuery=.
// A failed search shows the page's previous images again.
func (h *PhotoHandler) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	gallery := h.restoreGallery(r)

	query := r.URL.Query().Get(FieldSearchQuery)
	if query == "" {
		query = r.URL.Query().Get("q")
	}

	items, err := h.photos.Search(r.Context(), query)
	if err != nil {
		h.respond(w, r, apperrors.HTTPStatus(err), gallery, render.PageData{
			Flash:     failureText("Search failed", err),
			FlashKind: render.FlashError,
			Query:     query,
		})
		return
	}

	shown := gallery.Replace(items)
	logger.FromContext(r.Context(), h.logger).Debug("gallery replaced",
		slog.Int("results", len(items)),
		slog.Int("shown", shown),
	)
	h.respond(w, r, http.StatusOK, gallery, render.PageData{Query: query})
}

// Health reports liveness.
func (h *PhotoHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (h *PhotoHandler) newGallery() *render.Gallery {
	return render.NewGallery(h.photos.Bucket(), h.logger)
}

// restoreGallery rebuilds the gallery the requesting page was showing.
func (h *PhotoHandler) restoreGallery(r *http.Request) *render.Gallery {
	if err := r.ParseForm(); err != nil {
		logger.FromContext(r.Context(), h.logger).Debug("could not parse form", slog.String("error", err.Error()))
	}
	g := h.newGallery()
	g.Restore(r.Form[FieldShown], r.Form.Get(FieldNoResults) != "")
	return g
}

func (h *PhotoHandler) respond(w http.ResponseWriter, r *http.Request, status int, gallery *render.Gallery, data render.PageData) {
	var buf bytes.Buffer
	if err := h.page.Render(&buf, gallery, data); err != nil {
		logger.FromContext(r.Context(), h.logger).Error("render failed", slog.String("error", err.Error()))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// failureText keeps input prompts as they are and prefixes gateway failures.
func failureText(prefix string, err error) string {
	if apperrors.IsUserError(err) {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", prefix, err.Error())
}

// fileBody treats a zero-length part with no name as no file at all.
func fileBody(file multipart.File, header *multipart.FileHeader) io.Reader {
	if header.Filename == "" && header.Size == 0 {
		return nil
	}
	return file
}
