package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mediavault/mediavault"
)

// Service is the store surface the dispatcher invokes. One mutation or
// query operation per inbound request, executed to completion.
type Service interface {
	Create(ctx context.Context, in mediavault.CreateInput) (mediavault.Record, error)
	Update(ctx context.Context, in mediavault.UpdateInput) (mediavault.Record, error)
	Delete(ctx context.Context, name, owner string) error
	Retrieve(ctx context.Context, name, owner string) (mediavault.Record, io.ReadSeekCloser, error)
	FilterByDate(ctx context.Context, q mediavault.DateQuery) ([]mediavault.QueryItem, error)
	FilterByOwners(ctx context.Context, q mediavault.OwnerQuery) ([]mediavault.QueryItem, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// MaxUploadSize caps the request body of create/update in bytes.
	// Zero means no limit.
	MaxUploadSize int64
	CORS          CORSConfig
}

// Handler provides HTTP handlers for the object store operations.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with the dispatcher routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/objects", func(r chi.Router) {
			r.With(MaxBytes(h.config.MaxUploadSize)).Post("/", h.handleCreate)
			r.With(MaxBytes(h.config.MaxUploadSize)).Put("/{name}", h.handleUpdate)
			r.Get("/{name}", h.handleRetrieve)
			r.Delete("/{name}", h.handleDelete)
		})

		r.Route("/query", func(r chi.Router) {
			r.Get("/by-date", h.handleFilterByDate)
			r.Get("/by-owners", h.handleFilterByOwners)
		})
	})

	return r
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	file, kind, err := formFile(r)
	if err != nil {
		HandleError(w, err)
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}
	if file == nil {
		WriteError(w, http.StatusBadRequest, "invalid_input", "A payload file is required")
		return
	}

	in := mediavault.CreateInput{
		Name:        r.FormValue("name"),
		Owner:       r.FormValue("owner"),
		Description: r.FormValue("description"),
		Kind:        kind,
		Payload:     file,
	}

	rec, err := h.service.Create(r.Context(), in)
	if err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Location", "/api/objects/"+rec.Name)
	_ = WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	file, kind, err := formFile(r)
	if err != nil {
		HandleError(w, err)
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	in := mediavault.UpdateInput{
		Name:        name,
		Owner:       r.FormValue("owner"),
		Description: r.FormValue("description"),
		Kind:        kind,
	}
	if file != nil {
		in.Payload = file
	}

	rec, err := h.service.Update(r.Context(), in)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	owner := r.URL.Query().Get("owner")

	if err := h.service.Delete(r.Context(), name, owner); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	owner := r.URL.Query().Get("owner")

	rec, content, err := h.service.Retrieve(r.Context(), name, owner)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = content.Close() }()

	fileName := rec.BlobKey()
	w.Header().Set("Content-Type", string(rec.Kind()))
	w.Header().Set("File-Name", fileName)
	w.Header().Set("File-Owner", rec.Owner)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	http.ServeContent(w, r, fileName, rec.ModifiedAt, content)
}

func (h *Handler) handleFilterByDate(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	start, end, sort, err := parseQueryBounds(params.Get("start"), params.Get("end"), params.Get("sort"))
	if err != nil {
		HandleError(w, err)
		return
	}

	items, err := h.service.FilterByDate(r.Context(), mediavault.DateQuery{
		Owner: params.Get("owner"),
		Start: start,
		End:   end,
		Sort:  sort,
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleFilterByOwners(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	start, end, sort, err := parseQueryBounds(params.Get("start"), params.Get("end"), params.Get("sort"))
	if err != nil {
		HandleError(w, err)
		return
	}

	items, err := h.service.FilterByOwners(r.Context(), mediavault.OwnerQuery{
		Owners: params["owner"],
		Start:  start,
		End:    end,
		Sort:   sort,
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, items)
}

func parseQueryBounds(startStr, endStr, sortStr string) (start, end time.Time, sort mediavault.SortOrder, err error) {
	start, err = mediavault.ParseQueryTime(startStr)
	if err != nil {
		return
	}

	end, err = mediavault.ParseQueryTime(endStr)
	if err != nil {
		return
	}

	sort, err = mediavault.ParseSortOrder(sortStr)
	return
}

// formFile extracts the uploaded payload part, if any, and sniffs its
// content kind. Returns a nil file when the request carries no payload.
func formFile(r *http.Request) (multipart.File, mediavault.ContentKind, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("%w: malformed multipart request: %v", mediavault.ErrInvalidInput, err)
	}

	kind, err := sniffKind(file, header.Header.Get("Content-Type"))
	if err != nil {
		_ = file.Close()
		return nil, "", err
	}

	return file, kind, nil
}
