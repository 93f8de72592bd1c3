package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/repository"
	"github.com/go-chi/chi/v5"
)

type DocumentEndpoints struct {
	repo        *repository.GORMRepository
	store       *DocumentStore
	maxUploadMB int
}

func NewDocumentEndpoints(repo *repository.GORMRepository, store *DocumentStore, maxUploadMB int) *DocumentEndpoints {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &DocumentEndpoints{
		repo:        repo,
		store:       store,
		maxUploadMB: maxUploadMB,
	}
}

func (e *DocumentEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", e.UploadHandler)
		r.Get("/", e.ListHandler)
		r.Get("/{id}", e.DownloadHandler)
		r.Delete("/{id}", e.DeleteHandler)
	})
}

// UploadHandler accepts a multipart upload. The file field is "file"; kind
// comes from the form and defaults to resume.
func (e *DocumentEndpoints) UploadHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	maxBytes := int64(e.maxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "Upload too large or malformed", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	kind := r.FormValue("kind")
	switch kind {
	case "resume", "cover_letter", "other":
	case "":
		kind = "resume"
	default:
		http.Error(w, "Invalid document kind", http.StatusBadRequest)
		return
	}

	storagePath, size, err := e.store.Save(file)
	if err != nil {
		slog.Error("Failed to store document", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to store document", http.StatusInternalServerError)
		return
	}

	document := &models.Document{
		UserID:      user.ID,
		Kind:        kind,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   size,
		StoragePath: storagePath,
	}
	if err := e.repo.CreateDocument(r.Context(), document); err != nil {
		http.Error(w, "Failed to record document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(document)
}

func (e *DocumentEndpoints) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	documents, err := e.repo.GetDocuments(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

func (e *DocumentEndpoints) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	document, err := e.repo.GetDocumentByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get document", http.StatusInternalServerError)
		return
	}
	if document == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	reader, err := e.store.Open(document.StoragePath)
	if err != nil {
		slog.Error("Failed to open document blob", "error", err, "document_id", document.ID)
		http.Error(w, "Failed to open document", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	contentType := document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+document.FileName+`"`)
	io.Copy(w, reader)
}

func (e *DocumentEndpoints) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	document, err := e.repo.GetDocumentByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		http.Error(w, "Failed to get document", http.StatusInternalServerError)
		return
	}
	if document == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	if err := e.repo.DeleteDocument(r.Context(), document.ID, user.ID); err != nil {
		http.Error(w, "Failed to delete document", http.StatusInternalServerError)
		return
	}

	// Blob removal is best effort; content-addressed blobs may be shared
	if err := e.store.Delete(document.StoragePath); err != nil {
		slog.Warn("Failed to delete document blob", "error", err, "document_id", document.ID)
	}

	w.WriteHeader(http.StatusNoContent)
}
