package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/service"
	"github.com/templui/objectives/internal/validation"
)

const maxUploadMemory = 10 << 20

type DocumentHandler struct {
	documentService *service.DocumentService
}

func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

type createDocumentRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type documentURLResponse struct {
	URL string `json:"url"`
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	docs, err := h.documentService.List(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get documents")
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createDocumentRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "decode document")
		return
	}

	doc, err := h.documentService.Create(user.ID, r.PathValue("id"), req.Name, req.Category)
	if err != nil {
		writeServiceError(w, r, err, "create document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// Upload attaches the multipart "file" field to the document.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadMemory+(1<<20))
	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	mimeType, err := validation.ValidateFile(header, validation.DocumentConstraints, validation.ImageConstraints)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	doc, err := h.documentService.Attach(r.Context(), user.ID, r.PathValue("id"), service.Upload{
		Body:     file,
		Filename: header.Filename,
		MimeType: mimeType,
		Size:     header.Size,
	})
	if err != nil {
		writeServiceError(w, r, err, "upload document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	doc, err := h.documentService.ToggleStatus(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "toggle document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// URL returns a presigned download link.
func (h *DocumentHandler) URL(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	url, err := h.documentService.URL(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "presign document")
		return
	}

	writeJSON(w, http.StatusOK, documentURLResponse{URL: url})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.documentService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
