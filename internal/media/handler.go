package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
)

// multipartMemory is how much of a form is buffered in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

// Handler contains HTTP handlers for image uploads
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UploadBase64Request carries data URLs; non-string items are skipped
type UploadBase64Request struct {
	Images []any `json:"images"`
}

// UploadResponse lists the public URLs of stored images
type UploadResponse struct {
	ImageURLs []string `json:"imageUrls"`
}

// UploadBase64 handles base64 image uploads
// @Summary      Upload base64 images
// @Description  Stores each data:image/... item and returns public URLs in input order. Invalid items are skipped.
// @Tags         images
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UploadBase64Request true "Data URLs"
// @Success      200 {object} httputil.SuccessResponse{data=UploadResponse}
// @Failure      400 {object} httputil.ErrorResponse "No images"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Upload failed"
// @Router       /api/upload-base64-images [post]
func (h *Handler) UploadBase64(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req UploadBase64Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	images := make([]string, len(req.Images))
	for i, item := range req.Images {
		if s, ok := item.(string); ok {
			images[i] = s
		}
	}

	urls, err := h.service.UploadDataURLs(r.Context(), images)
	if err != nil {
		logger.Warn("base64 upload failed", "count", len(images), "error", err.Error())
		httputil.RespondError(w, err)
		return
	}

	respondUploaded(w, urls)
}

// UploadFiles handles multipart image uploads
// @Summary      Upload image files
// @Description  Multipart form upload; every image/* part is stored (5 MiB per file by default).
// @Tags         images
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.SuccessResponse{data=UploadResponse}
// @Failure      400 {object} httputil.ErrorResponse "No valid images or file too large"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Upload failed"
// @Router       /api/upload-product-images [post]
func (h *Handler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if limit := h.service.MaxBytes(); limit > 0 {
		// room for a handful of files plus form overhead
		r.Body = http.MaxBytesReader(w, r.Body, limit*10+(1<<20))
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, ErrFileTooLarge)
			return
		}
		httputil.RespondError(w, apperr.Validation(httputil.CodeInvalidRequestBody, "invalid multipart form").Wrap(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := readFormFiles(r.MultipartForm)
	if err != nil {
		httputil.RespondError(w, apperr.Validation(httputil.CodeInvalidRequestBody, "failed to read uploaded file").Wrap(err))
		return
	}

	urls, err := h.service.UploadFiles(r.Context(), files)
	if err != nil {
		logger.Warn("multipart upload failed", "count", len(files), "error", err.Error())
		httputil.RespondError(w, err)
		return
	}

	respondUploaded(w, urls)
}

func respondUploaded(w http.ResponseWriter, urls []string) {
	httputil.RespondSuccess(w,
		fmt.Sprintf("%d image(s) uploaded", len(urls)),
		UploadResponse{ImageURLs: urls},
		http.StatusOK,
	)
}

// readFormFiles collects every file part, ordered by field name
func readFormFiles(form *multipart.Form) ([]File, error) {
	fields := make([]string, 0, len(form.File))
	for name := range form.File {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var files []File
	for _, name := range fields {
		for _, fh := range form.File[name] {
			f, err := readFile(fh)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func readFile(fh *multipart.FileHeader) (File, error) {
	src, err := fh.Open()
	if err != nil {
		return File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
