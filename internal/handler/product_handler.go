package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"
	"github.com/mostafayousef44200444-rgb/backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Upload bounds. Files are buffered fully in memory before being forwarded
// to the image host, so both must stay small.
const (
	maxImageCount = 5
	maxImageSize  = 5 << 20 // 5 MiB per file
	maxUploadSize = maxImageCount*maxImageSize + 1<<20
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Create handles POST /api/products requests (multipart, admin only).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", h.logger)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price", h.logger)
		return
	}

	stock := 0
	if v := r.FormValue("stock"); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid stock", h.logger)
			return
		}
	}

	images, err := readUploads(r, "images")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	input := &model.CreateProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("category"),
		Sizes:       parseStringList(r.MultipartForm.Value["sizes"]),
		Stock:       stock,
		Images:      images,
	}

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Update handles PUT /api/products/{id} requests (multipart, admin only).
// Absent form fields keep their stored values.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", h.logger)
		return
	}

	values := r.MultipartForm.Value
	input := &model.UpdateProductInput{}

	if v, ok := formFirst(values, "name"); ok {
		input.Name = &v
	}
	if v, ok := formFirst(values, "description"); ok {
		input.Description = &v
	}
	if v, ok := formFirst(values, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid price", h.logger)
			return
		}
		input.Price = &price
	}
	if v, ok := formFirst(values, "category"); ok {
		input.Category = &v
	}
	if raw, ok := values["sizes"]; ok {
		input.Sizes = parseStringList(raw)
	}
	if v, ok := formFirst(values, "stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid stock", h.logger)
			return
		}
		input.Stock = &stock
	}
	if raw, ok := values["existingImages"]; ok {
		retained := parseStringList(raw)
		if retained == nil {
			retained = []string{}
		}
		input.ExistingImages = retained
	}

	images, err := readUploads(r, "images")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	input.Images = images

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests (admin only).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Product deleted"})
}

// readUploads buffers the uploaded files for a form field, enforcing the
// per-file size and per-request count bounds.
func readUploads(r *http.Request, field string) ([]model.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	if len(headers) > maxImageCount {
		return nil, fmt.Errorf("Too many images (max %d)", maxImageCount)
	}

	uploads := make([]model.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxImageSize {
			return nil, fmt.Errorf("Image %s is too large (max 5MB)", fh.Filename)
		}

		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("Failed to read image %s", fh.Filename)
		}
		data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("Failed to read image %s", fh.Filename)
		}
		if len(data) > maxImageSize {
			return nil, fmt.Errorf("Image %s is too large (max 5MB)", fh.Filename)
		}

		uploads = append(uploads, model.ImageUpload{Filename: fh.Filename, Data: data})
	}

	return uploads, nil
}

// parseStringList accepts either a JSON array in a single form value or
// repeated/comma-separated plain values.
func parseStringList(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(values[0]), &list); err == nil {
			return list
		}
	}

	list := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
	}
	return list
}

// formFirst returns the first value for a form key and whether it was set.
func formFirst(values map[string][]string, key string) (string, bool) {
	if vs, ok := values[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}
