package transport

import (
	"errors"
	"io"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxUploadSize bounds in-memory buffering of multipart product uploads
const maxUploadSize = 10 << 20 // 10 MiB

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/product-image/{id}", h.Image)
	r.Post("/create", h.Create)
	r.Patch("/updateProduct/{id}", h.Update)
	r.Delete("/deleteProduct/{id}", h.Delete)
}

// List returns all products; image bytes are never part of the listing
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Image streams the raw image bytes of a product
func (h *ProductHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	image, err := h.productService.GetImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, service.ErrImageNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "image not found")
			return
		}
		h.logger.Error("Failed to fetch product image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch image")
		return
	}

	w.Header().Set("Content-Type", image.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(image.Data)
}

// Create creates a product from a multipart form: text fields plus an
// optional image file
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	rawPrice := r.FormValue("price")
	if rawPrice == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "price is required")
		return
	}
	price, err := parsePrice(rawPrice)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return
	}

	image, err := readImageFile(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	input := service.CreateProductInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       price,
		Image:       image,
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductTitleRequired), errors.Is(err, service.ErrNegativePrice):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"msg":     "Product created successfully",
		"product": product,
	})
}

// Update applies a partial update from a multipart form; only the form keys
// that are present overwrite, and present-but-empty values count as supplied
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	patch := domain.ProductPatch{}
	if v, ok := formValue(r, "title"); ok {
		patch.Title = &v
	}
	if v, ok := formValue(r, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formValue(r, "category"); ok {
		patch.Category = &v
	}
	if v, ok := formValue(r, "price"); ok {
		price, err := parsePrice(v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
			return
		}
		patch.Price = &price
	}

	image, err := readImageFile(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image upload")
		return
	}
	patch.Image = image

	product, err := h.productService.Update(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrProductTitleRequired), errors.Is(err, service.ErrNegativePrice):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"msg":     "Product updated successfully",
		"product": product,
	})
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "Product deleted successfully"})
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func readImageFile(r *http.Request) (*domain.ProductImage, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &domain.ProductImage{
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
