package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAdminRequest represents the admin creation payload
type CreateAdminRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the admin login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateAdminRequest represents a partial admin update; absent fields are
// left untouched
type UpdateAdminRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	AdminID string `json:"adminId"`
	Token   string `json:"token"`
}

// AdminHandler handles HTTP requests for admin operations
type AdminHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers all admin routes. Account management requires an
// authenticated admin; login carries the rate limiter.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, loginRateLimit func(http.Handler) http.Handler) {
	r.Post("/admin", h.Create)

	r.Group(func(r chi.Router) {
		if loginRateLimit != nil {
			r.Use(loginRateLimit)
		}
		r.Post("/admin/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/admin", h.List)
		r.Patch("/admin/{id}", h.Update)
		r.Delete("/admin/{id}", h.Delete)
	})
}

// Create handles admin creation
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Admin validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.adminService.Create(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCredentialsRequired):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrAdminAlreadyExists):
			middleware.RespondWithError(w, http.StatusBadRequest, "admin already exists")
		default:
			h.logger.Error("Failed to create admin", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create admin")
		}
		return
	}

	h.logger.Info("Admin created", zap.String("admin_id", admin.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"msg":     "Admin created",
		"admin":   admin,
	})
}

// Login authenticates an admin. Unknown usernames and wrong passwords
// produce the identical response.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, token, err := h.adminService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, service.ErrCredentialsRequired):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Login failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		}
		return
	}

	h.logger.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Msg:     "Login successful",
		AdminID: admin.ID.String(),
		Token:   token,
	})
}

// List returns all admins; password hashes never serialize
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list admins", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch admins")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"admins": admins})
}

// Update applies a partial admin update; a supplied password is re-hashed
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	var req UpdateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.adminService.Update(r.Context(), id, domain.AdminPatch{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAdminNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "admin not found")
		case errors.Is(err, service.ErrCredentialsRequired):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrAdminAlreadyExists):
			middleware.RespondWithError(w, http.StatusBadRequest, "admin already exists")
		default:
			h.logger.Error("Failed to update admin", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update admin")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"msg":   "Admin updated successfully",
		"admin": admin,
	})
}

// Delete removes an admin
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	if err := h.adminService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "admin not found")
			return
		}
		h.logger.Error("Failed to delete admin", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete admin")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "Admin deleted successfully"})
}
