package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateUserRequest represents the user creation payload
type CreateUserRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	PhoneNo string `json:"phoneNo"`
	Address string `json:"address"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/createUser", h.Create)
	r.Get("/user", h.List)
	r.Delete("/deleteUser/{id}", h.Delete)
}

// Create handles user creation
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("User validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		PhoneNo: req.PhoneNo,
		Address: req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameEmailRequired):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrUserAlreadyExists):
			middleware.RespondWithError(w, http.StatusBadRequest, "user already exists")
		default:
			h.logger.Error("Failed to create user", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	h.logger.Info("User created", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

// List returns all users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Delete removes a user; their orders are left in place
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to delete user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "User deleted successfully"})
}
