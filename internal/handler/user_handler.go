package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutofast/tutofast-api/internal/models"
	"github.com/tutofast/tutofast-api/internal/service"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
	"github.com/tutofast/tutofast-api/pkg/response"
)

// UserHandler exposes the account endpoints.
type UserHandler struct {
	commands *service.UserCommandService
	queries  *service.UserQueryService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(commands *service.UserCommandService, queries *service.UserQueryService) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

// Create godoc
// @Summary Register a user
// @Description Creates an account. A duplicate email yields 400 with no body.
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.commands.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	// A silently rejected duplicate email produces no user and no error.
	if user == nil {
		c.Status(http.StatusBadRequest)
		return
	}
	response.Created(c, userResourceFromEntity(user))
}

// List godoc
// @Summary List or look up users
// @Description With email and password returns the matching account; with email alone looks up by email; with tutorId and roleType looks up by tutor number; otherwise lists all accounts.
// @Tags Users
// @Produce json
// @Param email query string false "Look up by email"
// @Param password query string false "Password, combined with email"
// @Param tutorId query int false "Look up by tutor id"
// @Param roleType query string false "Role, combined with tutorId"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	email := strings.TrimSpace(c.Query("email"))
	password := c.Query("password")
	if email != "" && password != "" {
		user, err := h.queries.GetByEmailAndPassword(ctx, email, password)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, userResourceFromEntity(user), nil)
		return
	}
	if email != "" {
		user, err := h.queries.GetByEmail(ctx, email)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, userResourceFromEntity(user), nil)
		return
	}

	if tutorID, ok := queryInt64(c, "tutorId"); ok {
		role := models.UserRole(strings.ToUpper(c.Query("roleType")))
		user, err := h.queries.GetByTutorIDAndRole(ctx, tutorID, role)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, userResourceFromEntity(user), nil)
		return
	}

	var filter models.UserFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		filter.PageSize = size
	}
	users, pagination, err := h.queries.List(ctx, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, userResourcesFromEntities(users), pagination)
}

// Get godoc
// @Summary Get a user by id
// @Tags Users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathInt64(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, userResourceFromEntity(user), nil)
}

// ListByRole godoc
// @Summary List users by role
// @Tags Users
// @Produce json
// @Param role path string true "Role: STUDENT or TEACHER"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/role/{role} [get]
func (h *UserHandler) ListByRole(c *gin.Context) {
	role := models.UserRole(strings.ToUpper(c.Param("role")))
	users, err := h.queries.ListByRole(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, userResourcesFromEntities(users), nil)
}

// Update godoc
// @Summary Update a user's profile
// @Description Only avatar, gender and semester are mutable.
// @Tags Users
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param payload body service.UpdateUserRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathInt64(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.commands.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, userResourceFromEntity(user), nil)
}
