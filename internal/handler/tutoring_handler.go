package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tutofast/tutofast-api/internal/service"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
	"github.com/tutofast/tutofast-api/pkg/response"
)

// TutoringHandler exposes the tutoring session endpoints.
type TutoringHandler struct {
	commands *service.TutoringCommandService
	queries  *service.TutoringQueryService
	exports  *service.ExportService
}

// NewTutoringHandler constructs TutoringHandler.
func NewTutoringHandler(commands *service.TutoringCommandService, queries *service.TutoringQueryService, exports *service.ExportService) *TutoringHandler {
	return &TutoringHandler{commands: commands, queries: queries, exports: exports}
}

// Create godoc
// @Summary Create a tutoring session
// @Tags Tutorings
// @Accept json
// @Produce json
// @Param payload body service.CreateTutoringRequest true "Tutoring payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tutorings [post]
func (h *TutoringHandler) Create(c *gin.Context) {
	var req service.CreateTutoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.commands.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tutoringResourceFromEntity(session))
}

// List godoc
// @Summary List tutoring sessions
// @Description Retrieves tutoring sessions. tutorId takes precedence over courseId, courseId over cycle; with no filters the full catalog is returned. courseId yields at most one session.
// @Tags Tutorings
// @Produce json
// @Param tutorId query int false "Filter by tutor id"
// @Param courseId query int false "Filter by course id"
// @Param cycle query int false "Filter by academic cycle"
// @Success 200 {object} response.Envelope
// @Router /tutorings [get]
func (h *TutoringHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if tutorID, ok := queryInt64(c, "tutorId"); ok {
		sessions, err := h.queries.ListByTutor(ctx, tutorID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, tutoringResourcesFromEntities(sessions), nil)
		return
	}

	if courseID, ok := queryInt64(c, "courseId"); ok {
		session, err := h.queries.GetByCourse(ctx, courseID)
		if err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
				response.JSON(c, http.StatusOK, []TutoringResource{}, nil)
				return
			}
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, []TutoringResource{tutoringResourceFromEntity(session)}, nil)
		return
	}

	if cycle, ok := queryInt64(c, "cycle"); ok {
		sessions, err := h.queries.ListByCycle(ctx, int(cycle))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, tutoringResourcesFromEntities(sessions), nil)
		return
	}

	sessions, err := h.queries.ListAll(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutoringResourcesFromEntities(sessions), nil)
}

// Get godoc
// @Summary Get a tutoring session by id
// @Tags Tutorings
// @Produce json
// @Param id path int true "Tutoring session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutorings/{id} [get]
func (h *TutoringHandler) Get(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	session, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutoringResourceFromEntity(session), nil)
}

// ListByTutor godoc
// @Summary List a tutor's tutoring sessions
// @Tags Tutorings
// @Produce json
// @Param tutorId path int true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Router /tutor/{tutorId}/tutorings [get]
func (h *TutoringHandler) ListByTutor(c *gin.Context) {
	tutorID, err := pathInt64(c, "tutorId")
	if err != nil {
		response.Error(c, err)
		return
	}
	sessions, err := h.queries.ListByTutor(c.Request.Context(), tutorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutoringResourcesFromEntities(sessions), nil)
}

// Update godoc
// @Summary Update a tutoring session
// @Tags Tutorings
// @Accept json
// @Produce json
// @Param id path int true "Tutoring session ID"
// @Param payload body service.UpdateTutoringRequest true "Tutoring payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutorings/{id} [patch]
func (h *TutoringHandler) Update(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateTutoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.commands.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutoringResourceFromEntity(session), nil)
}

// Delete godoc
// @Summary Delete a tutoring session
// @Tags Tutorings
// @Produce json
// @Param id path int true "Tutoring session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tutorings/{id} [delete]
func (h *TutoringHandler) Delete(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.commands.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, map[string]string{"message": "Tutoring session deleted successfully"}, nil)
}

// Export godoc
// @Summary Export the tutoring catalog
// @Tags Tutorings
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format: csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /tutorings/export [get]
func (h *TutoringHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	result, err := h.exports.Generate(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func queryInt64(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func pathInt64(c *gin.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a number")
	}
	return value, nil
}
