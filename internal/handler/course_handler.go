package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutofast/tutofast-api/internal/service"
	"github.com/tutofast/tutofast-api/pkg/response"
)

// CourseHandler exposes the course catalog endpoints.
type CourseHandler struct {
	queries *service.CourseQueryService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(queries *service.CourseQueryService) *CourseHandler {
	return &CourseHandler{queries: queries}
}

// List godoc
// @Summary List courses
// @Description Retrieves all courses, optionally filtered by cycle.
// @Tags Courses
// @Produce json
// @Param cycle query int false "Filter by cycle number"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if cycle, ok := queryInt64(c, "cycle"); ok {
		courses, err := h.queries.ListByCycle(ctx, int(cycle))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, courseResourcesFromEntities(courses), nil)
		return
	}

	courses, err := h.queries.ListAll(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courseResourcesFromEntities(courses), nil)
}
