package api

import (
	"net/http"
	"time"

	reqdto "turf-reservation/internal/handler/dto/request"
	resdto "turf-reservation/internal/handler/dto/response"
	"turf-reservation/internal/handler/httperr"
	"turf-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ResourceHandler struct {
	q queries.ResourceQueries
}

func NewResourceHandler(q queries.ResourceQueries) *ResourceHandler {
	return &ResourceHandler{q: q}
}

// @Summary List resources
// @Description List active, bookable resources ordered by name
// @Tags resources
// @Produce json
// @Param sport_type query string false "Sport type"
// @Param city query string false "City"
// @Success 200 {array} resdto.ResourceListResponse
// @Failure 400 {object} httperr.Response
// @Router /resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	var query reqdto.ListResourcesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	items, err := h.q.ListAvailable(c.Request.Context(), query.ToFilter())
	if err != nil {
		httperr.AbortWithRules(c, err, resourceRules)
		return
	}

	resp, err := resdto.FromResourceListItems(items)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get resource
// @Description Get a resource with its weekly timings and add-ons
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithRules(c, err, resourceRules)
		return
	}

	resp, err := resdto.FromResourceView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List bookable slots
// @Description Candidate slot windows on a date that are still free
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.SlotsResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/slots [get]
func (h *ResourceHandler) Slots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource ID format", nil)
		return
	}

	var query reqdto.SlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	date, err := query.ParseDate()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	slots, err := h.q.ListBookableSlots(c.Request.Context(), id, date)
	if err != nil {
		httperr.AbortWithRules(c, err, resourceRules)
		return
	}

	c.JSON(http.StatusOK, resdto.SlotsResponse{
		ResourceID: id,
		Date:       date.Format(time.DateOnly),
		Slots:      slots,
	})
}
