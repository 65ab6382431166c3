package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	service catalog.CatalogUseCase
}

type resourceResponse struct {
	ID          int64   `json:"resource_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	HourlyRate  float64 `json:"hourly_rate"`
}

func NewResourceHandler(service catalog.CatalogUseCase) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func (h *ResourceHandler) Register(anyRole, admin *gin.RouterGroup) {
	anyRole.GET("/resources", h.list)
	anyRole.GET("/resources/:id", h.get)
	admin.POST("/resources", h.create)
	admin.DELETE("/resources/:id", h.delete)
}

func (h *ResourceHandler) list(c *gin.Context) {
	resources, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]resourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, toResourceResponse(&r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ResourceHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	resource, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResourceResponse(resource))
}

func (h *ResourceHandler) create(c *gin.Context) {
	var req catalog.CreateResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResourceResponse(created))
}

func (h *ResourceHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resource deleted"})
}

func toResourceResponse(r *domain.Resource) resourceResponse {
	return resourceResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		HourlyRate:  r.HourlyRate,
	}
}
