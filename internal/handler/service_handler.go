package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"home-services-server/internal/models"
	"home-services-server/internal/services"
)

type ServiceHandler struct {
	catalog services.CatalogService
}

func NewServiceHandler(catalog services.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// ListServices returns the catalog, narrowed by the optional query
// parameters. An absent parameter never constrains the result.
func (h *ServiceHandler) ListServices(c *gin.Context) {
	filter := models.ServiceFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	if raw := c.Query("minPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "minPrice must be a number")
			return
		}
		filter.MinPrice = &value
	}

	if raw := c.Query("maxPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "maxPrice must be a number")
			return
		}
		filter.MaxPrice = &value
	}

	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			respondWithError(c, http.StatusBadRequest, "limit must be a non-negative number")
			return
		}
		filter.Limit = value
	}

	result, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ServiceHandler) GetService(c *gin.Context) {
	service, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

// MyServices lists the services owned by the caller. The email query
// parameter must match the verified identity.
func (h *ServiceHandler) MyServices(c *gin.Context) {
	email := c.Query("email")
	if email == "" || email != identityEmail(c) {
		respondWithError(c, http.StatusForbidden, "forbidden access")
		return
	}

	result, err := h.catalog.ListByProvider(c.Request.Context(), email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ServiceHandler) CreateService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		respondWithError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.catalog.Create(c.Request.Context(), &service); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) UpdateService(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondWithError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := h.catalog.Update(c.Request.Context(), c.Param("id"), identityEmail(c), patch)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ServiceHandler) DeleteService(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id"), identityEmail(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}

func (h *ServiceHandler) TopRatedServices(c *gin.Context) {
	result, err := h.catalog.TopRated(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ServiceHandler) Categories(c *gin.Context) {
	result, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
