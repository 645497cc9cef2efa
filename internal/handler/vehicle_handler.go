package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/pkg/util"
)

// VehicleHandler handles listing HTTP requests.
type VehicleHandler struct {
	service domain.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service domain.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// parsePage reads page/limit/sortBy/sortOrder; defaults applied by the service.
func parsePage(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return domain.PageRequest{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// intQuery parses an optional integer parameter. Malformed values are
// silently dropped so the corresponding filter is simply omitted.
func intQuery(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func floatQuery(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseFilter builds the search filter from the optional query parameters.
func parseFilter(c *gin.Context) domain.VehicleFilter {
	return domain.VehicleFilter{
		Name:         c.Query("name"),
		Brand:        c.Query("brand"),
		Model:        c.Query("vehicleModel"),
		Engine:       c.Query("engine"),
		Fuel:         c.Query("fuel"),
		Transmission: c.Query("transmission"),
		BodyType:     c.Query("bodyType"),
		Color:        c.Query("color"),
		State:        c.Query("state"),
		City:         c.Query("city"),
		Year:         intQuery(c, "year"),
		MinYear:      intQuery(c, "minYear"),
		MaxYear:      intQuery(c, "maxYear"),
		MinPrice:     floatQuery(c, "minPrice"),
		MaxPrice:     floatQuery(c, "maxPrice"),
		MinMileage:   intQuery(c, "minMileage"),
		MaxMileage:   intQuery(c, "maxMileage"),
	}
}

// List handles GET /vehicles.
func (h *VehicleHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search handles GET /vehicles/search.
func (h *VehicleHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), parseFilter(c), parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetByCityState handles GET /vehicles/city-state.
func (h *VehicleHandler) GetByCityState(c *gin.Context) {
	result, err := h.service.GetByCityState(c.Request.Context(), c.Query("city"), c.Query("state"), parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /vehicles/:id.
func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	vehicle, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// Create handles POST /vehicles.
func (h *VehicleHandler) Create(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado"})
		return
	}
	var req domain.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	vehicle, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// Update handles PUT /vehicles/:id.
func (h *VehicleHandler) Update(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	vehicle, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// Delete handles DELETE /vehicles/:id.
func (h *VehicleHandler) Delete(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Não autenticado"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Veículo excluído com sucesso"})
}
