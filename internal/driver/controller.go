package driver

import (
	"net/http"

	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/commons"
)

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	page := commons.ParsePage(r)

	filter := ListFilter{
		ShopID:    auth.ShopScope(id, commons.QueryInt64(r, "shop_id")),
		Search:    r.URL.Query().Get("search"),
		Available: commons.QueryBool(r, "available"),
		Active:    commons.QueryBool(r, "active"),
		Page:      page,
	}

	drivers, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]DriverDTO, 0, len(drivers))
	for _, d := range drivers {
		dtos = append(dtos, NewDriverDTO(d))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"drivers": dtos,
		"meta":    commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Available(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	drivers, err := c.service.Available(r.Context(), auth.ShopScope(id, commons.QueryInt64(r, "shop_id")))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]DriverDTO, 0, len(drivers))
	for _, d := range drivers {
		dtos = append(dtos, NewDriverDTO(d))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"drivers": dtos})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	driverID, err := commons.URLParamID(r, "driverId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	d, err := c.service.Show(r.Context(), id, driverID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"driver": NewDriverDTO(*d)})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req CreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	d, err := c.service.Create(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "driver created successfully",
		"driver":  NewDriverDTO(*d),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	driverID, err := commons.URLParamID(r, "driverId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req UpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	d, err := c.service.Update(r.Context(), id, driverID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "driver updated successfully",
		"driver":  NewDriverDTO(*d),
	})
}

func (c *Controller) ToggleAvailable(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	driverID, err := commons.URLParamID(r, "driverId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	d, err := c.service.ToggleAvailable(r.Context(), id, driverID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "driver availability updated",
		"driver":  NewDriverDTO(*d),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	driverID, err := commons.URLParamID(r, "driverId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, driverID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "driver deleted successfully")
}
