package client

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
		ShopID: auth.ShopScope(id, commons.QueryInt64(r, "shop_id")),
		Search: r.URL.Query().Get("search"),
		Page:   page,
	}

	clients, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]ClientDTO, 0, len(clients))
	for _, cl := range clients {
		dtos = append(dtos, NewClientDTO(cl))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"clients": dtos,
		"meta":    commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	clientID, err := commons.URLParamID(r, "clientId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	cl, err := c.service.Show(r.Context(), id, clientID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"client": NewClientDTO(*cl)})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req CreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	cl, err := c.service.Create(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "client created successfully",
		"client":  NewClientDTO(*cl),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	clientID, err := commons.URLParamID(r, "clientId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req UpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	cl, err := c.service.Update(r.Context(), id, clientID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "client updated successfully",
		"client":  NewClientDTO(*cl),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	clientID, err := commons.URLParamID(r, "clientId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, clientID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "client deleted successfully")
}
