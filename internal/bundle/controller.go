package bundle

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
		Active: commons.QueryBool(r, "active"),
		Page:   page,
	}

	bundles, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	names, err := c.service.ProductNames(r.Context(), bundles...)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]BundleDTO, 0, len(bundles))
	for _, b := range bundles {
		dtos = append(dtos, NewBundleDTO(b, names))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"bundles": dtos,
		"meta":    commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	bundleID, err := commons.URLParamID(r, "bundleId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	b, err := c.service.Show(r.Context(), id, bundleID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	names, err := c.service.ProductNames(r.Context(), *b)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"bundle": NewBundleDTO(*b, names)})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req CreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	b, err := c.service.Create(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	names, err := c.service.ProductNames(r.Context(), *b)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "bundle created successfully",
		"bundle":  NewBundleDTO(*b, names),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	bundleID, err := commons.URLParamID(r, "bundleId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req UpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	b, err := c.service.Update(r.Context(), id, bundleID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	names, err := c.service.ProductNames(r.Context(), *b)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "bundle updated successfully",
		"bundle":  NewBundleDTO(*b, names),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	bundleID, err := commons.URLParamID(r, "bundleId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, bundleID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "bundle deleted successfully")
}
