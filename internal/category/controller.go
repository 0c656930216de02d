package category

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
	return &Controller{service: service, logger: logger}
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

	categories, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		dtos = append(dtos, newCategoryDTO(cat))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"categories": dtos,
		"meta":       commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req CreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	cat, err := c.service.Create(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message":  "category created successfully",
		"category": newCategoryDTO(*cat),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	categoryID, err := commons.URLParamID(r, "categoryId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	cat, err := c.service.Show(r.Context(), id, categoryID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"category": newCategoryDTO(*cat),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	categoryID, err := commons.URLParamID(r, "categoryId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req UpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	cat, err := c.service.Update(r.Context(), id, categoryID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message":  "category updated successfully",
		"category": newCategoryDTO(*cat),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	categoryID, err := commons.URLParamID(r, "categoryId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, categoryID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "category deleted successfully")
}
