package shop

import (
	"net/http"

	"go.uber.org/zap"

	"biosen/internal/commons"
	"biosen/internal/upload"
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
	page := commons.ParsePage(r)
	search := r.URL.Query().Get("search")

	shops, total, err := c.service.List(r.Context(), search, page)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]ShopDTO, 0, len(shops))
	for _, s := range shops {
		dtos = append(dtos, NewShopDTO(s))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"shops": dtos,
		"meta":  commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, err := commons.URLParamID(r, "shopId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	s, counts, err := c.service.Show(r.Context(), id)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dto := ShopDetailDTO{
		ShopDTO:      NewShopDTO(*s),
		UserCount:    counts.Users,
		ProductCount: counts.Products,
		OrderCount:   counts.Orders,
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"shop": dto})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	req, logo, err := c.parseForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	s, err := c.service.Create(r.Context(), req, logo)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "shop created successfully",
		"shop":    NewShopDTO(*s),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, err := commons.URLParamID(r, "shopId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	req, logo, err := c.parseUpdateForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	s, err := c.service.Update(r.Context(), id, req, logo)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "shop updated successfully",
		"shop":    NewShopDTO(*s),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := commons.URLParamID(r, "shopId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "shop deleted successfully")
}

func (c *Controller) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := commons.URLParamID(r, "shopId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	active, err := c.service.ToggleStatus(r.Context(), id)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "shop status updated",
		"active":  active,
	})
}

func (c *Controller) parseForm(r *http.Request) (CreateShopRequest, *upload.PendingFile, error) {
	if !upload.IsMultipart(r) {
		var req CreateShopRequest
		if err := commons.DecodeJSON(r, &req); err != nil {
			return CreateShopRequest{}, nil, err
		}
		return req, nil, nil
	}

	logo, err := upload.FileFromRequest(r, "logo")
	if err != nil {
		return CreateShopRequest{}, nil, err
	}

	req := CreateShopRequest{
		Name:    r.FormValue("name"),
		Address: optional(r.FormValue("address")),
		Phone:   optional(r.FormValue("phone")),
	}
	return req, logo, nil
}

func (c *Controller) parseUpdateForm(r *http.Request) (UpdateShopRequest, *upload.PendingFile, error) {
	if !upload.IsMultipart(r) {
		var req UpdateShopRequest
		if err := commons.DecodeJSON(r, &req); err != nil {
			return UpdateShopRequest{}, nil, err
		}
		return req, nil, nil
	}

	logo, err := upload.FileFromRequest(r, "logo")
	if err != nil {
		return UpdateShopRequest{}, nil, err
	}

	req := UpdateShopRequest{
		Name:    optional(r.FormValue("name")),
		Address: optional(r.FormValue("address")),
		Phone:   optional(r.FormValue("phone")),
	}
	return req, logo, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
