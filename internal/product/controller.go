package product

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"biosen/internal/auth"
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
	id, _ := auth.FromContext(r.Context())
	page := commons.ParsePage(r)

	filter := ListFilter{
		ShopID:     auth.ShopScope(id, commons.QueryInt64(r, "shop_id")),
		CategoryID: commons.QueryInt64(r, "category_id"),
		Search:     r.URL.Query().Get("search"),
		Active:     commons.QueryBool(r, "active"),
		Page:       page,
	}

	products, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, NewProductDTO(p))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"products": dtos,
		"meta":     commons.NewPageMeta(page, total),
	})
}

func (c *Controller) LowStock(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	products, err := c.service.LowStock(r.Context(), auth.ShopScope(id, commons.QueryInt64(r, "shop_id")))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, NewProductDTO(p))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"products": dtos})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	productID, err := commons.URLParamID(r, "productId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	p, err := c.service.Show(r.Context(), id, productID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"product": NewProductDTO(*p)})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	req, image, err := c.parseCreateForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	p, err := c.service.Create(r.Context(), id, req, image)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "product created successfully",
		"product": NewProductDTO(*p),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	productID, err := commons.URLParamID(r, "productId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	req, image, err := c.parseUpdateForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	p, err := c.service.Update(r.Context(), id, productID, req, image)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "product updated successfully",
		"product": NewProductDTO(*p),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	productID, err := commons.URLParamID(r, "productId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, productID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "product deleted successfully")
}

func (c *Controller) parseCreateForm(r *http.Request) (CreateRequest, *upload.PendingFile, error) {
	if !upload.IsMultipart(r) {
		var req CreateRequest
		if err := commons.DecodeJSON(r, &req); err != nil {
			return CreateRequest{}, nil, err
		}
		return req, nil, nil
	}

	image, err := upload.FileFromRequest(r, "image")
	if err != nil {
		return CreateRequest{}, nil, err
	}

	req := CreateRequest{
		ShopID:      formInt64(r, "shop_id"),
		CategoryID:  formInt64(r, "category_id"),
		Name:        r.FormValue("name"),
		Description: formOptional(r, "description"),
		Price:       r.FormValue("price"),
		Stock:       int(formInt64(r, "stock")),
	}
	if v := formOptional(r, "low_stock_threshold"); v != nil {
		if n, err := strconv.Atoi(*v); err == nil {
			req.LowStockThreshold = &n
		}
	}
	return req, image, nil
}

func (c *Controller) parseUpdateForm(r *http.Request) (UpdateRequest, *upload.PendingFile, error) {
	if !upload.IsMultipart(r) {
		var req UpdateRequest
		if err := commons.DecodeJSON(r, &req); err != nil {
			return UpdateRequest{}, nil, err
		}
		return req, nil, nil
	}

	image, err := upload.FileFromRequest(r, "image")
	if err != nil {
		return UpdateRequest{}, nil, err
	}

	var req UpdateRequest
	req.Name = formOptional(r, "name")
	req.Description = formOptional(r, "description")
	req.Price = formOptional(r, "price")
	if v := formOptional(r, "category_id"); v != nil {
		if n, err := strconv.ParseInt(*v, 10, 64); err == nil {
			req.CategoryID = &n
		}
	}
	if v := formOptional(r, "stock"); v != nil {
		if n, err := strconv.Atoi(*v); err == nil {
			req.Stock = &n
		}
	}
	if v := formOptional(r, "low_stock_threshold"); v != nil {
		if n, err := strconv.Atoi(*v); err == nil {
			req.LowStockThreshold = &n
		}
	}
	if v := formOptional(r, "active"); v != nil {
		if b, err := strconv.ParseBool(*v); err == nil {
			req.Active = &b
		}
	}
	return req, image, nil
}

func formOptional(r *http.Request, name string) *string {
	v := r.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}

func formInt64(r *http.Request, name string) int64 {
	n, err := strconv.ParseInt(r.FormValue(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
