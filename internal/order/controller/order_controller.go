package controller

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/commons"
	"biosen/internal/order/dto"
	"biosen/internal/order/repository"
	"biosen/internal/order/service"
)

type OrderController struct {
	service *service.LifecycleService
	logger  *zap.Logger
}

func NewOrderController(service *service.LifecycleService, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		logger:  logger,
	}
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	page := commons.ParsePage(r)

	filter := repository.ListFilter{
		ShopID: auth.ShopScope(id, commons.QueryInt64(r, "shop_id")),
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Page:   page,
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			filter.Date = &date
		}
	}

	orders, total, names, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]dto.OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, dto.NewOrderDTO(o, names[o.ID]))
	}

	response := map[string]interface{}{
		"orders": dtos,
		"meta":   commons.NewPageMeta(page, total),
	}

	// The history view asks for a specific day and gets its summary too.
	if filter.Date != nil {
		summary, err := c.service.DaySummary(r.Context(), filter.ShopID, *filter.Date)
		if err != nil {
			commons.WriteError(w, c.logger, err)
			return
		}
		response["summary"] = summary
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, response)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	orderID, err := commons.URLParamID(r, "orderId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	o, invoice, names, err := c.service.Show(r.Context(), id, orderID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	response := map[string]interface{}{"order": dto.NewOrderDTO(*o, names)}
	if invoice != nil {
		response["invoice"] = dto.NewInvoiceDTO(*invoice)
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, response)
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req dto.CreateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	o, err := c.service.Create(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "order created successfully",
		"order":   dto.NewOrderDTO(*o, dto.OrderNames{}),
	})
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	orderID, err := commons.URLParamID(r, "orderId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req dto.UpdateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	o, err := c.service.Update(r.Context(), id, orderID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "order updated successfully",
		"order":   dto.NewOrderDTO(*o, dto.OrderNames{}),
	})
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	orderID, err := commons.URLParamID(r, "orderId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, orderID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "order deleted successfully")
}

func (c *OrderController) Validate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	orderID, err := commons.URLParamID(r, "orderId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	o, invoice, payload, err := c.service.Validate(r.Context(), id, orderID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "order validated successfully",
		"order":   dto.NewOrderDTO(*o, dto.OrderNames{}),
		"invoice": dto.NewInvoiceDTO(*invoice),
		"print":   payload,
	})
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	orderID, err := commons.URLParamID(r, "orderId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req dto.CancelRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	o, err := c.service.Cancel(r.Context(), id, orderID, req.Reason)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "order cancelled successfully",
		"order":   dto.NewOrderDTO(*o, dto.OrderNames{}),
	})
}
