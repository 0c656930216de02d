package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/commons"
)

const defaultTopLimit = 5

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

func (c *Controller) scope(r *http.Request) *int64 {
	id, _ := auth.FromContext(r.Context())
	return auth.ShopScope(id, commons.QueryInt64(r, "shop_id"))
}

func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Stats(r.Context(), c.scope(r))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"stats": stats})
}

func (c *Controller) TopProducts(w http.ResponseWriter, r *http.Request) {
	top, err := c.service.TopProducts(r.Context(), c.scope(r),
		Period(r.URL.Query().Get("period")), commons.QueryInt(r, "limit", defaultTopLimit))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"products": top})
}

func (c *Controller) TopEmployees(w http.ResponseWriter, r *http.Request) {
	top, err := c.service.TopEmployees(r.Context(), c.scope(r),
		Period(r.URL.Query().Get("period")), commons.QueryInt(r, "limit", defaultTopLimit))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"employees": top})
}

func (c *Controller) TopDrivers(w http.ResponseWriter, r *http.Request) {
	top, err := c.service.TopDrivers(r.Context(), c.scope(r),
		Period(r.URL.Query().Get("period")), commons.QueryInt(r, "limit", defaultTopLimit))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"drivers": top})
}

func (c *Controller) OrdersWeek(w http.ResponseWriter, r *http.Request) {
	series, err := c.service.OrdersSeries(r.Context(), c.scope(r), PeriodWeek)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"series": series})
}

func (c *Controller) OrdersMonth(w http.ResponseWriter, r *http.Request) {
	series, err := c.service.OrdersSeries(r.Context(), c.scope(r), PeriodMonth)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"series": series})
}

func (c *Controller) SalesEvolution(w http.ResponseWriter, r *http.Request) {
	series, err := c.service.SalesEvolution(r.Context(), c.scope(r))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"series": series})
}

func (c *Controller) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.LowStock(r.Context(), c.scope(r))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"products": products})
}

func (c *Controller) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.EmployeeStats(r.Context(), c.scope(r))
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}
	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"employees": stats})
}
