package invoice

import (
	"net/http"
	"time"

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
		Status: r.URL.Query().Get("status"),
		Month:  commons.QueryInt(r, "month", 0),
		Year:   commons.QueryInt(r, "year", 0),
		Search: r.URL.Query().Get("search"),
		Page:   page,
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			filter.Date = &date
		}
	}

	invoices, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]InvoiceDTO, 0, len(invoices))
	for _, row := range invoices {
		dtos = append(dtos, NewInvoiceDTO(row))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"invoices": dtos,
		"meta":     commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	invoiceID, err := commons.URLParamID(r, "invoiceId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	row, err := c.service.Show(r.Context(), id, invoiceID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"invoice": NewInvoiceDTO(*row)})
}
