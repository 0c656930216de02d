package intake

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
	page := commons.ParsePage(r)

	filter := ListFilter{
		Period:    Period(r.URL.Query().Get("period")),
		Search:    r.URL.Query().Get("search"),
		EnteredBy: commons.QueryInt64(r, "entered_by"),
		Page:      page,
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			filter.Date = &date
		}
	}

	orders, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	names, err := c.service.EntererNames(r.Context())
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]IntakeOrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, NewIntakeOrderDTO(o, names[o.EnteredBy]))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"orders":  dtos,
		"summary": Summary{Count: total},
		"meta":    commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	orderID, err := commons.URLParamID(r, "intakeId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	o, err := c.service.Show(r.Context(), orderID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"order": NewIntakeOrderDTO(*o, "")})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req CreateRequest
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
		"message": "order recorded successfully",
		"order":   NewIntakeOrderDTO(*o, id.Name),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	orderID, err := commons.URLParamID(r, "intakeId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req UpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	o, err := c.service.Update(r.Context(), orderID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "order updated successfully",
		"order":   NewIntakeOrderDTO(*o, ""),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := commons.URLParamID(r, "intakeId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), orderID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "order deleted successfully")
}

func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Stats(r.Context())
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"stats": stats})
}
