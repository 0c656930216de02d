package expense

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

	expenses, total, sum, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, NewExpenseDTO(e))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"expenses": dtos,
		"total":    sum,
		"meta":     commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	expenseID, err := commons.URLParamID(r, "expenseId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	e, err := c.service.Show(r.Context(), id, expenseID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"expense": NewExpenseDTO(*e)})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req CreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	e, err := c.service.Create(r.Context(), id, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "expense created successfully",
		"expense": NewExpenseDTO(*e),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	expenseID, err := commons.URLParamID(r, "expenseId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req UpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	e, err := c.service.Update(r.Context(), id, expenseID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "expense updated successfully",
		"expense": NewExpenseDTO(*e),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	expenseID, err := commons.URLParamID(r, "expenseId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, expenseID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "expense deleted successfully")
}
