package employee

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
		ShopID: auth.ShopScope(id, commons.QueryInt64(r, "shop_id")),
		Search: r.URL.Query().Get("search"),
		Active: commons.QueryBool(r, "active"),
		Page:   page,
	}

	employees, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, NewEmployeeDTO(e))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"employees": dtos,
		"meta":      commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	employeeID, err := commons.URLParamID(r, "employeeId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	e, err := c.service.Show(r.Context(), id, employeeID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{"employee": NewEmployeeDTO(*e)})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	req, photo, err := c.parseCreateForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	e, err := c.service.Create(r.Context(), id, req, photo)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message":  "employee created successfully",
		"employee": NewEmployeeDTO(*e),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	employeeID, err := commons.URLParamID(r, "employeeId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	req, photo, err := c.parseUpdateForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	e, err := c.service.Update(r.Context(), id, employeeID, req, photo)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message":  "employee updated successfully",
		"employee": NewEmployeeDTO(*e),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	employeeID, err := commons.URLParamID(r, "employeeId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, employeeID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "employee deleted successfully")
}

func (c *Controller) parseCreateForm(r *http.Request) (CreateRequest, *upload.PendingFile, error) {
	if !upload.IsMultipart(r) {
		var req CreateRequest
		if err := commons.DecodeJSON(r, &req); err != nil {
			return CreateRequest{}, nil, err
		}
		return req, nil, nil
	}

	photo, err := upload.FileFromRequest(r, "photo")
	if err != nil {
		return CreateRequest{}, nil, err
	}

	req := CreateRequest{
		ShopID:    formInt64(r, "shop_id"),
		Name:      r.FormValue("name"),
		Phone:     formOptional(r, "phone"),
		RoleTitle: formOptional(r, "role_title"),
	}
	return req, photo, nil
}

func (c *Controller) parseUpdateForm(r *http.Request) (UpdateRequest, *upload.PendingFile, error) {
	if !upload.IsMultipart(r) {
		var req UpdateRequest
		if err := commons.DecodeJSON(r, &req); err != nil {
			return UpdateRequest{}, nil, err
		}
		return req, nil, nil
	}

	photo, err := upload.FileFromRequest(r, "photo")
	if err != nil {
		return UpdateRequest{}, nil, err
	}

	req := UpdateRequest{
		Name:      formOptional(r, "name"),
		Phone:     formOptional(r, "phone"),
		RoleTitle: formOptional(r, "role_title"),
	}
	if v := formOptional(r, "active"); v != nil {
		if b, err := strconv.ParseBool(*v); err == nil {
			req.Active = &b
		}
	}
	return req, photo, nil
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
