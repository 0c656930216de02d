package user

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
	page := commons.ParsePage(r)

	filter := ListFilter{
		Role:   r.URL.Query().Get("role"),
		Search: r.URL.Query().Get("search"),
		Active: commons.QueryBool(r, "active"),
		Page:   page,
	}
	if shopID := commons.QueryInt64(r, "shop_id"); shopID > 0 {
		filter.ShopID = &shopID
	}

	users, total, err := c.service.List(r.Context(), filter)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, NewUserDTO(u, c.service.ShopName(r.Context(), u)))
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"users": dtos,
		"meta":  commons.NewPageMeta(page, total),
	})
}

func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {
	userID, err := commons.URLParamID(r, "userId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	u, err := c.service.Show(r.Context(), userID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"user": NewUserDTO(*u, c.service.ShopName(r.Context(), *u)),
	})
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	req, photo, err := c.parseCreateForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	u, err := c.service.Create(r.Context(), req, photo)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusCreated, map[string]interface{}{
		"message": "user created successfully",
		"user":    NewUserDTO(*u, c.service.ShopName(r.Context(), *u)),
	})
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := commons.URLParamID(r, "userId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	req, photo, err := c.parseUpdateForm(r)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	u, err := c.service.Update(r.Context(), userID, req, photo)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "user updated successfully",
		"user":    NewUserDTO(*u, c.service.ShopName(r.Context(), *u)),
	})
}

func (c *Controller) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := commons.URLParamID(r, "userId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	var req ChangeRoleRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	u, err := c.service.ChangeRole(r.Context(), userID, req)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "user role changed successfully",
		"user":    NewUserDTO(*u, c.service.ShopName(r.Context(), *u)),
	})
}

func (c *Controller) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	userID, err := commons.URLParamID(r, "userId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	u, err := c.service.ToggleActive(r.Context(), id, userID)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	message := "user deactivated successfully"
	if u.Active {
		message = "user activated successfully"
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": message,
		"user":    NewUserDTO(*u, c.service.ShopName(r.Context(), *u)),
	})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	userID, err := commons.URLParamID(r, "userId")
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.Delete(r.Context(), id, userID); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "user deleted successfully")
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
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		ShopID:   formInt64(r, "shop_id"),
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
		Name:     formOptional(r, "name"),
		Email:    formOptional(r, "email"),
		Password: formOptional(r, "password"),
		Role:     formOptional(r, "role"),
		ShopID:   formInt64(r, "shop_id"),
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

func formInt64(r *http.Request, name string) *int64 {
	n, err := strconv.ParseInt(r.FormValue(name), 10, 64)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
