package auth

import (
	"net/http"

	"go.uber.org/zap"

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

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	token, user, err := c.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"message": "login successful",
		"token":   token,
		"user":    NewUserDTO(user),
	})
}

func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	id, _ := FromContext(r.Context())

	if err := c.service.Logout(r.Context(), id); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "logout successful")
}

func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := FromContext(r.Context())

	user, err := c.service.Me(r.Context(), id)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteJSON(w, c.logger, http.StatusOK, map[string]interface{}{
		"user": NewUserDTO(user),
	})
}

func (c *Controller) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, _ := FromContext(r.Context())

	var req ChangePasswordRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	err := c.service.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "password changed successfully")
}

func (c *Controller) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.ForgotPassword(r.Context(), req.Email); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "reset link sent by email")
}

func (c *Controller) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	err := c.service.ResetPassword(r.Context(), req.Email, req.Token, req.Password, req.PasswordConfirmation)
	if err != nil {
		commons.WriteError(w, c.logger, err)
		return
	}

	commons.WriteMessage(w, c.logger, http.StatusOK, "password reset successfully")
}
