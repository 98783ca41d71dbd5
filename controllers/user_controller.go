package controllers

import (
	"net/http"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Svc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Svc: svc}
}

func (h *UserController) GetProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserController) UpdateProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.ProfileInput
	if !bindJSON(c, &input) {
		return
	}
	profile, err := h.Svc.UpdateProfile(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserController) DeleteAccount(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
