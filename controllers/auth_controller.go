package controllers

import (
	"net/http"

	"healthtrack/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type ForgotInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), input.Email, input.Password, input.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "user_id": user.ID})
}

func (h *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if res.MFARequired {
		c.JSON(http.StatusOK, gin.H{"mfa_required": true, "message": "verification code sent to email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": res.Token})
}

func (h *AuthController) VerifyMFA(c *gin.Context) {
	var input VerifyInput
	if !bindJSON(c, &input) {
		return
	}
	token, err := h.Svc.VerifyMFA(c.Request.Context(), input.Email, input.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthController) ForgotPassword(c *gin.Context) {
	var input ForgotInput
	if !bindJSON(c, &input) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "if the email is registered, a reset code has been sent"})
}

func (h *AuthController) ResetPassword(c *gin.Context) {
	var input ResetInput
	if !bindJSON(c, &input) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), input.Token, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
