package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-shielder/internal/domain"
	"shop-shielder/internal/flow"
	"shop-shielder/internal/service"
)

// ProfileHandler mantiene dependencias para sesion, perfil y checkout.
type ProfileHandler struct {
	logger       *zap.Logger
	authServ     *service.AuthService
	jwtServ      *service.JWTService
	checkoutServ *service.CheckoutService
}

// NewProfileHandler crea una instancia de ProfileHandler con dependencias necesarias.
func NewProfileHandler(logger *zap.Logger, authServ *service.AuthService, jwtServ *service.JWTService, checkoutServ *service.CheckoutService) *ProfileHandler {
	return &ProfileHandler{
		logger:       logger,
		authServ:     authServ,
		jwtServ:      jwtServ,
		checkoutServ: checkoutServ,
	}
}

// Bootstrap maneja GET /bootstrap: resuelve el estado inicial del
// controlador de aplicacion para el path y fragmento dados. El bearer token
// es opcional; cualquier fallo al resolver la sesion degrada a "sin sesion".
func (h *ProfileHandler) Bootstrap(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	fragment := c.Query("fragment")

	var (
		authenticated bool
		paid          bool
		sessionErr    error
		user          *domain.User
	)
	if token := bearerToken(c); token != "" {
		claims, err := h.jwtServ.ParseAccessToken(token)
		if err != nil {
			sessionErr = err
		} else {
			profile, err := h.authServ.GetProfile(c.Request.Context(), claims.UserID)
			if err != nil {
				sessionErr = err
			} else {
				authenticated = true
				paid = profile.IsPaid
				user = &profile
			}
		}
	}

	machine := flow.NewMachine(h.logger)
	state := machine.ResolveBoot(path, fragment, authenticated, paid, sessionErr)

	resp := gin.H{"state": state}
	if user != nil && sessionErr == nil {
		resp["user"] = user
	}
	c.JSON(http.StatusOK, resp)
}

// Session maneja GET /session devolviendo el perfil del token.
func (h *ProfileHandler) Session(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	user, err := h.authServ.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("load profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateStore maneja PUT /profile actualizando metadatos de tienda.
func (h *ProfileHandler) UpdateStore(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		StoreURL string `json:"store_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.authServ.UpdateStore(c.Request.Context(), claims.UserID, req.StoreURL)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("update store failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CompleteCheckout maneja POST /checkout/complete.
func (h *ProfileHandler) CompleteCheckout(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		Plan     string `json:"plan" binding:"required"`
		Interval string `json:"interval" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sel := domain.CheckoutSelection{
		Plan:     domain.SubscriptionPlan(strings.ToUpper(req.Plan)),
		Interval: domain.BillingInterval(strings.ToUpper(req.Interval)),
	}
	user, err := h.checkoutServ.Complete(c.Request.Context(), claims.UserID, sel)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan selection"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.logger.Error("complete checkout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete checkout"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"monthly_price": domain.MonthlyPrice(sel.Plan, sel.Interval),
	})
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
