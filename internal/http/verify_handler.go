package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-shielder/internal/service"
)

// VerifyHandler expone el registro publico de insignias y el panel del titular.
type VerifyHandler struct {
	logger    *zap.Logger
	authServ  *service.AuthService
	badgeServ *service.BadgeService
}

// NewVerifyHandler crea una instancia de VerifyHandler.
func NewVerifyHandler(logger *zap.Logger, authServ *service.AuthService, badgeServ *service.BadgeService) *VerifyHandler {
	return &VerifyHandler{
		logger:    logger,
		authServ:  authServ,
		badgeServ: badgeServ,
	}
}

// Verify maneja GET /verify/:serial sin requerir sesion.
func (h *VerifyHandler) Verify(c *gin.Context) {
	serial := c.Param("serial")

	result, err := h.badgeServ.Verify(c.Request.Context(), serial)
	if err != nil {
		if errors.Is(err, service.ErrSerialUnknown) {
			c.JSON(http.StatusNotFound, gin.H{"error": "registry fault: serial not found"})
			return
		}
		h.logger.Error("verify serial failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify serial"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification": result})
}

// VerifyQR maneja GET /verify/:serial/qr devolviendo un PNG.
func (h *VerifyHandler) VerifyQR(c *gin.Context) {
	serial := c.Param("serial")

	png, err := h.badgeServ.QRPNG(serial)
	if err != nil {
		h.logger.Error("encode badge qr failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode qr"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Badge maneja GET /badge: emite (si hace falta) y devuelve la insignia del
// usuario autenticado junto con su scorecard y la URL publica de verificacion.
func (h *VerifyHandler) Badge(c *gin.Context) {
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

	badge, err := h.badgeServ.EnsureForUser(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("ensure badge failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue badge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"badge":      badge,
		"scorecard":  h.badgeServ.Scorecard(user),
		"verify_url": h.badgeServ.VerifyURL(badge.Serial),
	})
}
