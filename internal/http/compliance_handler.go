package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-shielder/internal/service"
)

// ComplianceHandler expone las herramientas de cumplimiento respaldadas por LLM.
type ComplianceHandler struct {
	logger         *zap.Logger
	complianceServ *service.ComplianceService
	policyServ     *service.PolicyService
	secretServ     *service.SecretScanService
}

// NewComplianceHandler crea una instancia de ComplianceHandler.
func NewComplianceHandler(logger *zap.Logger, complianceServ *service.ComplianceService, policyServ *service.PolicyService, secretServ *service.SecretScanService) *ComplianceHandler {
	return &ComplianceHandler{
		logger:         logger,
		complianceServ: complianceServ,
		policyServ:     policyServ,
		secretServ:     secretServ,
	}
}

// AnalyzeProduct maneja POST /analysis/product.
func (h *ComplianceHandler) AnalyzeProduct(c *gin.Context) {
	var req struct {
		ProductInfo string `json:"product_info" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	analysis, degraded := h.complianceServ.AnalyzeProduct(c.Request.Context(), req.ProductInfo)
	c.JSON(http.StatusOK, gin.H{"analysis": analysis, "degraded": degraded})
}

// AuditAccessibility maneja POST /analysis/accessibility.
func (h *ComplianceHandler) AuditAccessibility(c *gin.Context) {
	var req struct {
		HTMLSource string `json:"html_source" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	audit, degraded := h.complianceServ.AuditAccessibility(c.Request.Context(), req.HTMLSource)
	c.JSON(http.StatusOK, gin.H{"audit": audit, "degraded": degraded})
}

// GeneratePrivacyPolicy maneja POST /policies/privacy.
func (h *ComplianceHandler) GeneratePrivacyPolicy(c *gin.Context) {
	var req struct {
		StoreDetails string `json:"store_details" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	policy, degraded := h.policyServ.GeneratePrivacyPolicy(c.Request.Context(), req.StoreDetails)
	c.JSON(http.StatusOK, gin.H{"policy": policy, "degraded": degraded})
}

// ScanSecrets maneja POST /scan/secrets.
func (h *ComplianceHandler) ScanSecrets(c *gin.Context) {
	var req struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	scan, degraded := h.secretServ.Scan(c.Request.Context(), req.Input)
	c.JSON(http.StatusOK, gin.H{"scan": scan, "degraded": degraded})
}
