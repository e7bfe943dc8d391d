package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-shielder/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	profileH *ProfileHandler,
	complianceH *ComplianceHandler,
	verifyH *VerifyHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	// Superficie publica: auth, bootstrap del controlador y verificacion
	// de certificados (sin sesion).
	auth := r.Group("/auth")
	auth.POST("/signup", authH.SignUp)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)
	auth.POST("/recover", authH.Recover)
	auth.POST("/password", authH.ResetPassword)

	r.GET("/bootstrap", profileH.Bootstrap)
	r.GET("/verify/:serial", verifyH.Verify)
	r.GET("/verify/:serial/qr", verifyH.VerifyQR)

	// Superficie del dashboard: requiere access token.
	authed := r.Group("/", JWTAuthMiddleware(jwtSvc))
	authed.GET("/session", profileH.Session)
	authed.PUT("/profile", profileH.UpdateStore)
	authed.POST("/checkout/complete", profileH.CompleteCheckout)
	authed.GET("/badge", verifyH.Badge)
	authed.POST("/analysis/product", complianceH.AnalyzeProduct)
	authed.POST("/analysis/accessibility", complianceH.AuditAccessibility)
	authed.POST("/policies/privacy", complianceH.GeneratePrivacyPolicy)
	authed.POST("/scan/secrets", complianceH.ScanSecrets)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
