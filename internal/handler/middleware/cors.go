package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"gym-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware applies the configured policy. The employee id header is
// always allowed and the request id always exposed, since booking clients in
// the browser depend on both.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeader(cfg.AllowHeaders, EmployeeIDHeader),
		ExposeHeaders:    withHeader(cfg.ExposeHeaders, RequestIDHeader),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized",
		"allow_origins", corsCfg.AllowOrigins,
		"allow_headers", corsCfg.AllowHeaders,
	)
	return cors.New(corsCfg)
}

func withHeader(headers []string, header string) []string {
	want := http.CanonicalHeaderKey(header)
	if slices.ContainsFunc(headers, func(h string) bool { return http.CanonicalHeaderKey(h) == want }) {
		return headers
	}
	return append(slices.Clone(headers), header)
}
