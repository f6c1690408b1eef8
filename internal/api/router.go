package api

import (
	"net/http"

	"github.com/upnetwork-v/webpay-sub001/internal/handler"
	"github.com/upnetwork-v/webpay-sub001/internal/monitor"
	"github.com/upnetwork-v/webpay-sub001/phantom"

	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(session *phantom.Session, mon *monitor.Monitor, log zerolog.Logger) http.Handler {
	paymentHandler := handler.NewPaymentHandler(session, mon, log)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Payment deep-link endpoints
	mux.HandleFunc("/pay/link", paymentHandler.PayLink)
	mux.HandleFunc("/pay/callback", paymentHandler.Callback)
	mux.HandleFunc("/audit/records", paymentHandler.AuditRecords)

	return mux
}
