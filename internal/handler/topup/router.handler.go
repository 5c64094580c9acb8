package topup

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc) {
	wallet := e.Group("/v1/wallet")

	// IPN is signed by the gateway, not by a user token.
	wallet.GET("/ipn", h.IPN)

	topups := wallet.Group("/topups", auth)
	topups.POST("", h.CreateTopup)
	topups.GET("", h.ListTopups)
	topups.GET("/:order_ref", h.CheckStatus)
	topups.POST("/:order_ref/events", h.ReportSessionEvent)
}

func (h *Handler) NewPageRoutes(e *gin.Engine) {
	e.GET("/pay/return", h.ReturnPage)
}
