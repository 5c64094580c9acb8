package topup

import (
	"context"
	types "decor-wallet/internal/common/type"
	"decor-wallet/internal/pkg/helper"
	topupService "decor-wallet/internal/service/topup"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx          context.Context
	topupService topupService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc)
	NewPageRoutes(e *gin.Engine)
}

func NewHandler(ctx context.Context, topupService topupService.IService) IHandler {
	return &Handler{
		ctx:          ctx,
		topupService: topupService,
	}
}

// CreateTopup godoc
// @Summary      Start a wallet top-up
// @Description  Creates a payment session with the gateway and returns the hosted payment URL for the embedded browser
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      topupService.CreateTopupRequest  true  "Top-up request"
// @Success      201      {object}  types.ResponseAPI{data=topupService.CreateTopupResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      401      {object}  types.ResponseAPI
// @Failure      502      {object}  types.ResponseAPI
// @Router       /v1/wallet/topups [post]
func (h *Handler) CreateTopup(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req topupService.CreateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	user := authUser(c)
	send(h.topupService.CreateTopup(&req, user))
}

// ReportSessionEvent godoc
// @Summary      Report an embedded-browser event
// @Description  Feeds one navigation, request-intercept, deep-link, page-message or load-error event into the payment session
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_ref  path      string  true  "Order reference"
// @Param        request    body      topupService.SessionEventRequest  true  "Browser event"
// @Success      200        {object}  types.ResponseAPI{data=topupService.SessionEventResponse}
// @Failure      400        {object}  types.ResponseAPI
// @Failure      404        {object}  types.ResponseAPI
// @Router       /v1/wallet/topups/{order_ref}/events [post]
func (h *Handler) ReportSessionEvent(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	orderRef := c.Param("order_ref")
	var req topupService.SessionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.topupService.ReportSessionEvent(orderRef, &req))
}

// CheckStatus godoc
// @Summary      Check top-up status
// @Description  Returns the current status of one top-up, served from cache when the attempt already resolved
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_ref  path      string  true  "Order reference"
// @Success      200        {object}  types.ResponseAPI{data=topupService.TopupStatusResponse}
// @Failure      404        {object}  types.ResponseAPI
// @Router       /v1/wallet/topups/{order_ref} [get]
func (h *Handler) CheckStatus(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	orderRef := c.Param("order_ref")
	if orderRef == "" {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "order_ref is required",
		}))
		return
	}

	send(h.topupService.CheckStatus(orderRef))
}

// ListTopups godoc
// @Summary      List top-up history
// @Description  Pages the caller's top-up attempts newest-first with an opaque cursor
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cursor  query     string  false  "Page cursor from a previous response"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  types.ResponseAPI{data=topupService.ListTopupsResponse}
// @Failure      400     {object}  types.ResponseAPI
// @Router       /v1/wallet/topups [get]
func (h *Handler) ListTopups(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	user := authUser(c)
	if user == nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		}))
		return
	}

	limit, _ := helper.StringToInt(c.DefaultQuery("limit", "20"))
	send(h.topupService.ListTopups(user.ID.String(), c.Query("cursor"), limit))
}

// IPN godoc
// @Summary      Gateway instant payment notification
// @Description  Server-to-server notification from the payment gateway; the response body follows the gateway acknowledgement contract
// @Tags         Wallet
// @Produce      json
// @Success      200  {object}  topupService.IPNResponse
// @Router       /v1/wallet/ipn [get]
func (h *Handler) IPN(c *gin.Context) {
	result := h.topupService.HandleIPN(c.Request.URL.Query())
	c.JSON(http.StatusOK, result.Data)
}

// ReturnPage handles GET /pay/return, the browser redirect back from the
// paygate. The mobile app usually intercepts this URL before it loads; the
// server-side handler covers flows where the redirect reaches us anyway.
func (h *Handler) ReturnPage(c *gin.Context) {
	result := h.topupService.HandleReturn(c.Request.URL.Query())
	c.JSON(result.Code, helper.ToAPI(result))
}

func authUser(c *gin.Context) *types.UserWithAuth {
	val, ok := c.Get("auth")
	if !ok {
		return nil
	}
	user, ok := val.(types.UserWithAuth)
	if !ok {
		return nil
	}
	return &user
}
