package withdrawal

import (
	"errors"
	"net/http"
	"strconv"

	"featuresgym/internal/api"
	"featuresgym/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetBalance godoc
// @Summary      Available balance
// @Description  Earned from completed sessions, minus completed and pending withdrawals.
// @Tags         owner,withdrawals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Balance
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	bal, err := h.service.AvailableBalance(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load balance"})
		return
	}

	c.JSON(http.StatusOK, bal)
}

// RequestWithdrawal godoc
// @Summary      Request a withdrawal
// @Tags         owner,withdrawals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Amount and payout method"
// @Success      201      {object}  Request
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /owner/withdrawals [post]
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	w, err := h.service.RequestWithdrawal(c.Request.Context(), gymID, req.Amount, req.MethodID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBelowMinimumWithdrawal), errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrMethodNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payout method not found"})
		case errors.Is(err, ErrConcurrentModification):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Balance changed, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to request withdrawal"})
		}
		return
	}

	c.JSON(http.StatusCreated, w)
}

// ListWithdrawals godoc
// @Summary      List withdrawals
// @Tags         owner,withdrawals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Request
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/withdrawals [get]
func (h *Handler) ListWithdrawals(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	reqs, err := h.service.List(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load withdrawals"})
		return
	}
	if reqs == nil {
		reqs = []Request{}
	}

	c.JSON(http.StatusOK, reqs)
}

// AddMethod godoc
// @Summary      Register a payout method
// @Tags         owner,withdrawals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateMethodRequest  true  "Payout method"
// @Success      201      {object}  Method
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /owner/payout-methods [post]
func (h *Handler) AddMethod(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	var req CreateMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.AddMethod(c.Request.Context(), gymID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to save payout method"})
		return
	}

	c.JSON(http.StatusCreated, m)
}

// @Summary      List payout methods
// @Tags         owner,withdrawals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Method
// @Router       /owner/payout-methods [get]
func (h *Handler) ListMethods(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	methods, err := h.service.ListMethods(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load payout methods"})
		return
	}
	if methods == nil {
		methods = []Method{}
	}

	c.JSON(http.StatusOK, methods)
}

// Complete godoc
// @Summary      Mark a withdrawal paid
// @Tags         admin,withdrawals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Withdrawal ID"
// @Success      200  {object}  Request
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/withdrawals/{id}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid withdrawal ID"})
		return
	}

	req, err := h.service.Complete(c.Request.Context(), id)
	h.respondSettled(c, req, err)
}

// Fail godoc
// @Summary      Mark a withdrawal failed
// @Description  Releases the reserved amount back into the gym's available balance.
// @Tags         admin,withdrawals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int          true  "Withdrawal ID"
// @Param        request  body      FailRequest  true  "Failure reason"
// @Success      200      {object}  Request
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/withdrawals/{id}/fail [post]
func (h *Handler) Fail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid withdrawal ID"})
		return
	}

	var body FailRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	req, err := h.service.Fail(c.Request.Context(), id, body.Reason)
	h.respondSettled(c, req, err)
}

func (h *Handler) respondSettled(c *gin.Context, req *Request, err error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Withdrawal not found"})
		case errors.Is(err, ErrNotPending):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Withdrawal already settled"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to settle withdrawal"})
		}
		return
	}

	c.JSON(http.StatusOK, req)
}
