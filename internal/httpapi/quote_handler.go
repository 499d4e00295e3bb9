package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swapRoute/internal/config"
	"swapRoute/internal/model"
	"swapRoute/internal/router"
)

// QuoteRequest carries the query parameters of GET /api/v1/quote.
type QuoteRequest struct {
	From        string `form:"from" binding:"required"`
	To          string `form:"to" binding:"required"`
	Amount      string `form:"amount" binding:"required"`
	SlippageBps *int   `form:"slippageBps"`
	MaxHops     *int   `form:"maxHops"`
}

type QuoteResponse struct {
	Route       *model.RouteResult `json:"route"`
	Description string             `json:"description"`
}

// apiReply is the body of every /api/v1 response. Code is set on failures only.
type apiReply struct {
	Success bool           `json:"success"`
	Data    *QuoteResponse `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
}

const (
	codeInvalidRequest = "invalid_request"
	codeNoRoute        = "no_route"
	codeTimeout        = "timeout"
	codeInternal       = "internal"
)

func replyFailure(c *gin.Context, status int, code, message string) {
	c.JSON(status, apiReply{Error: message, Code: code})
}

// routeFailure maps a FindRoute error to the status, code and message sent to the client.
// Unclassified errors are not echoed.
func routeFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, router.ErrInvalidRequest):
		return http.StatusBadRequest, codeInvalidRequest, err.Error()
	case errors.Is(err, router.ErrNoRoute):
		return http.StatusNotFound, codeNoRoute, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout, err.Error()
	default:
		return http.StatusInternalServerError, codeInternal, "route lookup failed"
	}
}

func (s *Server) getQuote(c *gin.Context) {
	var q QuoteRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		replyFailure(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	req, err := s.routeRequest(q)
	if err != nil {
		replyFailure(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	if s.defaults.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.defaults.Timeout)
		defer cancel()
	}

	route, err := s.finder.FindRoute(ctx, req)
	if err != nil {
		status, code, message := routeFailure(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("find route failed", zap.Error(err))
		}
		replyFailure(c, status, code, message)
		return
	}

	c.JSON(http.StatusOK, apiReply{
		Success: true,
		Data: &QuoteResponse{
			Route:       route,
			Description: s.finder.DescribeRoute(route),
		},
	})
}

func (s *Server) routeRequest(q QuoteRequest) (model.RouteRequest, error) {
	from, err := config.ParseAddress(q.From)
	if err != nil {
		return model.RouteRequest{}, err
	}
	to, err := config.ParseAddress(q.To)
	if err != nil {
		return model.RouteRequest{}, err
	}
	amount, err := config.ParseAmount(q.Amount)
	if err != nil {
		return model.RouteRequest{}, err
	}

	req := model.RouteRequest{
		From:        from,
		To:          to,
		Amount:      amount,
		SlippageBps: s.defaults.SlippageBps,
		MaxHops:     s.defaults.MaxHops,
	}
	if q.SlippageBps != nil {
		req.SlippageBps = *q.SlippageBps
	}
	if q.MaxHops != nil {
		req.MaxHops = *q.MaxHops
	}
	return req, nil
}
