package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapRoute/internal/model"
	"swapRoute/internal/router"
)

const (
	usdc = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
	weth = "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"
)

type stubFinder struct {
	got   model.RouteRequest
	route *model.RouteResult
	err   error
}

func (f *stubFinder) FindRoute(_ context.Context, req model.RouteRequest) (*model.RouteResult, error) {
	f.got = req
	return f.route, f.err
}

func (f *stubFinder) DescribeRoute(route *model.RouteResult) string {
	return "USDC → WETH"
}

func newTestServer(finder RouteFinder) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(finder, Defaults{SlippageBps: 100, MaxHops: 2}, nil)
}

// replyBody decodes apiReply generically since route results only marshal one way.
type replyBody struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, replyBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var resp replyBody
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestQuoteSuccessAppliesDefaults(t *testing.T) {
	finder := &stubFinder{route: &model.RouteResult{
		Path:           model.Path{common.HexToAddress(usdc), common.HexToAddress(weth)},
		AmountIn:       uint256.NewInt(1_000_000),
		ExpectedOutput: uint256.NewInt(400),
		MinOutput:      uint256.NewInt(396),
	}}
	s := newTestServer(finder)

	rec, resp := get(t, s, "/api/v1/quote?from="+usdc+"&to="+weth+"&amount=1000000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	assert.Equal(t, 100, finder.got.SlippageBps)
	assert.Equal(t, 2, finder.got.MaxHops)
	assert.Equal(t, uint64(1_000_000), finder.got.Amount.Uint64())

	assert.Empty(t, resp.Code)
	assert.Equal(t, "USDC → WETH", resp.Data["description"])
	route := resp.Data["route"].(map[string]interface{})
	assert.Equal(t, "396", route["min_output"])
}

func TestQuoteOverrides(t *testing.T) {
	finder := &stubFinder{route: &model.RouteResult{}}
	s := newTestServer(finder)

	rec, _ := get(t, s, "/api/v1/quote?from="+usdc+"&to="+weth+"&amount=0x10&slippageBps=0&maxHops=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, finder.got.SlippageBps)
	assert.Equal(t, 3, finder.got.MaxHops)
	assert.Equal(t, uint64(16), finder.got.Amount.Uint64())
}

func TestQuoteErrors(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		err    error
		status int
		code   string
	}{
		{"missing amount", "from=" + usdc + "&to=" + weth, nil, http.StatusBadRequest, codeInvalidRequest},
		{"bad address", "from=0x12&to=" + weth + "&amount=1", nil, http.StatusBadRequest, codeInvalidRequest},
		{"bad amount", "from=" + usdc + "&to=" + weth + "&amount=1.5", nil, http.StatusBadRequest, codeInvalidRequest},
		{"invalid request", "from=" + usdc + "&to=" + weth + "&amount=1", &router.InvalidRequestError{Field: "to", Reason: "x"}, http.StatusBadRequest, codeInvalidRequest},
		{"no route", "from=" + usdc + "&to=" + weth + "&amount=1", router.ErrNoRoute, http.StatusNotFound, codeNoRoute},
		{"timeout", "from=" + usdc + "&to=" + weth + "&amount=1", context.DeadlineExceeded, http.StatusGatewayTimeout, codeTimeout},
		{"internal", "from=" + usdc + "&to=" + weth + "&amount=1", errors.New("rpc down"), http.StatusInternalServerError, codeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(&stubFinder{err: tc.err})
			rec, resp := get(t, s, "/api/v1/quote?"+tc.query)
			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Data)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestQuoteInternalErrorIsNotEchoed(t *testing.T) {
	s := newTestServer(&stubFinder{err: errors.New("dial tcp 10.0.0.7:8545: connection refused")})
	rec, resp := get(t, s, "/api/v1/quote?from="+usdc+"&to="+weth+"&amount=1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "route lookup failed", resp.Error)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(&stubFinder{})

	rec, _ := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swaproute_http_requests_total")
}
