package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/maxgerhardt/agon-vdp/buffer"
	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/stretchr/testify/assert"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store := buffer.NewStore()
	remaining := store.Write(1, 2, stream.NewBytesSource([]byte{0xAB, 0xCD}))
	assert.Equal(t, 0, remaining)

	s, err := NewServer(ServerConfig{}, store)
	assert.NoError(t, err)
	return s
}

func TestHandleListBuffers(t *testing.T) {
	s := testServer(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/buffers", nil)
	rec := httptest.NewRecorder()

	err := s.handleListBuffers(e.NewContext(req, rec))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestHandleGetBuffer(t *testing.T) {
	type testCase struct {
		name     string
		id       string
		code     int
		contains string
	}

	cases := []testCase{
		{
			name:     "found",
			id:       "1",
			code:     http.StatusOK,
			contains: `"block0":"abcd"`,
		},
		{
			name:     "missing",
			id:       "9",
			code:     http.StatusNotFound,
			contains: "not found",
		},
		{
			name:     "bad id",
			id:       "notanumber",
			code:     http.StatusBadRequest,
			contains: "error",
		},
	}

	s := testServer(t)
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/buffer/:id", nil)
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)
			ctx.SetParamNames("id")
			ctx.SetParamValues(tc.id)

			err := s.handleGetBuffer(ctx)
			assert.NoError(t, err)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.contains)
		})
	}
}
