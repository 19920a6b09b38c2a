package api

import (
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/maxgerhardt/agon-vdp/buffer"
	"github.com/maxgerhardt/agon-vdp/types"
	"go.uber.org/zap"
)

type ServerConfig struct {
	ListenerAddr string
	Logger       *zap.Logger
}

// Server exposes buffer debug info over HTTP, the queryable version of
// the protocol's debug-info command.
type Server struct {
	ServerConfig
	store *buffer.Store

	logger *zap.Logger
}

func NewServer(config ServerConfig, store *buffer.Store) (*Server, error) {
	if config.Logger == nil {
		config.Logger, _ = zap.NewDevelopment()
	}
	s := &Server{
		ServerConfig: config,
		store:        store,
		logger:       config.Logger,
	}

	return s, nil
}

func (s *Server) Start() error {
	s.logger.Info("api server starting",
		zap.String("addr", s.ListenerAddr))
	echoer := echo.New()
	echoer.HideBanner = true

	echoer.GET("/buffers", s.handleListBuffers)
	echoer.GET("/buffer/:id", s.handleGetBuffer)

	return echoer.Start(s.ListenerAddr)
}

func (s *Server) handleListBuffers(ectx echo.Context) error {
	out := make([]map[string]any, 0)
	for _, id := range s.store.IDs() {
		list, exists := s.store.Get(id)
		if !exists {
			continue
		}
		out = append(out, map[string]any{
			"id":      uint16(id),
			"streams": list.Len(),
			"size":    list.Size(),
		})
	}

	return ectx.JSON(http.StatusOK,
		map[string]any{
			"count":   len(out),
			"buffers": out,
		})
}

func (s *Server) handleGetBuffer(ectx echo.Context) error {
	val := ectx.Param("id")

	raw, err := strconv.ParseUint(val, 10, 16)
	if err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}
	id := types.BufferID(raw)

	list, exists := s.store.Get(id)
	if !exists {
		return ectx.JSON(http.StatusNotFound,
			map[string]any{
				"error": "buffer not found",
				"id":    uint16(id),
			})
	}

	blocks := make([]map[string]any, 0, list.Len())
	for i := 0; i < list.Len(); i += 1 {
		b, err := list.Get(i)
		if err != nil {
			break
		}
		blocks = append(blocks, map[string]any{
			"length":   b.Len(),
			"writable": b.Writable(),
		})
	}

	out := map[string]any{
		"id":      uint16(id),
		"streams": list.Len(),
		"size":    list.Size(),
		"blocks":  blocks,
	}
	if first, err := list.Get(0); err == nil {
		out["block0"] = hex.EncodeToString(first.Data())
	}

	return ectx.JSON(http.StatusOK, out)
}
