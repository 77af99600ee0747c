// Package http 提供lens宿主的HTTP服务
//
// 两类面：/sandbox 系列服务隔离渲染上下文（托管文档、提供者
// 中继、重载通知），/api/v1 系列是宿主控制面（状态、会话、
// 分叉、轮询）。/metrics 暴露 Prometheus 指标。
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpconfig "github.com/weisyn/lens/internal/config/http"
	"github.com/weisyn/lens/internal/core/sandbox"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	polliface "github.com/weisyn/lens/pkg/interfaces/poll"
	sandboxiface "github.com/weisyn/lens/pkg/interfaces/sandbox"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
)

// Server lens宿主HTTP服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *httpconfig.Config
	logger     log.Logger

	injector    sandboxiface.Injector
	docs        *sandbox.DocumentHost
	forkManager chainstateiface.ForkManager
	poll        polliface.Controller
	session     sessioniface.Manager
	executor    executoriface.NativeExecutor
}

// NewServer 创建HTTP服务器并注册全部路由
func NewServer(
	config *httpconfig.Config,
	logger log.Logger,
	injector sandboxiface.Injector,
	docs *sandbox.DocumentHost,
	forkManager chainstateiface.ForkManager,
	poll polliface.Controller,
	session sessioniface.Manager,
	executor executoriface.NativeExecutor,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:      router,
		config:      config,
		logger:      logger,
		injector:    injector,
		docs:        docs,
		forkManager: forkManager,
		poll:        poll,
		session:     session,
		executor:    executor,
	}
	server.setupRoutes()
	return server
}

// setupRoutes 设置HTTP路由
func (s *Server) setupRoutes() {
	// 运维面
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 沙箱面
	s.router.GET("/sandbox", s.handleSandboxDocument)
	s.router.POST("/sandbox/provider/:token", s.handleProviderRelay)
	s.router.GET("/sandbox/ws", s.handleSandboxWS)

	// 控制面
	v1 := s.router.Group("/api/v1")
	v1.GET("/status", s.handleStatus)
	v1.PUT("/session/address", s.handleSetAddress)
	v1.POST("/fork", s.handleFork)
	v1.DELETE("/fork", s.handleUnfork)
	v1.POST("/poll/start", s.handlePollStart)
	v1.POST("/poll/stop", s.handlePollStop)
}

// Start 启动HTTP服务器
func (s *Server) Start() error {
	addr := s.config.GetListenAddr()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("HTTP服务器异常退出: %v", err)
			}
		}
	}()

	if s.logger != nil {
		s.logger.Infof("HTTP服务器已启动: %s", addr)
	}
	return nil
}

// Stop 停止HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭失败: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("HTTP服务器已停止")
	}
	return nil
}
