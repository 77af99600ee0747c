package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/lens/pkg/types"
)

// handleHealthz 存活探针
func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"executor_running": s.executor.Running(),
	})
}

// handleStatus 宿主状态汇总
func (s *Server) handleStatus(c *gin.Context) {
	_, revision := s.injector.Document()

	status := gin.H{
		"executor_running":  s.executor.Running(),
		"chain_mode":        s.forkManager.Mode().String(),
		"poll_active":       s.poll.Active(),
		"poll_session_id":   s.poll.SessionID(),
		"target_address":    s.session.Address(),
		"document_revision": revision,
	}
	if session, ok := s.forkManager.Session(); ok {
		status["fork_base_block"] = session.BaseBlock()
	}
	c.JSON(http.StatusOK, status)
}

// setAddressRequest 目标地址更新请求体
type setAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

// handleSetAddress 更新目标合约地址
func (s *Server) handleSetAddress(c *gin.Context) {
	var req setAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	if err := s.session.SetAddress(c.Request.Context(), req.Address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": s.session.Address()})
}

// handleFork 进入（或替换）分叉模式
func (s *Server) handleFork(c *gin.Context) {
	session, err := s.forkManager.Fork(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":       types.ChainModeForked.String(),
		"base_block": session.BaseBlock(),
	})
}

// handleUnfork 回到实时模式（无分叉时为无害空操作）
func (s *Server) handleUnfork(c *gin.Context) {
	if err := s.forkManager.Unfork(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": types.ChainModeLive.String()})
}

// handlePollStart 启动轮询会话（已有会话时同步替换）
func (s *Server) handlePollStart(c *gin.Context) {
	if _, err := s.poll.Start(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": s.poll.SessionID()})
}

// handlePollStop 停止当前轮询会话
func (s *Server) handlePollStop(c *gin.Context) {
	s.poll.Stop()
	c.JSON(http.StatusOK, gin.H{"active": false})
}

// handleSandboxDocument 返回当前托管文档
func (s *Server) handleSandboxDocument(c *gin.Context) {
	markup, revision := s.injector.Document()
	c.Header("X-Document-Revision", formatRevision(revision))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

// handleProviderRelay 经提供者句柄中继一个信封
//
// 只认当前注入持有的 token：被吊销或未知的 token 一律 403，
// 陈旧沙箱无法继续中继。
func (s *Server) handleProviderRelay(c *gin.Context) {
	token := c.Param("token")
	handle, ok := s.injector.HandleFor(token)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": types.ErrProviderRevoked.Error()})
		return
	}

	var envelope types.RequestEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid envelope"})
		return
	}

	resp, err := handle.Request(c.Request.Context(), &envelope)
	if err != nil {
		if errors.Is(err, types.ErrProviderRevoked) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		// 执行器拒绝（错误负载）不会落到这里：错误负载在响应体内原样透出
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
