// Package server exposes the hub's control surface over HTTP. The tray /
// shell UI is the intended client; every endpoint speaks JSON.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/toolhub/internal/catalog"
	"github.com/loykin/toolhub/internal/hotkey"
	"github.com/loykin/toolhub/internal/metrics"
	"github.com/loykin/toolhub/internal/supervisor"
)

// Router provides embeddable HTTP handlers for the hub.
// Endpoints under {basePath}:
//
//	GET    /status            all tools, or ?tool=... for one
//	POST   /start             body: {"tool": "...", "hotkey": "ctrl+F13"}
//	POST   /stop              body: {"tool": "..."}
//	POST   /stop-all          stops owned tools only
//	POST   /scan              triggers a full process-table scan
//	GET    /hotkeys           all registrations, or ?tool=... for one owner
//	POST   /hotkeys           body: {"tool","action","chord"}
//	DELETE /hotkeys           query: tool=... [&action=...&chord=...]
type Router struct {
	sup      *supervisor.Supervisor
	reg      *hotkey.Registry
	basePath string
	metrics  bool
}

func NewRouter(sup *supervisor.Supervisor, reg *hotkey.Registry, basePath string, withMetrics bool) *Router {
	return &Router{sup: sup, reg: reg, basePath: sanitizeBase(basePath), metrics: withMetrics}
}

// Handler returns an http.Handler that can be mounted in any server or mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/status", r.handleStatus)
	group.POST("/start", r.handleStart)
	group.POST("/stop", r.handleStop)
	group.POST("/stop-all", r.handleStopAll)
	group.POST("/scan", r.handleScan)
	group.GET("/hotkeys", r.handleHotkeysList)
	group.POST("/hotkeys", r.handleHotkeysRegister)
	group.DELETE("/hotkeys", r.handleHotkeysUnregister)
	if r.metrics {
		g.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr string, r *Router) *http.Server {
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server
}

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type toolReq struct {
	Tool   string `json:"tool"`
	Hotkey string `json:"hotkey,omitempty"`
}

type hotkeyReq struct {
	Tool   string `json:"tool"`
	Action string `json:"action"`
	Chord  string `json:"chord"`
}

// HotkeyView is the JSON form of one registration.
type HotkeyView struct {
	Tool   string `json:"tool"`
	Action string `json:"action"`
	Chord  string `json:"chord"`
}

func (r *Router) handleStatus(c *gin.Context) {
	if tool := c.Query("tool"); tool != "" {
		id, err := catalog.Parse(tool)
		if err != nil {
			writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
			return
		}
		writeJSON(c, http.StatusOK, r.sup.Status(id))
		return
	}
	writeJSON(c, http.StatusOK, r.sup.StatusAll())
}

func (r *Router) handleStart(c *gin.Context) {
	var req toolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	id, err := catalog.Parse(req.Tool)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	var lc supervisor.LaunchConfig
	if req.Hotkey != "" {
		key, _, err := hotkey.ParseChord(req.Hotkey)
		if err != nil {
			writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
			return
		}
		lc.Hotkey = key
	}
	if err := r.sup.Start(id, lc); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, supervisor.ErrBinaryNotFound) {
			code = http.StatusNotFound
		}
		writeJSON(c, code, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleStop(c *gin.Context) {
	var req toolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	id, err := catalog.Parse(req.Tool)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	if err := r.sup.Stop(id); err != nil {
		writeJSON(c, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleStopAll(c *gin.Context) {
	r.sup.StopAll()
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleScan(c *gin.Context) {
	if err := r.sup.FullScan(); err != nil {
		writeJSON(c, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, r.sup.StatusAll())
}

func (r *Router) handleHotkeysList(c *gin.Context) {
	var regs []hotkey.Registered
	if tool := c.Query("tool"); tool != "" {
		id, err := catalog.Parse(tool)
		if err != nil {
			writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
			return
		}
		regs = r.reg.ForOwner(id)
	} else {
		regs = r.reg.All()
	}
	out := make([]HotkeyView, 0, len(regs))
	for _, g := range regs {
		out = append(out, HotkeyView{
			Tool:   string(g.Owner),
			Action: g.Action,
			Chord:  hotkey.Chord(g.Key, g.Modifiers),
		})
	}
	writeJSON(c, http.StatusOK, out)
}

func (r *Router) handleHotkeysRegister(c *gin.Context) {
	var req hotkeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	id, err := catalog.Parse(req.Tool)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	key, mods, err := hotkey.ParseChord(req.Chord)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	if err := r.reg.Register(id, req.Action, key, mods); err != nil {
		writeJSON(c, http.StatusConflict, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleHotkeysUnregister(c *gin.Context) {
	tool := c.Query("tool")
	if tool == "" {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "tool query param required"})
		return
	}
	id, err := catalog.Parse(tool)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	chord := c.Query("chord")
	if chord == "" {
		r.reg.UnregisterOwner(id)
		writeJSON(c, http.StatusOK, okResp{OK: true})
		return
	}
	key, mods, err := hotkey.ParseChord(chord)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	r.reg.Unregister(key, mods)
	writeJSON(c, http.StatusOK, okResp{OK: true})
}
