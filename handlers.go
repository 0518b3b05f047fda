package main

import (
	"errors"
	"net/http"
	"path/filepath"
	"sync"

	"cardforge/pkg/card"
	"cardforge/pkg/verify"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/auth/login", loginHandler)
	r.POST("/flow/:chat/message", flowMessageHandler)
	r.GET("/artifacts/:name", artifactHandler)

	op := r.Group("")
	op.Use(jwtAuthMiddleware())
	op.POST("/calibrate", calibrateEnterHandler)
	op.POST("/calibrate/select", calibrateSelectHandler)
	op.POST("/calibrate/adjust", calibrateAdjustHandler)
	op.POST("/calibrate/apply", calibrateApplyHandler)
	op.GET("/calibrate/download", calibrateDownloadHandler)
	op.POST("/calibrate/overlay", calibrateOverlayHandler)
	op.POST("/calibrate/back", calibrateBackHandler)
	op.POST("/debug/verify", verifyHandler)
}

// flowMessageHandler feeds one chat message into the collection flow.
func flowMessageHandler(c *gin.Context) {
	chatID := c.Param("chat")
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reply, err := advanceFlow(chatID, req.Text)
	if err != nil {
		if errors.Is(err, card.ErrTemplateMissing) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "template image missing"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.JSON(http.StatusOK, reply)
}

// artifactHandler serves a produced card or overlay image.
func artifactHandler(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	if name == "." || name == "/" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad artifact name"})
		return
	}
	c.File(filepath.Join(outDir, name))
}

// The calibration session is a single-operator resource: one session, one
// command at a time.
var cal = struct {
	sync.Mutex
	session *card.Session
}{}

// withSession runs fn against the current calibration session, creating
// it on first use.
func withSession(fn func(s *card.Session)) {
	cal.Lock()
	defer cal.Unlock()
	if cal.session == nil {
		cal.session = card.NewSession(registry, configPath, renderer.TemplatePath, apiToken)
	}
	fn(cal.session)
}

func calibrateEnterHandler(c *gin.Context) {
	cal.Lock()
	cal.session = card.NewSession(registry, configPath, renderer.TemplatePath, apiToken)
	desc := cal.session.Describe()
	cal.Unlock()
	c.JSON(http.StatusOK, gin.H{"state": "choosing", "coords": desc})
}

func calibrateSelectHandler(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	withSession(func(s *card.Session) {
		f, err := s.Select(req.Field)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "state": s.State().String()})
			return
		}
		r, _ := registry.Get(f)
		c.JSON(http.StatusOK, gin.H{"state": s.State().String(), "field": f, "label": f.Label(), "rect": r})
	})
}

func calibrateAdjustHandler(c *gin.Context) {
	// no "required" on Delta: gin's validator treats 0 as absent, and the
	// session already rejects it as a bad step with a clear message
	var req struct {
		Axis  string `json:"axis" binding:"required"`
		Delta int    `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	withSession(func(s *card.Session) {
		r, err := s.Adjust(req.Axis, req.Delta)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "state": s.State().String()})
			return
		}
		f, _ := s.Selected()
		c.JSON(http.StatusOK, gin.H{"state": s.State().String(), "field": f, "rect": r})
	})
}

func calibrateApplyHandler(c *gin.Context) {
	withSession(func(s *card.Session) {
		if err := s.Apply(); err != nil {
			// the in-memory registry is untouched by a failed save
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "saved", "state": s.State().String()})
	})
}

func calibrateDownloadHandler(c *gin.Context) {
	var path string
	var saveErr error
	withSession(func(s *card.Session) {
		path, saveErr = s.Download()
	})
	if saveErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": saveErr.Error()})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func calibrateOverlayHandler(c *gin.Context) {
	outPath := filepath.Join(outDir, "debug_overlay.png")
	withSession(func(s *card.Session) {
		if err := s.Overlay(outPath); err != nil {
			if errors.Is(err, card.ErrTemplateMissing) {
				c.JSON(http.StatusNotFound, gin.H{"error": "template.png not found", "state": s.State().String()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"artifact": "/artifacts/debug_overlay.png", "state": s.State().String()})
	})
}

func calibrateBackHandler(c *gin.Context) {
	withSession(func(s *card.Session) {
		s.Back()
		c.JSON(http.StatusOK, gin.H{"state": s.State().String(), "coords": s.Describe()})
	})
}

// verifyHandler OCRs a produced card and reports whether the composited
// amount and operation id can be read back.
func verifyHandler(c *gin.Context) {
	var req struct {
		Artifact string `json:"artifact" binding:"required"`
		Amount   string `json:"amount"`
		OpID     string `json:"op_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path := filepath.Join(outDir, filepath.Base(req.Artifact))
	rep, err := verify.CheckCard(path, req.Amount, req.OpID)
	if err != nil {
		if errors.Is(err, verify.ErrNoText) {
			c.JSON(http.StatusOK, gin.H{"amount_ok": false, "opid_ok": false, "error": "no text recognized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"amount_ok":    rep.AmountOK,
		"opid_ok":      rep.OpIDOK,
		"found_amount": rep.FoundAmount,
		"found_opid":   rep.FoundOpID,
		"text":         rep.Text,
	})
}
