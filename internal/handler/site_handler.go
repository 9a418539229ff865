package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
	"github.com/slutstation/slutstation-web/pkg/response"
)

const siteIndexFile = "index.html"

// SiteHandler serves the compiled single-page site. Unknown paths resolve to
// index.html so client-side routes survive a reload.
type SiteHandler struct {
	root      string
	apiPrefix string
}

// NewSiteHandler builds a handler rooted at dir. Requests under apiPrefix
// never fall back to the page shell.
func NewSiteHandler(dir, apiPrefix string) *SiteHandler {
	return &SiteHandler{root: dir, apiPrefix: strings.TrimRight(apiPrefix, "/")}
}

// Enabled reports whether the site directory holds an index page.
func (h *SiteHandler) Enabled() bool {
	if h.root == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(h.root, siteIndexFile))
	return err == nil && !info.IsDir()
}

// Serve is registered as the router's NoRoute handler.
func (h *SiteHandler) Serve(c *gin.Context) {
	reqPath := c.Request.URL.Path
	if h.apiPrefix != "" && (reqPath == h.apiPrefix || strings.HasPrefix(reqPath, h.apiPrefix+"/")) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		response.Error(c, appErrors.ErrMethodNotAllowed)
		return
	}
	if !h.Enabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
		return
	}

	cleaned := path.Clean("/" + reqPath)
	if cleaned != "/" {
		candidate := filepath.Join(h.root, filepath.FromSlash(cleaned))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			if strings.HasPrefix(cleaned, "/assets/") {
				c.Header("Cache-Control", "public, max-age=604800")
			}
			c.File(candidate)
			return
		}
		if path.Ext(cleaned) != "" {
			c.Status(http.StatusNotFound)
			return
		}
	}

	c.Header("Cache-Control", "no-cache")
	c.File(filepath.Join(h.root, siteIndexFile))
}
