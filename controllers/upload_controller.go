package controllers

import (
	"net/http"
	"strconv"

	"tradermatch_client/models"
)

const maxUploadMemory = 10 << 20

// UploadController forwards images picked in the browser shell
type UploadController struct {
	App *App
}

func NewUploadController(app *App) *UploadController {
	return &UploadController{App: app}
}

// HandleUploadAvatar replaces the profile picture
func (c *UploadController) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	c.App.Logger.Info("Bridge", "🔍 Uploading avatar", map[string]interface{}{"file": header.Filename, "bytes": header.Size})
	url, err := c.App.UploadAvatar(r.Context(), header.Filename, file)
	if err != nil {
		c.App.Logger.Error("Bridge", "❌ Avatar upload failed", map[string]interface{}{"error": err.Error()})
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}

// HandleUploadHighlight stores a trade screenshot
func (c *UploadController) HandleUploadHighlight(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	profit, _ := strconv.ParseFloat(r.FormValue("profit_percentage"), 64)
	highlight := models.TradingHighlight{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Coin:        r.FormValue("coin"),
		ProfitPct:   profit,
	}

	url, err := c.App.UploadHighlight(r.Context(), header.Filename, file, highlight)
	if err != nil {
		c.App.Logger.Error("Bridge", "❌ Highlight upload failed", map[string]interface{}{"error": err.Error()})
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
