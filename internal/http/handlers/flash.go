package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/find-teacher-training/search/internal/service"
)

const flashCookie = "flash"

// Flash survives exactly one redirect.
type Flash struct {
	Error       *service.FieldError `json:"error,omitempty"`
	StartWizard bool                `json:"start_wizard,omitempty"`
}

func setFlash(c *gin.Context, f Flash) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    encodeFlash(f),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// readFlash returns the pending flash and clears it.
func readFlash(c *gin.Context) Flash {
	var f Flash
	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return f
	}
	http.SetCookie(c.Writer, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return Flash{}
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return Flash{}
	}
	return f
}

func encodeFlash(f Flash) string {
	b, _ := json.Marshal(f)
	return base64.RawURLEncoding.EncodeToString(b)
}
