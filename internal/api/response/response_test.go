package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillsync/internal/utils"
)

func render(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Envelope) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)
	var env Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestError_UsesAppErrorMessage(t *testing.T) {
	w, env := render(func(c *gin.Context) {
		Error(c, utils.E(utils.CodeNotFound, "Svc.Get", "interview session not found", errors.New("mongo: no documents")))
	})
	if w.Code != http.StatusNotFound || env.Success || env.Error != "interview session not found" || env.Code != utils.CodeNotFound {
		t.Fatalf("unexpected response %d %+v", w.Code, env)
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	w, env := render(func(c *gin.Context) {
		Error(c, utils.E(utils.CodeInternal, "Svc.Save", "failed to save", errors.New("dial tcp 10.0.0.1")))
	})
	if w.Code != http.StatusInternalServerError || env.Error != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("internal error leaked: %+v", env)
	}

	w, env = render(func(c *gin.Context) { Error(c, errors.New("raw")) })
	if w.Code != http.StatusInternalServerError || env.Code != utils.CodeInternal {
		t.Fatalf("unexpected plain error rendering %+v", env)
	}
}

func TestOK(t *testing.T) {
	w, env := render(func(c *gin.Context) { OK(c, http.StatusCreated, map[string]int{"n": 1}) })
	if w.Code != http.StatusCreated || !env.Success || env.Data == nil || env.Error != "" {
		t.Fatalf("unexpected ok response %+v", env)
	}
}
