package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouterSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("messaging", "/messages")
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/messages/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestRouterAppliesGroupMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var hits int
	group := NewDomainGroup("messaging", "/messages")
	group.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		hits++
		c.Next()
	})
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/messages/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits)
}

func TestDomainGroupMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	noop := func(c *gin.Context) { c.Status(http.StatusOK) }
	group := NewDomainGroup("orders", "/orders")
	group.POST("", noop).
		GET("/:id", noop).
		PUT("/:id", noop).
		PATCH("/:id/status", noop).
		DELETE("/:id", noop)

	assert.Equal(t, "orders", group.Name())
	assert.Equal(t, "/orders", group.Prefix())

	r := NewRouter(engine)
	r.Register(group)
	r.Setup()

	for _, method := range []string{"POST", "GET", "PUT", "PATCH", "DELETE"} {
		path := "/api/v1/orders"
		switch method {
		case "GET", "PUT", "DELETE":
			path += "/xyz"
		case "PATCH":
			path += "/xyz/status"
		}
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}
