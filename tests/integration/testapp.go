// Package integration exercises the full HTTP stack against a real
// database. Tests run over an in-memory SQLite database so the whole
// request path is covered without external services.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	directoryapp "github.com/marketplace/backend/internal/application/directory"
	messagingapp "github.com/marketplace/backend/internal/application/messaging"
	orderingapp "github.com/marketplace/backend/internal/application/ordering"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/crypto"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

// testEncryptionKey is a fixed 256-bit key; test data only.
const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// TestApp wires repositories, services, and handlers over a fresh
// in-memory database, mirroring the production composition.
type TestApp struct {
	Engine *gin.Engine
	DB     *gorm.DB
	t      *testing.T
}

// NewTestApp builds a fully wired application for one test.
func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.ProductModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.MessageModel{},
	)
	require.NoError(t, err)

	log := zap.NewNop()

	codec, err := crypto.NewCodec(testEncryptionKey, log)
	require.NoError(t, err)

	unreadCache := cache.NewInMemoryUnreadCache(time.Minute)
	t.Cleanup(func() {
		_ = unreadCache.Close()
	})

	messageRepo := persistence.NewGormMessageRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	sendGuard := messagingapp.NewSendGuard(orderRepo)
	messageService := messagingapp.NewService(messageRepo, userRepo, sendGuard, codec, unreadCache, log)
	orderService := orderingapp.NewService(orderRepo, productRepo)
	productService := catalogapp.NewService(productRepo)
	userService := directoryapp.NewService(userRepo)

	messageHandler := handler.NewMessageHandler(messageService)
	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)
	userHandler := handler.NewUserHandler(userService, nil)

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	messageRoutes := router.NewDomainGroup("messaging", "/messages")
	messageRoutes.POST("", messageHandler.Send)
	messageRoutes.GET("/conversation/:user_a/:user_b", messageHandler.GetConversation)
	messageRoutes.GET("/user/:user_id", messageHandler.GetUserConversations)
	messageRoutes.GET("/order/:order_id", messageHandler.GetOrderMessages)
	messageRoutes.PATCH("/:id/read", messageHandler.MarkRead)
	messageRoutes.PATCH("/conversation/:user_a/:user_b/read", messageHandler.MarkConversationRead)
	messageRoutes.DELETE("/:id", messageHandler.Delete)
	messageRoutes.GET("/unread/count/:user_id", messageHandler.UnreadCount)

	orderRoutes := router.NewDomainGroup("ordering", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.GET("/buyer/:buyer_id", orderHandler.ListByBuyer)
	orderRoutes.PATCH("/:id/status", orderHandler.UpdateStatus)

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/seller/:seller_id", productHandler.ListBySeller)
	catalogRoutes.POST("/products/:id/disable", productHandler.Disable)

	directoryRoutes := router.NewDomainGroup("directory", "/directory")
	directoryRoutes.POST("/users", userHandler.Register)
	directoryRoutes.GET("/users/:id", userHandler.GetByID)
	directoryRoutes.PUT("/users/:id/contact", userHandler.UpdateContact)
	directoryRoutes.POST("/login", userHandler.Login)

	r.Register(messageRoutes).
		Register(orderRoutes).
		Register(catalogRoutes).
		Register(directoryRoutes)
	r.Setup()

	return &TestApp{Engine: engine, DB: db, t: t}
}

// Do performs a JSON request against the app and returns the recorder.
func (a *TestApp) Do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, req)
	return rec
}

// DecodeData unmarshals a success envelope's data field into out.
func (a *TestApp) DecodeData(rec *httptest.ResponseRecorder, out any) {
	a.t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(a.t, envelope.Success, "expected success envelope, got error: %+v", envelope.Error)
	require.NoError(a.t, json.Unmarshal(envelope.Data, out))
}

// DecodeError unmarshals an error envelope and returns the error info.
func (a *TestApp) DecodeError(rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	a.t.Helper()

	var envelope struct {
		Success bool           `json:"success"`
		Error   *dto.ErrorInfo `json:"error"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.False(a.t, envelope.Success)
	require.NotNil(a.t, envelope.Error)
	return envelope.Error
}

// RegisterUser creates a user through the API and returns it.
func (a *TestApp) RegisterUser(name, email string) *directoryapp.UserResponse {
	a.t.Helper()

	rec := a.Do(http.MethodPost, "/api/v1/directory/users", directoryapp.RegisterUserRequest{
		Name:     name,
		Email:    email,
		Password: "hunter2hunter2",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var user directoryapp.UserResponse
	a.DecodeData(rec, &user)
	return &user
}

// CreateProduct lists a product for a seller through the API.
func (a *TestApp) CreateProduct(req catalogapp.CreateProductRequest) *catalogapp.ProductResponse {
	a.t.Helper()

	rec := a.Do(http.MethodPost, "/api/v1/catalog/products", req)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var product catalogapp.ProductResponse
	a.DecodeData(rec, &product)
	return &product
}

// CreateOrder places an order through the API.
func (a *TestApp) CreateOrder(req orderingapp.CreateOrderRequest) *orderingapp.OrderResponse {
	a.t.Helper()

	rec := a.Do(http.MethodPost, "/api/v1/orders", req)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var order orderingapp.OrderResponse
	a.DecodeData(rec, &order)
	return &order
}
