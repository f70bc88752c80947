package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront_backend/internal/config"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories/memstore"
	"storefront_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "adminpass123"
)

// captureMailer records password reset links instead of sending them.
type captureMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[to] = resetURL
	return nil
}

func (m *captureMailer) link(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[to]
}

type testServer struct {
	Server   *httptest.Server
	Store    *memstore.Store
	Files    storage.Storage
	Mailer   *captureMailer
	Payments *payment.SandboxProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test adjust the configuration before the app is built.
func newTestServerWith(t *testing.T, configure func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Database.Driver = "memory"
	cfg.JWT.Secret = "test-secret"
	cfg.Admin.Email = adminEmail
	cfg.Admin.Password = adminPassword
	cfg.Upload.MaxDimension = 200
	if configure != nil {
		configure(cfg)
	}

	store := memstore.New()
	files, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/files"})
	require.NoError(t, err)

	ts := &testServer{
		Store:    store,
		Files:    files,
		Mailer:   &captureMailer{links: map[string]string{}},
		Payments: payment.NewSandboxProvider(),
	}

	a, err := New(cfg, store, Dependencies{Storage: files, Payments: ts.Payments, Mailer: ts.Mailer})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a.Start(ctx)

	require.NoError(t, SeedAdmin(ctx, store.Users(), cfg))

	ts.Server = httptest.NewServer(a.Handler())
	t.Cleanup(ts.Server.Close)
	return ts
}

// SendRequest sends a JSON request and decodes the JSON response body.
func (ts *testServer) SendRequest(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.do(t, req)
}

func (ts *testServer) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return res, decoded
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	return body["token"].(string)
}

func (ts *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	return body["token"].(string)
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// createProduct posts a multipart product with one png image as admin.
func (ts *testServer) createProduct(t *testing.T, adminToken, name string, price string, stock int) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        name,
		"description": "A product for tests",
		"price":       price,
		"category":    "Electronics",
		"stock":       fmt.Sprint(stock),
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="images"; filename="photo.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(pngImage(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/v1/admin/product/new", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)

	res, body := ts.do(t, req)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	return body["product"].(map[string]any)
}

func checkoutBody(productID string, qty int, coupon string) map[string]any {
	return map[string]any{
		"orderItems": []map[string]any{{"product": productID, "quantity": qty}},
		"shippingInfo": map[string]any{
			"address": "1 Main St",
			"city":    "Springfield",
			"state":   "IL",
			"country": "US",
			"pinCode": "62701",
			"phoneNo": "5551234567",
		},
		"couponCode": coupon,
	}
}

func TestAuthFlow(t *testing.T) {
	// --- Arrange ---
	ts := newTestServer(t)

	// --- Act: register ---
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/register", "", map[string]any{
		"name":     "Jane",
		"email":    "Jane@Example.com",
		"password": "password123",
	})

	// --- Assert ---
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "password")

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, token, cookie.Value)

	// --- Act: me via bearer and via cookie ---
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "jane@example.com", body["user"].(map[string]any)["email"])

	req, _ := http.NewRequest(http.MethodGet, ts.Server.URL+"/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	res, _ = ts.do(t, req)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// --- Act: duplicate registration and bad login ---
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/register", "", map[string]any{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, false, body["success"])

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/login", "", map[string]any{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Invalid email or password", body["message"])

	// --- Act: logout expires the cookie ---
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/logout", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Logged Out", body["message"])
	for _, c := range res.Cookies() {
		if c.Name == "token" {
			assert.Empty(t, c.Value)
			assert.Less(t, c.MaxAge, 0)
		}
	}
}

func TestAuthorization(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.register(t, "Bob", "bob@example.com")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Please login to access this resource", body["message"])

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, false, body["success"])

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", customer, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, false, body["success"])

	admin := ts.login(t, adminEmail, adminPassword)
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/users", admin, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["users"], 2)
}

func TestPasswordReset(t *testing.T) {
	// --- Arrange ---
	ts := newTestServer(t)
	ts.register(t, "Carol", "carol@example.com")

	// --- Act ---
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/password/forgot", "", map[string]any{
		"email": "carol@example.com",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "Email sent to carol@example.com successfully", body["message"])

	link := ts.Mailer.link("carol@example.com")
	require.NotEmpty(t, link)
	resetToken := link[strings.LastIndex(link, "/")+1:]

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/password/reset/"+resetToken, "", map[string]any{
		"password":        "newpassword1",
		"confirmPassword": "mismatch1",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/password/reset/"+resetToken, "", map[string]any{
		"password":        "newpassword1",
		"confirmPassword": "newpassword1",
	})

	// --- Assert ---
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.NotEmpty(t, body["token"])
	ts.login(t, "carol@example.com", "newpassword1")

	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/password/reset/"+resetToken, "", map[string]any{
		"password":        "another123",
		"confirmPassword": "another123",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "reset tokens are single use")
}

func TestProductCatalog(t *testing.T) {
	// --- Arrange ---
	ts := newTestServer(t)
	admin := ts.login(t, adminEmail, adminPassword)

	phone := ts.createProduct(t, admin, "Phone", "499.99", 5)
	ts.createProduct(t, admin, "Cable", "9.50", 100)

	// --- Act / Assert: public listing with filters ---
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/products?keyword=phone", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, float64(1), body["productsCount"])
	assert.Equal(t, float64(20), body["resultPerPage"])

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/products?price[lte]=10", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Cable", products[0].(map[string]any)["name"])

	// --- Stored image is served back ---
	images := phone["images"].([]any)
	require.Len(t, images, 1)
	url := images[0].(map[string]any)["url"].(string)
	require.True(t, strings.HasPrefix(url, "/files/products/"), url)

	imgRes, err := http.Get(ts.Server.URL + url)
	require.NoError(t, err)
	imgRes.Body.Close()
	assert.Equal(t, http.StatusOK, imgRes.StatusCode)
	assert.Equal(t, "image/png", imgRes.Header.Get("Content-Type"))

	// --- Update and delete ---
	id := phone["id"].(string)
	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/product/"+id, admin, map[string]any{"stock": 7})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, float64(7), body["product"].(map[string]any)["stock"])

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/admin/product/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/product/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, false, body["success"])

	imgRes, err = http.Get(ts.Server.URL + url)
	require.NoError(t, err)
	imgRes.Body.Close()
	assert.Equal(t, http.StatusNotFound, imgRes.StatusCode)
}

func TestCheckoutFlow(t *testing.T) {
	// --- Arrange ---
	ts := newTestServer(t)
	admin := ts.login(t, adminEmail, adminPassword)
	customer := ts.register(t, "Dave", "dave@example.com")
	product := ts.createProduct(t, admin, "Lamp", "50", 3)
	productID := product["id"].(string)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/admin/coupon/new", admin, map[string]any{
		"code":          "save10",
		"discountType":  "percent",
		"discountValue": 10,
		"maxUses":       1,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/coupon/apply", customer, map[string]any{
		"code":   "SAVE10",
		"amount": 100,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, float64(10), body["coupon"].(map[string]any)["discount"])

	// --- Act ---
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, checkoutBody(productID, 2, "SAVE10"))

	// --- Assert ---
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	order := body["order"].(map[string]any)
	assert.Equal(t, float64(100), order["itemsPrice"])
	assert.Equal(t, float64(10), order["discount"])
	assert.Equal(t, 16.2, order["taxPrice"])
	assert.Equal(t, float64(25), order["shippingPrice"])
	assert.Equal(t, 131.2, order["totalPrice"])
	assert.Equal(t, "processing", order["orderStatus"])
	assert.Equal(t, "succeeded", order["paymentInfo"].(map[string]any)["status"])
	assert.Len(t, ts.Payments.Charges(), 1)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/product/"+productID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, float64(1), body["product"].(map[string]any)["stock"])

	// Coupon is used up and stock is short.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, checkoutBody(productID, 1, "SAVE10"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, checkoutBody(productID, 2, ""))
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Orders are private to their owner.
	orderID := order["id"].(string)
	other := ts.register(t, "Eve", "eve@example.com")
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/order/"+orderID, other, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/order/"+orderID, admin, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/orders/me", customer, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["orders"], 1)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 131.2, body["totalAmount"])
	assert.Equal(t, float64(1), body["ordersCount"])

	// Status lifecycle.
	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/order/"+orderID, admin, map[string]any{"status": "shipped"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/order/"+orderID, admin, map[string]any{"status": "processing"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/order/"+orderID, admin, map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.NotEmpty(t, body["order"].(map[string]any)["deliveredAt"])
}

func TestCheckoutEdgeCases(t *testing.T) {
	// --- Arrange ---
	ts := newTestServer(t)
	admin := ts.login(t, adminEmail, adminPassword)
	customer := ts.register(t, "Ivy", "ivy@example.com")
	product := ts.createProduct(t, admin, "Chair", "100", 5)
	productID := product["id"].(string)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/admin/coupon/new", admin, map[string]any{
		"code":          "free",
		"discountType":  "percent",
		"discountValue": 100,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	// --- Act / Assert: quantity limits ---
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, checkoutBody(productID, 100000, ""))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	merged := checkoutBody(productID, 60000, "")
	merged["orderItems"] = []map[string]any{
		{"product": productID, "quantity": 60000},
		{"product": productID, "quantity": 60000},
	}
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, merged)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	merged["orderItems"] = []map[string]any{
		{"product": productID, "quantity": 3},
		{"product": productID, "quantity": 3},
	}
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, merged)
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	// --- Act / Assert: full discount ---
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/coupon/apply", customer, map[string]any{"code": "FREE", "amount": 200})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, float64(0), body["coupon"].(map[string]any)["finalAmount"])

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, checkoutBody(productID, 2, "FREE"))
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	order := body["order"].(map[string]any)
	assert.Equal(t, float64(0), order["totalPrice"])
	assert.Equal(t, "succeeded", order["paymentInfo"].(map[string]any)["status"])
	assert.Equal(t, "none", order["paymentInfo"].(map[string]any)["provider"])
	assert.NotEmpty(t, order["paidAt"])
	assert.Empty(t, ts.Payments.Charges())

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/product/"+productID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, float64(3), body["product"].(map[string]any)["stock"])
}

func TestSubscriptionFlow(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.register(t, "Frank", "frank@example.com")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/subscription/plans", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["plans"], 2)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/subscription/new", customer, map[string]any{"plan": "gold"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/subscription/new", customer, map[string]any{"plan": "plus_monthly"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.Equal(t, "active", body["subscription"].(map[string]any)["status"])

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/subscription/new", customer, map[string]any{"plan": "plus_yearly"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/subscription/me/cancel", customer, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "cancelled", body["subscription"].(map[string]any)["status"])

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/subscription/me", customer, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["subscriptions"], 1)
}

func TestPaymentEndpoints(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.register(t, "Gina", "gina@example.com")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/payment/config", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "sandbox", body["payment"].(map[string]any)["provider"])

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/payment/process", customer, map[string]any{"amount": 12.5})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "succeeded", body["payment"].(map[string]any)["status"])
}

func TestLiveOrderFeed(t *testing.T) {
	// --- Arrange ---
	ts := newTestServer(t)
	admin := ts.login(t, adminEmail, adminPassword)
	customer := ts.register(t, "Hank", "hank@example.com")
	product := ts.createProduct(t, admin, "Mug", "12", 10)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+admin)
	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/api/v1/admin/live/orders"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	customerHeader := http.Header{}
	customerHeader.Set("Authorization", "Bearer "+customer)
	_, res, err := websocket.DefaultDialer.Dial(wsURL, customerHeader)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// The client registers asynchronously with the manager.
	time.Sleep(100 * time.Millisecond)

	// --- Act ---
	resp, body := ts.SendRequest(t, http.MethodPost, "/api/v1/order/new", customer, checkoutBody(product["id"].(string), 1, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	// --- Assert ---
	var event map[string]any
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "order.created", event["type"])
	assert.Equal(t, body["order"].(map[string]any)["id"], event["orderId"])
}

func TestHealthAndFallbacks(t *testing.T) {
	ts := newTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body["status"])

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestFilesRouteOnlyForLocalStorage(t *testing.T) {
	tests := []struct {
		name        string
		storageType string
		wantStatus  int
	}{
		{"local disk", "local", http.StatusOK},
		{"remote bucket", "s3", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// --- Arrange ---
			ts := newTestServerWith(t, func(cfg *config.Config) { cfg.Storage.Type = tt.storageType })
			require.NoError(t, ts.Files.Save(context.Background(), "docs/readme.txt", strings.NewReader("hello"), "text/plain"))

			// --- Act ---
			res, err := http.Get(ts.Server.URL + "/files/docs/readme.txt")

			// --- Assert ---
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatus, res.StatusCode)
		})
	}
}
