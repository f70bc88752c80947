package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/imageprocessor"
	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/repositories/memstore"
	"storefront_backend/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	args := m.Called(ctx, to, name, resetURL)
	return args.Error(0)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string           { return "mock" }
func (m *mockProvider) PublishableKey() string { return "pk_mock" }

func (m *mockProvider) CreateCustomer(ctx context.Context, params payment.CustomerParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) Charge(ctx context.Context, params payment.ChargeParams) (*payment.ChargeResult, error) {
	args := m.Called(ctx, params)
	res, _ := args.Get(0).(*payment.ChargeResult)
	return res, args.Error(1)
}

type testEnv struct {
	store   *memstore.Store
	storage *storage.LocalStorage
	images  ImageService
	tokens  *auth.TokenManager
	sandbox *payment.SandboxProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	local, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/files"})
	require.NoError(t, err)

	return &testEnv{
		store:   memstore.New(),
		storage: local,
		images:  NewImageService(local, imageprocessor.NewProcessor(85, 100), DefaultUploadConfig()),
		tokens:  auth.NewTokenManager("test-secret", time.Hour),
		sandbox: payment.NewSandboxProvider(),
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader builds a real multipart.FileHeader the way gin would hand it over.
func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func createUser(t *testing.T, env *testEnv, email string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{Name: "Test", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, env.store.Users().Create(context.Background(), user))
	return user
}

func createProduct(t *testing.T, env *testEnv, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Widget", Price: decimal.RequireFromString(price), Stock: stock, Category: "tools"}
	require.NoError(t, env.store.Products().Create(context.Background(), p))
	return p
}

func ordersFilterAll() repositories.OrderFilter {
	return repositories.OrderFilter{}
}
