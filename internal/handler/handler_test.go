package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gocart-dev/gocart/internal/config"
	"github.com/gocart-dev/gocart/internal/domain"
	"github.com/gocart-dev/gocart/internal/middleware"
	"github.com/gocart-dev/gocart/internal/service"
)

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// authedRequest builds a request carrying an already authenticated user, as
// the auth middleware would.
func authedRequest(t *testing.T, method, url string, body []byte, user *domain.User, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	return middleware.WithUser(createRequest(t, method, url, body, cookies...), user)
}

func newTestHandler() *Handler {
	return New(&MockAuthService{}, &MockCategoryService{}, &MockProductService{}, &MockPinger{}, testConfig())
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		RefreshTokenTTL: config.Duration{Duration: 24 * time.Hour},
		ResetTokenTTL:   config.Duration{Duration: 10 * time.Minute},
		DefaultPageSize: 10,
	}}
}

// --- Mocks ---

type MockAuthService struct {
	MockRegister         func(email, fullName, password string) (domain.User, error)
	MockRegisterWithRole func(email, fullName, password string, role domain.Role) (domain.User, error)
	MockLogin            func(email, password string) (service.TokenPair, error)
	MockChangePassword   func(user domain.User, currentPassword, newPassword, confirmPassword string) error
	MockForgotPassword   func(email string) error
	MockResetPassword    func(resetToken, newPassword, confirmPassword string) error
	MockRefresh          func(refreshToken string) (service.TokenPair, error)
	MockLogout           func(accessToken, refreshToken string) error
	MockUsers            func(limit, skip int, roleFilter string) ([]domain.User, error)
}

func (m *MockAuthService) Register(email, fullName, password string) (domain.User, error) {
	if m.MockRegister != nil {
		return m.MockRegister(email, fullName, password)
	}
	return domain.User{Id: uuid.New(), Email: email, FullName: fullName, Role: domain.RoleUser}, nil
}

func (m *MockAuthService) RegisterWithRole(email, fullName, password string, role domain.Role) (domain.User, error) {
	if m.MockRegisterWithRole != nil {
		return m.MockRegisterWithRole(email, fullName, password, role)
	}
	return domain.User{Id: uuid.New(), Email: email, FullName: fullName, Role: role}, nil
}

func (m *MockAuthService) Login(email, password string) (service.TokenPair, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return service.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer"}, nil
}

func (m *MockAuthService) ChangePassword(user domain.User, currentPassword, newPassword, confirmPassword string) error {
	if m.MockChangePassword != nil {
		return m.MockChangePassword(user, currentPassword, newPassword, confirmPassword)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(email string) error {
	if m.MockForgotPassword != nil {
		return m.MockForgotPassword(email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(resetToken, newPassword, confirmPassword string) error {
	if m.MockResetPassword != nil {
		return m.MockResetPassword(resetToken, newPassword, confirmPassword)
	}
	return nil
}

func (m *MockAuthService) Refresh(refreshToken string) (service.TokenPair, error) {
	if m.MockRefresh != nil {
		return m.MockRefresh(refreshToken)
	}
	return service.TokenPair{AccessToken: "access", RefreshToken: refreshToken, TokenType: "bearer"}, nil
}

func (m *MockAuthService) Logout(accessToken, refreshToken string) error {
	if m.MockLogout != nil {
		return m.MockLogout(accessToken, refreshToken)
	}
	return nil
}

func (m *MockAuthService) Users(limit, skip int, roleFilter string) ([]domain.User, error) {
	if m.MockUsers != nil {
		return m.MockUsers(limit, skip, roleFilter)
	}
	return nil, nil
}

type MockCategoryService struct {
	MockCreate func(ownerId uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error)
	MockGet    func(ownerId, id uuid.UUID) (domain.Category, error)
	MockList   func(ownerId uuid.UUID) ([]domain.Category, error)
	MockPage   func(ownerId uuid.UUID, parentId *uuid.UUID, page, size int) ([]domain.Category, error)
	MockTree   func(ownerId, id uuid.UUID) (*domain.CategoryNode, error)
	MockUpdate func(ownerId, id uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error)
	MockDelete func(ownerId, id uuid.UUID) error
}

func (m *MockCategoryService) Create(ownerId uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ownerId, name, parentId)
	}
	return domain.Category{Id: uuid.New(), Name: name, OwnerId: ownerId, ParentId: parentId}, nil
}

func (m *MockCategoryService) Get(ownerId, id uuid.UUID) (domain.Category, error) {
	if m.MockGet != nil {
		return m.MockGet(ownerId, id)
	}
	return domain.Category{Id: id, OwnerId: ownerId, Name: "category"}, nil
}

func (m *MockCategoryService) List(ownerId uuid.UUID) ([]domain.Category, error) {
	if m.MockList != nil {
		return m.MockList(ownerId)
	}
	return nil, nil
}

func (m *MockCategoryService) Page(ownerId uuid.UUID, parentId *uuid.UUID, page, size int) ([]domain.Category, error) {
	if m.MockPage != nil {
		return m.MockPage(ownerId, parentId, page, size)
	}
	return nil, nil
}

func (m *MockCategoryService) Tree(ownerId, id uuid.UUID) (*domain.CategoryNode, error) {
	if m.MockTree != nil {
		return m.MockTree(ownerId, id)
	}
	return &domain.CategoryNode{Category: domain.Category{Id: id, OwnerId: ownerId, Name: "category"}}, nil
}

func (m *MockCategoryService) Update(ownerId, id uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ownerId, id, name, parentId)
	}
	return domain.Category{Id: id, Name: name, OwnerId: ownerId, ParentId: parentId}, nil
}

func (m *MockCategoryService) Delete(ownerId, id uuid.UUID) error {
	if m.MockDelete != nil {
		return m.MockDelete(ownerId, id)
	}
	return nil
}

type MockProductService struct {
	MockCreate func(ownerId uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error)
	MockGet    func(ownerId, id uuid.UUID) (domain.Product, error)
	MockList   func(ownerId uuid.UUID) ([]domain.Product, error)
	MockPage   func(ownerId uuid.UUID, filter domain.ProductFilter, page, size int) ([]domain.Product, error)
	MockUpdate func(ownerId, id uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error)
	MockDelete func(ownerId, id uuid.UUID) error
}

func (m *MockProductService) Create(ownerId uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ownerId, name, description, price, categoryId)
	}
	return domain.Product{Id: uuid.New(), Name: name, Description: description, Price: price, CategoryId: categoryId}, nil
}

func (m *MockProductService) Get(ownerId, id uuid.UUID) (domain.Product, error) {
	if m.MockGet != nil {
		return m.MockGet(ownerId, id)
	}
	return domain.Product{Id: id, Name: "product", Price: 1}, nil
}

func (m *MockProductService) List(ownerId uuid.UUID) ([]domain.Product, error) {
	if m.MockList != nil {
		return m.MockList(ownerId)
	}
	return nil, nil
}

func (m *MockProductService) Page(ownerId uuid.UUID, filter domain.ProductFilter, page, size int) ([]domain.Product, error) {
	if m.MockPage != nil {
		return m.MockPage(ownerId, filter, page, size)
	}
	return nil, nil
}

func (m *MockProductService) Update(ownerId, id uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ownerId, id, name, description, price, categoryId)
	}
	return domain.Product{Id: id, Name: name, Description: description, Price: price, CategoryId: categoryId}, nil
}

func (m *MockProductService) Delete(ownerId, id uuid.UUID) error {
	if m.MockDelete != nil {
		return m.MockDelete(ownerId, id)
	}
	return nil
}

type MockPinger struct {
	MockPing func(ctx context.Context) error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.MockPing != nil {
		return m.MockPing(ctx)
	}
	return nil
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"hello"}`, rr.Body.String())
}

func TestWriteJSONStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSONStatus(rr, http.StatusCreated, messageResponse{Message: "created"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"message":"created"}`, rr.Body.String())
}
