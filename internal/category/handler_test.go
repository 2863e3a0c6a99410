package category_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xpensecontrol/xpense/internal"
	"github.com/xpensecontrol/xpense/internal/auth"
	"github.com/xpensecontrol/xpense/internal/category"
	"github.com/xpensecontrol/xpense/internal/user"
)

// MockService implements category.ServiceAPI for handler testing
type MockService struct {
	getAllFn func() ([]*category.Category, error)
	createFn func(dto category.CreateCategoryDTO) (*category.Category, error)
}

func (m *MockService) GetAllCategories() ([]*category.Category, error) {
	return m.getAllFn()
}

func (m *MockService) CreateCategory(dto category.CreateCategoryDTO) (*category.Category, error) {
	return m.createFn(dto)
}

var _ = Describe("Category Handler", func() {
	var (
		mockService *MockService
		handler     *category.Handler
		testUser    *user.User
	)

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(auth.ContextWithUser(req.Context(), testUser))
	}

	BeforeEach(func() {
		mockService = &MockService{}
		handler = category.NewHandler(mockService)
		testUser = &user.User{ID: 42, Email: "ada@example.com"}
	})

	Describe("GetCategories", func() {
		It("should return the category list", func() {
			mockService.getAllFn = func() ([]*category.Category, error) {
				return []*category.Category{
					{ID: 1, Name: "Food"},
					{ID: 2, Name: "Housing"},
				}, nil
			}

			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
			rec := httptest.NewRecorder()

			handler.GetCategories(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var categories []*category.Category
			Expect(json.Unmarshal(rec.Body.Bytes(), &categories)).To(Succeed())
			Expect(categories).To(HaveLen(2))
		})

		It("should return 401 without a user in context", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
			rec := httptest.NewRecorder()

			handler.GetCategories(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should map service failures to 500", func() {
			mockService.getAllFn = func() ([]*category.Category, error) {
				return nil, internal.NewInternalError("failed to list categories", nil)
			}

			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
			rec := httptest.NewRecorder()

			handler.GetCategories(rec, req)
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("CreateCategory", func() {
		It("should return 201 with the created category", func() {
			mockService.createFn = func(dto category.CreateCategoryDTO) (*category.Category, error) {
				Expect(dto.Name).To(Equal("Pets"))
				return &category.Category{ID: 10, Name: dto.Name}, nil
			}

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(`{"name":"Pets"}`)))
			rec := httptest.NewRecorder()

			handler.CreateCategory(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var created category.Category
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
			Expect(created.ID).To(Equal(int64(10)))
		})

		It("should return 400 for a malformed body", func() {
			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString("{")))
			rec := httptest.NewRecorder()

			handler.CreateCategory(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map a duplicate name to 409", func() {
			mockService.createFn = func(dto category.CreateCategoryDTO) (*category.Category, error) {
				return nil, internal.ErrCategoryExists
			}

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(`{"name":"Food"}`)))
			rec := httptest.NewRecorder()

			handler.CreateCategory(rec, req)
			Expect(rec.Code).To(Equal(http.StatusConflict))
		})
	})
})
