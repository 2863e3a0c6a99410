package transaction_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xpensecontrol/xpense/internal"
	"github.com/xpensecontrol/xpense/internal/auth"
	"github.com/xpensecontrol/xpense/internal/report"
	"github.com/xpensecontrol/xpense/internal/transaction"
	"github.com/xpensecontrol/xpense/internal/user"
)

// MockService implements transaction.ServiceAPI for handler testing
type MockService struct {
	createFn  func(ownerID int64, dto transaction.CreateTransactionDTO) (*transaction.Transaction, error)
	listFn    func(ownerID int64, query transaction.MonthQuery) (*transaction.MonthListing, error)
	updateFn  func(ownerID int64, dto transaction.UpdateTransactionDTO) (*transaction.Transaction, error)
	deleteFn  func(ownerID int64, id string) error
	summaryFn func(ownerID int64, query transaction.MonthQuery) (*transaction.DashboardSummary, error)
	exportFn  func(ownerID int64, query transaction.MonthQuery, criteria report.Criteria) (string, []byte, error)
	reportFn  func(ownerID int64, query transaction.MonthQuery, criteria report.Criteria, generatedAt time.Time) ([]byte, error)
}

func (m *MockService) CreateTransaction(ownerID int64, dto transaction.CreateTransactionDTO) (*transaction.Transaction, error) {
	return m.createFn(ownerID, dto)
}

func (m *MockService) ListMonth(ownerID int64, query transaction.MonthQuery) (*transaction.MonthListing, error) {
	return m.listFn(ownerID, query)
}

func (m *MockService) UpdateTransaction(ownerID int64, dto transaction.UpdateTransactionDTO) (*transaction.Transaction, error) {
	return m.updateFn(ownerID, dto)
}

func (m *MockService) DeleteTransaction(ownerID int64, id string) error {
	return m.deleteFn(ownerID, id)
}

func (m *MockService) MonthSummary(ownerID int64, query transaction.MonthQuery) (*transaction.DashboardSummary, error) {
	return m.summaryFn(ownerID, query)
}

func (m *MockService) ExportMonth(ownerID int64, query transaction.MonthQuery, criteria report.Criteria) (string, []byte, error) {
	return m.exportFn(ownerID, query, criteria)
}

func (m *MockService) RenderMonthReport(ownerID int64, query transaction.MonthQuery, criteria report.Criteria, generatedAt time.Time) ([]byte, error) {
	return m.reportFn(ownerID, query, criteria, generatedAt)
}

var _ = Describe("Transaction Handler", func() {
	var (
		mockService *MockService
		handler     *transaction.Handler
		testUser    *user.User
	)

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(auth.ContextWithUser(req.Context(), testUser))
	}

	BeforeEach(func() {
		mockService = &MockService{}
		handler = transaction.NewHandler(mockService)
		testUser = &user.User{ID: 42, Email: "ada@example.com"}
	})

	Describe("CreateTransaction", func() {
		body := `{"description":"Monthly Salary","value":5000,"type":"INCOME","category":"Salary","date":"2026-03-01"}`

		It("should return 201 with the created transaction", func() {
			mockService.createFn = func(ownerID int64, dto transaction.CreateTransactionDTO) (*transaction.Transaction, error) {
				Expect(ownerID).To(Equal(int64(42)))
				Expect(dto.Description).To(Equal("Monthly Salary"))
				return &transaction.Transaction{ID: "tx-1", Description: dto.Description, OwnerID: ownerID}, nil
			}

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(body)))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var created transaction.Transaction
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
			Expect(created.ID).To(Equal("tx-1"))
		})

		It("should return 400 for a malformed body", func() {
			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString("{")))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map validation errors to 400", func() {
			mockService.createFn = func(ownerID int64, dto transaction.CreateTransactionDTO) (*transaction.Transaction, error) {
				return nil, internal.NewValidationError("value must be greater than zero", internal.ErrCodeInvalidValue)
			}

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(body)))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map an unknown category to 404", func() {
			mockService.createFn = func(ownerID int64, dto transaction.CreateTransactionDTO) (*transaction.Transaction, error) {
				return nil, internal.ErrCategoryNotFound
			}

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(body)))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 401 without a user in context", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("ListTransactions", func() {
		It("should return the month listing", func() {
			mockService.listFn = func(ownerID int64, query transaction.MonthQuery) (*transaction.MonthListing, error) {
				Expect(query.Month).To(Equal(3))
				Expect(query.Year).To(Equal(2026))
				return &transaction.MonthListing{
					Transactions: []*transaction.Transaction{{ID: "tx-1"}},
					Totals:       report.Summary{Income: 5000, Expense: 1500, Balance: 3500},
					Meta:         transaction.ListMeta{Month: 3, Year: 2026, Count: 1},
				}, nil
			}

			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/transactions?month=3&year=2026", nil))
			rec := httptest.NewRecorder()

			handler.ListTransactions(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var listing transaction.MonthListing
			Expect(json.Unmarshal(rec.Body.Bytes(), &listing)).To(Succeed())
			Expect(listing.Totals.Balance).To(Equal(3500.0))
		})

		It("should return 400 for a missing month", func() {
			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
			rec := httptest.NewRecorder()

			handler.ListTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("UpdateTransaction", func() {
		body := `{"id":"tx-1","description":"Updated","value":100,"type":"EXPENSE","category":"Food","date":"2026-03-05"}`

		It("should return the updated transaction", func() {
			mockService.updateFn = func(ownerID int64, dto transaction.UpdateTransactionDTO) (*transaction.Transaction, error) {
				Expect(dto.ID).To(Equal("tx-1"))
				return &transaction.Transaction{ID: dto.ID, Description: dto.Description}, nil
			}

			req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/transactions", bytes.NewBufferString(body)))
			rec := httptest.NewRecorder()

			handler.UpdateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should map a foreign record to 403", func() {
			mockService.updateFn = func(ownerID int64, dto transaction.UpdateTransactionDTO) (*transaction.Transaction, error) {
				return nil, internal.ErrNotOwner
			}

			req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/transactions", bytes.NewBufferString(body)))
			rec := httptest.NewRecorder()

			handler.UpdateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should map a missing record to 404", func() {
			mockService.updateFn = func(ownerID int64, dto transaction.UpdateTransactionDTO) (*transaction.Transaction, error) {
				return nil, internal.ErrTransactionNotFound
			}

			req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/transactions", bytes.NewBufferString(body)))
			rec := httptest.NewRecorder()

			handler.UpdateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DeleteTransaction", func() {
		It("should delete by the id query parameter", func() {
			var deletedID string
			mockService.deleteFn = func(ownerID int64, id string) error {
				deletedID = id
				return nil
			}

			req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/transactions?id=tx-1", nil))
			rec := httptest.NewRecorder()

			handler.DeleteTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(deletedID).To(Equal("tx-1"))
		})

		It("should return 400 without an id", func() {
			req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/transactions", nil))
			rec := httptest.NewRecorder()

			handler.DeleteTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GetSummary", func() {
		It("should return the dashboard aggregates", func() {
			mockService.summaryFn = func(ownerID int64, query transaction.MonthQuery) (*transaction.DashboardSummary, error) {
				return &transaction.DashboardSummary{
					Totals:      report.Summary{Income: 4000, Expense: 1500, Balance: 2500},
					SavingsRate: 62.5,
					Meta:        transaction.ListMeta{Month: 3, Year: 2026, Count: 3},
				}, nil
			}

			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/summary?month=3&year=2026", nil))
			rec := httptest.NewRecorder()

			handler.GetSummary(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var summary transaction.DashboardSummary
			Expect(json.Unmarshal(rec.Body.Bytes(), &summary)).To(Succeed())
			Expect(summary.SavingsRate).To(Equal(62.5))
		})
	})

	Describe("ExportTransactions", func() {
		It("should stream the export as a CSV attachment", func() {
			mockService.exportFn = func(ownerID int64, query transaction.MonthQuery, criteria report.Criteria) (string, []byte, error) {
				Expect(criteria.Type).To(Equal("EXPENSE"))
				return "transactions_March_2026.csv", []byte("Date;Description;Category;Type;Value"), nil
			}

			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/export?month=3&year=2026&type=EXPENSE", nil))
			rec := httptest.NewRecorder()

			handler.ExportTransactions(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/csv; charset=utf-8"))
			Expect(rec.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="transactions_March_2026.csv"`))
			Expect(rec.Body.String()).To(ContainSubstring("Date;Description"))
		})
	})

	Describe("PrintableReport", func() {
		It("should return the HTML document", func() {
			mockService.reportFn = func(ownerID int64, query transaction.MonthQuery, criteria report.Criteria, generatedAt time.Time) ([]byte, error) {
				return []byte("<!DOCTYPE html><html></html>"), nil
			}

			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/transactions/report?month=3", nil))
			rec := httptest.NewRecorder()

			handler.PrintableReport(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/html; charset=utf-8"))
			Expect(rec.Body.String()).To(ContainSubstring("<!DOCTYPE html>"))
		})
	})
})
