package transaction

import (
	"log/slog"
	"time"

	"github.com/xpensecontrol/xpense/internal"
	"github.com/xpensecontrol/xpense/internal/category"
	"github.com/xpensecontrol/xpense/internal/report"
)

// RepositoryAPI defines the data access methods for transactions.
type RepositoryAPI interface {
	Create(t *Transaction) error
	GetByID(id string) (*Transaction, error)
	ListForOwner(ownerID int64, from, to time.Time) ([]*Transaction, error)
	Update(t *Transaction) error
	Delete(id string) error
}

// CategoryResolver is the write-path lookup of a category by display name.
type CategoryResolver interface {
	GetByName(name string) (*category.Category, error)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryResolver
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

// ListMeta describes the window a listing covers.
type ListMeta struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	Count int `json:"count"`
}

// MonthListing is the GET /transactions response body: the raw list plus
// the headline totals the dashboard cards show.
type MonthListing struct {
	Transactions []*Transaction `json:"transactions"`
	Totals       report.Summary `json:"totals"`
	Meta         ListMeta       `json:"meta"`
}

// DashboardSummary is the aggregated feed behind the charts and KPI cards.
type DashboardSummary struct {
	Totals             report.Summary         `json:"totals"`
	Categories         []report.CategoryStats `json:"categories"`
	Daily              []report.DailyPoint    `json:"daily"`
	Trend              float64                `json:"trend"`
	AverageTransaction float64                `json:"average_transaction"`
	SavingsRate        float64                `json:"savings_rate"`
	ExpenseRate        float64                `json:"expense_rate"`
	Meta               ListMeta               `json:"meta"`
}

// CreateTransaction validates the input, resolves the category by name and
// persists a new record for the owner.
func (s *Service) CreateTransaction(ownerID int64, dto CreateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("transaction validation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	cat, err := s.categories.GetByName(dto.Category)
	if err != nil {
		return nil, err
	}

	t := &Transaction{
		Description: dto.Description,
		Value:       float64(dto.Value),
		Type:        Type(dto.Type),
		CategoryID:  &cat.ID,
		Category:    cat,
		Date:        dto.Date.Time,
		OwnerID:     ownerID,
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create transaction", "error", err, "owner_id", ownerID)
		return nil, internal.NewInternalError("failed to create transaction", err)
	}

	s.logger.Info("transaction created",
		"transaction_id", t.ID,
		"owner_id", ownerID,
		"type", t.Type,
		"value", t.Value)

	return t, nil
}

// ListMonth returns the owner's transactions inside the month window,
// ordered by date descending, with computed totals and window metadata.
func (s *Service) ListMonth(ownerID int64, query MonthQuery) (*MonthListing, error) {
	transactions, err := s.listWindow(ownerID, query)
	if err != nil {
		return nil, err
	}

	return &MonthListing{
		Transactions: transactions,
		Totals:       report.Totals(ToReportEntries(transactions)),
		Meta: ListMeta{
			Month: query.Month,
			Year:  query.Year,
			Count: len(transactions),
		},
	}, nil
}

// UpdateTransaction replaces every field of an existing record. The owner
// check is the only safeguard; last write wins.
func (s *Service) UpdateTransaction(ownerID int64, dto UpdateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("transaction update validation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	t, err := s.getOwned(dto.ID, ownerID)
	if err != nil {
		return nil, err
	}

	cat, err := s.categories.GetByName(dto.Category)
	if err != nil {
		return nil, err
	}

	t.Description = dto.Description
	t.Value = float64(dto.Value)
	t.Type = Type(dto.Type)
	t.CategoryID = &cat.ID
	t.Category = cat
	t.Date = dto.Date.Time

	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to update transaction", "error", err, "transaction_id", t.ID)
		return nil, internal.NewInternalError("failed to update transaction", err)
	}

	s.logger.Info("transaction updated", "transaction_id", t.ID, "owner_id", ownerID)
	return t, nil
}

// DeleteTransaction removes a record after the ownership check.
func (s *Service) DeleteTransaction(ownerID int64, id string) error {
	if id == "" {
		return internal.NewValidationError("transaction id is required", internal.ErrCodeMissingID)
	}

	t, err := s.getOwned(id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(t.ID); err != nil {
		s.logger.Error("failed to delete transaction", "error", err, "transaction_id", id)
		return internal.NewInternalError("failed to delete transaction", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", id, "owner_id", ownerID)
	return nil
}

// MonthSummary runs the aggregation engine over the month window and
// returns the derived dashboard views.
func (s *Service) MonthSummary(ownerID int64, query MonthQuery) (*DashboardSummary, error) {
	transactions, err := s.listWindow(ownerID, query)
	if err != nil {
		return nil, err
	}

	entries := ToReportEntries(transactions)
	daily := report.DailyRunningBalance(entries)

	return &DashboardSummary{
		Totals:             report.Totals(entries),
		Categories:         report.GroupByCategory(entries),
		Daily:              daily,
		Trend:              report.Trend(daily),
		AverageTransaction: report.AverageTransaction(entries),
		SavingsRate:        report.SavingsRate(entries),
		ExpenseRate:        report.ExpenseRate(entries),
		Meta: ListMeta{
			Month: query.Month,
			Year:  query.Year,
			Count: len(transactions),
		},
	}, nil
}

// ExportMonth renders the month's (optionally filtered) transactions as a
// delimited text file and returns the download filename alongside it.
func (s *Service) ExportMonth(ownerID int64, query MonthQuery, criteria report.Criteria) (string, []byte, error) {
	entries, err := s.filteredEntries(ownerID, query, criteria)
	if err != nil {
		return "", nil, err
	}

	data := report.ExportDelimited(entries, query.Month, query.Year)
	return report.ExportFilename(query.Month, query.Year), data, nil
}

// RenderMonthReport renders the printable HTML document for the month.
func (s *Service) RenderMonthReport(ownerID int64, query MonthQuery, criteria report.Criteria, generatedAt time.Time) ([]byte, error) {
	entries, err := s.filteredEntries(ownerID, query, criteria)
	if err != nil {
		return nil, err
	}
	return report.RenderPrintable(entries, query.Month, query.Year, generatedAt)
}

func (s *Service) filteredEntries(ownerID int64, query MonthQuery, criteria report.Criteria) ([]report.Transaction, error) {
	transactions, err := s.listWindow(ownerID, query)
	if err != nil {
		return nil, err
	}
	return report.Filter(ToReportEntries(transactions), criteria), nil
}

func (s *Service) listWindow(ownerID int64, query MonthQuery) ([]*Transaction, error) {
	from, to := query.Window()

	transactions, err := s.repo.ListForOwner(ownerID, from, to)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "owner_id", ownerID)
		return nil, internal.NewInternalError("failed to list transactions", err)
	}
	if transactions == nil {
		transactions = []*Transaction{}
	}
	return transactions, nil
}

func (s *Service) getOwned(id string, ownerID int64) (*Transaction, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get transaction", "error", err, "transaction_id", id)
		return nil, internal.NewInternalError("failed to get transaction", err)
	}
	if t == nil {
		return nil, internal.ErrTransactionNotFound
	}
	if t.OwnerID != ownerID {
		s.logger.Warn("ownership check failed",
			"transaction_id", id,
			"owner_id", t.OwnerID,
			"requester_id", ownerID)
		return nil, internal.ErrNotOwner
	}
	return t, nil
}
