package storage

import (
	"context"
	"errors"
	"time"

	"github.com/digiwallet/wallet-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ExpenseFilter holds the four independently optional predicates of the
// expense search plus pagination. Nil/empty fields are absent predicates.
type ExpenseFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	CategoryIDs []int64
	TagIDs      []int64
	Page        int
	Size        int
}

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// CategoryStore manages the two-level category tree.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	CategoryByID(ctx context.Context, id int64) (models.Category, error)
	CategoriesVisibleTo(ctx context.Context, userID int64) ([]models.Category, error)
	TopLevelCategories(ctx context.Context, userID int64) ([]models.Category, error)
}

// TagStore manages user and system tags.
type TagStore interface {
	CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	TagsVisibleTo(ctx context.Context, userID int64) ([]models.Tag, error)
	SystemTagCount(ctx context.Context) (int, error)
	InsertSystemTags(ctx context.Context, names []string) error
}

// BudgetStore manages one budget per user per calendar month.
type BudgetStore interface {
	UpsertBudget(ctx context.Context, budget models.Budget) (models.Budget, error)
	BudgetByMonth(ctx context.Context, userID int64, year, month int) (models.Budget, error)
}

// ExpenseStore manages expense records and the compound filter query.
// Returned expenses carry resolved category and tag references.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense models.Expense, categoryID *int64, tagIDs []int64) (models.Expense, error)
	ExpenseByID(ctx context.Context, id int64) (models.Expense, error)
	UpdateExpense(ctx context.Context, expense models.Expense, categoryID *int64, tagIDs []int64) (models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	RecentExpenses(ctx context.Context, userID int64, limit int) ([]models.Expense, error)
	FilterExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]models.Expense, error)
}

// Store is the full persistence surface behind the handlers.
type Store interface {
	UserStore
	CategoryStore
	TagStore
	BudgetStore
	ExpenseStore
	Close()
}
