package categories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
)

const (
	drinksID  = "7a1d5c2e-3b4f-4c6d-8e9f-0a1b2c3d4e01"
	foodID    = "7a1d5c2e-3b4f-4c6d-8e9f-0a1b2c3d4e02"
	vinosID   = "7a1d5c2e-3b4f-4c6d-8e9f-0a1b2c3d4f01"
	spritzID  = "7a1d5c2e-3b4f-4c6d-8e9f-0a1b2c3d4f02"
	unknownID = "7a1d5c2e-3b4f-4c6d-8e9f-0a1b2c3d4fff"
)

var (
	categoryCols    = []string{"id", "name", "emoji", "section", "order", "is_active", "created_at", "updated_at"}
	subcategoryCols = []string{"id", "name", "category_id", "order", "is_active", "created_at", "updated_at"}
)

type RepositoryTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    *Repository
	context context.Context
	now     time.Time
}

func (s *RepositoryTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewRepository(mock)
	s.context = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) categoryRows() *pgxmock.Rows {
	return pgxmock.NewRows(categoryCols).
		AddRow(drinksID, "Drinks", "🍺", "drinks", 3, true, s.now, s.now)
}

func (s *RepositoryTestSuite) TestInsertCategory_Success() {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Drinks", "🍺", "drinks", 3, true).
		WillReturnRows(s.categoryRows())

	category, err := s.repo.InsertCategory(s.context, menu.Category{
		Name: "Drinks", Emoji: "🍺", Section: menu.SectionDrinks, Order: 3, IsActive: true,
	})

	s.Require().NoError(err)
	s.Equal(drinksID, category.ID)
	s.Equal(menu.SectionDrinks, category.Section)
	s.Equal(s.now, category.CreatedAt)
}

func (s *RepositoryTestSuite) TestInsertCategory_DuplicateName() {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Drinks", "", "drinks", 0, false).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.repo.InsertCategory(s.context, menu.Category{Name: "Drinks", Section: menu.SectionDrinks})

	s.ErrorIs(err, ErrorDuplicateName)
}

func (s *RepositoryTestSuite) TestGetCategory_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE id = $1")).
		WithArgs(unknownID).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.repo.GetCategory(s.context, unknownID)

	s.ErrorIs(err, ErrorNotFound)
}

func (s *RepositoryTestSuite) TestListCategories() {
	rows := pgxmock.NewRows(categoryCols).
		AddRow(foodID, "Food", "🍽️", "food", 2, true, s.now, s.now).
		AddRow(drinksID, "Drinks", "🍺", "drinks", 3, false, s.now, s.now)
	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM categories ORDER BY "order", name`)).WillReturnRows(rows)

	categories, err := s.repo.ListCategories(s.context)

	s.Require().NoError(err)
	s.Require().Len(categories, 2)
	s.Equal("Food", categories[0].Name)
	s.False(categories[1].IsActive)
}

func (s *RepositoryTestSuite) TestListCategories_QueryError() {
	queryErr := errors.New("connection reset")
	s.mock.ExpectQuery("FROM categories").WillReturnError(queryErr)

	categories, err := s.repo.ListCategories(s.context)

	s.ErrorIs(err, queryErr)
	s.Nil(categories)
}

func (s *RepositoryTestSuite) TestUpdateCategory() {
	s.mock.ExpectQuery(regexp.QuoteMeta("UPDATE categories")).
		WithArgs("Drinks", "🍺", "drinks", 3, true, drinksID).
		WillReturnRows(s.categoryRows())

	category, err := s.repo.UpdateCategory(s.context, menu.Category{
		ID: drinksID, Name: "Drinks", Emoji: "🍺", Section: menu.SectionDrinks, Order: 3, IsActive: true,
	})

	s.Require().NoError(err)
	s.Equal("Drinks", category.Name)
}

func (s *RepositoryTestSuite) TestDeleteCategory() {
	s.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM categories WHERE id = $1")).
		WithArgs(drinksID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(drinksID))

	s.NoError(s.repo.DeleteCategory(s.context, drinksID))
}

func (s *RepositoryTestSuite) TestDeleteCategory_ChildrenAppeared() {
	s.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM categories")).
		WithArgs(drinksID).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := s.repo.DeleteCategory(s.context, drinksID)

	s.ErrorIs(err, ErrorHasChildren)
}

func (s *RepositoryTestSuite) TestDeleteCategory_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM categories")).
		WithArgs(unknownID).
		WillReturnError(pgx.ErrNoRows)

	s.ErrorIs(s.repo.DeleteCategory(s.context, unknownID), ErrorNotFound)
}

func (s *RepositoryTestSuite) TestCountCategoryChildren() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subcategories WHERE category_id = $1")).
		WithArgs(drinksID).
		WillReturnRows(pgxmock.NewRows([]string{"subcategories", "items"}).AddRow(5, 12))

	subcategories, items, err := s.repo.CountCategoryChildren(s.context, drinksID)

	s.Require().NoError(err)
	s.Equal(5, subcategories)
	s.Equal(12, items)
}

func (s *RepositoryTestSuite) TestCascadeDeletes() {
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM menu_items WHERE category_id = $1")).
		WithArgs(drinksID).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subcategories WHERE category_id = $1")).
		WithArgs(drinksID).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM menu_items WHERE subcategory_id = $1")).
		WithArgs(vinosID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	items, err := s.repo.DeleteItemsByCategory(s.context, drinksID)
	s.Require().NoError(err)
	s.Equal(12, items)

	subcategories, err := s.repo.DeleteSubcategoriesByCategory(s.context, drinksID)
	s.Require().NoError(err)
	s.Equal(5, subcategories)

	items, err = s.repo.DeleteItemsBySubcategory(s.context, vinosID)
	s.Require().NoError(err)
	s.Zero(items)
}

func (s *RepositoryTestSuite) TestCascadeDelete_Error() {
	execErr := errors.New("statement timeout")
	s.mock.ExpectExec("DELETE FROM menu_items").WithArgs(drinksID).WillReturnError(execErr)

	items, err := s.repo.DeleteItemsByCategory(s.context, drinksID)

	s.ErrorIs(err, execErr)
	s.Zero(items)
}

func (s *RepositoryTestSuite) TestReorderCategories_Commit() {
	ids := []string{drinksID, foodID}
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta("WITH ORDINALITY AS v(id, position)")).
		WithArgs(ids).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	s.mock.ExpectCommit()

	s.NoError(s.repo.ReorderCategories(s.context, ids))
}

func (s *RepositoryTestSuite) TestReorderCategories_UnknownIDRollsBack() {
	ids := []string{drinksID, unknownID}
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE categories AS c")).
		WithArgs(ids).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.mock.ExpectRollback()

	err := s.repo.ReorderCategories(s.context, ids)

	s.ErrorIs(err, ErrorNotFound)
}

func (s *RepositoryTestSuite) TestReorderCategories_BeginError() {
	beginErr := errors.New("pool closed")
	s.mock.ExpectBegin().WillReturnError(beginErr)

	s.ErrorIs(s.repo.ReorderCategories(s.context, []string{drinksID}), beginErr)
}

func (s *RepositoryTestSuite) TestReorderSubcategories_ScopedToCategory() {
	ids := []string{spritzID, vinosID}
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta("s.category_id = $2")).
		WithArgs(ids, drinksID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	s.mock.ExpectCommit()

	s.NoError(s.repo.ReorderSubcategories(s.context, drinksID, ids))
}

func (s *RepositoryTestSuite) TestInsertSubcategory_UnknownCategory() {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subcategories")).
		WithArgs("Vini", unknownID, 0, true).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "subcategories_category_id_fkey"})

	_, err := s.repo.InsertSubcategory(s.context, menu.Subcategory{Name: "Vini", CategoryID: unknownID, IsActive: true})

	s.ErrorIs(err, ErrorInvalidReference)
}

func (s *RepositoryTestSuite) TestInsertSubcategory_Success() {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subcategories")).
		WithArgs("Vini", drinksID, 3, true).
		WillReturnRows(pgxmock.NewRows(subcategoryCols).AddRow(vinosID, "Vini", drinksID, 3, true, s.now, s.now))

	subcategory, err := s.repo.InsertSubcategory(s.context, menu.Subcategory{Name: "Vini", CategoryID: drinksID, Order: 3, IsActive: true})

	s.Require().NoError(err)
	s.Equal(vinosID, subcategory.ID)
	s.Equal(drinksID, subcategory.CategoryID)
}

func (s *RepositoryTestSuite) TestGetSubcategory_InvalidID() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM subcategories WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := s.repo.GetSubcategory(s.context, "nope")

	s.ErrorIs(err, ErrorInvalidInput)
}

func (s *RepositoryTestSuite) TestListSubcategories_ByCategory() {
	rows := pgxmock.NewRows(subcategoryCols).
		AddRow(spritzID, "Cocktail & Spritz", drinksID, 4, true, s.now, s.now)
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM subcategories WHERE category_id = $1")).
		WithArgs(drinksID).
		WillReturnRows(rows)

	subcategories, err := s.repo.ListSubcategories(s.context, drinksID)

	s.Require().NoError(err)
	s.Require().Len(subcategories, 1)
	s.Equal("Cocktail & Spritz", subcategories[0].Name)
}

func (s *RepositoryTestSuite) TestListSubcategories_All() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`FROM subcategories ORDER BY category_id, "order", name`)).
		WillReturnRows(pgxmock.NewRows(subcategoryCols))

	subcategories, err := s.repo.ListSubcategories(s.context, "")

	s.Require().NoError(err)
	s.NotNil(subcategories)
	s.Empty(subcategories)
}

func (s *RepositoryTestSuite) TestUpdateSubcategory() {
	s.mock.ExpectQuery(regexp.QuoteMeta("UPDATE subcategories")).
		WithArgs("Vini", 1, false, vinosID).
		WillReturnRows(pgxmock.NewRows(subcategoryCols).AddRow(vinosID, "Vini", drinksID, 1, false, s.now, s.now))

	subcategory, err := s.repo.UpdateSubcategory(s.context, menu.Subcategory{ID: vinosID, Name: "Vini", Order: 1})

	s.Require().NoError(err)
	s.False(subcategory.IsActive)
}

func (s *RepositoryTestSuite) TestCountSubcategoryItems_AndDelete() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM menu_items WHERE subcategory_id = $1")).
		WithArgs(vinosID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM subcategories WHERE id = $1")).
		WithArgs(vinosID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(vinosID))

	items, err := s.repo.CountSubcategoryItems(s.context, vinosID)
	s.Require().NoError(err)
	s.Zero(items)

	s.NoError(s.repo.DeleteSubcategory(s.context, vinosID))
}
