package repository_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return db, mock
}

var productRowColumns = []string{
	"id", "name", "description", "price", "image_url", "rating", "review_count",
	"stock_quantity", "is_active", "created_at", "updated_at",
	"artisan_id", "artisan_name", "artisan_background",
	"category_id", "category_name",
}

type productRow struct {
	id       uuid.UUID
	name     string
	price    string
	stock    int
	active   bool
	category string
}

func (p productRow) values(now time.Time) []driver.Value {
	return []driver.Value{
		p.id.String(), p.name, "handmade", p.price, "/img.jpg", 4.5, 10,
		p.stock, p.active, now, now,
		uuid.NewString(), "Maria Rodriguez", "War widow",
		uuid.NewString(), p.category,
	}
}
