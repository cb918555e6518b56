package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ   = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash,\s*name\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	byEmailQ  = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*name,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byIDQ     = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*name,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	userCols  = "id,email,password_hash,name,created_at,updated_at"
	testEmail = "a@b.com"
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs("id-1", testEmail, []byte("hash"), sql.NullString{String: "Alice", Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	u := &models.User{ID: "id-1", Email: testEmail, Name: "Alice", PasswordHash: []byte("hash")}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "id-1" || !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_NameOmittedIsNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs("id-1", testEmail, []byte("hash"), sql.NullString{}).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	if _, err := repo.Create(context.Background(), &models.User{ID: "id-1", Email: testEmail, PasswordHash: []byte("hash")}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("id-1", testEmail, []byte("hash"), sql.NullString{}).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{ID: "id-1", Email: testEmail, PasswordHash: []byte("hash")})
	if !errors.Is(err, common.ErrEmailConflict) {
		t.Fatalf("want ErrEmailConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("id-1", testEmail, []byte("hash"), sql.NullString{}).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: "id-1", Email: testEmail, PasswordHash: []byte("hash")})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(byEmailQ).
		WithArgs(testEmail).
		WillReturnRows(sqlmock.NewRows(splitCols()).AddRow("id-1", testEmail, []byte("hash"), nil, now, now))

	u, err := repo.GetByEmail(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if u.ID != "id-1" || u.Email != testEmail || string(u.PasswordHash) != "hash" || u.Name != "" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQ).WithArgs("x@y.z").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "x@y.z")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(byIDQ).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(splitCols()).AddRow("id-1", testEmail, []byte("hash"), "Alice", now, now))

	u, err := repo.GetByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if u.Name != "Alice" {
		t.Fatalf("want name Alice, got %q", u.Name)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs("id-1").WillReturnError(errors.New("boom"))

	_, err := repo.GetByID(context.Background(), "id-1")
	if err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func splitCols() []string {
	return strings.Split(userCols, ",")
}
