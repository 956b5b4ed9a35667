package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"session_auth/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAuditSQLite_Append_WithDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewAuditSQLite(db)

	// id and timestamp are generated; the type is normalized and empty reason becomes NULL.
	mock.ExpectExec(regexp.QuoteMeta(insertAuthEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.EventSignIn, "johndoe@gmail.com", 1, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(context.Background(), models.AuthEvent{
		Type:   "  sign_in ",
		Email:  "johndoe@gmail.com",
		UserID: 1,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditSQLite_Append_KeepsSubSecondTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	at := time.Date(2025, 8, 1, 12, 0, 0, 200_000_000, time.FixedZone("UTC+2", 2*3600))
	mock.ExpectExec(regexp.QuoteMeta(insertAuthEventSQL)).
		WithArgs("e1", "2025-08-01 10:00:00.200000000", models.EventSignIn, "a@x.io", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewAuditSQLite(db).Append(context.Background(), models.AuthEvent{
		EventID: "e1", OccurredAt: at, Type: models.EventSignIn, Email: "a@x.io",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditSQLite_Append_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(insertAuthEventSQL)).
		WillReturnError(errors.New("readonly database"))

	err = NewAuditSQLite(db).Append(context.Background(), models.AuthEvent{Type: models.EventSignInFailed})
	if err == nil || !strings.Contains(err.Error(), "insert auth event") {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
}

func TestAuditSQLite_List_BuildsFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "email", "user_id", "reason"}).
		AddRow("e1", "2025-08-01 10:00:00", "SIGN_IN_FAILED", "x@y.z", nil, "user not found").
		AddRow("e2", "2025-08-01 11:00:00.250000000", "SIGN_IN_FAILED", "johndoe@gmail.com", 1, "invalid password")

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, occurred_at, type, email, user_id, reason FROM auth_events WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC`,
	)).
		WithArgs("2025-08-01 00:00:00.000000000", "2025-08-02 00:00:00.000000000", "SIGN_IN_FAILED").
		WillReturnRows(rows)

	got, err := NewAuditSQLite(db).List(context.Background(), from, to, "sign_in_failed")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].UserID != 0 || got[0].Reason != "user not found" {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if got[1].UserID != 1 || !got[1].OccurredAt.Equal(time.Date(2025, 8, 1, 11, 0, 0, 250_000_000, time.UTC)) {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditSQLite_List_NoFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, occurred_at, type, email, user_id, reason FROM auth_events ORDER BY occurred_at ASC`,
	)).WillReturnError(errors.New("boom"))

	if _, err := NewAuditSQLite(db).List(context.Background(), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected query error")
	}
}

func TestAuditMemory_FiltersAndOrders(t *testing.T) {
	repo := NewAuditMemory()
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	for _, ev := range []models.AuthEvent{
		{Type: models.EventSignIn, Email: "a", OccurredAt: base.Add(2 * time.Hour)},
		{Type: models.EventSignInFailed, Email: "b", OccurredAt: base},
		{Type: "sign_in", Email: "c", OccurredAt: base.Add(time.Hour)},
	} {
		if err := repo.Append(ctx, ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, _ := repo.List(ctx, time.Time{}, time.Time{}, "")
	if len(all) != 3 || all[0].Email != "b" || all[1].Email != "c" || all[2].Email != "a" {
		t.Fatalf("unexpected order: %+v", all)
	}
	for _, ev := range all {
		if ev.EventID == "" {
			t.Fatalf("expected generated event id: %+v", ev)
		}
	}

	signIns, _ := repo.List(ctx, base.Add(time.Hour), base.Add(2*time.Hour), "SIGN_IN")
	if len(signIns) != 2 {
		t.Fatalf("expected 2 SIGN_IN events in range, got %d", len(signIns))
	}
}
