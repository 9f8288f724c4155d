package sqldb

import "testing"

func TestRebind(t *testing.T) {
	pg := &Store{dialect: Postgres}
	got := pg.rebind("SELECT * FROM habits WHERE id = ? AND enabled = ?")
	if got != "SELECT * FROM habits WHERE id = $1 AND enabled = $2" {
		t.Errorf("postgres rebind = %q", got)
	}

	lite := &Store{dialect: SQLite}
	q := "SELECT * FROM habits WHERE id = ?"
	if lite.rebind(q) != q {
		t.Errorf("sqlite rebind should be a no-op")
	}
}

func TestLimitClause(t *testing.T) {
	if limitClause(0) != "" {
		t.Error("zero limit should be empty")
	}
	if limitClause(5) != " LIMIT 5" {
		t.Errorf("limitClause(5) = %q", limitClause(5))
	}
}
