package pgutil

import "testing"

func TestParamsFromEnv(t *testing.T) {
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_USER", "")
	t.Setenv("PG_PASS", "hunter2")
	t.Setenv("PG_DB_NAME", "")
	t.Setenv("PG_SSL_MODE", "")

	p := ParamsFromEnv()
	wanted := "host=db.internal port=5432 user=postgres password=hunter2 " +
		"dbname=postgres sslmode=disable"
	if found := p.DSN(); found != wanted {
		t.Fatalf("DSN(): wanted `%s`; found `%s`", wanted, found)
	}
}
