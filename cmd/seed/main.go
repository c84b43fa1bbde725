// seed crea el esquema de la base de datos y un usuario demo por rol.
//
// Uso: go run ./cmd/seed
// Lee la conexión de las mismas env vars que el servidor (DATABASE_URL etc.).
// Idempotente: el esquema usa IF NOT EXISTS y los usuarios ON CONFLICT DO NOTHING.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/russellmoss/dashboard-api/internal/infrastructure/postgres"
	"github.com/russellmoss/dashboard-api/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               UUID PRIMARY KEY,
	email            TEXT NOT NULL UNIQUE,
	password_hash    TEXT NOT NULL,
	name             TEXT NOT NULL,
	role             TEXT NOT NULL,
	sga_filter       TEXT NOT NULL DEFAULT '',
	sgm_filter       TEXT NOT NULL DEFAULT '',
	recruiter_filter TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'active',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS goals (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL REFERENCES users(id),
	goal_type    TEXT NOT NULL,
	period       TEXT NOT NULL,
	target_value NUMERIC(18,2) NOT NULL,
	actual_value NUMERIC(18,2) NOT NULL DEFAULT 0,
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);
CREATE INDEX IF NOT EXISTS idx_goals_period ON goals(period);

CREATE TABLE IF NOT EXISTS requests (
	id           UUID PRIMARY KEY,
	requester_id UUID NOT NULL REFERENCES users(id),
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'open',
	assignee_id  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_requests_requester ON requests(requester_id);
CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);

CREATE TABLE IF NOT EXISTS game_scores (
	id          UUID PRIMARY KEY,
	user_id     UUID NOT NULL REFERENCES users(id),
	player_name TEXT NOT NULL,
	score       INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_game_scores_player ON game_scores(player_name);

CREATE TABLE IF NOT EXISTS refresh_runs (
	id              UUID PRIMARY KEY,
	pipeline_run_id TEXT NOT NULL DEFAULT '',
	triggered_by    TEXT NOT NULL,
	state           TEXT NOT NULL,
	triggered_at    TIMESTAMPTZ NOT NULL,
	completed_at    TIMESTAMPTZ,
	cooldown_until  TIMESTAMPTZ NOT NULL,
	failure_reason  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_refresh_runs_triggered ON refresh_runs(triggered_at DESC);

CREATE TABLE IF NOT EXISTS refresh_cooldown (
	id             INTEGER PRIMARY KEY,
	cooldown_until TIMESTAMPTZ NOT NULL
);
`

// demo usuarios de arranque, uno por rol. Los que exigen filtro personal lo
// llevan puesto.
var demo = []struct {
	email, name, role                   string
	sgaFilter, sgmFilter, recruiterFlt  string
}{
	{email: "admin@example.com", name: "Admin Demo", role: "admin"},
	{email: "manager@example.com", name: "Manager Demo", role: "manager"},
	{email: "sgm@example.com", name: "Casey Morgan", role: "sgm", sgmFilter: "Casey Morgan"},
	{email: "sga@example.com", name: "Jane Doe", role: "sga", sgaFilter: "Jane Doe"},
	{email: "revops@example.com", name: "RevOps Demo", role: "revops_admin"},
	{email: "recruiter@example.com", name: "Alex Reed", role: "recruiter", recruiterFlt: "Alex Reed"},
	{email: "partner@example.com", name: "Capital Partner Demo", role: "capital_partner"},
	{email: "viewer@example.com", name: "Viewer Demo", role: "viewer"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		fmt.Fprintf(os.Stderr, "crear esquema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("esquema creado")

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashear password: %v\n", err)
		os.Exit(1)
	}

	for _, u := range demo {
		tag, err := pool.Exec(ctx, `
			INSERT INTO users (id, email, password_hash, name, role, sga_filter, sgm_filter, recruiter_filter, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')
			ON CONFLICT (email) DO NOTHING`,
			uuid.New().String(), u.email, string(hash), u.name, u.role,
			u.sgaFilter, u.sgmFilter, u.recruiterFlt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "insertar %s: %v\n", u.email, err)
			os.Exit(1)
		}
		if tag.RowsAffected() > 0 {
			fmt.Printf("usuario %s (%s) creado\n", u.email, u.role)
		}
	}
	fmt.Println("seed completado")
}
