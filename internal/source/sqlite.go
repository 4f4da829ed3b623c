package source

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/spec"
)

// SQLiteSource serves records from a SQLite database via modernc.org/sqlite.
// Collections are read once and cached; Import* replace a collection and
// reset its cache.
type SQLiteSource struct {
	db *sql.DB

	mu       sync.Mutex
	sites    []model.Site
	policies []model.Policy
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteSource{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sites (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL DEFAULT '',
	pollution_class    TEXT NOT NULL DEFAULT '',
	pollution_type     TEXT NOT NULL DEFAULT '',
	remediation_status TEXT NOT NULL DEFAULT '',
	remediation_start  TEXT NOT NULL DEFAULT '',
	remediation_finish TEXT NOT NULL DEFAULT '',
	contaminants       TEXT NOT NULL DEFAULT '',
	address            TEXT NOT NULL DEFAULT '',
	city               TEXT NOT NULL DEFAULT '',
	state_province     TEXT NOT NULL DEFAULT '',
	postal_code        TEXT NOT NULL DEFAULT '',
	country            TEXT NOT NULL DEFAULT '',
	latitude           REAL,
	longitude          REAL
);

CREATE TABLE IF NOT EXISTS policies (
	id                 TEXT PRIMARY KEY,
	policy_number      TEXT NOT NULL DEFAULT '',
	policy_type        TEXT NOT NULL DEFAULT '',
	effective_date     TEXT NOT NULL DEFAULT '',
	expiration_date    TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT '',
	endorsement_amount REAL,
	address            TEXT NOT NULL DEFAULT '',
	city               TEXT NOT NULL DEFAULT '',
	state              TEXT NOT NULL DEFAULT '',
	postal_code        TEXT NOT NULL DEFAULT '',
	country            TEXT NOT NULL DEFAULT '',
	latitude           REAL,
	longitude          REAL
);

CREATE INDEX IF NOT EXISTS idx_sites_state ON sites(state_province);
CREATE INDEX IF NOT EXISTS idx_sites_status ON sites(remediation_status);
CREATE INDEX IF NOT EXISTS idx_policies_state ON policies(state);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteSource) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close implements Source.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// ImportSites replaces the sites collection with the given records.
func (s *SQLiteSource) ImportSites(ctx context.Context, sites []model.Site) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin import sites")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM sites`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear sites")
	}

	const q = `INSERT INTO sites (
		id, name, pollution_class, pollution_type, remediation_status,
		remediation_start, remediation_finish, contaminants,
		address, city, state_province, postal_code, country, latitude, longitude
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, site := range sites {
		if site.ID == "" {
			site.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx, q,
			site.ID, site.Name, site.PollutionClass, site.PollutionType,
			site.RemediationStatus, site.RemediationStart, site.RemediationFinish,
			site.Contaminants, site.Address, site.City, site.StateProvince,
			site.PostalCode, site.Country, site.Latitude, site.Longitude,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert site %s", site.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import sites")
	}

	s.mu.Lock()
	s.sites = nil
	s.mu.Unlock()

	zap.L().Info("imported sites", zap.Int("records", len(sites)))
	return len(sites), nil
}

// ImportPolicies replaces the policies collection with the given records.
func (s *SQLiteSource) ImportPolicies(ctx context.Context, policies []model.Policy) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin import policies")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM policies`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear policies")
	}

	const q = `INSERT INTO policies (
		id, policy_number, policy_type, effective_date, expiration_date,
		status, endorsement_amount, address, city, state, postal_code,
		country, latitude, longitude
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, policy := range policies {
		if policy.ID == "" {
			policy.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx, q,
			policy.ID, policy.PolicyNumber, policy.PolicyType,
			policy.EffectiveDate, policy.ExpirationDate, policy.Status,
			policy.EndorsementAmount, policy.Address, policy.City, policy.State,
			policy.PostalCode, policy.Country, policy.Latitude, policy.Longitude,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert policy %s", policy.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import policies")
	}

	s.mu.Lock()
	s.policies = nil
	s.mu.Unlock()

	zap.L().Info("imported policies", zap.Int("records", len(policies)))
	return len(policies), nil
}

// Sites implements Source.
func (s *SQLiteSource) Sites(ctx context.Context) ([]model.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sites != nil {
		return s.sites, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, name, pollution_class, pollution_type, remediation_status,
		remediation_start, remediation_finish, contaminants,
		address, city, state_province, postal_code, country, latitude, longitude
	FROM sites ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query sites")
	}
	defer rows.Close() //nolint:errcheck

	sites := []model.Site{}
	for rows.Next() {
		var site model.Site
		if err := rows.Scan(
			&site.ID, &site.Name, &site.PollutionClass, &site.PollutionType,
			&site.RemediationStatus, &site.RemediationStart, &site.RemediationFinish,
			&site.Contaminants, &site.Address, &site.City, &site.StateProvince,
			&site.PostalCode, &site.Country, &site.Latitude, &site.Longitude,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan site")
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate sites")
	}

	s.sites = sites
	return sites, nil
}

// Policies implements Source.
func (s *SQLiteSource) Policies(ctx context.Context) ([]model.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policies != nil {
		return s.policies, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, policy_number, policy_type, effective_date, expiration_date,
		status, endorsement_amount, address, city, state, postal_code,
		country, latitude, longitude
	FROM policies ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query policies")
	}
	defer rows.Close() //nolint:errcheck

	policies := []model.Policy{}
	for rows.Next() {
		var policy model.Policy
		if err := rows.Scan(
			&policy.ID, &policy.PolicyNumber, &policy.PolicyType,
			&policy.EffectiveDate, &policy.ExpirationDate, &policy.Status,
			&policy.EndorsementAmount, &policy.Address, &policy.City, &policy.State,
			&policy.PostalCode, &policy.Country, &policy.Latitude, &policy.Longitude,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan policy")
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate policies")
	}

	s.policies = policies
	return policies, nil
}

// FilterSites implements Source.
func (s *SQLiteSource) FilterSites(ctx context.Context, sp spec.Spec[model.Site]) ([]model.Site, error) {
	return filterSites(ctx, s, sp)
}

// FilterPolicies implements Source.
func (s *SQLiteSource) FilterPolicies(ctx context.Context, sp spec.Spec[model.Policy]) ([]model.Policy, error) {
	return filterPolicies(ctx, s, sp)
}
