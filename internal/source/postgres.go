package source

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/db"
	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/spec"
)

// PostgresSource serves records from Postgres tables. Like the other
// sources it loads each collection once and filters the cached snapshot in
// process, so predicate semantics are identical across drivers.
type PostgresSource struct {
	pool    db.Pool
	closeFn func()

	mu       sync.Mutex
	sites    []model.Site
	policies []model.Policy
}

// NewPostgres creates a PostgresSource from a connection string.
func NewPostgres(ctx context.Context, connString string) (*PostgresSource, error) {
	pool, err := db.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool creates a PostgresSource over an existing pool.
// The caller keeps ownership of the pool.
func NewPostgresWithPool(pool db.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

const postgresMigration = `
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
	latitude           DOUBLE PRECISION,
	longitude          DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS policies (
	id                 TEXT PRIMARY KEY,
	policy_number      TEXT NOT NULL DEFAULT '',
	policy_type        TEXT NOT NULL DEFAULT '',
	effective_date     TEXT NOT NULL DEFAULT '',
	expiration_date    TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT '',
	endorsement_amount DOUBLE PRECISION,
	address            TEXT NOT NULL DEFAULT '',
	city               TEXT NOT NULL DEFAULT '',
	state              TEXT NOT NULL DEFAULT '',
	postal_code        TEXT NOT NULL DEFAULT '',
	country            TEXT NOT NULL DEFAULT '',
	latitude           DOUBLE PRECISION,
	longitude          DOUBLE PRECISION
)`

// Migrate creates the schema if it does not exist.
func (p *PostgresSource) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close implements Source.
func (p *PostgresSource) Close() error {
	if p.closeFn != nil {
		p.closeFn()
	}
	return nil
}

// ImportSites replaces the sites table contents.
func (p *PostgresSource) ImportSites(ctx context.Context, sites []model.Site) (int, error) {
	if _, err := p.pool.Exec(ctx, `DELETE FROM sites`); err != nil {
		return 0, eris.Wrap(err, "postgres: clear sites")
	}

	for _, site := range sites {
		if site.ID == "" {
			site.ID = uuid.New().String()
		}
		_, err := p.pool.Exec(ctx, `INSERT INTO sites (
			id, name, pollution_class, pollution_type, remediation_status,
			remediation_start, remediation_finish, contaminants,
			address, city, state_province, postal_code, country, latitude, longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			site.ID, site.Name, site.PollutionClass, site.PollutionType,
			site.RemediationStatus, site.RemediationStart, site.RemediationFinish,
			site.Contaminants, site.Address, site.City, site.StateProvince,
			site.PostalCode, site.Country, site.Latitude, site.Longitude,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: insert site %s", site.ID)
		}
	}

	p.mu.Lock()
	p.sites = nil
	p.mu.Unlock()

	zap.L().Info("imported sites", zap.Int("count", len(sites)))
	return len(sites), nil
}

// ImportPolicies replaces the policies table contents.
func (p *PostgresSource) ImportPolicies(ctx context.Context, policies []model.Policy) (int, error) {
	if _, err := p.pool.Exec(ctx, `DELETE FROM policies`); err != nil {
		return 0, eris.Wrap(err, "postgres: clear policies")
	}

	for _, policy := range policies {
		if policy.ID == "" {
			policy.ID = uuid.New().String()
		}
		_, err := p.pool.Exec(ctx, `INSERT INTO policies (
			id, policy_number, policy_type, effective_date, expiration_date,
			status, endorsement_amount, address, city, state, postal_code,
			country, latitude, longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			policy.ID, policy.PolicyNumber, policy.PolicyType,
			policy.EffectiveDate, policy.ExpirationDate, policy.Status,
			policy.EndorsementAmount, policy.Address, policy.City, policy.State,
			policy.PostalCode, policy.Country, policy.Latitude, policy.Longitude,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: insert policy %s", policy.ID)
		}
	}

	p.mu.Lock()
	p.policies = nil
	p.mu.Unlock()

	zap.L().Info("imported policies", zap.Int("count", len(policies)))
	return len(policies), nil
}

// Sites implements Source.
func (p *PostgresSource) Sites(ctx context.Context) ([]model.Site, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sites != nil {
		return p.sites, nil
	}

	rows, err := p.pool.Query(ctx, `SELECT
		id, name, pollution_class, pollution_type, remediation_status,
		remediation_start, remediation_finish, contaminants,
		address, city, state_province, postal_code, country, latitude, longitude
	FROM sites ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query sites")
	}
	defer rows.Close()

	sites := []model.Site{}
	for rows.Next() {
		var site model.Site
		if err := rows.Scan(
			&site.ID, &site.Name, &site.PollutionClass, &site.PollutionType,
			&site.RemediationStatus, &site.RemediationStart, &site.RemediationFinish,
			&site.Contaminants, &site.Address, &site.City, &site.StateProvince,
			&site.PostalCode, &site.Country, &site.Latitude, &site.Longitude,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan site")
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate sites")
	}

	p.sites = sites
	return sites, nil
}

// Policies implements Source.
func (p *PostgresSource) Policies(ctx context.Context) ([]model.Policy, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.policies != nil {
		return p.policies, nil
	}

	rows, err := p.pool.Query(ctx, `SELECT
		id, policy_number, policy_type, effective_date, expiration_date,
		status, endorsement_amount, address, city, state, postal_code,
		country, latitude, longitude
	FROM policies ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query policies")
	}
	defer rows.Close()

	policies := []model.Policy{}
	for rows.Next() {
		var policy model.Policy
		if err := rows.Scan(
			&policy.ID, &policy.PolicyNumber, &policy.PolicyType,
			&policy.EffectiveDate, &policy.ExpirationDate, &policy.Status,
			&policy.EndorsementAmount, &policy.Address, &policy.City, &policy.State,
			&policy.PostalCode, &policy.Country, &policy.Latitude, &policy.Longitude,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan policy")
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate policies")
	}

	p.policies = policies
	return policies, nil
}

// FilterSites implements Source.
func (p *PostgresSource) FilterSites(ctx context.Context, s spec.Spec[model.Site]) ([]model.Site, error) {
	return filterSites(ctx, p, s)
}

// FilterPolicies implements Source.
func (p *PostgresSource) FilterPolicies(ctx context.Context, s spec.Spec[model.Policy]) ([]model.Policy, error) {
	return filterPolicies(ctx, p, s)
}
