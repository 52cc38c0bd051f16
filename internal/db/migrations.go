package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'organization_type') THEN
			CREATE TYPE organization_type AS ENUM ('developer', 'agent');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'organization_status') THEN
			CREATE TYPE organization_status AS ENUM ('pending', 'active', 'suspended');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'lead_status') THEN
			CREATE TYPE lead_status AS ENUM ('new', 'contacted', 'qualified', 'negotiation', 'won', 'lost');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'lead_stage') THEN
			CREATE TYPE lead_stage AS ENUM ('inquiry', 'site_visit', 'proposal', 'negotiation', 'closed');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'unit_status') THEN
			CREATE TYPE unit_status AS ENUM ('available', 'reserved', 'sold', 'blocked');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		type organization_type NOT NULL,
		status organization_status NOT NULL DEFAULT 'pending',
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(64) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		organization_id UUID NOT NULL REFERENCES organizations(id),
		user_id UUID NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		role VARCHAR(32) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_employees_user_id ON employees (user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_employees_organization_id ON employees (organization_id);`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		organization_id UUID NOT NULL REFERENCES organizations(id),
		name VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT,
		status VARCHAR(32) NOT NULL DEFAULT 'active',
		total_units INTEGER NOT NULL DEFAULT 0,
		leads_count BIGINT NOT NULL DEFAULT 0,
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_projects_organization_id ON projects (organization_id);`,
	`CREATE TABLE IF NOT EXISTS units (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		organization_id UUID NOT NULL REFERENCES organizations(id),
		unit_number VARCHAR(64) NOT NULL,
		unit_type VARCHAR(32) NOT NULL,
		floor INTEGER,
		bedrooms INTEGER,
		bathrooms INTEGER,
		area_sqft NUMERIC(12,2),
		price NUMERIC(18,2),
		status unit_status NOT NULL DEFAULT 'available',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_units_project_number ON units (project_id, unit_number);`,
	`CREATE INDEX IF NOT EXISTS idx_units_project_id ON units (project_id);`,
	`CREATE TABLE IF NOT EXISTS leads (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		organization_id UUID NOT NULL REFERENCES organizations(id),
		project_id UUID REFERENCES projects(id),
		unit_id UUID REFERENCES units(id),
		first_name VARCHAR(128) NOT NULL,
		last_name VARCHAR(128) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(64) NOT NULL,
		source VARCHAR(64) NOT NULL DEFAULT 'other',
		status lead_status NOT NULL DEFAULT 'new',
		stage lead_stage NOT NULL DEFAULT 'inquiry',
		budget_min NUMERIC(18,2),
		budget_max NUMERIC(18,2),
		preferred_unit_types TEXT NOT NULL DEFAULT '',
		preferred_location VARCHAR(255),
		requirements TEXT,
		notes TEXT,
		assigned_to UUID,
		next_followup TIMESTAMPTZ,
		last_contacted TIMESTAMPTZ,
		score SMALLINT CHECK (score IS NULL OR (score >= 0 AND score <= 100)),
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_leads_organization_created ON leads (organization_id, created_at DESC, id DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_leads_project_id ON leads (project_id) WHERE project_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_leads_assigned_to ON leads (assigned_to) WHERE assigned_to IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
