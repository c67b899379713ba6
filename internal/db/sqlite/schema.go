package sqlite

// Schema creates every table idempotently. Booleans are 0/1 integers and
// timestamps are unix seconds.
const Schema = `
CREATE TABLE IF NOT EXISTS causes (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS skills (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS addresses (
	id            INTEGER PRIMARY KEY,
	typed_address TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS address_components (
	id         INTEGER PRIMARY KEY,
	address_id INTEGER NOT NULL REFERENCES addresses(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	long_name  TEXT NOT NULL,
	short_name TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS address_components_address ON address_components(address_id);

CREATE TABLE IF NOT EXISTS address_component_types (
	component_id INTEGER NOT NULL REFERENCES address_components(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	name         TEXT NOT NULL,
	PRIMARY KEY (component_id, position)
);

CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	slug       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	user_id    INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	public     INTEGER NOT NULL DEFAULT 0,
	about      TEXT NOT NULL DEFAULT '',
	address_id INTEGER REFERENCES addresses(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS profiles_address ON profiles(address_id);

CREATE TABLE IF NOT EXISTS organizations (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	details     TEXT NOT NULL DEFAULT '',
	highlighted INTEGER NOT NULL DEFAULT 0,
	published   INTEGER NOT NULL DEFAULT 0,
	deleted     INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	address_id  INTEGER REFERENCES addresses(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS organizations_address ON organizations(address_id);

CREATE TABLE IF NOT EXISTS projects (
	id                   INTEGER PRIMARY KEY,
	name                 TEXT NOT NULL,
	slug                 TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL DEFAULT '',
	details              TEXT NOT NULL DEFAULT '',
	highlighted          INTEGER NOT NULL DEFAULT 0,
	published            INTEGER NOT NULL DEFAULT 0,
	deleted              INTEGER NOT NULL DEFAULT 0,
	closed               INTEGER NOT NULL DEFAULT 0,
	can_be_done_remotely INTEGER NOT NULL DEFAULT 0,
	created_at           INTEGER NOT NULL,
	organization_id      INTEGER REFERENCES organizations(id) ON DELETE SET NULL,
	owner_id             INTEGER REFERENCES users(id) ON DELETE SET NULL,
	address_id           INTEGER REFERENCES addresses(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS projects_address ON projects(address_id);

CREATE TABLE IF NOT EXISTS project_causes (
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	cause_id   INTEGER NOT NULL REFERENCES causes(id) ON DELETE CASCADE,
	PRIMARY KEY (project_id, cause_id)
);

CREATE TABLE IF NOT EXISTS project_skills (
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	skill_id   INTEGER NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
	PRIMARY KEY (project_id, skill_id)
);

CREATE TABLE IF NOT EXISTS organization_causes (
	organization_id INTEGER NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	cause_id        INTEGER NOT NULL REFERENCES causes(id) ON DELETE CASCADE,
	PRIMARY KEY (organization_id, cause_id)
);

CREATE TABLE IF NOT EXISTS profile_causes (
	user_id  INTEGER NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
	cause_id INTEGER NOT NULL REFERENCES causes(id) ON DELETE CASCADE,
	PRIMARY KEY (user_id, cause_id)
);

CREATE TABLE IF NOT EXISTS profile_skills (
	user_id  INTEGER NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
	skill_id INTEGER NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
	PRIMARY KEY (user_id, skill_id)
);
`
