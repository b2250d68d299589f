package storage

// Content tables carry a content_hash so seeded entries are inserted once,
// and a source_id naming the source they were synced from (NULL for the
// embedded deck and for user-added words).

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    last_scanned DATETIME
);

CREATE TABLE IF NOT EXISTS words (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dutch TEXT NOT NULL,
    translation TEXT NOT NULL,
    translation_ru TEXT NOT NULL DEFAULT '',
    translation_en TEXT NOT NULL DEFAULT '',
    translation_uk TEXT NOT NULL DEFAULT '',
    level TEXT NOT NULL DEFAULT 'Custom',
    is_user_added BOOLEAN NOT NULL DEFAULT FALSE,
    is_learned BOOLEAN NOT NULL DEFAULT FALSE,
    known_count INTEGER NOT NULL DEFAULT 0,
    wrong_count INTEGER NOT NULL DEFAULT 0,
    repeat_known_count INTEGER NOT NULL DEFAULT 0,
    in_repeat_list BOOLEAN NOT NULL DEFAULT FALSE,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS rules (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    explanation TEXT NOT NULL,
    title_en TEXT NOT NULL DEFAULT '',
    explanation_en TEXT NOT NULL DEFAULT '',
    title_uk TEXT NOT NULL DEFAULT '',
    explanation_uk TEXT NOT NULL DEFAULT '',
    difficulty TEXT NOT NULL,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS verbs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    infinitive TEXT NOT NULL,
    past_singular TEXT NOT NULL,
    past_participle TEXT NOT NULL,
    translation TEXT NOT NULL,
    example TEXT NOT NULL,
    is_learned BOOLEAN NOT NULL DEFAULT FALSE,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS context_sentences (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dutch TEXT NOT NULL,
    dutch_lower TEXT NOT NULL,
    english TEXT NOT NULL,
    level TEXT,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    nickname TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sources (
    id SERIAL PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    last_scanned TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS words (
    id SERIAL PRIMARY KEY,
    dutch TEXT NOT NULL,
    translation TEXT NOT NULL,
    translation_ru TEXT NOT NULL DEFAULT '',
    translation_en TEXT NOT NULL DEFAULT '',
    translation_uk TEXT NOT NULL DEFAULT '',
    level TEXT NOT NULL DEFAULT 'Custom',
    is_user_added BOOLEAN NOT NULL DEFAULT FALSE,
    is_learned BOOLEAN NOT NULL DEFAULT FALSE,
    known_count INTEGER NOT NULL DEFAULT 0,
    wrong_count INTEGER NOT NULL DEFAULT 0,
    repeat_known_count INTEGER NOT NULL DEFAULT 0,
    in_repeat_list BOOLEAN NOT NULL DEFAULT FALSE,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS rules (
    id SERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    explanation TEXT NOT NULL,
    title_en TEXT NOT NULL DEFAULT '',
    explanation_en TEXT NOT NULL DEFAULT '',
    title_uk TEXT NOT NULL DEFAULT '',
    explanation_uk TEXT NOT NULL DEFAULT '',
    difficulty TEXT NOT NULL,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS verbs (
    id SERIAL PRIMARY KEY,
    infinitive TEXT NOT NULL,
    past_singular TEXT NOT NULL,
    past_participle TEXT NOT NULL,
    translation TEXT NOT NULL,
    example TEXT NOT NULL,
    is_learned BOOLEAN NOT NULL DEFAULT FALSE,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS context_sentences (
    id SERIAL PRIMARY KEY,
    dutch TEXT NOT NULL,
    dutch_lower TEXT NOT NULL,
    english TEXT NOT NULL,
    level TEXT,
    content_hash TEXT UNIQUE,
    source_id INTEGER REFERENCES sources(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    nickname TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
