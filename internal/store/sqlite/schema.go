package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Politician roster
CREATE TABLE IF NOT EXISTS politicians (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    first_name TEXT,
    last_name TEXT,
    party TEXT,
    position TEXT,
    constituency TEXT,
    orientation TEXT,
    credibility_score REAL NOT NULL DEFAULT 100
);

-- Promise candidates extracted from sources
CREATE TABLE IF NOT EXISTS promises (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    politician_id TEXT NOT NULL,
    text TEXT NOT NULL,
    confidence REAL NOT NULL,
    category TEXT NOT NULL,
    is_actionable INTEGER NOT NULL DEFAULT 0,
    keywords TEXT,
    source_url TEXT,
    effective_url TEXT,
    usable INTEGER NOT NULL DEFAULT 0,
    authority INTEGER NOT NULL DEFAULT 0,
    sentence INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'pending',
    importance TEXT NOT NULL DEFAULT 'medium'
);

-- Recorded legislative actions
CREATE TABLE IF NOT EXISTS actions (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    politician_id TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    vote_position TEXT,
    bill_title TEXT
);

-- Verification records, unique per promise and action
CREATE TABLE IF NOT EXISTS verifications (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL,
    pair_key TEXT NOT NULL UNIQUE,
    promise_id TEXT NOT NULL REFERENCES promises(id) ON DELETE CASCADE,
    action_id TEXT NOT NULL DEFAULT '',
    match_type TEXT NOT NULL,
    match_confidence REAL NOT NULL CHECK (match_confidence BETWEEN 0 AND 1),
    method TEXT NOT NULL,
    verified_at TEXT,
    explanation TEXT
);

-- Append-only credibility ledger
CREATE TABLE IF NOT EXISTS ledger (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    politician_id TEXT NOT NULL,
    promise_id TEXT,
    previous_score REAL NOT NULL,
    score_delta REAL NOT NULL,
    new_score REAL NOT NULL,
    change_reason TEXT NOT NULL,
    description TEXT NOT NULL,
    sources TEXT,
    confidence REAL NOT NULL,
    timestamp TEXT NOT NULL,
    data TEXT
);

-- Embedding quota counter singleton
CREATE TABLE IF NOT EXISTS embedding_quota (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    month TEXT NOT NULL,
    used INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_promises_politician ON promises(politician_id);
CREATE INDEX IF NOT EXISTS idx_actions_politician ON actions(politician_id);
CREATE INDEX IF NOT EXISTS idx_verifications_promise ON verifications(promise_id);
CREATE INDEX IF NOT EXISTS idx_ledger_politician ON ledger(politician_id);

-- Ledger entries are never edited or deleted
CREATE TRIGGER IF NOT EXISTS ledger_no_update BEFORE UPDATE ON ledger
BEGIN
    SELECT RAISE(ABORT, 'ledger is append-only');
END;
CREATE TRIGGER IF NOT EXISTS ledger_no_delete BEFORE DELETE ON ledger
BEGIN
    SELECT RAISE(ABORT, 'ledger is append-only');
END;
`
