package db

const createTryOnRecordsTable = `
CREATE TABLE IF NOT EXISTS tryon_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    record_id TEXT,
    identity_key TEXT NOT NULL,
    is_favorite INTEGER,
    latest_tryon_date TEXT,
    brand_name TEXT,
    product_name TEXT,
    name TEXT,
    price TEXT,
    currency TEXT,
    product_url TEXT,
    url TEXT,
    domain TEXT,
    total_tryons INTEGER,
    images TEXT,
    cached_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tryon_identity ON tryon_records(identity_key);
`

const createSyncStateTable = `
CREATE TABLE IF NOT EXISTS sync_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    synced_at DATETIME
);
`

const insertTryOnRecord = `
INSERT INTO tryon_records (
    record_id, identity_key, is_favorite, latest_tryon_date,
    brand_name, product_name, name, price, currency,
    product_url, url, domain, total_tryons, images
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const deleteAllTryOnRecords = `
DELETE FROM tryon_records
`

const selectTryOnRecords = `
SELECT record_id, is_favorite, latest_tryon_date,
       brand_name, product_name, name, price, currency,
       product_url, url, domain, total_tryons, images
FROM tryon_records
ORDER BY id ASC
`

const countTryOnRecords = `
SELECT COUNT(*) FROM tryon_records
`

const upsertSyncState = `
INSERT INTO sync_state (id, synced_at) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET synced_at = excluded.synced_at
`

const selectSyncState = `
SELECT synced_at FROM sync_state WHERE id = 1
`
