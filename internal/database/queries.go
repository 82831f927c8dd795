package database

const querySchema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL CHECK (kind IN ('expense', 'income', 'transfer')),
		amount TEXT NOT NULL,
		wallet TEXT NOT NULL DEFAULT '',
		source_wallet TEXT NOT NULL DEFAULT '',
		dest_wallet TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		tx_date TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_kind_date ON transactions(kind, tx_date);

	CREATE TABLE IF NOT EXISTS subscriptions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		cadence_months INTEGER NOT NULL CHECK (cadence_months >= 1),
		next_charge_at TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS mental_records (
		id TEXT PRIMARY KEY,
		rec_date TEXT NOT NULL,
		mood_level INTEGER NOT NULL CHECK (mood_level BETWEEN 1 AND 5),
		tags TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_mental_records_date ON mental_records(rec_date);

	CREATE TABLE IF NOT EXISTS physical_records (
		id TEXT PRIMARY KEY,
		rec_date TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		duration_min INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_physical_records_date ON physical_records(rec_date);

	CREATE TABLE IF NOT EXISTS price_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		amount TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_price_points_product ON price_points(product);

	CREATE TABLE IF NOT EXISTS alerts_active (
		id TEXT PRIMARY KEY,
		pillar TEXT NOT NULL,
		rule TEXT NOT NULL,
		severity TEXT NOT NULL,
		first_detected_at TEXT NOT NULL,
		last_triggered_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alerts_dismissed (
		id TEXT PRIMARY KEY,
		dismissed_at TEXT NOT NULL
	);`

const (
	// Record queries.
	queryInsertTransaction = `
		INSERT INTO transactions (id, kind, amount, wallet, source_wallet, dest_wallet, description, category, tx_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransactions = `
		SELECT id, kind, amount, wallet, source_wallet, dest_wallet, description, category, tx_date
		FROM transactions
		ORDER BY tx_date DESC, id`

	queryInsertSubscription = `
		INSERT INTO subscriptions (id, name, amount, cadence_months, next_charge_at, active)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetSubscriptions = `
		SELECT id, name, amount, cadence_months, next_charge_at, active
		FROM subscriptions
		ORDER BY name`

	queryInsertMentalRecord = `
		INSERT INTO mental_records (id, rec_date, mood_level, tags)
		VALUES (?, ?, ?, ?)`

	queryGetMentalRecords = `
		SELECT id, rec_date, mood_level, tags
		FROM mental_records
		ORDER BY rec_date DESC, id`

	queryInsertPhysicalRecord = `
		INSERT INTO physical_records (id, rec_date, activity_type, duration_min)
		VALUES (?, ?, ?, ?)`

	queryGetPhysicalRecords = `
		SELECT id, rec_date, activity_type, duration_min
		FROM physical_records
		ORDER BY rec_date DESC, id`

	queryInsertPricePoint = `
		INSERT INTO price_points (product, amount, recorded_at)
		VALUES (?, ?, ?)`

	queryGetPricePoints = `
		SELECT product, amount, recorded_at
		FROM price_points
		ORDER BY product, recorded_at`

	// Alert lifecycle queries.
	queryGetStoredAlert = `
		SELECT id, pillar, rule, severity, first_detected_at, last_triggered_at
		FROM alerts_active
		WHERE id = ?`

	queryUpsertAlert = `
		INSERT INTO alerts_active (id, pillar, rule, severity, first_detected_at, last_triggered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			severity = excluded.severity,
			last_triggered_at = excluded.last_triggered_at`

	queryRemoveAlert = `
		DELETE FROM alerts_active WHERE id = ?`

	queryGetActiveAlerts = `
		SELECT id, pillar, rule, severity, first_detected_at, last_triggered_at
		FROM alerts_active
		ORDER BY id`

	queryUpsertDismissal = `
		INSERT INTO alerts_dismissed (id, dismissed_at)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET dismissed_at = excluded.dismissed_at`

	queryGetDismissal = `
		SELECT dismissed_at FROM alerts_dismissed WHERE id = ?`

	queryPruneAlerts = `
		DELETE FROM alerts_active WHERE first_detected_at < ?`

	queryPruneDismissals = `
		DELETE FROM alerts_dismissed WHERE dismissed_at < ?`
)
