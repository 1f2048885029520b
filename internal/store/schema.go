package store

const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	plan       TEXT NOT NULL,
	result     TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS actuals (
	year         INTEGER NOT NULL,
	month        INTEGER NOT NULL,
	age          INTEGER NOT NULL,
	income       TEXT NOT NULL,
	expenses     TEXT NOT NULL,
	investment   TEXT NOT NULL,
	cash_balance TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (year, month)
);
`
