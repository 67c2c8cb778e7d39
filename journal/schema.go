package journal

const Schema = `
CREATE TABLE IF NOT EXISTS closes (
	trade_id TEXT NOT NULL,
	trade_index INTEGER NOT NULL,
	action TEXT NOT NULL,
	units REAL NOT NULL,
	entry_price REAL NOT NULL,
	close_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	realized_pl REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_closes_trade_id ON closes(trade_id);
CREATE INDEX IF NOT EXISTS idx_closes_close_time ON closes(close_time);

CREATE TABLE IF NOT EXISTS pl (
	time DATETIME NOT NULL,
	price REAL NOT NULL,
	unrealized REAL NOT NULL,
	realized REAL NOT NULL,
	total REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pl_time ON pl(time);
`
