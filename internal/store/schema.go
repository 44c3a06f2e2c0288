package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS chat_exchanges (
    seq                  INTEGER PRIMARY KEY AUTOINCREMENT,
    exchange_id          TEXT NOT NULL UNIQUE,
    question             TEXT NOT NULL,
    response             TEXT NOT NULL,
    asked_at             TEXT NOT NULL
);
`
