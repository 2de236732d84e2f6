package txlog

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type PostgresTransactionLogger struct {
	writer
	db *sql.DB
}

type PostgresDBConfig struct {
	Host     string
	DBName   string
	User     string
	Password string
}

func (cf PostgresDBConfig) connString() string {
	return fmt.Sprintf("host=%s dbname=%s user=%s password=%s sslmode=disable",
		cf.Host, cf.DBName, cf.User, cf.Password)
}

func NewPostgresTransactionLogger(cf PostgresDBConfig) (*PostgresTransactionLogger, error) {
	db, err := sql.Open("postgres", cf.connString())
	if err != nil {
		return nil, fmt.Errorf("connect to db failed: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	logger, err := newPostgresTransactionLogger(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return logger, nil
}

func newPostgresTransactionLogger(db *sql.DB) (*PostgresTransactionLogger, error) {
	logger := &PostgresTransactionLogger{db: db}

	if err := logger.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return logger, nil
}

func (p *PostgresTransactionLogger) createTable() error {
	const query = `CREATE TABLE IF NOT EXISTS transactions (
		sequence   BIGSERIAL PRIMARY KEY,
		event_type SMALLINT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL
	)`

	_, err := p.db.Exec(query)
	return err
}

func (p *PostgresTransactionLogger) WriteDelete(key string) {
	p.write(Event{EventType: EventDelete, Key: key})
}

func (p *PostgresTransactionLogger) WritePut(key string, value string) {
	p.write(Event{EventType: EventPut, Key: key, Value: value})
}

func (p *PostgresTransactionLogger) Err() <-chan error {
	return p.err()
}

func (p *PostgresTransactionLogger) ReadEvents() (<-chan Event, <-chan error) {
	outEvent := make(chan Event)
	outError := make(chan error, 1)

	go func() {
		var e Event
		defer close(outEvent)
		defer close(outError)

		query := `SELECT sequence, event_type, key, value FROM transactions ORDER BY sequence`

		rows, err := p.db.Query(query)
		if err != nil {
			outError <- fmt.Errorf("sql query error: %w", err)
			return
		}

		defer rows.Close()

		for rows.Next() {
			err = rows.Scan(&e.Sequence, &e.EventType, &e.Key, &e.Value)
			if err != nil {
				outError <- fmt.Errorf("error reading row: %w", err)
				return
			}
			outEvent <- e
		}

		err = rows.Err()
		if err != nil {
			outError <- fmt.Errorf("transaction log read failure: %w", err)
			return
		}
	}()

	return outEvent, outError
}

func (p *PostgresTransactionLogger) Run() {
	const query = `INSERT INTO transactions (event_type, key, value) VALUES ($1, $2, $3)`

	p.start(func(e Event) error {
		if _, err := p.db.Exec(query, int16(e.EventType), e.Key, e.Value); err != nil {
			return fmt.Errorf("insert %s event for %q: %w", e.EventType, e.Key, err)
		}
		return nil
	})
}

// Close flushes queued events and closes the database handle.
func (p *PostgresTransactionLogger) Close() error {
	p.close()
	return p.db.Close()
}
