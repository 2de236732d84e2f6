package txlog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type FileTransactionLogger struct {
	writer
	// The last used event sequence number
	lastSequence uint64
	file         *os.File
}

func NewFileTransactionLogger(filename string) (*FileTransactionLogger, error) {
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open transaction log file: %w", err)
	}

	return &FileTransactionLogger{file: file}, nil
}

func (l *FileTransactionLogger) WriteDelete(key string) {
	l.write(Event{EventType: EventDelete, Key: key})
}

func (l *FileTransactionLogger) WritePut(key string, value string) {
	l.write(Event{EventType: EventPut, Key: key, Value: value})
}

func (l *FileTransactionLogger) Err() <-chan error {
	return l.err()
}

func (l *FileTransactionLogger) Run() {
	l.start(func(e Event) error {
		l.lastSequence++
		if _, err := fmt.Fprintf(l.file, "%s\n", formatLine(l.lastSequence, e)); err != nil {
			return fmt.Errorf("write event %d: %w", l.lastSequence, err)
		}
		return nil
	})
}

// Close stops the writer after it has flushed every queued event.
func (l *FileTransactionLogger) Close() error {
	l.close()
	return l.file.Close()
}

func (l *FileTransactionLogger) ReadEvents() (<-chan Event, <-chan error) {
	scanner := bufio.NewScanner(l.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	outEvent := make(chan Event)
	outError := make(chan error, 1)

	go func() {
		defer close(outEvent)
		defer close(outError)

		for scanner.Scan() {
			e, err := parseLine(scanner.Text())
			if err != nil {
				outError <- fmt.Errorf("input parse error: %w", err)
				return
			}

			if l.lastSequence >= e.Sequence {
				outError <- fmt.Errorf("transaction number out of sequence")
				return
			}

			l.lastSequence = e.Sequence

			outEvent <- e
		}

		if err := scanner.Err(); err != nil {
			outError <- fmt.Errorf("transaction log read failure: %w", err)
			return
		}
	}()

	return outEvent, outError
}

// Lines are "seq\ttype\tkey\tvalue" with key and value Go-quoted so that
// tabs and newlines inside stored values survive the round trip.
func formatLine(seq uint64, e Event) string {
	return fmt.Sprintf("%d\t%d\t%s\t%s", seq, e.EventType, strconv.Quote(e.Key), strconv.Quote(e.Value))
}

func parseLine(line string) (Event, error) {
	var e Event

	fields := strings.SplitN(line, "\t", 4)
	if len(fields) != 4 {
		return e, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	seq, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return e, fmt.Errorf("sequence: %w", err)
	}
	typ, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return e, fmt.Errorf("event type: %w", err)
	}
	key, err := strconv.Unquote(fields[2])
	if err != nil {
		return e, fmt.Errorf("key: %w", err)
	}
	value, err := strconv.Unquote(fields[3])
	if err != nil {
		return e, fmt.Errorf("value: %w", err)
	}

	e.Sequence = seq
	e.EventType = EventType(typ)
	e.Key = key
	e.Value = value
	return e, nil
}
