package executor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedAggregate indicates a JSON aggregate of an unsupported Go type.
var ErrUnexpectedAggregate = errors.New("executor: unexpected aggregate value")

// Row is one decoded record keyed by column name.
type Row = map[string]any

// DecodeRows decodes a JSON array of objects as returned by array_to_json.
// The aggregate may be JSON text or a value a driver already decoded, such as
// []any or []map[string]any. A nil aggregate, which is what PostgreSQL yields
// for zero rows, decodes to nil. Numbers are kept as json.Number.
func DecodeRows(aggregate any) ([]Row, error) {
	var data []byte
	switch v := aggregate.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case []any, []map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedAggregate, err)
		}
		data = b
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedAggregate, aggregate)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rows []Row
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows, nil
}
