package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

// defaults mirrors spec.md §4.3's fallback table: values used when an
// operator hasn't set the key explicitly.
var defaults = map[string]string{
	"max_retries":  "3",
	"backoff_base": "2",
}

// GetConfig returns the stored value for key, falling back to the
// default table, then nil if neither has it.
func (s *Store) GetConfig(key string) (*string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == nil {
		return &value, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get config %s: %w", key, err)
	}
	if d, ok := defaults[key]; ok {
		return &d, nil
	}
	return nil, nil
}

// GetConfigInt parses GetConfig(key) as an integer, defaulting to 0 if
// absent or unparsable.
func (s *Store) GetConfigInt(key string) (int, error) {
	v, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// GetConfigFloat parses GetConfig(key) as a float, defaulting to 0 if
// absent or unparsable. Used for backoff_base, which is conceptually
// an integer base in the spec but read as a float so implementers can
// tune sub-integer backoff curves without a schema change.
func (s *Store) GetConfigFloat(key string) (float64, error) {
	v, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return 0, nil
	}
	return f, nil
}

// SetConfig upserts value by key.
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}
