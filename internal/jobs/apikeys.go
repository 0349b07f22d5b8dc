package jobs

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyPrefix is the prefix of every issued raw API key.
const KeyPrefix = "lk_live_"

// HashKey returns the hex SHA-256 of a raw API key.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// CreateKey stores a new API key and returns the record together with the raw
// key. The raw key is not recoverable afterwards.
func (s *Store) CreateKey(ctx context.Context, name string, scopes []string) (*APIKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", errors.New("key name is required")
	}
	if scopes == nil {
		scopes = []string{}
	}
	scopesJSON, err := json.Marshal(scopes)
	if err != nil {
		return nil, "", fmt.Errorf("marshal scopes: %w", err)
	}

	raw := KeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	key := &APIKey{
		ID:        uuid.NewString(),
		Name:      name,
		KeyHash:   HashKey(raw),
		Scopes:    scopes,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO api_keys (id, name, key_hash, scopes_json, revoked, created_at)
         VALUES (?, ?, ?, ?, 0, ?)`,
		key.ID,
		key.Name,
		key.KeyHash,
		string(scopesJSON),
		key.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, "", fmt.Errorf("insert api key: %w", err)
	}

	return key, raw, nil
}

// ListKeys returns all stored keys, newest first.
func (s *Store) ListKeys(ctx context.Context) ([]*APIKey, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, name, key_hash, scopes_json, revoked, created_at FROM api_keys ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*APIKey
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DeleteKey removes a key by identifier. Returns false when no key matched.
func (s *Store) DeleteKey(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete api key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete rows affected: %w", err)
	}
	return affected > 0, nil
}

// VerifyKey reports whether a raw key matches a stored, non-revoked key.
func (s *Store) VerifyKey(ctx context.Context, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM api_keys WHERE key_hash = ? AND revoked = 0`,
		HashKey(raw),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("verify api key: %w", err)
	}
	return count > 0, nil
}

func scanKey(scanner interface{ Scan(dest ...any) error }) (*APIKey, error) {
	var (
		id         string
		name       string
		keyHash    string
		scopesJSON sql.NullString
		revoked    sql.NullInt64
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &name, &keyHash, &scopesJSON, &revoked, &createdRaw); err != nil {
		return nil, err
	}

	key := &APIKey{ID: id, Name: name, KeyHash: keyHash, Scopes: []string{}}
	if scopesJSON.Valid && scopesJSON.String != "" {
		if err := json.Unmarshal([]byte(scopesJSON.String), &key.Scopes); err != nil {
			return nil, fmt.Errorf("decode scopes for key %s: %w", id, err)
		}
	}
	if revoked.Valid {
		key.Revoked = revoked.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		key.CreatedAt = created
	}
	return key, nil
}
