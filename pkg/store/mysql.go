// mysql.go — MySQL-backed campaign store. Frame and text geometry persist
// as JSON columns so the schema never needs to track the geometry model
// field by field.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/asejik/dp-generator/pkg/layout"
)

// MySQL persists campaigns in a dp_campaigns table.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL connects with the given DSN and bootstraps the schema.
func OpenMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &MySQL{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *MySQL) Close() error { return s.db.Close() }

func (s *MySQL) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS dp_campaigns (
        id VARCHAR(36) PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        base_image_url TEXT NOT NULL,
        frame JSON NOT NULL,
        text_slot JSON NULL,
        is_active BOOLEAN DEFAULT TRUE,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    )`)
	return err
}

func (s *MySQL) Get(ctx context.Context, id string) (layout.Campaign, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, base_image_url, frame, text_slot, is_active, created_at
        FROM dp_campaigns WHERE id = ?`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return layout.Campaign{}, ErrNotFound
	}
	if err != nil {
		return layout.Campaign{}, fmt.Errorf("get campaign %s: %w", id, err)
	}
	return c, nil
}

func (s *MySQL) Create(ctx context.Context, c layout.Campaign) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	frameJSON, textJSON, err := encodeGeometry(c)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO dp_campaigns
        (id, title, base_image_url, frame, text_slot, is_active)
        VALUES (?, ?, ?, ?, ?, ?)`,
		id, c.Title, c.BaseImageURL, frameJSON, textJSON, c.Active)
	if err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	return id, nil
}

func (s *MySQL) Update(ctx context.Context, id string, c layout.Campaign) error {
	if err := c.Validate(); err != nil {
		return err
	}

	frameJSON, textJSON, err := encodeGeometry(c)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE dp_campaigns
        SET title = ?, base_image_url = ?, frame = ?, text_slot = ?, is_active = ?
        WHERE id = ?`,
		c.Title, c.BaseImageURL, frameJSON, textJSON, c.Active, id)
	if err != nil {
		return fmt.Errorf("update campaign %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySQL) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dp_campaigns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete campaign %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQL) List(ctx context.Context, limit int) ([]layout.Campaign, error) {
	q := `SELECT id, title, base_image_url, frame, text_slot, is_active, created_at
        FROM dp_campaigns ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []layout.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (layout.Campaign, error) {
	var (
		c         layout.Campaign
		frameJSON []byte
		textJSON  sql.NullString
		createdAt sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Title, &c.BaseImageURL, &frameJSON, &textJSON, &c.Active, &createdAt); err != nil {
		return layout.Campaign{}, err
	}
	if err := json.Unmarshal(frameJSON, &c.Frame); err != nil {
		return layout.Campaign{}, fmt.Errorf("decode frame: %w", err)
	}
	if textJSON.Valid && textJSON.String != "" && textJSON.String != "null" {
		var t layout.TextSlot
		if err := json.Unmarshal([]byte(textJSON.String), &t); err != nil {
			return layout.Campaign{}, fmt.Errorf("decode text slot: %w", err)
		}
		c.Text = &t
	}
	if createdAt.Valid {
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt.String); err == nil {
			c.CreatedAt = t
		}
	}
	return c, nil
}

func encodeGeometry(c layout.Campaign) (frameJSON []byte, textJSON any, err error) {
	frameJSON, err = json.Marshal(c.Frame)
	if err != nil {
		return nil, nil, fmt.Errorf("encode frame: %w", err)
	}
	if c.Text != nil {
		b, err := json.Marshal(c.Text)
		if err != nil {
			return nil, nil, fmt.Errorf("encode text slot: %w", err)
		}
		textJSON = string(b)
	}
	return frameJSON, textJSON, nil
}
