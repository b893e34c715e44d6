package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	// A local SQLite file has a single writer; one connection serializes the
	// click transactions instead of failing them with SQLITE_BUSY.
	if driverName == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		social_instagram TEXT NOT NULL DEFAULT '',
		social_linkedin TEXT NOT NULL DEFAULT '',
		social_twitter TEXT NOT NULL DEFAULT '',
		social_youtube TEXT NOT NULL DEFAULT '',
		is_verified INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		click_count INTEGER NOT NULL DEFAULT 0 CHECK (click_count >= 0),
		is_active INTEGER NOT NULL DEFAULT 1,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(profile_id) REFERENCES profiles(id)
	);
	CREATE INDEX IF NOT EXISTS idx_links_profile_position ON links(profile_id, position);

	CREATE TABLE IF NOT EXISTS link_clicks (
		id TEXT PRIMARY KEY,
		link_id TEXT NOT NULL,
		profile_id TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT NOT NULL DEFAULT '',
		referer TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_link_clicks_link_id ON link_clicks(link_id);
	`
	if _, err := db.Exec(query); err != nil {
		return err
	}

	// databases created before links carried an icon
	_, err := db.Exec(`ALTER TABLE links ADD COLUMN icon TEXT NOT NULL DEFAULT ''`)
	if err != nil && !strings.Contains(err.Error(), "duplicate column") {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- Profiles ---

const profileColumns = `id, username, display_name, bio, avatar_url, website,
	social_instagram, social_linkedin, social_twitter, social_youtube,
	is_verified, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*domain.Profile, error) {
	var p domain.Profile
	err := s.Scan(
		&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.Website,
		&p.SocialInstagram, &p.SocialLinkedIn, &p.SocialTwitter, &p.SocialYouTube,
		&p.IsVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (` + profileColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.Website,
		p.SocialInstagram, p.SocialLinkedIn, p.SocialTwitter, p.SocialYouTube,
		p.IsVerified, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		if strings.Contains(err.Error(), "username") {
			return domain.ErrUsernameTaken
		}
		return domain.ErrConflict
	}
	return err
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *SQLiteRepository) FindProfilesByUsername(ctx context.Context, username string, limit int) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = ? LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET username = ?, display_name = ?, bio = ?, avatar_url = ?, website = ?,
			  social_instagram = ?, social_linkedin = ?, social_twitter = ?, social_youtube = ?, updated_at = ?
			  WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.Website,
		p.SocialInstagram, p.SocialLinkedIn, p.SocialTwitter, p.SocialYouTube, p.UpdatedAt,
		p.ID,
	)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *SQLiteRepository) DumpProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// --- Links ---

const linkColumns = `id, profile_id, title, url, description, icon, click_count, is_active, position, created_at, updated_at`

func scanLink(s scanner) (*domain.Link, error) {
	var l domain.Link
	err := s.Scan(&l.ID, &l.ProfileID, &l.Title, &l.URL, &l.Description, &l.Icon,
		&l.Clicks, &l.IsActive, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteRepository) queryLinks(ctx context.Context, query string, args ...any) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) CreateLink(ctx context.Context, l *domain.Link) error {
	query := `INSERT INTO links (` + linkColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.ProfileID, l.Title, l.URL, l.Description, l.Icon,
		l.Clicks, l.IsActive, l.Position, l.CreatedAt, l.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *SQLiteRepository) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	l, err := scanLink(r.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (r *SQLiteRepository) GetOwnedLink(ctx context.Context, ownerID, id string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ? AND profile_id = ?`

	l, err := scanLink(r.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (r *SQLiteRepository) ListLinks(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE profile_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	// rowid keeps insertion order among equal positions
	query += ` ORDER BY position ASC, rowid ASC`

	return r.queryLinks(ctx, query, ownerID)
}

func (r *SQLiteRepository) CountLinks(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links WHERE profile_id = ?`, ownerID).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) UpdateLink(ctx context.Context, l *domain.Link) error {
	query := `UPDATE links SET title = ?, url = ?, description = ?, icon = ?, updated_at = ? WHERE id = ? AND profile_id = ?`

	res, err := r.db.ExecContext(ctx, query, l.Title, l.URL, l.Description, l.Icon, l.UpdatedAt, l.ID, l.ProfileID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *SQLiteRepository) ToggleLinkActive(ctx context.Context, ownerID, id string) (bool, error) {
	query := `UPDATE links SET is_active = 1 - is_active, updated_at = ? WHERE id = ? AND profile_id = ?`

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteLink(ctx context.Context, ownerID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = ? AND profile_id = ?`, id, ownerID)
	return err
}

func (r *SQLiteRepository) UpdateLinkPositions(ctx context.Context, ownerID string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i, id := range ids {
		res, err := tx.ExecContext(ctx,
			`UPDATE links SET position = ?, updated_at = ? WHERE id = ? AND profile_id = ?`,
			i, now, id, ownerID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrLinkNotFound
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) DumpLinks(ctx context.Context) ([]domain.Link, error) {
	return r.queryLinks(ctx, `SELECT `+linkColumns+` FROM links ORDER BY profile_id, position ASC, rowid ASC`)
}

// --- Clicks ---

func (r *SQLiteRepository) RecordClick(ctx context.Context, click *domain.ClickEvent) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// 1. Resolve the owner; only active links are countable
	var active bool
	err = tx.QueryRowContext(ctx, `SELECT profile_id, is_active FROM links WHERE id = ?`, click.LinkID).
		Scan(&click.ProfileID, &active)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
		return 0, domain.ErrLinkNotFound
	}
	if err != nil {
		return 0, err
	}

	// 2. Increment Link Clicks Counter (Atomic)
	if _, err := tx.ExecContext(ctx, `UPDATE links SET click_count = click_count + 1 WHERE id = ?`, click.LinkID); err != nil {
		return 0, err
	}

	// 3. Insert Click Event; created_at is assigned by the store
	if click.ID == "" {
		click.ID = uuid.NewString()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO link_clicks (id, link_id, profile_id, user_agent, referer) VALUES (?, ?, ?, ?, ?)`,
		click.ID, click.LinkID, click.ProfileID, click.UserAgent, click.Referrer)
	if err != nil {
		return 0, err
	}

	var clicks int64
	if err := tx.QueryRowContext(ctx, `SELECT click_count FROM links WHERE id = ?`, click.LinkID).Scan(&clicks); err != nil {
		return 0, err
	}

	return clicks, tx.Commit()
}

func (r *SQLiteRepository) GetLinkStats(ctx context.Context, linkID string) (*domain.LinkStats, error) {
	stats := &domain.LinkStats{
		Referrers:   make(map[string]int64),
		DailyClicks: []domain.DailyClick{},
	}

	// Total Clicks
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM link_clicks WHERE link_id = ?`, linkID).Scan(&stats.TotalClicks)
	if err != nil {
		return nil, err
	}

	// Referrers
	rows, err := r.db.QueryContext(ctx, `SELECT referer, COUNT(*) as c FROM link_clicks WHERE link_id = ? GROUP BY referer ORDER BY c DESC LIMIT 10`, linkID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ref string
		var count int64
		if err := rows.Scan(&ref, &count); err != nil {
			rows.Close()
			return nil, err
		}
		if ref == "" {
			ref = "Direct"
		}
		stats.Referrers[ref] = count
	}
	rows.Close()

	// Daily Clicks (Last 30 days with activity)
	rows2, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', created_at) as date, COUNT(*)
		FROM link_clicks
		WHERE link_id = ?
		GROUP BY date
		ORDER BY date DESC
		LIMIT 30`, linkID)
	if err != nil {
		return nil, err
	}
	defer rows2.Close()
	for rows2.Next() {
		var dc domain.DailyClick
		if err := rows2.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		stats.DailyClicks = append(stats.DailyClicks, dc)
	}

	return stats, rows2.Err()
}

// Ensure interface compliance
var (
	_ ports.ProfileRepository = (*SQLiteRepository)(nil)
	_ ports.LinkRepository    = (*SQLiteRepository)(nil)
)
