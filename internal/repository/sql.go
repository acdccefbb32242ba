package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"io/fs"
	_ "modernc.org/sqlite"
	"os"
	"path"
	"path/filepath"
	"rank-service/internal/config"
	"rank-service/internal/repository/model"
	"sort"
	"strings"
	"sync"
	"time"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// listDelimiter separates list values in the players table. Values must not
// contain it.
const listDelimiter = ","

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

type sqlRepository struct {
	dialect dialect
	db      *sql.DB
}

// NewSQLRepository opens the relational backend selected by cfg.Backend and
// applies any pending migrations.
func NewSQLRepository(ctx context.Context, logger *zap.SugaredLogger, wg *sync.WaitGroup, cfg config.StorageConfig) (Repository, error) {
	var driverName, dsn string
	var d dialect

	switch cfg.Backend {
	case config.StorageSQLite:
		d, driverName, dsn = dialectSQLite, "sqlite", cfg.SQLite.Path
		if dsn == "" {
			return nil, errors.New("sqlite storage requires sqlite-path")
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	case config.StoragePostgres:
		d, driverName, dsn = dialectPostgres, "pgx", cfg.Postgres.DSN
		if dsn == "" {
			return nil, errors.New("postgres storage requires postgres-dsn")
		}
	default:
		return nil, fmt.Errorf("unsupported sql backend %q", cfg.Backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d, err)
	}
	if d == dialectSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", d, err)
	}

	repo := &sqlRepository{dialect: d, db: db}
	if err := repo.applyMigrations(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Infow("closing database", "dialect", d)
		if err := db.Close(); err != nil {
			logger.Errorw("failed to close database", "dialect", d, "error", err)
		}
	}()

	logger.Infow("connected to database", "dialect", d)
	return repo, nil
}

func (r *sqlRepository) bind(pos int) string {
	if r.dialect == dialectPostgres {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}

// query rewrites "?" placeholders for the active dialect.
func (r *sqlRepository) query(q string) string {
	if r.dialect != dialectPostgres {
		return q
	}

	var b strings.Builder
	pos := 0
	for _, c := range q {
		if c == '?' {
			pos++
			b.WriteString(r.bind(pos))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *sqlRepository) applyMigrations(ctx context.Context) error {
	create := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan schema migration: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate schema migrations: %w", err)
	}
	rows.Close()

	files, err := fs.Glob(migrationFS, fmt.Sprintf("migrations/%s/*.sql", r.dialect))
	if err != nil {
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		version := path.Base(file)
		if applied[version] {
			continue
		}

		statements, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		err = r.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(statements)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", file, err)
			}
			q := r.query("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)")
			if _, err := tx.ExecContext(ctx, q, version, time.Now().UTC()); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", file, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *sqlRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *sqlRepository) rankExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, r.query("SELECT 1 FROM ranks WHERE name = ?"), name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *sqlRepository) GetAllRanks(ctx context.Context) ([]*model.Rank, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT name, parent, display_template, description, color FROM ranks ORDER BY seq, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make([]*model.Rank, 0)
	byName := make(map[string]*model.Rank)
	for rows.Next() {
		var name string
		var parent, displayTemplate, description, color sql.NullString
		if err := rows.Scan(&name, &parent, &displayTemplate, &description, &color); err != nil {
			return nil, err
		}

		rank := &model.Rank{
			Name:            name,
			Parent:          nullable(parent),
			DisplayTemplate: nullable(displayTemplate),
			Description:     nullable(description),
			Color:           nullable(color),
			Permissions:     []string{},
		}
		ranks = append(ranks, rank)
		byName[name] = rank
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	permRows, err := r.db.QueryContext(ctx, "SELECT rank_name, permission FROM rank_permissions ORDER BY rank_name, permission")
	if err != nil {
		return nil, err
	}
	defer permRows.Close()

	for permRows.Next() {
		var rankName, permission string
		if err := permRows.Scan(&rankName, &permission); err != nil {
			return nil, err
		}
		if rank, ok := byName[rankName]; ok {
			rank.Permissions = append(rank.Permissions, permission)
		}
	}

	return ranks, permRows.Err()
}

func (r *sqlRepository) CreateRank(ctx context.Context, rank *model.Rank) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		exists, err := r.rankExists(ctx, tx, rank.Name)
		if err != nil {
			return err
		}
		if exists {
			return RankAlreadyExistsError
		}

		q := r.query(`INSERT INTO ranks (name, parent, display_template, description, color, seq)
			VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM ranks))`)
		if _, err := tx.ExecContext(ctx, q, rank.Name, rank.Parent, rank.DisplayTemplate, rank.Description, rank.Color); err != nil {
			return err
		}

		for _, permission := range rank.Permissions {
			q := r.query("INSERT INTO rank_permissions (rank_name, permission) VALUES (?, ?)")
			if _, err := tx.ExecContext(ctx, q, rank.Name, permission); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqlRepository) DeleteRank(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		exists, err := r.rankExists(ctx, tx, name)
		if err != nil {
			return err
		}
		if !exists {
			return RankNotFoundError
		}

		if _, err := tx.ExecContext(ctx, r.query("DELETE FROM rank_permissions WHERE rank_name = ?"), name); err != nil {
			return fmt.Errorf("failed to delete rank permissions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, r.query("DELETE FROM ranks WHERE name = ?"), name); err != nil {
			return fmt.Errorf("failed to delete rank: %w", err)
		}
		return nil
	})
}

func (r *sqlRepository) AddRankPermission(ctx context.Context, rank string, permission string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		exists, err := r.rankExists(ctx, tx, rank)
		if err != nil {
			return err
		}
		if !exists {
			return RankNotFoundError
		}

		var one int
		err = tx.QueryRowContext(ctx, r.query("SELECT 1 FROM rank_permissions WHERE rank_name = ? AND permission = ?"), rank, permission).Scan(&one)
		if err == nil {
			return AlreadyHasPermissionError
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		_, err = tx.ExecContext(ctx, r.query("INSERT INTO rank_permissions (rank_name, permission) VALUES (?, ?)"), rank, permission)
		return err
	})
}

func (r *sqlRepository) RemoveRankPermission(ctx context.Context, rank string, permission string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sql.Tx) error {
		exists, err := r.rankExists(ctx, tx, rank)
		if err != nil {
			return err
		}
		if !exists {
			return RankNotFoundError
		}

		result, err := tx.ExecContext(ctx, r.query("DELETE FROM rank_permissions WHERE rank_name = ? AND permission = ?"), rank, permission)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return DoesNotHavePermissionError
		}
		return nil
	})
}

func (r *sqlRepository) GetPlayer(ctx context.Context, name string) (*model.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := r.query("SELECT ranks, permissions, chat_color, tags, display_tags FROM players WHERE name = ?")

	var ranks, permissions, chatColor, tags, displayTags string
	err := r.db.QueryRowContext(ctx, q, name).Scan(&ranks, &permissions, &chatColor, &tags, &displayTags)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, PlayerNotFoundError
	}
	if err != nil {
		return nil, err
	}

	return &model.Player{
		Name:        name,
		Ranks:       splitList(ranks),
		Permissions: splitList(permissions),
		ChatColor:   chatColor,
		Tags:        splitList(tags),
		DisplayTags: splitList(displayTags),
	}, nil
}

func (r *sqlRepository) SavePlayer(ctx context.Context, player *model.Player) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := r.query(`
		INSERT INTO players (name, ranks, permissions, chat_color, tags, display_tags)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			ranks = excluded.ranks,
			permissions = excluded.permissions,
			chat_color = excluded.chat_color,
			tags = excluded.tags,
			display_tags = excluded.display_tags
	`)

	_, err := r.db.ExecContext(ctx, q,
		player.Name,
		joinList(player.Ranks),
		joinList(player.Permissions),
		player.ChatColor,
		joinList(player.Tags),
		joinList(player.DisplayTags),
	)
	return err
}

func (r *sqlRepository) GetPlayerNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT name FROM players ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func joinList(values []string) string {
	return strings.Join(values, listDelimiter)
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, listDelimiter)
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
