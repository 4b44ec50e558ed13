package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/pkg/metrics"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists state in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and applies
// pending migrations.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}
	o := defaultSQLiteOptions()
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dsn(path, o))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; readers share the same connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := applyMigrations(ctx, db, migrationFS); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func dsn(path string, o sqliteOptions) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.busyTimeout.Milliseconds()))
	q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", o.journalMode))
	q.Add("_pragma", "foreign_keys(1)")
	return path + "?" + q.Encode()
}

func observe(op string, start time.Time, err *error) {
	metrics.RecordStoreOperation(op, float64(time.Since(start).Microseconds())/1000, *err)
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ReplaceLeague swaps in freshly fetched league data in one transaction.
func (s *SQLiteStore) ReplaceLeague(ctx context.Context, data model.LeagueData) (err error) {
	defer observe("replace_league", time.Now(), &err)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM league_performances`,
			`DELETE FROM meet_matches`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("clear league: %w", err)
			}
		}
		for team, perfs := range data.Performances {
			for i, p := range perfs {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO league_performances (team, seq, match_id, rp, score, surrogate) VALUES (?, ?, ?, ?, ?, ?)`,
					team, i, p.MatchID, p.RankingPoints, p.Score, p.IsSurrogate); err != nil {
					return fmt.Errorf("insert performance %s/%s: %w", team, p.MatchID, err)
				}
			}
		}
		for key, ms := range data.Meets {
			for _, m := range ms {
				red, err := json.Marshal(m.Red)
				if err != nil {
					return err
				}
				blue, err := json.Marshal(m.Blue)
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO meet_matches (meet_key, match_num, red, blue, red_score, blue_score, red_rp, blue_rp)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
					key, m.MatchNum, string(red), string(blue), m.RedScore, m.BlueScore, m.RedRP, m.BlueRP); err != nil {
					return fmt.Errorf("insert meet match %s/%d: %w", key, m.MatchNum, err)
				}
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO league_refresh (id, fetched_at) VALUES (1, ?)
			 ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at`,
			data.FetchedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("stamp refresh: %w", err)
		}
		return nil
	})
}

// League loads performances, meet matches and the last refresh time.
func (s *SQLiteStore) League(ctx context.Context) (data model.LeagueData, err error) {
	defer observe("league", time.Now(), &err)
	data = model.NewLeagueData()

	rows, err := s.db.QueryContext(ctx,
		`SELECT team, match_id, rp, score, surrogate FROM league_performances ORDER BY team, seq`)
	if err != nil {
		return data, fmt.Errorf("query performances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var team string
		var p model.Performance
		if err := rows.Scan(&team, &p.MatchID, &p.RankingPoints, &p.Score, &p.IsSurrogate); err != nil {
			return data, fmt.Errorf("scan performance: %w", err)
		}
		data.Performances[team] = append(data.Performances[team], p)
	}
	if err := rows.Err(); err != nil {
		return data, err
	}

	keys, err := s.meetKeys(ctx)
	if err != nil {
		return data, err
	}
	for _, k := range keys {
		ms, err := s.meetMatches(ctx, k)
		if err != nil {
			return data, err
		}
		data.Meets[k] = ms
	}

	data.FetchedAt, err = s.lastRefresh(ctx)
	return data, err
}

func (s *SQLiteStore) meetKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT meet_key FROM meet_matches ORDER BY meet_key`)
	if err != nil {
		return nil, fmt.Errorf("query meet keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) lastRefresh(ctx context.Context) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT fetched_at FROM league_refresh WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query refresh time: %w", err)
	}
	return time.Parse(time.RFC3339Nano, raw)
}

// MeetMatches returns one meet's structured matches in match number order.
func (s *SQLiteStore) MeetMatches(ctx context.Context, key string) (ms []model.MeetMatch, err error) {
	defer observe("meet_matches", time.Now(), &err)
	return s.meetMatches(ctx, key)
}

func (s *SQLiteStore) meetMatches(ctx context.Context, key string) ([]model.MeetMatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_num, red, blue, red_score, blue_score, red_rp, blue_rp
		 FROM meet_matches WHERE meet_key = ? ORDER BY match_num`, key)
	if err != nil {
		return nil, fmt.Errorf("query meet %s: %w", key, err)
	}
	defer rows.Close()

	out := []model.MeetMatch{}
	for rows.Next() {
		var m model.MeetMatch
		var red, blue string
		if err := rows.Scan(&m.MatchNum, &red, &blue, &m.RedScore, &m.BlueScore, &m.RedRP, &m.BlueRP); err != nil {
			return nil, fmt.Errorf("scan meet match: %w", err)
		}
		if err := json.Unmarshal([]byte(red), &m.Red); err != nil {
			return nil, fmt.Errorf("decode red alliance: %w", err)
		}
		if err := json.Unmarshal([]byte(blue), &m.Blue); err != nil {
			return nil, fmt.Errorf("decode blue alliance: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMatch inserts a tournament match. A repeated id is ErrDuplicateMatch.
func (s *SQLiteStore) AddMatch(ctx context.Context, m model.Match) (err error) {
	defer observe("add_match", time.Now(), &err)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_matches WHERE match_id = ?`, m.ID).Scan(&n); err != nil {
			return fmt.Errorf("check match %s: %w", m.ID, err)
		}
		if n > 0 {
			return ErrDuplicateMatch
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tournament_matches (match_id, r1, r2, b1, b2, rs, bs, rrp, brp) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.Red[0], m.Red[1], m.Blue[0], m.Blue[1], m.RedScore, m.BlueScore, m.RedRP, m.BlueRP)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, err)
		}
		return nil
	})
}

// DeleteMatch removes a tournament match or returns ErrNotFound.
func (s *SQLiteStore) DeleteMatch(ctx context.Context, id string) (err error) {
	defer observe("delete_match", time.Now(), &err)
	res, err := s.db.ExecContext(ctx, `DELETE FROM tournament_matches WHERE match_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Matches lists tournament matches in insertion order.
func (s *SQLiteStore) Matches(ctx context.Context) (out []model.Match, err error) {
	defer observe("matches", time.Now(), &err)
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, r1, r2, b1, b2, rs, bs, rrp, brp FROM tournament_matches ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	out = []model.Match{}
	for rows.Next() {
		m := model.Match{Type: model.MatchTypeTournament}
		if err := rows.Scan(&m.ID, &m.Red[0], &m.Red[1], &m.Blue[0], &m.Blue[1],
			&m.RedScore, &m.BlueScore, &m.RedRP, &m.BlueRP); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ClearMatches deletes every tournament match.
func (s *SQLiteStore) ClearMatches(ctx context.Context) (err error) {
	defer observe("clear_matches", time.Now(), &err)
	if _, err = s.db.ExecContext(ctx, `DELETE FROM tournament_matches`); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	return nil
}

// SetAllianceSelection records the alliance slot a team captains.
func (s *SQLiteStore) SetAllianceSelection(ctx context.Context, team string, slot int) (err error) {
	defer observe("set_alliance_selection", time.Now(), &err)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO alliance_selections (team, slot) VALUES (?, ?)
		 ON CONFLICT(team) DO UPDATE SET slot = excluded.slot`, team, slot)
	return err
}

// AddAward adds award points to a team's running total.
func (s *SQLiteStore) AddAward(ctx context.Context, team string, points int) (err error) {
	defer observe("add_award", time.Now(), &err)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO awards (team, points) VALUES (?, ?)
		 ON CONFLICT(team) DO UPDATE SET points = points + excluded.points`, team, points)
	return err
}

// SetPlayoffResult records a team's playoff points, replacing any earlier value.
func (s *SQLiteStore) SetPlayoffResult(ctx context.Context, team string, points int) (err error) {
	defer observe("set_playoff_result", time.Now(), &err)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO playoff_results (team, points) VALUES (?, ?)
		 ON CONFLICT(team) DO UPDATE SET points = excluded.points`, team, points)
	return err
}

// PointSources reads the alliance, award and playoff tables.
func (s *SQLiteStore) PointSources(ctx context.Context) (src model.PointSources, err error) {
	defer observe("point_sources", time.Now(), &err)
	src = model.NewPointSources()
	for table, dst := range map[string]map[string]int{
		`SELECT team, slot FROM alliance_selections`: src.AllianceSelections,
		`SELECT team, points FROM awards`:            src.Awards,
		`SELECT team, points FROM playoff_results`:   src.PlayoffResults,
	} {
		if err := s.readTeamInts(ctx, table, dst); err != nil {
			return src, err
		}
	}
	return src, nil
}

func (s *SQLiteStore) readTeamInts(ctx context.Context, query string, dst map[string]int) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query point sources: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var team string
		var v int
		if err := rows.Scan(&team, &v); err != nil {
			return fmt.Errorf("scan point source: %w", err)
		}
		dst[team] = v
	}
	return rows.Err()
}

// ResetAdvancement clears point sources and the alliance board.
func (s *SQLiteStore) ResetAdvancement(ctx context.Context) (err error) {
	defer observe("reset_advancement", time.Now(), &err)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM alliance_selections`,
			`DELETE FROM awards`,
			`DELETE FROM playoff_results`,
			`DELETE FROM alliance_board`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("reset advancement: %w", err)
			}
		}
		return nil
	})
}

// AllianceBoard returns the display board with every key present.
func (s *SQLiteStore) AllianceBoard(ctx context.Context) (board model.AllianceBoard, err error) {
	defer observe("alliance_board", time.Now(), &err)
	rows, err := s.db.QueryContext(ctx, `SELECT alliance, captain, pick1, pick2 FROM alliance_board`)
	if err != nil {
		return nil, fmt.Errorf("query alliance board: %w", err)
	}
	defer rows.Close()

	board = model.NewAllianceBoard()
	for rows.Next() {
		var key string
		var a model.AllianceSlots
		if err := rows.Scan(&key, &a.Captain, &a.Pick1, &a.Pick2); err != nil {
			return nil, fmt.Errorf("scan alliance: %w", err)
		}
		board[key] = a
	}
	return board, rows.Err()
}

// SetAllianceBoard replaces the display board.
func (s *SQLiteStore) SetAllianceBoard(ctx context.Context, board model.AllianceBoard) (err error) {
	defer observe("set_alliance_board", time.Now(), &err)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM alliance_board`); err != nil {
			return fmt.Errorf("clear alliance board: %w", err)
		}
		for key, a := range board.Normalize() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO alliance_board (alliance, captain, pick1, pick2) VALUES (?, ?, ?, ?)`,
				key, a.Captain, a.Pick1, a.Pick2); err != nil {
				return fmt.Errorf("insert alliance %s: %w", key, err)
			}
		}
		return nil
	})
}

// Counts reports row counts for stats.
func (s *SQLiteStore) Counts(ctx context.Context) (c Counts, err error) {
	defer observe("counts", time.Now(), &err)
	for query, dst := range map[string]*int{
		`SELECT COUNT(DISTINCT team) FROM league_performances`: &c.LeagueTeams,
		`SELECT COUNT(*) FROM league_performances`:             &c.LeaguePerformances,
		`SELECT COUNT(*) FROM meet_matches`:                    &c.MeetMatches,
		`SELECT COUNT(*) FROM tournament_matches`:              &c.TournamentMatches,
	} {
		if err := s.db.QueryRowContext(ctx, query).Scan(dst); err != nil {
			return c, fmt.Errorf("count: %w", err)
		}
	}
	c.LastRefresh, err = s.lastRefresh(ctx)
	return c, err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
