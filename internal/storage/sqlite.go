package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MiraclePlan/miracleplan-backend/internal/domain"

	"github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			hashed_password TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (owner_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			creator_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (creator_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (group_id, user_id),
			FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_end_date ON todos(end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// === Users ===

func (s *Storage) CreateUser(u *domain.User) error {
	res, err := s.db.Exec(
		`INSERT INTO users (username, hashed_password) VALUES (?, ?)`,
		u.Username, u.HashedPassword,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", u.Username, domain.ErrConflict)
		}
		return err
	}
	id, _ := res.LastInsertId()
	u.ID = id
	u.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetUserByID(id int64) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(
		`SELECT id, username, hashed_password, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Username, &u.HashedPassword, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (s *Storage) GetUserByUsername(username string) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(
		`SELECT id, username, hashed_password, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.HashedPassword, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// === Todos ===

func (s *Storage) CreateTodo(t *domain.Todo) error {
	res, err := s.db.Exec(
		`INSERT INTO todos (owner_id, title, start_date, end_date, completed) VALUES (?, ?, ?, ?, ?)`,
		t.OwnerID, t.Title, t.StartDate, t.EndDate, t.Completed,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	t.ID = id
	t.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetTodo(id int64) (*domain.Todo, error) {
	t := &domain.Todo{}
	err := s.db.QueryRow(
		`SELECT id, owner_id, title, start_date, end_date, completed, created_at FROM todos WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.StartDate, &t.EndDate, &t.Completed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (s *Storage) ListTodosByOwner(ownerID int64) ([]*domain.Todo, error) {
	return s.queryTodos(
		`SELECT id, owner_id, title, start_date, end_date, completed, created_at
		 FROM todos WHERE owner_id = ? ORDER BY start_date, id`,
		ownerID,
	)
}

func (s *Storage) ListCompletedTodosByOwner(ownerID int64) ([]*domain.Todo, error) {
	return s.queryTodos(
		`SELECT id, owner_id, title, start_date, end_date, completed, created_at
		 FROM todos WHERE owner_id = ? AND completed = 1 ORDER BY start_date, id`,
		ownerID,
	)
}

func (s *Storage) queryTodos(query string, args ...any) ([]*domain.Todo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []*domain.Todo
	for rows.Next() {
		t := &domain.Todo{}
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.StartDate, &t.EndDate, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (s *Storage) SetTodoCompleted(id int64, completed bool) error {
	_, err := s.db.Exec(`UPDATE todos SET completed = ? WHERE id = ?`, completed, id)
	return err
}

func (s *Storage) DeleteTodo(id int64) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id)
	return err
}

// ResetAllCompleted clears the completed flag on every todo and returns
// the number of rows that actually flipped.
func (s *Storage) ResetAllCompleted() (int64, error) {
	res, err := s.db.Exec(`UPDATE todos SET completed = 0 WHERE completed = 1`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PurgeExpired deletes every todo whose end date is strictly before today.
func (s *Storage) PurgeExpired(today domain.Date) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM todos WHERE end_date < ?`, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// === Groups ===

// CreateGroup inserts the group and its creator's membership row in one
// transaction, so a group can never exist without its creator as member.
func (s *Storage) CreateGroup(g *domain.Group) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO groups (name, creator_id) VALUES (?, ?)`,
		g.Name, g.CreatorID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("group %q: %w", g.Name, domain.ErrConflict)
		}
		return err
	}
	id, _ := res.LastInsertId()

	if _, err := tx.Exec(
		`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`,
		id, g.CreatorID,
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	g.ID = id
	g.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetGroup(id int64) (*domain.Group, error) {
	g := &domain.Group{}
	err := s.db.QueryRow(
		`SELECT id, name, creator_id, created_at FROM groups WHERE id = ?`,
		id,
	).Scan(&g.ID, &g.Name, &g.CreatorID, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (s *Storage) DeleteGroup(id int64) error {
	_, err := s.db.Exec(`DELETE FROM groups WHERE id = ?`, id)
	return err
}

func (s *Storage) AddMember(groupID, userID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`,
		groupID, userID,
	)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("membership: %w", domain.ErrConflict)
	}
	return err
}

// RemoveMember deletes a membership row and reports whether one existed.
func (s *Storage) RemoveMember(groupID, userID int64) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Storage) ListGroupMembers(groupID int64) ([]*domain.User, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.username, u.hashed_password, u.created_at
		 FROM users u
		 JOIN group_members m ON m.user_id = u.id
		 WHERE m.group_id = ?
		 ORDER BY m.joined_at, u.id`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Storage) ListJoinedGroups(userID int64) ([]*domain.Group, error) {
	return s.queryGroups(
		`SELECT g.id, g.name, g.creator_id, g.created_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.id`,
		userID,
	)
}

func (s *Storage) ListNotJoinedGroups(userID int64) ([]*domain.Group, error) {
	return s.queryGroups(
		`SELECT g.id, g.name, g.creator_id, g.created_at
		 FROM groups g
		 WHERE g.id NOT IN (SELECT group_id FROM group_members WHERE user_id = ?)
		 ORDER BY g.id`,
		userID,
	)
}

func (s *Storage) queryGroups(query string, args ...any) ([]*domain.Group, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		g := &domain.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatorID, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
