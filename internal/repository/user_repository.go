package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tasklist-api/internal/models"
	"tasklist-api/pkg/database"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("duplicate")
	ErrUsernameTaken = fmt.Errorf("%w: username", ErrDuplicate)
	ErrEmailTaken    = fmt.Errorf("%w: email", ErrDuplicate)
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Uniqueness is left to the database so concurrent
// registrations with the same email cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	query := r.db.Dialect.Rebind(
		"INSERT INTO users (username, email, password) VALUES (?, ?, ?) RETURNING id")

	user := models.User{Username: username, Email: email, PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, query, username, email, passwordHash).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			switch database.ViolatedColumn(err, "users", "username", "email") {
			case "username":
				return models.User{}, ErrUsernameTaken
			case "email":
				return models.User{}, ErrEmailTaken
			default:
				return models.User{}, ErrDuplicate
			}
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := r.db.Dialect.Rebind(
		"SELECT id, username, email, password FROM users WHERE email = ?")
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (models.User, error) {
	query := r.db.Dialect.Rebind(
		"SELECT id, username, email, password FROM users WHERE id = ?")
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanOne(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
