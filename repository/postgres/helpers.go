package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/projectpulse/backend/domain"
)

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// storeError classifies every store failure except a missing row as
// UNAVAILABLE.
func storeError(err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return domain.WrapError(domain.ErrCodeUnavailable, "store unavailable", err)
}

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*domain.User, error) {
	var user domain.User
	var (
		email   *string
		picture *string
		subject *string
	)

	if err := row.Scan(
		&user.UserID,
		&user.Username,
		&email,
		&picture,
		&subject,
		&user.TeamID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError(err)
	}

	if email != nil {
		user.Email = *email
	}
	if picture != nil {
		user.ProfilePictureURL = *picture
	}
	if subject != nil {
		user.SubjectID = *subject
	}
	return &user, nil
}

func scanComment(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Comment, error) {
	var comment domain.Comment
	var (
		author  domain.CommentAuthor
		picture *string
	)

	if err := row.Scan(
		&comment.ID,
		&comment.Text,
		&comment.TaskID,
		&comment.UserID,
		&author.Username,
		&picture,
		&comment.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storeError(err)
	}

	if picture != nil {
		author.ProfilePictureURL = *picture
	}
	comment.User = &author
	return &comment, nil
}
