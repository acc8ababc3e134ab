package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const requestColumns = `r.id, r.user_id, r.type, r.trigedasleng, r.translation, r.classification,
	r.etymology, r.source, r.status, r.approved_by, r.approved_at, r.dictionary_type, r.created_at,
	COALESCE((SELECT SUM(v.value) FROM votes v WHERE v.request_id = r.id), 0)`

// InsertWordRequest stores a new pending request and returns its id.
func InsertWordRequest(db DBExecutor, r WordRequest) (string, error) {
	id := uuid.NewString()
	if r.Status == "" {
		r.Status = "pending"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(`INSERT INTO word_requests
		(id, user_id, type, trigedasleng, translation, classification, etymology, source, status, dictionary_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.UserID, r.Type, r.Trigedasleng, r.Translation, r.Classification, r.Etymology, r.Source,
		r.Status, r.DictionaryType, r.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert word request: %w", err)
	}
	return id, nil
}

// GetWordRequest loads one request with its score.
func GetWordRequest(db DBExecutor, id string) (WordRequest, error) {
	rows, err := db.Query(`SELECT `+requestColumns+` FROM word_requests r WHERE r.id = ?`, id)
	if err != nil {
		return WordRequest{}, err
	}
	out, err := scanRequests(rows)
	if err != nil {
		return WordRequest{}, err
	}
	if len(out) == 0 {
		return WordRequest{}, ErrNotFound
	}
	return out[0], nil
}

// ListWordRequests loads every request, newest first.
func ListWordRequests(db DBExecutor) ([]WordRequest, error) {
	rows, err := db.Query(`SELECT ` + requestColumns + ` FROM word_requests r ORDER BY r.created_at DESC, r.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query word requests: %w", err)
	}
	return scanRequests(rows)
}

func scanRequests(rows *sql.Rows) ([]WordRequest, error) {
	defer rows.Close()
	var out []WordRequest
	for rows.Next() {
		var r WordRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.Type, &r.Trigedasleng, &r.Translation, &r.Classification,
			&r.Etymology, &r.Source, &r.Status, &r.ApprovedBy, &r.ApprovedAt, &r.DictionaryType, &r.CreatedAt,
			&r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteWordRequest removes a request together with its votes and comments.
func DeleteWordRequest(db DBExecutor, id string) error {
	if _, err := db.Exec(`DELETE FROM votes WHERE request_id = ?`, id); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM comments WHERE request_id = ?`, id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	res, err := db.Exec(`DELETE FROM word_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete word request: %w", err)
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

// MarkRequestApproved records the approver, the dictionary type chosen and the approval time.
func MarkRequestApproved(db DBExecutor, id, approver, dictionaryType string, at time.Time) error {
	_, err := db.Exec(`UPDATE word_requests SET status = 'approved', approved_by = ?, approved_at = ?,
		dictionary_type = ? WHERE id = ?`, approver, at, dictionaryType, id)
	return err
}

// FindVote returns the vote a user cast on a request.
func FindVote(db DBExecutor, userID, requestID string) (Vote, error) {
	v := Vote{UserID: userID, RequestID: requestID}
	err := db.QueryRow(`SELECT id, value FROM votes WHERE user_id = ? AND request_id = ?`, userID, requestID).
		Scan(&v.ID, &v.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return Vote{}, ErrNotFound
	}
	return v, err
}

// InsertVote stores a new vote.
func InsertVote(db DBExecutor, userID, requestID string, value int) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO votes (id, user_id, request_id, value) VALUES (?, ?, ?, ?)`,
		id, userID, requestID, value)
	return id, err
}

// UpdateVote changes the value of an existing vote.
func UpdateVote(db DBExecutor, id string, value int) error {
	_, err := db.Exec(`UPDATE votes SET value = ? WHERE id = ?`, value, id)
	return err
}

// DeleteVote removes a vote.
func DeleteVote(db DBExecutor, id string) error {
	_, err := db.Exec(`DELETE FROM votes WHERE id = ?`, id)
	return err
}

// InsertComment stores a comment on a request.
func InsertComment(db DBExecutor, c Comment) (string, error) {
	id := uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(`INSERT INTO comments (id, user_id, request_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, c.UserID, c.RequestID, c.Content, c.CreatedAt)
	return id, err
}

// ListComments loads the comments on a request, oldest first.
func ListComments(db DBExecutor, requestID string) ([]Comment, error) {
	rows, err := db.Query(`SELECT id, user_id, request_id, content, created_at FROM comments
		WHERE request_id = ? ORDER BY created_at, rowid`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.RequestID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
