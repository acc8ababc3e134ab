// Package community implements the word request workflow: users propose
// words, vote and comment on proposals, and approvers turn them into
// dictionary entries.
package community

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/logging"
)

var (
	// ErrInvalidRequest is returned for a request missing a required field
	// or naming an unknown classification.
	ErrInvalidRequest = errors.New("invalid word request")
	// ErrInvalidVote is returned for a vote other than +1 or -1.
	ErrInvalidVote = errors.New("vote must be +1 or -1")
	// ErrEmptyComment is returned for a comment without content.
	ErrEmptyComment = errors.New("comment content is required")
	// ErrAlreadyApproved is returned when approving a request twice.
	ErrAlreadyApproved = errors.New("request already approved")
)

// Request statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Service runs the workflow against a store that has the community collections.
type Service struct {
	DB     *sql.DB
	Logger *slog.Logger
	// Now stamps creation and approval times.
	Now func() time.Time
}

// New returns a Service over conn. It fails with db.ErrMissingCapability
// when the store lacks the community collections.
func New(conn *sql.DB) (*Service, error) {
	caps, err := db.LoadCapabilities(conn)
	if err != nil {
		return nil, err
	}
	if err := caps.Require(db.CommunityCollections...); err != nil {
		return nil, err
	}
	return &Service{
		DB:     conn,
		Logger: logging.ForService("community"),
		Now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Proposal is what a user submits to request a word.
type Proposal struct {
	UserID         string
	Type           string
	Trigedasleng   string
	Translation    string
	Classification string
	Etymology      string
	Source         string
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// Create validates p and stores it as a pending request.
func (s *Service) Create(p Proposal) (string, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"type", p.Type}, {"trigedasleng", p.Trigedasleng}, {"translation", p.Translation},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	p.Classification = strings.ToLower(strings.TrimSpace(p.Classification))
	if class := p.Classification; class != "" {
		if _, err := db.FindClassification(s.DB, class); errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: classification %q", ErrInvalidRequest, class)
		} else if err != nil {
			return "", err
		}
	}

	id, err := db.InsertWordRequest(s.DB, db.WordRequest{
		UserID:         p.UserID,
		Type:           strings.TrimSpace(p.Type),
		Trigedasleng:   strings.TrimSpace(p.Trigedasleng),
		Translation:    strings.TrimSpace(p.Translation),
		Classification: nullable(p.Classification),
		Etymology:      nullable(p.Etymology),
		Source:         nullable(p.Source),
		Status:         StatusPending,
		CreatedAt:      s.Now(),
	})
	if err != nil {
		return "", err
	}
	s.Logger.Info("word request created", "request", id, "user", p.UserID, "word", p.Trigedasleng)
	return id, nil
}

// Request is a word request with its comments.
type Request struct {
	db.WordRequest
	Comments []db.Comment
}

// List returns every request, newest first, with its summed score and comments.
func (s *Service) List() ([]Request, error) {
	reqs, err := db.ListWordRequests(s.DB)
	if err != nil {
		return nil, err
	}
	out := make([]Request, 0, len(reqs))
	for _, r := range reqs {
		comments, err := db.ListComments(s.DB, r.ID)
		if err != nil {
			return nil, fmt.Errorf("comments of %s: %w", r.ID, err)
		}
		out = append(out, Request{WordRequest: r, Comments: comments})
	}
	return out, nil
}

// Get returns one request with its comments.
func (s *Service) Get(id string) (Request, error) {
	r, err := db.GetWordRequest(s.DB, id)
	if err != nil {
		return Request{}, fmt.Errorf("request %s: %w", id, err)
	}
	comments, err := db.ListComments(s.DB, id)
	if err != nil {
		return Request{}, err
	}
	return Request{WordRequest: r, Comments: comments}, nil
}

// Comment adds a comment to a request.
func (s *Service) Comment(userID, requestID, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyComment
	}
	if _, err := db.GetWordRequest(s.DB, requestID); err != nil {
		return "", fmt.Errorf("request %s: %w", requestID, err)
	}
	return db.InsertComment(s.DB, db.Comment{UserID: userID, RequestID: requestID, Content: content, CreatedAt: s.Now()})
}

// Delete removes a request together with its votes and comments.
func (s *Service) Delete(ctx context.Context, requestID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()
	if err := db.DeleteWordRequest(tx, requestID); err != nil {
		return fmt.Errorf("request %s: %w", requestID, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.Logger.Info("word request deleted", "request", requestID)
	return nil
}
