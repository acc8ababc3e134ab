package community

import (
	"errors"
	"fmt"

	"github.com/trigedasleng/trigdict/pkg/db"
)

// VoteAction is what casting a vote did.
type VoteAction int

const (
	VoteCreated VoteAction = iota
	VoteChanged
	VoteRemoved
)

func (a VoteAction) String() string {
	switch a {
	case VoteCreated:
		return "created"
	case VoteChanged:
		return "changed"
	case VoteRemoved:
		return "removed"
	}
	return fmt.Sprintf("VoteAction(%d)", int(a))
}

// Vote casts userID's vote on a request. Repeating the same vote withdraws
// it and the opposite vote replaces it.
func (s *Service) Vote(userID, requestID string, value int) (VoteAction, error) {
	if value != 1 && value != -1 {
		return 0, ErrInvalidVote
	}
	if _, err := db.GetWordRequest(s.DB, requestID); err != nil {
		return 0, fmt.Errorf("request %s: %w", requestID, err)
	}

	existing, err := db.FindVote(s.DB, userID, requestID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		if _, err := db.InsertVote(s.DB, userID, requestID, value); err != nil {
			return 0, fmt.Errorf("insert vote: %w", err)
		}
		return VoteCreated, nil
	case err != nil:
		return 0, fmt.Errorf("find vote: %w", err)
	case existing.Value == value:
		if err := db.DeleteVote(s.DB, existing.ID); err != nil {
			return 0, fmt.Errorf("delete vote: %w", err)
		}
		return VoteRemoved, nil
	default:
		if err := db.UpdateVote(s.DB, existing.ID, value); err != nil {
			return 0, fmt.Errorf("update vote: %w", err)
		}
		return VoteChanged, nil
	}
}
