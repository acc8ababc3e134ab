package community

import (
	"context"
	"fmt"

	"github.com/trigedasleng/trigdict/pkg/admin"
	"github.com/trigedasleng/trigdict/pkg/db"
)

// Approval reports the entities an approval resolved.
type Approval struct {
	RequestID     string
	Dictionary    string
	WordID        string
	EnglishWordID string
	TranslationID string
}

// Approve turns a pending request into a dictionary word with its English
// translation and marks it approved, all in one transaction.
func (s *Service) Approve(ctx context.Context, requestID, approver, dictionaryType string) (Approval, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Approval{}, err
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	req, err := db.GetWordRequest(tx, requestID)
	if err != nil {
		return Approval{}, fmt.Errorf("request %s: %w", requestID, err)
	}
	if req.Status == StatusApproved {
		return Approval{}, fmt.Errorf("request %s: %w", requestID, ErrAlreadyApproved)
	}

	w, err := admin.InsertWord(tx, admin.Word{
		Trigedasleng:   req.Trigedasleng,
		Translation:    req.Translation,
		Classification: req.Classification.String,
		Etymology:      req.Etymology.String,
		DictionaryType: dictionaryType,
	})
	if err != nil {
		return Approval{}, fmt.Errorf("request %s: %w", requestID, err)
	}
	a := Approval{
		RequestID:     requestID,
		Dictionary:    w.Dictionary,
		WordID:        w.WordID,
		EnglishWordID: w.EnglishWordID,
		TranslationID: w.TranslationID,
	}

	if err := db.MarkRequestApproved(tx, requestID, approver, dictionaryType, s.Now()); err != nil {
		return Approval{}, fmt.Errorf("mark approved: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Approval{}, err
	}
	s.Logger.Info("word request approved", "request", requestID, "approver", approver, "dictionary", a.Dictionary)
	return a, nil
}
