package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trigedasleng/trigdict/pkg/community"
)

func (a *app) requestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage community word requests",
	}

	var user string
	cmd.PersistentFlags().StringVar(&user, "user", "", "Acting user id")

	service := func() (*community.Service, error) {
		return community.New(a.conn)
	}
	requireUser := func() error {
		if user == "" {
			return fmt.Errorf("--user is required")
		}
		return nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := service()
			if err != nil {
				return err
			}
			reqs, err := s.List()
			if err != nil {
				return err
			}
			tbl := a.table("ID", "Word", "Translation", "Class", "Status", "Score", "Comments")
			for _, r := range reqs {
				tbl.AddRow(r.ID, r.Trigedasleng, r.Translation, r.Classification.String, r.Status, r.Score, len(r.Comments))
			}
			tbl.Print()
			return nil
		},
	}

	var p community.Proposal
	create := &cobra.Command{
		Use:   "create",
		Short: "Propose a word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			s, err := service()
			if err != nil {
				return err
			}
			p.UserID = user
			id, err := s.Create(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
	cf := create.Flags()
	cf.StringVar(&p.Type, "type", "word", "Request type")
	cf.StringVar(&p.Trigedasleng, "word", "", "Trigedasleng word")
	cf.StringVar(&p.Translation, "translation", "", "English translation")
	cf.StringVar(&p.Classification, "class", "", "Word class")
	cf.StringVar(&p.Etymology, "etymology", "", "Etymology")
	cf.StringVar(&p.Source, "source", "", "Where the word was heard")

	vote := &cobra.Command{
		Use:   "vote <request> <+1|-1>",
		Short: "Vote on a request; repeating a vote withdraws it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", community.ErrInvalidVote, args[1])
			}
			s, err := service()
			if err != nil {
				return err
			}
			action, err := s.Vote(user, args[0], value)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Vote %s.\n", action)
			return nil
		},
	}

	comment := &cobra.Command{
		Use:   "comment <request> <text>",
		Short: "Comment on a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			s, err := service()
			if err != nil {
				return err
			}
			id, err := s.Comment(user, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}

	var dictionaryType string
	approve := &cobra.Command{
		Use:   "approve <request>",
		Short: "Add a requested word to the dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			s, err := service()
			if err != nil {
				return err
			}
			res, err := s.Approve(cmd.Context(), args[0], user, dictionaryType)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Approved into %s.\n", res.Dictionary)
			return nil
		},
	}
	approve.Flags().StringVar(&dictionaryType, "dictionary-type", "canon", "canon, slakgedasleng or noncanon")

	del := &cobra.Command{
		Use:   "delete <request>",
		Short: "Delete a request with its votes and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := service()
			if err != nil {
				return err
			}
			return s.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, create, vote, comment, approve, del)
	return cmd
}
