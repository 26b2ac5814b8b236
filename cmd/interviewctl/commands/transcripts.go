package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gopherai-interview/internal/bootstrap"
	"gopherai-interview/internal/config"
	mysqlClient "gopherai-interview/internal/platform/mysql"
	"gopherai-interview/internal/repository"
)

func NewTranscriptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcripts",
		Short: "List or show stored interview transcripts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored transcripts, oldest first",
		Args:  cobra.NoArgs,
		RunE:  runListTranscripts,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the full transcript of one session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowTranscript,
	})
	return cmd
}

func runListTranscripts(cmd *cobra.Command, _ []string) error {
	return withRepository(cmd, func(repo repository.TranscriptRepository) error {
		transcripts, err := repo.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list transcripts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(transcripts) == 0 {
			fmt.Fprintln(out, "No transcripts found")
			return nil
		}
		for i, t := range transcripts {
			fmt.Fprintf(out, "%d. %s\n", i+1, t.SessionID)
			fmt.Fprintf(out, "   Candidate: %s (%s)\n", t.Name, t.Topic)
			fmt.Fprintf(out, "   Completed: %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "   Total Score: %.1f/100\n", t.TotalScore)
		}
		return nil
	})
}

func runShowTranscript(cmd *cobra.Command, args []string) error {
	return withRepository(cmd, func(repo repository.TranscriptRepository) error {
		t, err := repo.GetBySessionID(cmd.Context(), args[0])
		if errors.Is(err, repository.ErrTranscriptNotFound) {
			return fmt.Errorf("no transcript for session %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to load transcript: %w", err)
		}
		return writeIndented(cmd.OutOrStdout(), t)
	})
}

func withRepository(cmd *cobra.Command, fn func(repository.TranscriptRepository) error) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	repo, db, err := bootstrap.OpenTranscriptRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	if db != nil {
		defer mysqlClient.Close(db)
	}
	return fn(repo)
}

func writeIndented(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
