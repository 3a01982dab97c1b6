package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/smith3v/trade-prompts/pkg/app"
	"github.com/smith3v/trade-prompts/pkg/db"
	"github.com/smith3v/trade-prompts/pkg/importexport"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List education topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE")
		for _, topic := range svc.Topics() {
			fmt.Fprintf(w, "%s\t%s\n", topic.ID, topic.Title)
		}
		return w.Flush()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write my prompts as CSV",
	Long:  "Write my prompts as CSV to file, or to prompts-YYYYMMDD.csv when no file is given. Use - for stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts := svc.Store().Prompts()
		data, err := importexport.BuildExportCSV(prompts)
		if err != nil {
			return err
		}

		path := importexport.ExportFilename(time.Now())
		if len(args) == 1 {
			path = args[0]
		}
		if path == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d prompts to %s.\n", len(prompts), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import prompts from a CSV file",
	Long: `Import prompts from a CSV file with the columns title, category, tags and
description. A header row may name the columns in any order. Prompts whose
title already exists are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		rows, invalid, err := importexport.ParsePromptsCSV(data)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		imported, skipped, err := svc.ImportPrompts(cmd.Context(), rows)
		if err != nil && !remoteOnly(cmd, err) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d prompts, skipped %d rows.\n", imported, skipped+invalid)
		return nil
	},
}

var (
	authEmail    string
	authPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account in the remote store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := svc.SignUp(cmd.Context(), authEmail, authPassword)
		if err != nil {
			return authError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed up %s. Set catalog.owner_id to %s to use this account.\n", user.Email, user.ID)
		return nil
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Check an account in the remote store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := svc.SignIn(cmd.Context(), authEmail, authPassword)
		if err != nil {
			return authError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (owner id %s).\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{signupCmd, signinCmd} {
		cmd.Flags().StringVar(&authEmail, "email", "", "account email")
		cmd.Flags().StringVar(&authPassword, "password", "", "account password")
		_ = cmd.MarkFlagRequired("email")
		_ = cmd.MarkFlagRequired("password")
	}
}

func authError(err error) error {
	if errors.Is(err, app.ErrRemoteDisabled) {
		return errors.New("accounts need the remote store: set database.enabled")
	}
	return err
}

// remoteOnly reports a failed remote mirror after the local change was
// saved. Other errors are left to the caller.
func remoteOnly(cmd *cobra.Command, err error) bool {
	if !errors.Is(err, db.ErrRemote) {
		return false
	}
	logger.Warn("remote sync failed", "command", cmd.Name(), "error", err)
	fmt.Fprintln(cmd.ErrOrStderr(), "Saved locally; sync failed.")
	return true
}
