package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var notebookDescription string

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Manage notebooks",
}

var notebookCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new notebook",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotebookCreate,
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notebooks",
	Args:  cobra.NoArgs,
	RunE:  runNotebookList,
}

var notebookRemoveCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a notebook and all its sources",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotebookRemove,
}

func init() {
	notebookCreateCmd.Flags().StringVarP(&notebookDescription, "description", "d", "", "notebook description")
	notebookCmd.AddCommand(notebookCreateCmd)
	notebookCmd.AddCommand(notebookListCmd)
	notebookCmd.AddCommand(notebookRemoveCmd)
	rootCmd.AddCommand(notebookCmd)
}

func runNotebookCreate(cmd *cobra.Command, args []string) error {
	if notebookService == nil {
		return errors.New("notebook service not configured")
	}

	nb, err := notebookService.Create(context.Background(), args[0], notebookDescription)
	if err != nil {
		return fmt.Errorf("create notebook: %w", err)
	}

	cmd.Printf("Created notebook %s\n", nb.ID)
	return nil
}

func runNotebookList(cmd *cobra.Command, _ []string) error {
	if notebookService == nil {
		return errors.New("notebook service not configured")
	}

	notebooks, err := notebookService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list notebooks: %w", err)
	}

	if len(notebooks) == 0 {
		cmd.Println("No notebooks yet. Create one with: inkwell notebook create <title>")
		return nil
	}

	for _, nb := range notebooks {
		cmd.Printf("  %s  %s\n", nb.ID, nb.Title)
		if nb.Description != "" {
			cmd.Printf("      %s\n", nb.Description)
		}
	}
	return nil
}

func runNotebookRemove(cmd *cobra.Command, args []string) error {
	if notebookService == nil {
		return errors.New("notebook service not configured")
	}

	if err := notebookService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}

	cmd.Printf("Deleted notebook %s\n", args[0])
	return nil
}
