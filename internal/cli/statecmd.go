package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stateCommand creates the state command group for managing saved layouts.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage saved layout documents",
	}
	cmd.AddCommand(c.stateListCommand())
	cmd.AddCommand(c.stateInfoCommand())
	cmd.AddCommand(c.stateDeleteCommand())
	return cmd
}

// stateListCommand lists saved documents, newest first.
func (c *CLI) stateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newStore(cfg)
			if err != nil {
				return err
			}

			infos, err := store.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No saved layouts in %s", store.Path())
				return nil
			}

			for _, info := range infos {
				printKeyValue(info.Name, fmt.Sprintf("%s · %d bytes",
					info.ModTime.Format("2006-01-02 15:04"), info.Size))
			}
			return nil
		},
	}
}

// stateInfoCommand summarizes one saved document without restoring it.
func (c *CLI) stateInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show details of a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newStore(cfg)
			if err != nil {
				return err
			}

			doc, err := store.Load(args[0])
			if err != nil {
				return err
			}

			placed := 0
			for _, row := range doc.GridLayout {
				for _, cell := range row {
					if cell != nil {
						placed++
					}
				}
			}

			fmt.Println(StyleTitle.Render(args[0]))
			printKeyValue("id", doc.ID)
			printKeyValue("saved", doc.Timestamp.Format("2006-01-02 15:04:05"))
			printKeyValue("grid", fmt.Sprintf("%dx%d", doc.GridConfig.Rows, doc.GridConfig.Cols))
			if doc.ImageDirectory != "" {
				printKeyValue("images from", doc.ImageDirectory)
			}
			printKeyValue("placed", fmt.Sprintf("%d", placed))
			printKeyValue("unused", fmt.Sprintf("%d", len(doc.Images.Unused)))
			return nil
		},
	}
}

// stateDeleteCommand removes a saved document.
func (c *CLI) stateDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newStore(cfg)
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
