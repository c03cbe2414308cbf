package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type adminOptions struct {
	Email    string
	Name     string
	Password string
}

func addAdmin(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage operator accounts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	ao := &adminOptions{}
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an operator, or reset the password of an existing one.",
		Example: `
schooladmin admin add --email head@school.test --name "Head Office" --password s3cret
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if ao.Email == "" || ao.Password == "" {
				return errors.New("--email and --password are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			id, created, err := e.auth.UpsertAdmin(cmd.Context(), ao.Email, ao.Name, ao.Password)
			if err != nil {
				return err
			}
			verb := color.New(color.FgGreen).Sprint("created")
			if !created {
				verb = color.New(color.FgYellow).Sprint("updated")
			}
			_, _ = fmt.Fprintf(color.Output, "admin %s %s (%s)\n", ao.Email, verb, id)
			return nil
		},
	}
	add.Flags().StringVar(&ao.Email, "email", "", "Operator email.")
	add.Flags().StringVar(&ao.Name, "name", "", "Display name.")
	add.Flags().StringVar(&ao.Password, "password", "", "Password; stored as a bcrypt hash.")

	cmd.AddCommand(add)
	topLevel.AddCommand(cmd)
}
