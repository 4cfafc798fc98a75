// Package commands implements the tracker CLI on top of the API client.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/client"
)

const defaultServerURL = "http://localhost:8080"

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Personal expense tracking from the command line",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("TRACKER_SERVER")
	if defaultURL == "" {
		defaultURL = defaultServerURL
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "tracker API base URL")

	app := &appContext{serverURL: &serverURL}

	rootCmd.AddCommand(newSignupCommand(app))
	rootCmd.AddCommand(newLoginCommand(app))
	rootCmd.AddCommand(newLogoutCommand(app))
	rootCmd.AddCommand(newCategoryCommand(app))
	rootCmd.AddCommand(newExpenseCommand(app))
	rootCmd.AddCommand(newExportCommand(app))
	rootCmd.AddCommand(newDashboardCommand(app))

	return rootCmd
}

// appContext carries the pieces every subcommand needs: the server address
// and the session persisted between invocations.
type appContext struct {
	serverURL *string

	// sessionFile overrides the default session location, used by tests.
	sessionFile string
}

// apiClient builds a client with any saved session installed.
func (a *appContext) apiClient() (*client.Client, error) {
	c := client.New(*a.serverURL)
	session, err := a.loadSession()
	if err != nil {
		return nil, err
	}
	if session != nil {
		c.SetSession(session)
	}
	return c, nil
}

// syncSession persists the client's session state after a call: a cleared
// session (401) removes the file so the next command asks for a login.
func (a *appContext) syncSession(c *client.Client) {
	if c.Session() == nil {
		_ = a.clearSession()
		return
	}
	_ = a.saveSession(c.Session())
}
