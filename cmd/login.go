package cmd

import (
	"fmt"

	authadapter "github.com/gplaydev/gtv-sdk-go/internal/adapters/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a login flow",
	}

	cmd.AddCommand(newLoginBrowserCmd(app), newLoginTokenCmd(app), newLoginResumeCmd(app))

	return cmd
}

func newLoginBrowserCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browser",
		Short: "Log in through the browser implicit-grant flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowserLogin(cmd, app)
		},
	}
}

func newLoginTokenCmd(app *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Log in with an access token obtained elsewhere",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub := subscribeEventPrinter(cmd, app.facade)
			defer sub.Cancel()

			app.facade.Login(cmd.Context(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newLoginResumeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the persisted session if its token is still valid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub := subscribeEventPrinter(cmd, app.facade)
			defer sub.Cancel()

			if !app.facade.ResumeSession(cmd.Context()) {
				return fmt.Errorf("no resumable session")
			}
			return nil
		},
	}
}

func runBrowserLogin(cmd *cobra.Command, app *app) error {
	clientID := app.store.ClientID()
	if clientID == "" {
		return errNotInitialized
	}

	state, err := authadapter.NewState()
	if err != nil {
		return fmt.Errorf("generate oauth state: %w", err)
	}

	server, err := authadapter.StartCallbackServer(app.browserLogin.ListenAddr, state)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = server.Close() }()

	authURL, err := authadapter.BuildAuthorizationURL(authadapter.AuthorizationRequest{
		Issuer:      app.browserLogin.Issuer,
		ClientID:    clientID,
		RedirectURI: server.RedirectURI(),
		Scope:       "account",
		State:       state,
	})
	if err != nil {
		return fmt.Errorf("build authorization url: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to authenticate:\n%s\n", authURL)

	token, err := server.WaitForToken(app.browserLogin.Timeout)
	if err != nil {
		return fmt.Errorf("wait for oauth callback: %w", err)
	}

	sub := subscribeEventPrinter(cmd, app.facade)
	defer sub.Cancel()

	app.facade.Login(cmd.Context(), token)
	return nil
}
