package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/duynhne/workshop-console/internal/client"
	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/logger"
	logicv1 "github.com/duynhne/workshop-console/internal/logic/v1"
)

const commandTimeout = 30 * time.Second

// withRuntime loads configuration, builds the runtime and runs fn with it.
func withRuntime(fn func(ctx context.Context, rt *consoleRuntime) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.SetupConsole(cfg.Logging.Level)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	rt, err := newConsoleRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

func newLoginCmd() *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the workshop API and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), passwordStdin)
			if err != nil {
				return err
			}
			return withRuntime(func(ctx context.Context, rt *consoleRuntime) error {
				resp, err := rt.auth.Login(ctx, domain.LoginRequest{Username: username, Password: password})
				if err != nil {
					var apiErr *client.APIError
					if errors.As(err, &apiErr) && apiErr.Message != "" {
						return fmt.Errorf("login rejected: %s", apiErr.Message)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", resp.Username, resp.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(func(ctx context.Context, rt *consoleRuntime) error {
				if err := rt.auth.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(func(ctx context.Context, rt *consoleRuntime) error {
				writeSession(cmd.OutOrStdout(), rt.session.Snapshot(), time.Now())
				return nil
			})
		},
	}
}

func writeSession(w io.Writer, snap logicv1.Snapshot, now time.Time) {
	if !snap.IsAuthenticated() {
		fmt.Fprintln(w, "Not signed in")
		return
	}
	if u := snap.User; u != nil {
		fmt.Fprintf(w, "User:  %s (%s)\n", u.Username, u.FullName)
		fmt.Fprintf(w, "Email: %s\n", u.Email)
		fmt.Fprintf(w, "Role:  %s\n", u.Role)
	} else {
		fmt.Fprintln(w, "User:  unknown (token without stored profile)")
	}
	info, ok := logicv1.InspectToken(snap.Token, now)
	if !ok || info.ExpiresAt == nil {
		return
	}
	state := "valid until"
	if info.Expired {
		state = "expired at"
	}
	fmt.Fprintf(w, "Token: %s %s\n", state, info.ExpiresAt.Local().Format(time.RFC1123))
}

// readPassword reads one line from in when fromStdin is set and prompts on
// the terminal otherwise.
func readPassword(in io.Reader, prompt io.Writer, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return "", errors.New("empty password on stdin")
		}
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(prompt, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
