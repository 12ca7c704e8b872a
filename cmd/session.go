package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/gate"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a := mustApplication()

		if err := a.resolve(ctx); err != nil {
			return err
		}

		if user := a.holder.User(); user != nil {
			fmt.Printf("Already signed in as %s\n", user.Email)
			return nil
		}

		return a.signIn(ctx, viper.GetString("auth.email"))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a := mustApplication()

		if err := a.resolve(ctx); err != nil {
			return err
		}

		if err := a.holder.SignOut(ctx); err != nil {
			return err
		}

		fmt.Println("Signed out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a := mustApplication()

		if err := a.resolve(ctx); err != nil {
			return err
		}

		state := gate.Current(a.holder)
		a.logger.Debug("session resolved", zap.Stringer("state", state))

		if state != gate.Authenticated {
			fmt.Println("Not signed in")
			return nil
		}

		fmt.Printf("Signed in as %s\n", a.holder.User().Email)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "email to sign in with")
	viper.BindPFlag("auth.email", loginCmd.Flags().Lookup("email"))

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}
