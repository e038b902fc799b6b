package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonscript/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update lessonscript to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		if check, _ := cmd.Flags().GetBool("check"); check {
			return checkForUpdate(cmd, checker)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo lessonscript update", err)
		}

		return err
	},
}

func checkForUpdate(cmd *cobra.Command, checker *selfupdate.Checker) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		return fmt.Errorf("check for update: %w", err)
	}
	if !res.UpdateAvailable {
		fmt.Printf("lessonscript %s is up to date.\n", res.CurrentVersion)
		return nil
	}
	fmt.Printf("lessonscript %s is available (running %s): %s\n", res.LatestVersion, res.CurrentVersion, res.ReleaseURL)
	return nil
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
}
