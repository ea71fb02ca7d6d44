package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"sorting-hat-service/internal/config"
	"sorting-hat-service/internal/domain"
)

// NewRandomCmd assigns a random house to a user without taking the quiz.
func NewRandomCmd(configPath *string) *cobra.Command {
	var userID, name, token string
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Let the hat decide randomly and store the house on the user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			user := domain.User{ID: userID, Username: name, SessionID: uuid.NewString()}
			if token != "" {
				if err := rt.credentials.Put(cmd.Context(), user.SessionID, rt.tokenKey, token); err != nil {
					return err
				}
				defer rt.credentials.Delete(context.Background(), user.SessionID, rt.tokenKey)
			}
			out := &reporter{w: cmd.OutOrStdout()}
			controller, err := rt.service.StartQuiz(cmd.Context(), user, out, out)
			if err != nil {
				return err
			}
			_, err = controller.AssignRandom(cmd.Context())
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&token, "token", "", "bearer access token for the profile service")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

type reporter struct {
	w io.Writer
}

func (r *reporter) HouseAssigned(_ context.Context, result domain.SortingResult, profile domain.Profile) {
	fmt.Fprintf(r.w, "%s sorted into %s (level %d, %d xp)\n", profile.Username, result.House, profile.Level, profile.XP)
}

func (r *reporter) ShowResult(context.Context) {}
