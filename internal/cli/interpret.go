package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hassan3301/dailycrm/internal/adapter/assistant"
	"github.com/hassan3301/dailycrm/internal/adapter/postgres/user"
	"github.com/hassan3301/dailycrm/internal/app"
	"github.com/hassan3301/dailycrm/internal/service/chat"
	"github.com/hassan3301/dailycrm/internal/service/interpreter"
	"github.com/hassan3301/dailycrm/pkg/ctxutil"
)

func newInterpretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interpret [reply]",
		Short: "Execute the actions in an assistant reply for a user",
		Long: "Execute the actions in an assistant reply. The reply is taken from the argument or, when absent, from stdin.\n" +
			"With --ask the input is a chat message that is sent to the assistant first.",
		Args: cobra.MaximumNArgs(1),
		RunE: runInterpret,
	}
	cmd.Flags().String("email", "", "Email of the user to act for (required)")
	cmd.Flags().Bool("ask", false, "Treat the input as a chat message for the assistant")
	cmd.MarkFlagRequired("email") //nolint:errcheck
	return cmd
}

func runInterpret(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	ask, _ := cmd.Flags().GetBool("ask")

	input, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := e.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	u, err := user.New(pool).GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	ctx = ctxutil.WithUserID(ctx, u.ID)

	interp, err := app.NewInterpreter(e.cfg, e.log, pool)
	if err != nil {
		return err
	}

	var res *interpreter.Result
	if ask {
		svc := chat.NewService(e.log, assistant.NewClient(e.cfg.Assistant, e.log), interp, e.cfg.Assistant.Timeout)
		res, err = svc.Send(ctx, input)
	} else {
		res, err = interp.Interpret(ctx, input)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Transcript)
	return nil
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", fmt.Errorf("no input: pass a reply argument or pipe it on stdin")
	}
	return input, nil
}
