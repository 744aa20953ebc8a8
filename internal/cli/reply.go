package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/prompt"
	"github.com/jmylchreest/moodboard/internal/reply"
)

// moodValue is a pflag.Value restricted to the venting moods.
type moodValue prompt.Mood

var _ pflag.Value = (*moodValue)(nil)

func (m *moodValue) String() string { return string(*m) }

func (m *moodValue) Set(s string) error {
	mood, err := prompt.ParseMood(s)
	if err != nil {
		return err
	}
	*m = moodValue(mood)
	return nil
}

func (m *moodValue) Type() string { return "mood" }

func moodUsage() string {
	parts := make([]string, 0, len(prompt.Moods()))
	for _, m := range prompt.Moods() {
		parts = append(parts, fmt.Sprintf("%s (%s)", m, m.Label()))
	}
	return "venting mood: " + strings.Join(parts, ", ")
}

// readMessage joins the arguments, or reads stdin when the only argument is "-".
func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, 64<<10))
		if err != nil {
			return "", fmt.Errorf("failed to read message from stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

// runReply loads configuration, then reads the message and runs fn.
func (a *app) runReply(cmd *cobra.Command, args []string, format string,
	fn func(ctx context.Context, svc *reply.Service, message string) (*reply.Result, error)) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	_, gen, err := a.generator(cmd.Context())
	if err != nil {
		return err
	}

	message, err := readMessage(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return apperr.Input("cli.reply", "message is empty")
	}

	svc := reply.New(gen, a.logger.Named("reply"))
	res, err := fn(cmd.Context(), svc, message)
	if err != nil && format == formatTable && res != nil && res.Emotion != nil {
		// The classification succeeded even though the reply did not.
		fmt.Fprint(cmd.OutOrStdout(), formatReply(res))
	}
	if err != nil {
		writeRawOutput(cmd.ErrOrStderr(), err)
		return err
	}

	if format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), formatReply(res))
	return err
}

func (a *app) newReplyCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "reply <message|->",
		Short: "Draft a professional reply to a parent's message",
		Long: `Draft a calm, professional reply to a parent's message.
Pass the message as arguments, or - to read it from stdin.

Example:
  moodboard reply "為什麼我的孩子今天沒有午睡？"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReply(cmd, args, format, func(ctx context.Context, svc *reply.Service, msg string) (*reply.Result, error) {
				return svc.Professional(ctx, msg)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

func (a *app) newVentCmd() *cobra.Command {
	var format string
	mood := moodValue(prompt.MoodExhausted)
	cmd := &cobra.Command{
		Use:   "vent <message|->",
		Short: "Write a sarcastic venting reply (never send it)",
		Long: `Write a sarcastic reply to a parent's message for letting off steam.
The mood flavours the sarcasm.

Example:
  moodboard vent --mood dramatic "老師可以每天傳照片給我嗎？"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReply(cmd, args, format, func(ctx context.Context, svc *reply.Service, msg string) (*reply.Result, error) {
				return svc.Vent(ctx, msg, prompt.Mood(mood))
			})
		},
	}
	cmd.Flags().VarP(&mood, "mood", "m", moodUsage())
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

func (a *app) newClassifyCmd() *cobra.Command {
	var (
		format    string
		withReply bool
	)
	cmd := &cobra.Command{
		Use:   "classify <message|->",
		Short: "Classify the emotions in a parent's message",
		Long: `Label the emotions in a parent's message using a fixed vocabulary
(憤怒 焦慮 不滿 質疑 無助 要求 抱怨 平靜 感謝). With --reply a professional
reply is drafted afterwards.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReply(cmd, args, format, func(ctx context.Context, svc *reply.Service, msg string) (*reply.Result, error) {
				if withReply {
					return svc.ClassifyAndReply(ctx, msg)
				}
				emo, err := svc.Classify(ctx, msg)
				if err != nil {
					return nil, err
				}
				return &reply.Result{Mode: reply.ModeClassify, Persona: prompt.EmotionClassifier().Name, Emotion: emo}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&withReply, "reply", false, "also draft a professional reply")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}
