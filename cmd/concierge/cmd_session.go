package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tableside/concierge/internal/model/review"
	"github.com/tableside/concierge/internal/model/session"
	"github.com/tableside/concierge/internal/service/capability"
	"github.com/tableside/concierge/internal/service/conversation"
	"github.com/tableside/concierge/internal/service/scan"
	chatui "github.com/tableside/concierge/internal/ui/chat"
)

// establish turns a scanned payload into a session, printing the scan alert on failure.
func establish(cmd *cobra.Command, a *app, payload string) (session.Session, error) {
	sess, err := a.scanner.Handle(cmd.Context(), payload)
	if err != nil {
		alert := scan.FailureAlert(err)
		return session.Session{}, a.showAlert(&alert, err)
	}
	return sess, nil
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "scan <payload>",
		Short:   "Resolve a table code and show what the restaurant supports",
		Example: `  concierge scan "restaurantId=42&tableId=7&aiAgentId=9"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			sess, err := establish(cmd, a, args[0])
			if err != nil {
				return err
			}
			caps := capability.Resolve(sess.Profile)
			fmt.Fprintf(a.out, "Restaurant: %s (%s)\n", sess.RestaurantName(), sess.RestaurantID)
			if sess.TableID != "" {
				fmt.Fprintf(a.out, "Table:      %s\n", sess.TableID)
			}
			if sess.AgentID != "" {
				fmt.Fprintf(a.out, "Agent:      %s\n", sess.AgentID)
			}
			fmt.Fprintf(a.out, "Modes:      %s\n", formatModes(caps))
			return nil
		},
	}
}

func newChatCmd() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "chat <payload>",
		Short: "Chat with the restaurant's concierge",
		Long:  "Opens the chat screen. With --message a single question is sent and the reply printed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if message == "" {
				a.detachConsole()
			}
			sess, err := establish(cmd, a, args[0])
			if err != nil {
				return err
			}
			conv := conversation.New(sess, a.gw, a.logger)
			if message == "" {
				return chatui.Run(cmd.Context(), conv, a.gw)
			}
			defer conv.Close()

			if err := conv.Compose(message); err != nil {
				if errors.Is(err, conversation.ErrCapabilityDisabled) {
					return fmt.Errorf("chat is not available at %s", sess.RestaurantName())
				}
				return err
			}
			res, ok := conv.Submit(cmd.Context())
			if !ok {
				return fmt.Errorf("nothing to send")
			}
			if res.Alert != nil {
				return a.showAlert(res.Alert, errors.New(res.Alert.Message))
			}
			fmt.Fprintln(a.out, res.Appended.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "send one message and print the reply")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the stored conversation of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			messages, err := a.gw.GetChatHistory(cmd.Context())
			if err != nil {
				return err
			}
			if len(messages) == 0 {
				fmt.Fprintln(a.out, "No messages yet.")
				return nil
			}
			for _, m := range messages {
				fmt.Fprintf(a.out, "[%s] %s: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Sender, m.Text)
			}
			return nil
		},
	}
}

func newReviewCmd() *cobra.Command {
	var (
		body  string
		label string
	)
	cmd := &cobra.Command{
		Use:   "review <payload>",
		Short: "Leave a review for the scanned restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			sentiment, err := review.ParseSentiment(label)
			if err != nil {
				return err
			}
			sess, err := establish(cmd, a, args[0])
			if err != nil {
				return err
			}

			conv := conversation.New(sess, a.gw, a.logger)
			defer conv.Close()
			flow := conv.Review(a.gw)
			flow.Open()
			if err := flow.SetDraft(review.Draft{Sentiment: sentiment, Body: body}); err != nil {
				return err
			}
			res, err := flow.Submit(cmd.Context())
			if err != nil {
				return a.showAlert(res.Alert, err)
			}
			if res.Sentiment == "" {
				fmt.Fprintf(a.out, "Thanks for your review of %s!\n", sess.RestaurantName())
				return nil
			}
			fmt.Fprintf(a.out, "Thanks for your review of %s! (%s)\n", sess.RestaurantName(), res.Sentiment)
			return nil
		},
	}
	cmd.Flags().StringVarP(&body, "message", "m", "", "review text")
	cmd.Flags().StringVar(&label, "sentiment", "", "positive, neutral or negative (inferred by the backend when empty)")
	return cmd
}

func newAudioCmd() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "audio <payload>",
		Short: "Send a placeholder audio message",
		Long:  "Audio capture is not implemented; the text given with --message is sent to the audio endpoint instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			sess, err := establish(cmd, a, args[0])
			if err != nil {
				return err
			}
			conv := conversation.New(sess, a.gw, a.logger)
			defer conv.Close()

			err = conv.StartRecording()
			switch {
			case errors.Is(err, conversation.ErrCapabilityDisabled):
				return fmt.Errorf("audio is not available at %s", sess.RestaurantName())
			case err != nil && !errors.Is(err, conversation.ErrMediaUnavailable):
				return err
			}
			defer func() { _ = conv.StopRecording() }()

			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("--message is required while audio capture is unavailable")
			}
			raw, err := a.gw.SendAudioMessage(cmd.Context(), message)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(raw))
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "text to send in place of audio")
	return cmd
}

func formatModes(caps capability.Set) string {
	modes := caps.Modes()
	if len(modes) == 0 {
		return "none"
	}
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
