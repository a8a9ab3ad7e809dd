package commands

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/chat"
	"github.com/terraincognita07/femcare/internal/models"
)

func addChat(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Conversations attached to support requests.",
	}

	var markRead bool
	messages := &cobra.Command{
		Use:   "messages <requestId>",
		Short: "Show the messages of a support request.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), env, func(b *backend) error {
				store := chat.NewStore(b.chat)
				if err := store.FetchMessages(cmd.Context(), args[0], userID); err != nil {
					return err
				}
				if markRead {
					if err := store.MarkRead(cmd.Context(), args[0], userID); err != nil {
						log.Printf("chat: mark read failed: %v", err)
					}
				}
				if opts.JSON {
					return printJSON(store.Messages())
				}
				printMessages(env, userID, store.Messages())
				return nil
			})
		},
	}
	messages.Flags().BoolVar(&markRead, "mark-read", true, "Mark received messages as read.")

	var receiverID string
	send := &cobra.Command{
		Use:   "send <requestId> <message>",
		Short: "Send a message on a support request.",
		Long:  "Send a message on a support request. Without --to the message goes to the owner of the request, which also works for anonymous requests.",
		Example: `
femcare chat send 8Hq2 "I can pick you up at six"
femcare chat send 8Hq2 --to user-2 "Thank you, six works"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), env, func(b *backend) error {
				store := chat.NewStore(b.chat)
				created, err := store.SendMessage(cmd.Context(), strings.Join(args[1:], " "), userID, strings.TrimSpace(receiverID), args[0])
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(created)
				}
				printMessages(env, userID, []models.Message{created})
				return nil
			})
		},
	}
	send.Flags().StringVar(&receiverID, "to", "", "Receiver of the message; defaults to the owner of the request.")

	read := &cobra.Command{
		Use:   "read <requestId>",
		Short: "Mark the messages received on a request as read.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), env, func(b *backend) error {
				return chat.NewStore(b.chat).MarkRead(cmd.Context(), args[0], userID)
			})
		},
	}

	previews := &cobra.Command{
		Use:   "previews",
		Short: "List conversations with their last message and unread count.",
		Long:  "List conversations with their last message and unread count. When the store is unreachable the previews seen last on this machine are shown instead.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), env, func(b *backend) error {
				store := chat.NewStore(b.chat)
				if viewCache := openViewCache(env.cfg); viewCache != nil {
					store.WithCache(viewCache)
				}

				rows, err := store.FetchChatPreviews(cmd.Context(), userID)
				stale := false
				if err != nil {
					cached, cacheErr := store.LoadCachedPreviews(userID)
					if cacheErr != nil || cached == nil {
						return err
					}
					log.Printf("chat: showing cached previews: %v", err)
					rows, stale = cached, true
				}

				if opts.JSON {
					return printJSON(rows)
				}
				printPreviews(env, rows, stale)
				return nil
			})
		},
	}

	cmd.AddCommand(messages, send, read, previews)
	topLevel.AddCommand(cmd)
}

func printMessages(env *environment, userID string, messages []models.Message) {
	if len(messages) == 0 {
		printLine("%s", mutedStyle.Sprint(env.t("chat.no_messages")))
		return
	}
	tbl := newTable("Time", "From", "Message", "")
	for _, message := range messages {
		from := participant(env, message.SenderID)
		if message.SenderID == userID {
			from = accentStyle.Sprint(env.t("chat.you"))
		}
		unread := ""
		if !message.Read && message.ReceiverID == userID {
			unread = alertStyle.Sprint(env.t("chat.new"))
		}
		tbl.AddRow(shortTime(message.CreatedAt.In(env.location)), from, message.Content, unread)
	}
	printTable(tbl)
}

func printPreviews(env *environment, previews []models.ChatPreview, stale bool) {
	if stale {
		printLine("%s", mutedStyle.Sprint(env.t("chat.offline")))
	}
	if len(previews) == 0 {
		printLine("%s", mutedStyle.Sprint(env.t("chat.no_messages")))
		return
	}
	tbl := newTable("Request", "With", "Last message", "At", "Unread")
	for _, preview := range previews {
		unread := ""
		if preview.UnreadCount > 0 {
			unread = alertStyle.Sprint(preview.UnreadCount)
		}
		tbl.AddRow(preview.RequestID, participant(env, preview.CounterpartID), preview.LastMessage, shortTime(preview.LastMessageAt.In(env.location)), unread)
	}
	printTable(tbl)
	printLine("%s: %d", env.t("chat.unread_total"), chat.UnreadTotal(previews))
}

// participant shows the hidden owner of an anonymous request as anonymous.
func participant(env *environment, userID string) string {
	if userID == "" {
		return mutedStyle.Sprint(env.t("support.anonymous"))
	}
	return userID
}
