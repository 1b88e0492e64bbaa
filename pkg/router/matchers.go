package router

import (
	"botrouter/pkg/composer"
	"strings"

	"golang.org/x/text/cases"
)

// Kind names the populated field of a Telegram update.
type Kind string

// Update kinds
const (
	KindUnknown            Kind = ""
	KindMessage            Kind = "message"
	KindEditedMessage      Kind = "edited_message"
	KindChannelPost        Kind = "channel_post"
	KindEditedChannelPost  Kind = "edited_channel_post"
	KindInlineQuery        Kind = "inline_query"
	KindChosenInlineResult Kind = "chosen_inline_result"
	KindCallbackQuery      Kind = "callback_query"
	KindShippingQuery      Kind = "shipping_query"
	KindPreCheckoutQuery   Kind = "pre_checkout_query"
	KindPoll               Kind = "poll"
	KindPollAnswer         Kind = "poll_answer"
	KindMyChatMember       Kind = "my_chat_member"
	KindChatMember         Kind = "chat_member"
	KindChatJoinRequest    Kind = "chat_join_request"
)

// UpdateKind reports which field of the update is set. It can be passed to
// NewCustom directly.
func UpdateKind(c *composer.Context) Kind {
	u := c.Update
	switch {
	case u.Message != nil:
		return KindMessage
	case u.EditedMessage != nil:
		return KindEditedMessage
	case u.ChannelPost != nil:
		return KindChannelPost
	case u.EditedChannelPost != nil:
		return KindEditedChannelPost
	case u.InlineQuery != nil:
		return KindInlineQuery
	case u.ChosenInlineResult != nil:
		return KindChosenInlineResult
	case u.CallbackQuery != nil:
		return KindCallbackQuery
	case u.ShippingQuery != nil:
		return KindShippingQuery
	case u.PreCheckoutQuery != nil:
		return KindPreCheckoutQuery
	case u.Poll != nil:
		return KindPoll
	case u.PollAnswer != nil:
		return KindPollAnswer
	case u.MyChatMember != nil:
		return KindMyChatMember
	case u.ChatMember != nil:
		return KindChatMember
	case u.ChatJoinRequest != nil:
		return KindChatJoinRequest
	}
	return KindUnknown
}

// Kinds routes by update kind. Empty updates match nothing.
func Kinds() composer.Selector[Kind] {
	return Match(func(c *composer.Context) (Kind, bool) {
		kind := UpdateKind(c)
		return kind, kind != KindUnknown
	})
}

// Match adapts a routing function that cannot fail.
func Match[K comparable](fn func(c *composer.Context) (K, bool)) composer.Selector[K] {
	return func(c *composer.Context) (K, bool, error) {
		key, ok := fn(c)
		return key, ok, nil
	}
}

// Command routes bot commands by name, case-folded, so "/Start" and
// "/start@my_bot" both yield "start". Non-command updates match nothing.
func Command() composer.Selector[string] {
	return Match(func(c *composer.Context) (string, bool) {
		cmd := c.Command()
		if cmd == "" {
			return "", false
		}
		// cases.Caser keeps state and must not be shared between goroutines
		return cases.Fold().String(cmd), true
	})
}

// CallbackPrefix routes callback queries by the part of their data before sep.
// Data without sep is used whole. Updates without a callback match nothing.
func CallbackPrefix(sep string) composer.Selector[string] {
	return Match(func(c *composer.Context) (string, bool) {
		if c.CallbackQuery() == nil {
			return "", false
		}
		data := c.CallbackData()
		if sep != "" {
			if i := strings.Index(data, sep); i >= 0 {
				data = data[:i]
			}
		}
		return data, true
	})
}

// ChatType routes by the type of the effective chat: private, group,
// supergroup or channel.
func ChatType() composer.Selector[string] {
	return Match(func(c *composer.Context) (string, bool) {
		chat := c.Chat()
		if chat == nil || chat.Type == "" {
			return "", false
		}
		return chat.Type, true
	})
}
