package adapter

import "context"

// Button is one inline or reply keyboard button. Exactly one of Data or URL
// should be set for inline keyboards; reply keyboards use Text only.
type Button struct {
	Text string
	Data string
	URL  string
}

type ReplyMarkup struct {
	Buttons  [][]Button
	IsInline bool
}

type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

type SendMediaParams struct {
	ChatID  int64
	FileID  string
	Caption string
}

// Membership statuses reported by the platform that count as subscribed.
const (
	MemberStatusMember        = "member"
	MemberStatusAdministrator = "administrator"
	MemberStatusCreator       = "creator"
)

// TelegramBotAdapter is the outbound capability surface the use cases need.
// Every call maps to a single remote API request; errors are returned raw and
// classified by the caller.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	SendPhoto(ctx context.Context, params SendMediaParams) error
	SendVideo(ctx context.Context, params SendMediaParams) error
	// MemberStatus fetches the user's membership status string in the chat.
	MemberStatus(ctx context.Context, chatID, userID int64) (string, error)
}
