package types

// Wire-level constants shared by the emulator and SDK callers.
const (
	ObjectBusinessAccount = "whatsapp_business_account"
	FieldMessages         = "messages"
	MessagingProduct      = "whatsapp"

	MessageTypeText        = "text"
	MessageTypeImage       = "image"
	MessageTypeInteractive = "interactive"

	InteractiveTypeButton      = "button"
	InteractiveTypeList        = "list"
	InteractiveTypeButtonReply = "button_reply"
	InteractiveTypeListReply   = "list_reply"

	StatusSent = "sent"
)

// Vendor field-length caps enforced by the request builders.
const (
	MaxBodyLength           = 4096
	MaxButtonTitleLength    = 20
	MaxButtons              = 3
	MaxListRowTitleLength   = 24
	MaxListRowDescLength    = 72
	MaxListRows             = 10
	MaxListButtonTextLength = 20
)
