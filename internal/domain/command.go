package domain

import "runtime"

// SessionParams identifies this application to the engine and tells it
// where to keep its state.
type SessionParams struct {
	APIID             int64
	APIHash           string
	DatabaseDirectory string
	FilesDirectory    string
	DeviceModel       string
	SystemVersion     string
	AppVersion        string
}

type tdlibParameters struct {
	Type                   string `json:"@type"`
	UseTestDC              bool   `json:"use_test_dc"`
	DatabaseDirectory      string `json:"database_directory"`
	FilesDirectory         string `json:"files_directory"`
	UseFileDatabase        bool   `json:"use_file_database"`
	UseChatInfoDatabase    bool   `json:"use_chat_info_database"`
	UseMessageDatabase     bool   `json:"use_message_database"`
	UseSecretChats         bool   `json:"use_secret_chats"`
	APIID                  int64  `json:"api_id"`
	APIHash                string `json:"api_hash"`
	SystemLanguageCode     string `json:"system_language_code"`
	DeviceModel            string `json:"device_model"`
	SystemVersion          string `json:"system_version"`
	ApplicationVersion     string `json:"application_version"`
	EnableStorageOptimizer bool   `json:"enable_storage_optimizer"`
	IgnoreFileNames        bool   `json:"ignore_file_names"`
}

type setParametersCommand struct {
	Type       string          `json:"@type"`
	Parameters tdlibParameters `json:"parameters"`
}

// NewSetParameters builds the setTdlibParameters command. Empty identity
// fields fall back to the defaults the engine expects.
func NewSetParameters(p SessionParams) any {
	if p.DatabaseDirectory == "" {
		p.DatabaseDirectory = "tdlib"
	}
	if p.FilesDirectory == "" {
		p.FilesDirectory = "tdlib"
	}
	if p.DeviceModel == "" {
		p.DeviceModel = "headless"
	}
	if p.SystemVersion == "" {
		p.SystemVersion = runtime.GOOS
	}
	if p.AppVersion == "" {
		p.AppVersion = "teleterm"
	}
	return setParametersCommand{
		Type: "setTdlibParameters",
		Parameters: tdlibParameters{
			Type:                   "tdlibParameters",
			DatabaseDirectory:      p.DatabaseDirectory,
			FilesDirectory:         p.FilesDirectory,
			UseFileDatabase:        true,
			UseChatInfoDatabase:    true,
			UseMessageDatabase:     true,
			UseSecretChats:         true,
			APIID:                  p.APIID,
			APIHash:                p.APIHash,
			SystemLanguageCode:     "en",
			DeviceModel:            p.DeviceModel,
			SystemVersion:          p.SystemVersion,
			ApplicationVersion:     p.AppVersion,
			EnableStorageOptimizer: true,
		},
	}
}

type checkEncryptionKeyCommand struct {
	Type          string `json:"@type"`
	EncryptionKey string `json:"encryption_key"`
}

// NewCheckEncryptionKey builds the checkDatabaseEncryptionKey command.
// An empty key means the local database is unencrypted.
func NewCheckEncryptionKey(key string) any {
	return checkEncryptionKeyCommand{Type: "checkDatabaseEncryptionKey", EncryptionKey: key}
}

type phoneNumberSettings struct {
	Type                  string `json:"@type"`
	AllowFlashCall        bool   `json:"allow_flash_call"`
	AllowMissedCall       bool   `json:"allow_missed_call"`
	IsCurrentPhoneNumber  bool   `json:"is_current_phone_number"`
	AllowSMSRetrieverAPI  bool   `json:"allow_sms_retriever_api"`
}

type setPhoneNumberCommand struct {
	Type        string              `json:"@type"`
	PhoneNumber string              `json:"phone_number"`
	Settings    phoneNumberSettings `json:"settings"`
}

// NewSetPhoneNumber builds the setAuthenticationPhoneNumber command.
func NewSetPhoneNumber(phone string) any {
	return setPhoneNumberCommand{
		Type:        "setAuthenticationPhoneNumber",
		PhoneNumber: phone,
		Settings:    phoneNumberSettings{Type: "phoneNumberAuthenticationSettings"},
	}
}

type checkCodeCommand struct {
	Type string `json:"@type"`
	Code string `json:"code"`
}

// NewCheckCode builds the checkAuthenticationCode command.
func NewCheckCode(code string) any {
	return checkCodeCommand{Type: "checkAuthenticationCode", Code: code}
}

type checkPasswordCommand struct {
	Type     string `json:"@type"`
	Password string `json:"password"`
}

// NewCheckPassword builds the checkAuthenticationPassword command.
func NewCheckPassword(password string) any {
	return checkPasswordCommand{Type: "checkAuthenticationPassword", Password: password}
}

type registerUserCommand struct {
	Type      string `json:"@type"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewRegisterUser builds the registerUser command for new accounts.
func NewRegisterUser(firstName, lastName string) any {
	return registerUserCommand{Type: "registerUser", FirstName: firstName, LastName: lastName}
}

type getUserCommand struct {
	Type   string `json:"@type"`
	UserID int64  `json:"user_id"`
}

// NewGetUser builds the getUser lookup command.
func NewGetUser(id int64) any {
	return getUserCommand{Type: "getUser", UserID: id}
}

type getChatCommand struct {
	Type   string `json:"@type"`
	ChatID int64  `json:"chat_id"`
}

// NewGetChat builds the getChat lookup command.
func NewGetChat(id int64) any {
	return getChatCommand{Type: "getChat", ChatID: id}
}

type searchPublicChatCommand struct {
	Type     string `json:"@type"`
	Username string `json:"username"`
}

// NewSearchPublicChat builds the searchPublicChat lookup command.
func NewSearchPublicChat(username string) any {
	return searchPublicChatCommand{Type: "searchPublicChat", Username: username}
}

type formattedText struct {
	Type     string `json:"@type"`
	Text     string `json:"text"`
	Entities []any  `json:"entities"`
}

type inputMessageText struct {
	Type string        `json:"@type"`
	Text formattedText `json:"text"`
}

type sendMessageCommand struct {
	Type                string           `json:"@type"`
	ChatID              int64            `json:"chat_id"`
	InputMessageContent inputMessageText `json:"input_message_content"`
}

// NewSendMessage builds a sendMessage command with plain-text content.
func NewSendMessage(chatID int64, text string) any {
	return sendMessageCommand{
		Type:   "sendMessage",
		ChatID: chatID,
		InputMessageContent: inputMessageText{
			Type: "inputMessageText",
			Text: formattedText{Type: "formattedText", Text: text, Entities: []any{}},
		},
	}
}

type closeCommand struct {
	Type string `json:"@type"`
}

// NewClose builds the close command that shuts the engine down.
func NewClose() any {
	return closeCommand{Type: "close"}
}

type setLogVerbosityCommand struct {
	Type              string `json:"@type"`
	NewVerbosityLevel int    `json:"new_verbosity_level"`
}

// NewSetLogVerbosity builds the setLogVerbosityLevel command. Safe for
// synchronous execution; it touches no network.
func NewSetLogVerbosity(level int) any {
	return setLogVerbosityCommand{Type: "setLogVerbosityLevel", NewVerbosityLevel: level}
}
