package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// marshal round-trips a command through JSON into a generic map.
func marshal(t *testing.T, cmd any) map[string]any {
	t.Helper()
	payload, err := json.Marshal(cmd)
	assert.NoError(t, err)
	var out map[string]any
	assert.NoError(t, json.Unmarshal(payload, &out))
	return out
}

func TestNewSetParameters(t *testing.T) {
	cmd := marshal(t, NewSetParameters(SessionParams{
		APIID:             12345,
		APIHash:           "hash",
		DatabaseDirectory: "state",
		FilesDirectory:    "files",
	}))

	assert.Equal(t, "setTdlibParameters", cmd["@type"])

	params, ok := cmd["parameters"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "tdlibParameters", params["@type"])
	assert.Equal(t, float64(12345), params["api_id"])
	assert.Equal(t, "hash", params["api_hash"])
	assert.Equal(t, "state", params["database_directory"])
	assert.Equal(t, "files", params["files_directory"])
	assert.Equal(t, true, params["use_message_database"])
	assert.Equal(t, false, params["use_test_dc"])
	assert.Equal(t, "en", params["system_language_code"])
}

func TestNewSetParameters_Defaults(t *testing.T) {
	cmd := marshal(t, NewSetParameters(SessionParams{APIID: 1, APIHash: "h"}))

	params := cmd["parameters"].(map[string]any)
	assert.Equal(t, "tdlib", params["database_directory"])
	assert.Equal(t, "tdlib", params["files_directory"])
	assert.Equal(t, "headless", params["device_model"])
	assert.NotEmpty(t, params["system_version"])
	assert.NotEmpty(t, params["application_version"])
}

func TestNewSetPhoneNumber(t *testing.T) {
	cmd := marshal(t, NewSetPhoneNumber("+15550001111"))

	assert.Equal(t, "setAuthenticationPhoneNumber", cmd["@type"])
	assert.Equal(t, "+15550001111", cmd["phone_number"])

	settings, ok := cmd["settings"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "phoneNumberAuthenticationSettings", settings["@type"])
	assert.Equal(t, false, settings["allow_flash_call"])
}

func TestNewSendMessage(t *testing.T) {
	cmd := marshal(t, NewSendMessage(987, "hello"))

	assert.Equal(t, "sendMessage", cmd["@type"])
	assert.Equal(t, float64(987), cmd["chat_id"])

	content := cmd["input_message_content"].(map[string]any)
	assert.Equal(t, "inputMessageText", content["@type"])

	text := content["text"].(map[string]any)
	assert.Equal(t, "formattedText", text["@type"])
	assert.Equal(t, "hello", text["text"])
	assert.Equal(t, []any{}, text["entities"])
}

func TestLookupCommands(t *testing.T) {
	getUser := marshal(t, NewGetUser(42))
	assert.Equal(t, "getUser", getUser["@type"])
	assert.Equal(t, float64(42), getUser["user_id"])

	getChat := marshal(t, NewGetChat(-100))
	assert.Equal(t, "getChat", getChat["@type"])
	assert.Equal(t, float64(-100), getChat["chat_id"])

	search := marshal(t, NewSearchPublicChat("alice"))
	assert.Equal(t, "searchPublicChat", search["@type"])
	assert.Equal(t, "alice", search["username"])
}

func TestAuthCommands(t *testing.T) {
	assert.Equal(t, "checkDatabaseEncryptionKey", marshal(t, NewCheckEncryptionKey(""))["@type"])
	assert.Equal(t, "checkAuthenticationCode", marshal(t, NewCheckCode("1234"))["@type"])
	assert.Equal(t, "checkAuthenticationPassword", marshal(t, NewCheckPassword("pw"))["@type"])

	register := marshal(t, NewRegisterUser("Alice", "Smith"))
	assert.Equal(t, "registerUser", register["@type"])
	assert.Equal(t, "Alice", register["first_name"])
	assert.Equal(t, "Smith", register["last_name"])

	assert.Equal(t, "close", marshal(t, NewClose())["@type"])

	verbosity := marshal(t, NewSetLogVerbosity(1))
	assert.Equal(t, "setLogVerbosityLevel", verbosity["@type"])
	assert.Equal(t, float64(1), verbosity["new_verbosity_level"])
}
