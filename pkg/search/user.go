package search

// UserResource is the resource name of identity users.
const UserResource = "identity.User"

// User states.
var UserState = EnumMap{
	"ENABLED":  "Enabled",
	"DISABLED": "Disabled",
	"PENDING":  "Pending",
}

// UserTypeLabel maps user types to their access control label.
var UserTypeLabel = EnumMap{
	"USER":     "Console, API",
	"API_USER": "API Only",
}

// UserSource backs the user table's value handlers.
type UserSource interface {
	DistinctSource
	ReferenceSource
}

// UserSearchHandlers returns the search configuration of the user table.
func UserSearchHandlers(src UserSource) *Handlers {
	return &Handlers{
		KeyItemSets: []KeyItemSet{{
			Title: "Properties",
			Items: []KeyItem{
				{Name: "user_id", Label: "User ID"},
				{Name: "name", Label: "Name"},
				{Name: "state", Label: "State"},
				{Name: "email", Label: "E-mail"},
				{Name: "user_type", Label: "Access Control"},
				{Name: "role_name", Label: "Role"},
				{Name: "backend", Label: "Auth Type"},
				{Name: "last_accessed_at", Label: "Last Activity", DataType: Datetime},
				{Name: "timezone", Label: "Timezone"},
			},
		}},
		ValueHandlers: map[string]ValueHandler{
			"user_id":          DistinctValueHandler(UserResource, "user_id", String, src),
			"name":             DistinctValueHandler(UserResource, "name", String, src),
			"state":            EnumValueHandler(UserState),
			"email":            DistinctValueHandler(UserResource, "email", String, src),
			"user_type":        EnumValueHandler(UserTypeLabel),
			"role_name":        ReferenceValueHandler(UserResource, src),
			"backend":          DistinctValueHandler(UserResource, "backend", String, src),
			"last_accessed_at": DistinctValueHandler(UserResource, "last_accessed_at", Datetime, src),
			"timezone":         DistinctValueHandler(UserResource, "timezone", String, src),
		},
	}
}

// StateColor is the icon and text color of a state badge, as palette tokens.
type StateColor struct {
	IconColor string `json:"iconColor"`
	TextColor string `json:"textColor"`
}

// Palette tokens.
const (
	ColorSafe      = "safe"
	ColorGray900   = "gray.900"
	ColorGray400   = "gray.400"
	ColorYellow500 = "yellow.500"
)

// UserStateColor maps user states to badge colors.
var UserStateColor = map[string]StateColor{
	"ENABLED":  {IconColor: ColorSafe, TextColor: ColorGray900},
	"PENDING":  {IconColor: ColorYellow500, TextColor: ColorGray900},
	"DISABLED": {IconColor: ColorGray400, TextColor: ColorGray400},
}

// PluginStateColor maps plugin states to badge colors.
var PluginStateColor = map[string]StateColor{
	"ACTIVE":   {IconColor: ColorSafe, TextColor: ColorGray900},
	"INACTIVE": {IconColor: ColorGray400, TextColor: ColorGray400},
}
