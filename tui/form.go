package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tradermatch_client/models"
)

type formField int

const (
	fieldDisplayName formField = iota
	fieldBio
	fieldAge
	fieldLocation
	fieldTradingStyle
	fieldExperience
	fieldCoins
	fieldLookingFor
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldDisplayName:  "Display name",
	fieldBio:          "Bio",
	fieldAge:          "Age",
	fieldLocation:     "Location",
	fieldTradingStyle: "Trading style",
	fieldExperience:   "Experience",
	fieldCoins:        "Favorite coins",
	fieldLookingFor:   "Looking for",
}

var fieldHints = [fieldCount]string{
	fieldTradingStyle: "day_trader swing_trader hodler scalper defi_farmer nft_collector",
	fieldExperience:   "beginner intermediate advanced expert",
	fieldCoins:        "comma separated, e.g. BTC,ETH",
}

// profileForm edits a models.ProfileUpdate one text field at a time.
type profileForm struct {
	inputs [fieldCount]textinput.Model
	focus  formField
}

func newProfileForm(draft models.ProfileUpdate) profileForm {
	var form profileForm
	for i := range form.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 500
		form.inputs[i] = input
	}
	form.inputs[fieldDisplayName].SetValue(draft.DisplayName)
	form.inputs[fieldBio].SetValue(draft.Bio)
	if draft.Age > 0 {
		form.inputs[fieldAge].SetValue(strconv.Itoa(draft.Age))
	}
	form.inputs[fieldLocation].SetValue(draft.Location)
	form.inputs[fieldTradingStyle].SetValue(draft.TradingStyle)
	form.inputs[fieldExperience].SetValue(draft.ExperienceLevel)
	form.inputs[fieldCoins].SetValue(strings.Join(draft.FavoriteCoins, ","))
	form.inputs[fieldLookingFor].SetValue(draft.LookingFor)
	form.inputs[fieldDisplayName].Focus()
	return form
}

func (form *profileForm) next(step int) {
	form.inputs[form.focus].Blur()
	form.focus = formField((int(form.focus) + step + int(fieldCount)) % int(fieldCount))
	form.inputs[form.focus].Focus()
}

func (form *profileForm) update(message tea.Msg) tea.Cmd {
	var command tea.Cmd
	form.inputs[form.focus], command = form.inputs[form.focus].Update(message)
	return command
}

// value builds the update. An unparsable age becomes zero and fails
// validation like an empty one.
func (form profileForm) value() models.ProfileUpdate {
	age, _ := strconv.Atoi(strings.TrimSpace(form.inputs[fieldAge].Value()))
	var coins []string
	for _, coin := range strings.Split(form.inputs[fieldCoins].Value(), ",") {
		if coin = strings.ToUpper(strings.TrimSpace(coin)); coin != "" {
			coins = append(coins, coin)
		}
	}
	return models.ProfileUpdate{
		DisplayName:     strings.TrimSpace(form.inputs[fieldDisplayName].Value()),
		Bio:             strings.TrimSpace(form.inputs[fieldBio].Value()),
		Age:             age,
		Location:        strings.TrimSpace(form.inputs[fieldLocation].Value()),
		TradingStyle:    strings.TrimSpace(form.inputs[fieldTradingStyle].Value()),
		ExperienceLevel: strings.TrimSpace(form.inputs[fieldExperience].Value()),
		FavoriteCoins:   coins,
		LookingFor:      strings.TrimSpace(form.inputs[fieldLookingFor].Value()),
	}
}
