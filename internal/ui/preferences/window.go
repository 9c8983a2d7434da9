package preferences

import (
	"strconv"
	"strings"
	"time"

	"boxingday/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var (
	modeOptions  = []string{"Boxing Day (every year)", "Custom date"}
	themeOptions = []string{string(ThemeSystem), string(ThemeLight), string(ThemeDark)}
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	location *time.Location
	onSave   func(Settings)
	onCancel func()

	mode          *widget.RadioGroup
	customDate    *widget.Entry
	customLabel   *widget.Entry
	interval      *widget.Entry
	firstYear     *widget.Entry
	lastYear      *widget.Entry
	theme         *widget.Select
	compact       *widget.Check
	notifications *widget.Check
	reminder      *widget.Entry
	startAtLogin  *widget.Check
	errorLabel    *widget.Label
}

// New creates a preferences window. Dates are validated in location.
func New(app fyne.App, settings Settings, location *time.Location, onSave func(Settings)) *Window {
	window := app.NewWindow("BoxingDay Settings")
	if location == nil {
		location = time.Local
	}

	prefs := &Window{
		window:        window,
		location:      location,
		onSave:        onSave,
		mode:          widget.NewRadioGroup(modeOptions, nil),
		customDate:    widget.NewEntry(),
		customLabel:   widget.NewEntry(),
		interval:      widget.NewEntry(),
		firstYear:     widget.NewEntry(),
		lastYear:      widget.NewEntry(),
		theme:         widget.NewSelect(themeOptions, nil),
		compact:       widget.NewCheck("Compact window", nil),
		notifications: widget.NewCheck("Notify when the countdown completes", nil),
		reminder:      widget.NewEntry(),
		startAtLogin:  widget.NewCheck("Start at login", nil),
		errorLabel:    widget.NewLabel(""),
	}
	prefs.customDate.SetPlaceHolder("2027-03-14 or 2027-03-14T09:30")
	prefs.customLabel.SetPlaceHolder("Label")
	prefs.reminder.SetPlaceHolder("0 9 * * * (empty disables)")
	prefs.errorLabel.Wrapping = fyne.TextWrapWord
	prefs.errorLabel.Hide()
	prefs.mode.OnChanged = func(string) { prefs.syncCustomFields() }

	form := container.NewVBox(
		widget.NewLabelWithStyle("Countdown", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.mode,
		widget.NewForm(
			widget.NewFormItem("Date", prefs.customDate),
			widget.NewFormItem("Label", prefs.customLabel),
			widget.NewFormItem("Update every (ms)", prefs.interval),
			widget.NewFormItem("First year", prefs.firstYear),
			widget.NewFormItem("Last year", prefs.lastYear),
		),
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(widget.NewFormItem("Theme", prefs.theme)),
		prefs.compact,
		widget.NewLabelWithStyle("Reminders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		widget.NewForm(widget.NewFormItem("Daily reminder", prefs.reminder)),
		prefs.startAtLogin,
		prefs.errorLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(460, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the cancel handler.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	if settings.Mode == ModeCustom {
		prefs.mode.SetSelected(modeOptions[1])
	} else {
		prefs.mode.SetSelected(modeOptions[0])
	}
	prefs.customDate.SetText(settings.CustomDate)
	prefs.customLabel.SetText(settings.CustomLabel)
	prefs.interval.SetText(strconv.Itoa(int(settings.UpdateInterval / time.Millisecond)))
	prefs.firstYear.SetText(strconv.Itoa(settings.Years.First))
	prefs.lastYear.SetText(strconv.Itoa(settings.Years.Last))
	prefs.theme.SetSelected(string(settings.Theme))
	prefs.compact.SetChecked(settings.Compact)
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.reminder.SetText(settings.ReminderSpec)
	prefs.startAtLogin.SetChecked(settings.StartAtLogin)
	prefs.errorLabel.Hide()
	prefs.syncCustomFields()
}

func (prefs *Window) syncCustomFields() {
	if prefs.mode.Selected == modeOptions[1] {
		prefs.customDate.Enable()
		prefs.customLabel.Enable()
		return
	}
	prefs.customDate.Disable()
	prefs.customLabel.Disable()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	settings.Mode = ModeRecurring
	if prefs.mode.Selected == modeOptions[1] {
		settings.Mode = ModeCustom
	}
	settings.CustomDate = strings.TrimSpace(prefs.customDate.Text)
	settings.CustomLabel = strings.TrimSpace(prefs.customLabel.Text)
	if millis, ok := parsePositiveInt(prefs.interval.Text); ok {
		settings.UpdateInterval = time.Duration(millis) * time.Millisecond
	}
	first, firstOK := parsePositiveInt(prefs.firstYear.Text)
	last, lastOK := parsePositiveInt(prefs.lastYear.Text)
	if firstOK && lastOK {
		settings.Years = model.YearRange{First: first, Last: last}
	}
	settings.Theme = Theme(prefs.theme.Selected)
	settings.Compact = prefs.compact.Checked
	settings.Notifications = prefs.notifications.Checked
	settings.ReminderSpec = strings.TrimSpace(prefs.reminder.Text)
	settings.StartAtLogin = prefs.startAtLogin.Checked

	if err := Validate(settings, prefs.location); err != nil {
		prefs.errorLabel.SetText(err.Error())
		prefs.errorLabel.Show()
		return
	}
	prefs.errorLabel.Hide()

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
