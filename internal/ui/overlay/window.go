package overlay

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"boxingday/internal/core/countdown"
	"boxingday/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Config defines countdown window visuals.
type Config struct {
	Compact bool
}

// Unit captions in display order.
var unitCaptions = [...]string{"Months", "Weeks", "Days", "Hours", "Minutes", "Seconds"}

const (
	windowWidth        = float32(560)
	windowHeight       = float32(300)
	compactWidth       = float32(360)
	compactHeight      = float32(120)
	unitValueTextSize  = 34
	unitLabelTextSize  = 12
	celebrationSeconds = 5
)

var accentColor = color.NRGBA{R: 196, G: 30, B: 58, A: 255}

// Window shows the live countdown.
type Window struct {
	app    fyne.App
	window fyne.Window
	config Config

	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	bannerLabel   *canvas.Text
	summaryLabel  *canvas.Text
	millisLabel   *canvas.Text
	unitValues    [len(unitCaptions)]*canvas.Text
	unitsRow      *fyne.Container
	progress      *widget.ProgressBar
	progressLabel *widget.Label
	copyButton    *widget.Button

	engine    *animation.Engine
	cancelCtx context.CancelFunc
	onCopy    func()
}

// New creates the countdown window. Closing it only hides it.
func New(app fyne.App, config Config, engine *animation.Engine) *Window {
	window := app.NewWindow(countdown.DefaultLabel)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	titleLabel := canvas.NewText(countdown.DefaultLabel, theme.Color(theme.ColorNameForeground))
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 22

	subtitleLabel := canvas.NewText("", theme.Color(theme.ColorNameDisabled))
	subtitleLabel.Alignment = fyne.TextAlignCenter
	subtitleLabel.TextSize = 13

	bannerLabel := canvas.NewText("", accentColor)
	bannerLabel.Alignment = fyne.TextAlignCenter
	bannerLabel.TextStyle = fyne.TextStyle{Bold: true}
	bannerLabel.TextSize = 26
	bannerLabel.Hide()

	summaryLabel := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	summaryLabel.Alignment = fyne.TextAlignCenter
	summaryLabel.TextStyle = fyne.TextStyle{Monospace: true}
	summaryLabel.TextSize = 16

	millisLabel := canvas.NewText("", theme.Color(theme.ColorNameDisabled))
	millisLabel.Alignment = fyne.TextAlignCenter
	millisLabel.TextStyle = fyne.TextStyle{Monospace: true}
	millisLabel.TextSize = 12

	overlay := &Window{
		app:           app,
		window:        window,
		config:        config,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		bannerLabel:   bannerLabel,
		summaryLabel:  summaryLabel,
		millisLabel:   millisLabel,
		progress:      widget.NewProgressBar(),
		progressLabel: widget.NewLabel(""),
		engine:        engine,
	}
	overlay.progressLabel.Alignment = fyne.TextAlignCenter
	overlay.progress.TextFormatter = func() string { return "" }

	cells := make([]fyne.CanvasObject, 0, len(unitCaptions))
	for index, caption := range unitCaptions {
		value := canvas.NewText("00", accentColor)
		value.Alignment = fyne.TextAlignCenter
		value.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
		value.TextSize = unitValueTextSize

		label := canvas.NewText(caption, theme.Color(theme.ColorNameDisabled))
		label.Alignment = fyne.TextAlignCenter
		label.TextSize = unitLabelTextSize

		overlay.unitValues[index] = value
		cells = append(cells, container.New(&unitCellLayout{}, value, label))
	}
	overlay.unitsRow = container.NewGridWithColumns(len(unitCaptions), cells...)

	overlay.copyButton = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), func() {
		if overlay.onCopy != nil {
			overlay.onCopy()
		}
	})

	content := container.NewVBox(
		titleLabel,
		subtitleLabel,
		bannerLabel,
		overlay.unitsRow,
		millisLabel,
		summaryLabel,
		overlay.progress,
		overlay.progressLabel,
		container.NewHBox(layout.NewSpacer(), overlay.copyButton),
	)
	window.SetContent(container.NewPadded(content))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	if engine != nil {
		engine.SetOnFinish(overlay.finishCelebration)
	}
	overlay.applyWindowMode()
	return overlay
}

// SetEngine attaches the animation engine.
func (overlay *Window) SetEngine(engine *animation.Engine) {
	overlay.engine = engine
	if engine != nil {
		engine.SetOnFinish(overlay.finishCelebration)
	}
}

// Show displays the window.
func (overlay *Window) Show() {
	overlay.window.Show()
	overlay.window.RequestFocus()
}

// Hide hides the window and stops animations.
func (overlay *Window) Hide() {
	overlay.stopEngine()
	overlay.window.Hide()
}

// SetOnCopy sets the copy button handler.
func (overlay *Window) SetOnCopy(handler func()) {
	overlay.onCopy = handler
}

// SetTarget updates the heading for target. Safe from any goroutine.
func (overlay *Window) SetTarget(target countdown.Target) {
	fyne.Do(func() {
		overlay.setTargetUnsafe(target)
	})
}

// SetRemaining updates the unit display. Safe from any goroutine.
func (overlay *Window) SetRemaining(remaining countdown.Remaining) {
	fyne.Do(func() {
		overlay.setRemainingUnsafe(remaining)
	})
}

// Celebrate shows the completion banner animation for label. Safe from
// any goroutine.
func (overlay *Window) Celebrate(label string) {
	if label == "" {
		label = countdown.DefaultLabel
	}
	fyne.Do(func() {
		overlay.stopEngine()
		overlay.bannerLabel.Text = fmt.Sprintf("It's %s!", label)
		overlay.bannerLabel.Show()
		overlay.bannerLabel.Refresh()
		if overlay.engine == nil {
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		overlay.cancelCtx = cancel
		overlay.engine.StartCelebration(ctx, animation.CelebrationSpec{
			Frames:   animation.CelebrationFrames(label),
			Duration: celebrationSeconds * time.Second,
		})
	})
}

// SetBanner updates the celebration banner text. Safe from any goroutine.
func (overlay *Window) SetBanner(text string) {
	fyne.Do(func() {
		overlay.bannerLabel.Text = text
		overlay.bannerLabel.Refresh()
	})
}

// UpdateConfig updates window visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.config = config
	overlay.applyWindowMode()
}

func (overlay *Window) setTargetUnsafe(target countdown.Target) {
	overlay.titleLabel.Text = TargetTitle(target)
	overlay.subtitleLabel.Text = target.At.Format("Monday, January 2, 2006 15:04")
	overlay.titleLabel.Refresh()
	overlay.subtitleLabel.Refresh()
	overlay.window.SetTitle(overlay.titleLabel.Text)
}

func (overlay *Window) setRemainingUnsafe(remaining countdown.Remaining) {
	for index, value := range UnitValues(remaining) {
		if overlay.unitValues[index].Text != value {
			overlay.unitValues[index].Text = value
			overlay.unitValues[index].Refresh()
		}
	}
	overlay.millisLabel.Text = "." + countdown.FormatUnit(remaining.Milliseconds, 3)
	overlay.millisLabel.Refresh()
	overlay.summaryLabel.Text = CompactText(remaining)
	overlay.summaryLabel.Refresh()
	overlay.progress.SetValue(remaining.Progress / 100)
	overlay.progressLabel.SetText(fmt.Sprintf("Year progress %.2f%%", remaining.Progress))
	if !remaining.Complete && overlay.cancelCtx == nil && overlay.bannerLabel.Visible() {
		overlay.bannerLabel.Hide()
	}
}

func (overlay *Window) finishCelebration() {
	fyne.Do(func() {
		overlay.cancelCtx = nil
		overlay.bannerLabel.Hide()
	})
}

func (overlay *Window) stopEngine() {
	if overlay.cancelCtx != nil {
		overlay.cancelCtx()
		overlay.cancelCtx = nil
	}
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Compact {
		overlay.unitsRow.Hide()
		overlay.millisLabel.Hide()
		overlay.progressLabel.Hide()
		overlay.summaryLabel.Show()
		overlay.window.Resize(fyne.NewSize(compactWidth, compactHeight))
		return
	}
	overlay.unitsRow.Show()
	overlay.millisLabel.Show()
	overlay.progressLabel.Show()
	overlay.summaryLabel.Hide()
	overlay.window.Resize(fyne.NewSize(windowWidth, windowHeight))
}

// TargetTitle returns the window heading for target.
func TargetTitle(target countdown.Target) string {
	label := target.Label
	if label == "" {
		label = countdown.DefaultLabel
	}
	if target.Kind == countdown.KindRecurring {
		return fmt.Sprintf("%s %d", label, target.Year)
	}
	return label
}

// CompactText is the single line shown in compact mode.
func CompactText(remaining countdown.Remaining) string {
	if remaining.Complete {
		return "00d 00:00:00"
	}
	return fmt.Sprintf("%sd %s", countdown.FormatUnit(remaining.TotalDays, 2), remaining.Clock())
}

// UnitValues returns the padded unit strings in display order.
func UnitValues(remaining countdown.Remaining) [len(unitCaptions)]string {
	return [len(unitCaptions)]string{
		countdown.FormatUnit(remaining.Months, 2),
		countdown.FormatUnit(remaining.Weeks, 2),
		countdown.FormatUnit(remaining.Days, 2),
		countdown.FormatUnit(remaining.Hours, 2),
		countdown.FormatUnit(remaining.Minutes, 2),
		countdown.FormatUnit(remaining.Seconds, 2),
	}
}

// unitCellLayout stacks a value above its caption, both centered.
type unitCellLayout struct{}

func (cell *unitCellLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	value := objects[0]
	caption := objects[1]

	valueSize := value.MinSize()
	captionSize := caption.MinSize()
	total := valueSize.Height + captionSize.Height
	top := (size.Height - total) / 2
	if top < 0 {
		top = 0
	}
	value.Move(fyne.NewPos(0, top))
	value.Resize(fyne.NewSize(size.Width, valueSize.Height))
	caption.Move(fyne.NewPos(0, top+valueSize.Height))
	caption.Resize(fyne.NewSize(size.Width, captionSize.Height))
}

func (cell *unitCellLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	valueSize := objects[0].MinSize()
	captionSize := objects[1].MinSize()
	width := valueSize.Width
	if captionSize.Width > width {
		width = captionSize.Width
	}
	return fyne.NewSize(width+8, valueSize.Height+captionSize.Height)
}
