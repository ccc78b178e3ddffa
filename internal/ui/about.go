package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Version is set by the command at start.
var Version = "dev"

const aboutText = `## PhotoReader

Timed presentation of page images, e-books and plain text.

Images, folders and CBZ archives play page by page. TXT plays word by word.
DOCX, EPUB and MOBI are split into pages of text.`

// About is a modal dialog with the program description and a few facts
// about the running instance.
type About struct {
	title     string
	parent    fyne.Window
	container *fyne.Container
	d         dialog.Dialog
}

// NewAbout builds the dialog. facts are shown as label/value rows below the
// description.
func NewAbout(parent fyne.Window, title string, facts [][2]string) *About {
	a := &About{
		title:  title,
		parent: parent,
	}

	form := widget.NewForm(widget.NewFormItem("Version", widget.NewLabel(Version)))
	for _, f := range facts {
		value := widget.NewLabel(f[1])
		value.Wrapping = fyne.TextWrapBreak
		form.Append(f[0], value)
	}

	ok := container.NewHBox(
		layout.NewSpacer(),
		widget.NewButton("OK", func() { a.Hide() }),
		layout.NewSpacer(),
	)

	body := container.NewVBox(widget.NewRichTextFromMarkdown(aboutText), form)
	a.container = container.NewBorder(nil, ok, nil, nil, body)

	return a
}

func (a *About) Hide() {
	a.d.Hide()
}

func (a *About) Show() {
	a.d = dialog.NewCustomWithoutButtons(a.title, a.container, a.parent)
	a.d.Resize(fyne.NewSize(480, 360))
	a.d.Show()
}
