package view

import "strings"

// AboutSection карточка экрана "О приложении".
type AboutSection struct {
	Title string
	Lines []string
}

// AboutScreen статический экран без состояния и сети.
type AboutScreen struct {
	Title    string
	Intro    string
	Sections []AboutSection
}

// About возвращает содержимое экрана.
func About() AboutScreen {
	return AboutScreen{
		Title: "About SkinAI",
		Intro: "SkinAI is a minimal demo app that sends a photo to a prediction backend and returns a risk score " +
			"computed by a CNN model.",
		Sections: []AboutSection{
			{
				Title: "Disclaimer",
				Lines: []string{
					"Educational use only. This is not a medical diagnosis. If you have concerns, consult a " +
						"qualified healthcare professional.",
				},
			},
			{
				Title: "How it works",
				Lines: []string{
					"1) Pick an image",
					"2) Upload to /predict",
					"3) Display label + risk score",
				},
			},
		},
	}
}

// Text экран в виде простого текста.
func (a AboutScreen) Text() string {
	var b strings.Builder
	b.WriteString(a.Title)
	b.WriteString("\n")
	b.WriteString(a.Intro)
	for _, s := range a.Sections {
		b.WriteString("\n\n")
		b.WriteString(s.Title)
		for _, line := range s.Lines {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}
	return b.String()
}
