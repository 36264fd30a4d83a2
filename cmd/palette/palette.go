// Command palette shows how every named color degrades on the terminal
// color profiles the tcell driver can meet.
package main

import (
	"fmt"
	"log"

	"github.com/muesli/termenv"

	"slate/device"
)

var profiles = []struct {
	name    string
	profile termenv.Profile
}{
	{"truecolor", termenv.TrueColor},
	{"ansi256", termenv.ANSI256},
	{"ansi", termenv.ANSI},
}

func main() {
	log.SetFlags(0)
	header := fmt.Sprintf("%-10s%-9s", "", "")
	for _, p := range profiles {
		header += fmt.Sprintf("%-12s", p.name)
	}
	log.Print(header)
	for _, named := range device.Palette {
		line := fmt.Sprintf("%-10s%-9s", named.Name, named.Color.Hex())
		for _, p := range profiles {
			line += swatch(p.profile, named.Color)
		}
		log.Print(line)
	}
}

func swatch(profile termenv.Profile, c device.Color) string {
	converted := profile.Convert(termenv.RGBColor(c.Hex()))
	return termenv.String("   ").Background(converted).String() + fmt.Sprintf(" %-8s", code(converted))
}

func code(c termenv.Color) string {
	switch c := c.(type) {
	case termenv.ANSI256Color:
		return fmt.Sprintf("%d", int(c))
	case termenv.ANSIColor:
		return fmt.Sprintf("%d", int(c))
	case termenv.RGBColor:
		return "rgb"
	}
	return "-"
}
