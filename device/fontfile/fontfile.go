package fontfile

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"slate/device"
)

// Sources with this prefix name fonts compiled into the binary.
const BuiltinPrefix = "gofont:"

var builtin = map[string][]byte{
	"gofont:regular": goregular.TTF,
	"gofont:bold":    gobold.TTF,
}

// Font is a parsed TrueType/OpenType font at a fixed point size.
type Font struct {
	source string
	size   int
	name   string
	parsed *opentype.Font
	face   font.Face
}

// Load reads and parses the font at source, a file path or a builtin name.
// All failures wrap device.ErrFontLoad.
func Load(source string, size int) (*Font, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s: invalid size %d", device.ErrFontLoad, source, size)
	}
	var data []byte
	if strings.HasPrefix(source, BuiltinPrefix) {
		var ok bool
		data, ok = builtin[source]
		if !ok {
			return nil, fmt.Errorf("%w: unknown builtin font %q", device.ErrFontLoad, source)
		}
	} else {
		var err error
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", device.ErrFontLoad, err)
		}
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", device.ErrFontLoad, source, err)
	}
	name, err := parsed.Name(nil, sfnt.NameIDFull)
	if err != nil {
		name = source
	}
	return &Font{source: source, size: size, name: name, parsed: parsed}, nil
}

func (f *Font) Source() string {
	return f.source
}

func (f *Font) Size() int {
	return f.size
}

// Name is the full name recorded in the font file.
func (f *Font) Name() string {
	return f.name
}

// Face returns a face rendering the font at its size and 72 DPI, so one
// point is one pixel.
func (f *Font) Face() (font.Face, error) {
	if f.face != nil {
		return f.face, nil
	}
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    float64(f.size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: face %s: %w", device.ErrFontLoad, f.source, err)
	}
	f.face = face
	return face, nil
}

func (f *Font) Close() error {
	if f.face == nil {
		return nil
	}
	err := f.face.Close()
	f.face = nil
	return err
}
