package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/23skdu/longbow-halfprec/half"
	"github.com/23skdu/longbow-halfprec/internal/codec"
)

// NFKC folds full-width digits and signs to ASCII; space separators are
// dropped so that "65 504" parses.
var normalizeInput = transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Zs)))

// newPrinter returns a printer for lang, falling back to English.
func newPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		log.Warn().Err(err).Str("lang", lang).Msg("Unknown language, using English")
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// runInspect prints one line per argument and returns the exit status.
func runInspect(w io.Writer, args []string, rawBits bool, lang string) int {
	p := newPrinter(lang)
	status := 0
	for _, arg := range args {
		if err := inspect(w, p, arg, rawBits); err != nil {
			log.Error().Err(err).Str("input", arg).Msg("Cannot inspect value")
			status = 1
		}
	}
	return status
}

func inspect(w io.Writer, p *message.Printer, arg string, rawBits bool) error {
	in, _, err := transform.String(normalizeInput, arg)
	if err != nil {
		return err
	}

	var h half.Float16
	outcome := "-"
	if rawBits {
		b, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(in), "0x"), 16, 16)
		if err != nil {
			return fmt.Errorf("parse bits: %w", err)
		}
		h = half.FromBits(uint16(b))
	} else {
		h, err = half.Parse(in)
		if err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(in, 64); err == nil {
			outcome = codec.Classify64(v).String()
		}
	}

	_, err = fmt.Fprintf(w, "%s\t0x%04X\t%s\t%v\t%e\t%s\t%s\t%s\n",
		arg, h.Bits(), h.Classify(), h, h,
		strconv.FormatFloat(h.Float64(), 'g', -1, 64),
		outcome, localize(p, h))
	return err
}

func localize(p *message.Printer, h half.Float16) string {
	if !h.IsFinite() {
		return h.String()
	}
	return p.Sprint(number.Decimal(h.Float64(), number.MaxFractionDigits(12)))
}
