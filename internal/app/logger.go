// SPDX-FileCopyrightText: © 2024 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"io"
	"log/slog"
	"os"
	"time"

	console "github.com/phsym/console-slog"
	"golang.org/x/term"

	"codeberg.org/readeck/opengraph/configs"
)

// consoleTheme is a [console.Theme] where every style is a field.
type consoleTheme struct {
	name           string
	timestamp      console.ANSIMod
	source         console.ANSIMod
	message        console.ANSIMod
	messageDebug   console.ANSIMod
	attrKey        console.ANSIMod
	attrValue      console.ANSIMod
	attrValueError console.ANSIMod
	levelError     console.ANSIMod
	levelWarn      console.ANSIMod
	levelInfo      console.ANSIMod
	levelDebug     console.ANSIMod
}

func (t consoleTheme) Name() string                    { return t.name }
func (t consoleTheme) Timestamp() console.ANSIMod      { return t.timestamp }
func (t consoleTheme) Source() console.ANSIMod         { return t.source }
func (t consoleTheme) Message() console.ANSIMod        { return t.message }
func (t consoleTheme) MessageDebug() console.ANSIMod   { return t.messageDebug }
func (t consoleTheme) AttrKey() console.ANSIMod        { return t.attrKey }
func (t consoleTheme) AttrValue() console.ANSIMod      { return t.attrValue }
func (t consoleTheme) AttrValueError() console.ANSIMod { return t.attrValueError }
func (t consoleTheme) LevelError() console.ANSIMod     { return t.levelError }
func (t consoleTheme) LevelWarn() console.ANSIMod      { return t.levelWarn }
func (t consoleTheme) LevelInfo() console.ANSIMod      { return t.levelInfo }
func (t consoleTheme) LevelDebug() console.ANSIMod     { return t.levelDebug }
func (t consoleTheme) Level(level slog.Level) console.ANSIMod {
	switch {
	case level >= slog.LevelError:
		return t.LevelError()
	case level >= slog.LevelWarn:
		return t.LevelWarn()
	case level >= slog.LevelInfo:
		return t.LevelInfo()
	default:
		return t.LevelDebug()
	}
}

var stdLogTheme = consoleTheme{name: "plain"}

var devLogTheme = consoleTheme{
	name:           "dev",
	timestamp:      console.ToANSICode(console.BrightBlack),
	source:         console.ToANSICode(console.Bold, console.BrightBlack),
	message:        console.ToANSICode(console.Bold),
	messageDebug:   console.ToANSICode(),
	attrKey:        console.ToANSICode(console.Cyan),
	attrValue:      console.ToANSICode(console.Faint),
	attrValueError: console.ToANSICode(console.Bold, console.Red),
	levelError:     console.ToANSICode(console.Bold, console.Red),
	levelWarn:      console.ToANSICode(console.Bold, console.Yellow),
	levelInfo:      console.ToANSICode(console.Bold, console.Green),
	levelDebug:     console.ToANSICode(console.Bold, console.BrightMagenta),
}

// newLogHandler returns the log handler matching the configuration.
// The dev theme is only used on a terminal.
func newLogHandler(w io.Writer) slog.Handler {
	if configs.Config.Main.LogFormat == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: configs.Config.Main.LogLevel,
		})
	}

	theme := stdLogTheme
	if configs.Config.Main.DevMode && isTerminal(w) {
		theme = devLogTheme
	}

	return console.NewHandler(w, &console.HandlerOptions{
		Level:      configs.Config.Main.LogLevel,
		NoColor:    theme.name == stdLogTheme.name,
		Theme:      theme,
		TimeFormat: time.DateTime,
	})
}

func initLogger() {
	slog.SetDefault(slog.New(newLogHandler(stderr)))
}

func isTerminal(w io.Writer) bool {
	if fd, ok := w.(*os.File); ok {
		return term.IsTerminal(int(fd.Fd())) //nolint:gosec
	}
	return false
}
