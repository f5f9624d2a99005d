package main

import (
	"fmt"

	"edakit/adapters/render"

	"github.com/spf13/cobra"
)

// emit writes a result in the requested format. text falls back to markdown
// unless a plain-text rendering is given.
func emit(cmd *cobra.Command, format, title, markdown, text string, v interface{}) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}

	var out []byte
	switch f {
	case render.FormatJSON:
		if out, err = render.JSON(v); err != nil {
			return err
		}
	case render.FormatHTML:
		out = render.HTML(title, markdown)
	case render.FormatMarkdown:
		out = []byte(markdown)
	default:
		if text == "" {
			text = markdown
		}
		out = []byte(text)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
	return err
}
