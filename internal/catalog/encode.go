package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Encode.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Encode writes c to w in the given format.
func Encode(w io.Writer, c *Catalog, format string) error {
	switch format {
	case FormatText, "":
		return encodeText(w, c)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return grapherr.New(grapherr.ErrConfiguration, "unknown catalog format %q, want one of %s", format, strings.Join(Formats, ", "))
	}
}

func encodeText(w io.Writer, c *Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTYPE\tVERSION\tUI NAME\tINPUTS\tOUTPUTS\tFLAGS")
	for _, e := range c.Nodes {
		name := e.Name
		if e.Library != "" {
			name = e.Library + "." + e.Name
		}
		if e.Variant != "" {
			name += "//" + e.Variant
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Category, name, e.Version, e.UIName, pinList(e.Inputs), pinList(e.Outputs), dash(strings.Join(e.Flags, ",")))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(c.Conversions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "CONVERSIONS")
		for _, conv := range c.Conversions {
			fmt.Fprintf(w, "  %s -> %s\n", conv.From, conv.To)
		}
	}
	return nil
}

func pinList(pins []Pin) string {
	parts := make([]string, 0, len(pins))
	for _, p := range pins {
		s := p.Name + ":" + p.Type
		if p.Constant {
			s += "!"
		}
		parts = append(parts, s)
	}
	return dash(strings.Join(parts, " "))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
