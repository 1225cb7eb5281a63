package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/incidents/internal/model"
)

const title = "Killed by Police, USA 2015-2020"

// printIncident writes a record the way the detail view lays it out
func printIncident(w io.Writer, inc model.Incident) {
	fmt.Fprintln(w, inc.Name)
	fmt.Fprintf(w, "%s, %s, %s\n", inc.Armed, inc.Race, age(inc.Age))
	if loc := inc.Location(); loc != "" || inc.Date != "" {
		fmt.Fprintln(w, strings.Trim(strings.Join([]string{loc, inc.Date}, " · "), " ·"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, inc.Summary)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Photo: %s\n", inc.Photo)
	fmt.Fprintf(w, "  Video: %s\n", inc.YouTube)
	fmt.Fprintf(w, "  More:  %s\n", inc.NewsLink)
	if inc.Defaulted && !inc.Fallback {
		fmt.Fprintln(w, "  (no supplementary content for this record; showing defaults)")
	}
}

func age(a int) string {
	if a <= 0 {
		return "age unknown"
	}
	return fmt.Sprintf("%d", a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
