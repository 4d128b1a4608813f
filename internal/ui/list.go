package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

// PrintInterfaces lists every interface in provider order with its totals.
func PrintInterfaces(w io.Writer, ifaces []model.Interface) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Available Network Interfaces:"))
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for i, it := range ifaces {
		fmt.Fprintf(w, "  %2d. %-24s %s\n", i+1, valueStyle.Render(it.Name),
			subtleStyle.Render(fmt.Sprintf("(RX: %s, TX: %s)", FormatBytes(it.RxBytes), FormatBytes(it.TxBytes))))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, subtleStyle.Render("Tip: use -i with an interface name or pattern"))
	fmt.Fprintln(w, subtleStyle.Render("     - partial match: -i eth picks the shortest name containing \"eth\""))
	fmt.Fprintln(w, subtleStyle.Render("     - wildcards:     -i 'wl*' or -i 'eth?'"))
}

// PrintError reports a fatal error to the user.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s: %v\n", errorStyle.Render("Error"), err)
}
